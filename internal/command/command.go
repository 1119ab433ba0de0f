// Package command implements the editor commands that reformat a buffer
// region. The editor itself is reached only through the Host interface.
package command

import (
	"fmt"

	"github.com/matkrin/prettyd/internal/region"
)

// Host is the editor capability a command runs against. Implementations must
// not be retained by a command after Run returns.
type Host interface {
	// Selection returns the current selection; an empty region means none.
	Selection() region.Region
	// Len returns the length of the buffer in bytes.
	Len() int
	// Text returns the buffer text covered by r.
	Text(r region.Region) string
	// ApplyEdit replaces r with text as one undoable edit.
	ApplyEdit(r region.Region, text string) error
}

type FormatFunc func(source string) (string, error)

type Command struct {
	Name        string
	Description string
	Format      FormatFunc
}

// Run resolves the target region, formats its text and replaces it. The
// edit is applied only after formatting succeeded, so a failing command
// leaves the buffer untouched and returns the formatter's error as is.
func Run(host Host, cmd Command) error {
	if cmd.Format == nil {
		return fmt.Errorf("command %q has no formatter", cmd.Name)
	}

	target := region.Resolve(host.Selection(), host.Len())
	source := host.Text(target)

	result, err := cmd.Format(source)
	if err != nil {
		return err
	}

	return host.ApplyEdit(target, result)
}
