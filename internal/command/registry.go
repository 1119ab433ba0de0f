package command

import (
	"github.com/matkrin/prettyd/internal/prettify"
)

const (
	PrettifyJSON = "prettyd.prettifyJson"
	PrettifyXML  = "prettyd.prettifyXml"
	MinifyJSON   = "prettyd.minifyJson"
)

type Registry struct {
	commands []Command
}

func NewRegistry(opts prettify.Options) *Registry {
	return &Registry{
		commands: []Command{
			{
				Name:        PrettifyJSON,
				Description: "Prettify Json",
				Format: func(source string) (string, error) {
					return prettify.JSON(source, opts)
				},
			},
			{
				Name:        PrettifyXML,
				Description: "Prettify XML",
				Format: func(source string) (string, error) {
					return prettify.XML(source, opts)
				},
			},
			{
				Name:        MinifyJSON,
				Description: "Minify Json",
				Format:      prettify.MinifyJSON,
			},
		},
	}
}

func (r *Registry) Lookup(name string) (Command, bool) {
	for _, cmd := range r.commands {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return Command{}, false
}

func (r *Registry) All() []Command {
	return append([]Command(nil), r.commands...)
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for _, cmd := range r.commands {
		names = append(names, cmd.Name)
	}
	return names
}

// ForLanguage returns the command that prettifies documents of the given
// language ("json" or "xml").
func (r *Registry) ForLanguage(language string) (Command, bool) {
	switch language {
	case "json":
		return r.Lookup(PrettifyJSON)
	case "xml":
		return r.Lookup(PrettifyXML)
	}
	return Command{}, false
}
