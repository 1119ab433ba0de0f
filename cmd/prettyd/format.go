package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matkrin/prettyd/internal/command"
	"github.com/matkrin/prettyd/internal/region"
)

var errFormatFailed = errors.New("some inputs could not be formatted")

var (
	errorColor = color.New(color.FgRed, color.Bold)
	pathColor  = color.New(color.Bold)
)

func newFormatCmd(use, short, commandName string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " [flags] [file...]",
		Short: short,
		Long: short + `.

Without files the input is read from stdin and written to stdout. Files are
printed to stdout unless --write is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, commandName)
		},
	}
	cmd.Flags().BoolP("write", "w", false, "rewrite files in place")
	cmd.Flags().Int("indent", 0, "indentation width (default from config, 4)")
	return cmd
}

type formatResult struct {
	path      string
	formatted string
	changed   bool
	err       error
}

func runFormat(cmd *cobra.Command, args []string, commandName string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("indent") {
		indent, err := cmd.Flags().GetInt("indent")
		if err != nil {
			return err
		}
		cfg.JSONIndent = indent
		cfg.XMLIndent = indent
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}

	registry := command.NewRegistry(cfg.FormatOptions())
	formatter, ok := registry.Lookup(commandName)
	if !ok {
		return fmt.Errorf("unknown command %q", commandName)
	}

	if len(args) == 0 {
		if write {
			return errors.New("--write needs at least one file")
		}
		return formatStdin(cmd, formatter)
	}

	cmd.SilenceErrors = true
	results := formatFiles(cmd, args, formatter)

	failed := false
	for _, res := range results {
		if res.err != nil {
			failed = true
			reportError(cmd.ErrOrStderr(), res.path, res.err)
			continue
		}
		if write {
			if !res.changed {
				continue
			}
			if err := writeFile(res.path, res.formatted); err != nil {
				failed = true
				reportError(cmd.ErrOrStderr(), res.path, err)
			}
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.formatted)
	}

	if failed {
		return errFormatFailed
	}
	return nil
}

func formatStdin(cmd *cobra.Command, formatter command.Command) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	formatted, err := formatText(string(data), formatter)
	if err != nil {
		cmd.SilenceErrors = true
		reportError(cmd.ErrOrStderr(), "<stdin>", err)
		return errFormatFailed
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatted)
	return nil
}

// formatFiles formats every file concurrently. Results keep the order of
// paths and a failing file does not stop the others.
func formatFiles(cmd *cobra.Command, paths []string, formatter command.Command) []formatResult {
	results := make([]formatResult, len(paths))

	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(min(runtime.GOMAXPROCS(0), len(paths)))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i].path = path
			if err := gctx.Err(); err != nil {
				results[i].err = err
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				results[i].err = err
				return nil
			}
			formatted, err := formatText(string(data), formatter)
			if err != nil {
				results[i].err = err
				return nil
			}
			// Files end with a newline; the formatter output does not.
			results[i].formatted = formatted
			results[i].changed = formatted+"\n" != string(data)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// formatText runs the command over a whole buffer, the way an editor does
// without a selection.
func formatText(text string, formatter command.Command) (string, error) {
	host := command.NewBufferHost(text, region.Region{})
	if err := command.Run(host, formatter); err != nil {
		return "", err
	}
	return host.String(), nil
}

func writeFile(path, formatted string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(formatted+"\n"), info.Mode().Perm())
}

func reportError(w io.Writer, path string, err error) {
	errorColor.Fprint(w, "error: ")
	pathColor.Fprint(w, path)
	fmt.Fprintf(w, ": %v\n", err)
}
