package main

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matkrin/prettyd/internal/command"
	"github.com/matkrin/prettyd/internal/config"
	"github.com/matkrin/prettyd/internal/logger"
	"github.com/matkrin/prettyd/internal/lsp"
	"github.com/matkrin/prettyd/internal/server"
)

const (
	name    = "prettyd"
	version = "0.1.0"

	// Largest message accepted from the client; documents travel inline.
	maxMessageSize = 64 << 20
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "prettyd",
		Short: "Prettify JSON and XML in the editor or on the command line",
		Long: `Without a subcommand prettyd runs as a language server on stdin/stdout,
offering document formatting and the "Prettify Json", "Prettify XML" and
"Minify Json" commands.`,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.AddCommand(newFormatCmd("json", "Prettify JSON files or stdin", command.PrettifyJSON))
	rootCmd.AddCommand(newFormatCmd("xml", "Prettify XML files or stdin", command.PrettifyXML))
	rootCmd.AddCommand(newFormatCmd("minify", "Minify JSON files or stdin", command.MinifyJSON))
	rootCmd.AddCommand(newConfigCmd())

	rootCmd.PersistentFlags().String("config", "", "config file (default "+config.DefaultPath+")")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-file", "", "log file of the language server")

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Root().PersistentFlags()

	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if err := overrideString(flags, "log-level", &cfg.LogLevel); err != nil {
		return cfg, err
	}
	if err := overrideString(flags, "log-file", &cfg.LogFile); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// overrideString sets *dst to the flag's value if it was given.
func overrideString(flags *pflag.FlagSet, name string, dst *string) error {
	if !flags.Changed(name) {
		return nil
	}
	value, err := flags.GetString(name)
	if err != nil {
		return err
	}
	*dst = value
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logFile, err := config.ExpandPath(cfg.LogFile, nil)
	if err != nil {
		return err
	}
	closer, err := logger.Init(cfg.LogLevel, logFile)
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.Info("Logging initialized", "level", cfg.LogLevel, "version", version)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	scanner.Split(lsp.Split)

	state := server.NewState(cfg)
	writer := os.Stdout
	server := server.NewServer(name, version, state, writer)
	defer server.Stop()

	for scanner.Scan() {
		method, contents, err := lsp.DecodeMessage(scanner.Bytes())
		if err != nil {
			slog.Error("Could not decode message", "err", err)
			continue
		}
		// The scanner reuses its buffer for the next message.
		server.HandleMessage(method, bytes.Clone(contents))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	return nil
}
