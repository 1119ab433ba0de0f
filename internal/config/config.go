// Package config holds the server and CLI settings. Values come from
// defaults, an optional TOML file, command-line flags and, at runtime, the
// settings object sent by the editor.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"mvdan.cc/sh/v3/shell"

	"github.com/matkrin/prettyd/internal/logger"
	"github.com/matkrin/prettyd/internal/prettify"
)

const (
	DefaultPath    = "${XDG_CONFIG_HOME:-$HOME/.config}/prettyd/config.toml"
	DefaultLogFile = "${XDG_STATE_HOME:-$HOME/.local/state}/prettyd/prettyd.log"

	maxIndent = 16
)

type Config struct {
	LogLevel             string
	LogFile              string
	Diagnostics          bool
	DiagnosticDebounce   time.Duration
	WorkspaceDiagnostics bool
	ExcludeDirs          []string
	JSONIndent           int
	XMLIndent            int
	XMLDeclaration       bool
}

func Default() Config {
	return Config{
		LogLevel:             "info",
		LogFile:              DefaultLogFile,
		Diagnostics:          true,
		DiagnosticDebounce:   300 * time.Millisecond,
		WorkspaceDiagnostics: false,
		ExcludeDirs:          []string{".git", ".venv", "node_modules"},
		JSONIndent:           prettify.DefaultIndentWidth,
		XMLIndent:            prettify.DefaultIndentWidth,
		XMLDeclaration:       true,
	}
}

type fileConfig struct {
	LogLevel             string   `toml:"log_level"`
	LogFile              string   `toml:"log_file"`
	Diagnostics          bool     `toml:"diagnostics"`
	DiagnosticDebounce   string   `toml:"diagnostic_debounce"`
	WorkspaceDiagnostics bool     `toml:"workspace_diagnostics"`
	ExcludeDirs          []string `toml:"exclude_dirs"`
	JSON                 struct {
		Indent int `toml:"indent"`
	} `toml:"json"`
	XML struct {
		Indent      int  `toml:"indent"`
		Declaration bool `toml:"declaration"`
	} `toml:"xml"`
}

// Load reads the TOML file at path on top of the defaults. An empty path
// means DefaultPath, which is allowed to be missing.
func Load(path string) (Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultPath
	}
	expanded, err := ExpandPath(path, nil)
	if err != nil {
		return cfg, err
	}

	var data fileConfig
	meta, err := toml.DecodeFile(expanded, &data)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("%s: failed to parse TOML: %w", expanded, err)
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = data.LogLevel
	}
	if meta.IsDefined("log_file") {
		cfg.LogFile = data.LogFile
	}
	if meta.IsDefined("diagnostics") {
		cfg.Diagnostics = data.Diagnostics
	}
	if meta.IsDefined("diagnostic_debounce") {
		debounce, err := time.ParseDuration(data.DiagnosticDebounce)
		if err != nil {
			return cfg, fmt.Errorf("%s: diagnostic_debounce: %w", expanded, err)
		}
		cfg.DiagnosticDebounce = debounce
	}
	if meta.IsDefined("workspace_diagnostics") {
		cfg.WorkspaceDiagnostics = data.WorkspaceDiagnostics
	}
	if meta.IsDefined("exclude_dirs") {
		cfg.ExcludeDirs = data.ExcludeDirs
	}
	if meta.IsDefined("json", "indent") {
		cfg.JSONIndent = data.JSON.Indent
	}
	if meta.IsDefined("xml", "indent") {
		cfg.XMLIndent = data.XML.Indent
	}
	if meta.IsDefined("xml", "declaration") {
		cfg.XMLDeclaration = data.XML.Declaration
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("%s: unknown key %q", expanded, undecoded[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", expanded, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.JSONIndent < 0 || c.JSONIndent > maxIndent {
		return fmt.Errorf("json indent must be between 0 and %d, got %d", maxIndent, c.JSONIndent)
	}
	if c.XMLIndent < 0 || c.XMLIndent > maxIndent {
		return fmt.Errorf("xml indent must be between 0 and %d, got %d", maxIndent, c.XMLIndent)
	}
	if c.DiagnosticDebounce < 0 {
		return fmt.Errorf("diagnostic debounce must not be negative")
	}
	return nil
}

func (c Config) FormatOptions() prettify.Options {
	return prettify.Options{
		JSONIndent:     prettify.IndentString(c.JSONIndent),
		XMLIndent:      prettify.IndentString(c.XMLIndent),
		XMLDeclaration: c.XMLDeclaration,
	}
}

// ExpandPath expands a leading "~" and shell parameters such as $HOME or
// ${XDG_STATE_HOME:-...}. A nil env reads the process environment.
func ExpandPath(path string, env func(string) string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = "$HOME" + path[1:]
	}
	expanded, err := shell.Expand(path, env)
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", path, err)
	}
	return expanded, nil
}
