package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/sjson"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
log_file = "/tmp/prettyd-test.log"
diagnostics = false
diagnostic_debounce = "50ms"
workspace_diagnostics = true
exclude_dirs = ["vendor"]

[json]
indent = 2

[xml]
indent = 3
declaration = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	want := Config{
		LogLevel:             "debug",
		LogFile:              "/tmp/prettyd-test.log",
		Diagnostics:          false,
		DiagnosticDebounce:   50 * time.Millisecond,
		WorkspaceDiagnostics: true,
		ExcludeDirs:          []string{"vendor"},
		JSONIndent:           2,
		XMLIndent:            3,
		XMLDeclaration:       false,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[json]\nindent = 8\n"))
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.JSONIndent = 8
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	var testCases = []struct {
		name     string
		contents string
	}{
		{name: "syntax", contents: "log_level = "},
		{name: "unknown key", contents: "colour = true\n"},
		{name: "bad level", contents: "log_level = \"loud\"\n"},
		{name: "bad indent", contents: "[xml]\nindent = 40\n"},
		{name: "bad debounce", contents: "diagnostic_debounce = \"soon\"\n"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.contents)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandPath(t *testing.T) {
	env := func(name string) string {
		switch name {
		case "HOME":
			return "/home/user"
		case "XDG_STATE_HOME":
			return ""
		}
		return ""
	}

	var testCases = []struct {
		input string
		want  string
	}{
		{input: "~/logs/prettyd.log", want: "/home/user/logs/prettyd.log"},
		{input: "$HOME/a", want: "/home/user/a"},
		{input: DefaultLogFile, want: "/home/user/.local/state/prettyd/prettyd.log"},
		{input: "/var/log/prettyd.log", want: "/var/log/prettyd.log"},
	}

	for _, tt := range testCases {
		got, err := ExpandPath(tt.input, env)
		if err != nil {
			t.Fatalf("ExpandPath(%q) returned error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestApplySettings(t *testing.T) {
	settings, err := sjson.SetBytes([]byte(`{}`), "prettyd.json.indent", 2)
	if err != nil {
		t.Fatal(err)
	}
	settings, err = sjson.SetBytes(settings, "prettyd.xml.declaration", false)
	if err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := cfg.ApplySettings(settings); err != nil {
		t.Fatal(err)
	}
	if cfg.JSONIndent != 2 || cfg.XMLDeclaration {
		t.Errorf("settings not applied: %+v", cfg)
	}
	if cfg.XMLIndent != 4 {
		t.Errorf("untouched setting changed: %+v", cfg)
	}

	// The inner section alone is accepted too.
	if err := cfg.ApplySettings([]byte(`{"diagnostics": false}`)); err != nil {
		t.Fatal(err)
	}
	if cfg.Diagnostics {
		t.Errorf("diagnostics should be disabled")
	}
}

func TestApplySettingsRejectsInvalid(t *testing.T) {
	cfg := Default()

	if err := cfg.ApplySettings([]byte(`{"prettyd": {"json": {"indent": 100}}}`)); err == nil {
		t.Error("expected validation error")
	}
	if err := cfg.ApplySettings([]byte(`{"prettyd":`)); err == nil {
		t.Error("expected JSON error")
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config changed after rejected settings (-want +got):\n%s", diff)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.JSONIndent = 1
	cfg.XMLIndent = 6
	cfg.Diagnostics = false

	settings, err := cfg.Settings()
	if err != nil {
		t.Fatal(err)
	}

	got := Default()
	if err := got.ApplySettings(settings); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatOptions(t *testing.T) {
	cfg := Default()
	cfg.JSONIndent = 2
	opts := cfg.FormatOptions()
	if opts.JSONIndent != "  " || opts.XMLIndent != "    " || !opts.XMLDeclaration {
		t.Errorf("unexpected options %+v", opts)
	}
}
