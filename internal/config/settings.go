package config

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// SettingsSection is the key the editor nests our settings under.
const SettingsSection = "prettyd"

// ApplySettings overlays an editor settings object, either
// {"prettyd": {...}} or the inner object itself. Unknown keys are ignored
// and a failed validation leaves c unchanged.
func (c *Config) ApplySettings(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	if !gjson.ValidBytes(raw) {
		return errors.New("settings are not valid JSON")
	}

	settings := gjson.ParseBytes(raw)
	if section := settings.Get(SettingsSection); section.Exists() {
		settings = section
	}
	if !settings.IsObject() {
		return nil
	}

	next := *c
	if v := settings.Get("logLevel"); v.Exists() {
		next.LogLevel = v.String()
	}
	if v := settings.Get("diagnostics"); v.Exists() {
		next.Diagnostics = v.Bool()
	}
	if v := settings.Get("workspaceDiagnostics"); v.Exists() {
		next.WorkspaceDiagnostics = v.Bool()
	}
	if v := settings.Get("json.indent"); v.Exists() {
		next.JSONIndent = int(v.Int())
	}
	if v := settings.Get("xml.indent"); v.Exists() {
		next.XMLIndent = int(v.Int())
	}
	if v := settings.Get("xml.declaration"); v.Exists() {
		next.XMLDeclaration = v.Bool()
	}

	if err := next.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	*c = next
	return nil
}

// Settings renders c in the shape ApplySettings accepts.
func (c Config) Settings() ([]byte, error) {
	values := []struct {
		path  string
		value any
	}{
		{"logLevel", c.LogLevel},
		{"diagnostics", c.Diagnostics},
		{"workspaceDiagnostics", c.WorkspaceDiagnostics},
		{"json.indent", c.JSONIndent},
		{"xml.indent", c.XMLIndent},
		{"xml.declaration", c.XMLDeclaration},
	}

	settings := []byte(`{}`)
	for _, v := range values {
		var err error
		settings, err = sjson.SetBytes(settings, SettingsSection+"."+v.path, v.value)
		if err != nil {
			return nil, err
		}
	}
	return settings, nil
}
