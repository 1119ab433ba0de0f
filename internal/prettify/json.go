// Package prettify turns JSON and XML text into canonical, indented form.
//
// Every formatter is deterministic and idempotent: formatting its own output
// again yields the same bytes. Invalid input yields a *ParseError and no
// output.
package prettify

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/pretty"
)

// JSON parses src and serializes it with object keys sorted at every level
// and one key or element per line. Number literals are kept as written.
func JSON(src string, opts Options) (string, error) {
	value, err := decodeJSON(src)
	if err != nil {
		return "", err
	}

	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", opts.JSONIndent)
	if err := encoder.Encode(value); err != nil {
		return "", newParseError("json", src, 0, err)
	}

	return strings.TrimSuffix(buffer.String(), "\n"), nil
}

// MinifyJSON validates src and removes all insignificant whitespace. Key
// order is left untouched.
func MinifyJSON(src string) (string, error) {
	if err := validateJSON(src); err != nil {
		return "", err
	}
	return string(pretty.Ugly([]byte(src))), nil
}

func decodeJSON(src string) (any, error) {
	if err := validateJSON(src); err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(src))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, newParseError("json", src, len(src), err)
	}
	return value, nil
}

// validateJSON checks the whole input, including anything after the
// top-level value, and reports where the grammar was violated.
func validateJSON(src string) error {
	if !utf8.ValidString(src) {
		return newParseError("json", src, invalidUTF8Offset(src), errors.New("invalid UTF-8"))
	}

	var raw json.RawMessage
	err := json.Unmarshal([]byte(src), &raw)
	if err == nil {
		return nil
	}

	offset := len(src)
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		// Offset counts the bytes read including the offending one.
		offset = int(syntaxErr.Offset)
		if offset > 0 && !strings.HasPrefix(syntaxErr.Error(), "unexpected end") {
			offset--
		}
	}
	return newParseError("json", src, offset, err)
}

func invalidUTF8Offset(src string) int {
	for i, r := range src {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(src[i:]); size == 1 {
				return i
			}
		}
	}
	return len(src)
}
