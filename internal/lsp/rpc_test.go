package lsp

import (
	"bufio"
	"strings"
	"testing"
)

type encodingExample struct {
	Testing bool
}

func TestEncodeMessage(t *testing.T) {
	expected := "Content-Length: 16\r\n\r\n{\"Testing\":true}"
	actual := EncodeMessage(encodingExample{Testing: true})
	if expected != actual {
		t.Fatalf("Expected: %s, Actual: %s", expected, actual)
	}
}

func TestDecodeMessage(t *testing.T) {
	incomingMessage := "Content-Length: 15\r\n\r\n{\"method\":\"hi\"}"
	method, content, err := DecodeMessage([]byte(incomingMessage))
	if err != nil {
		t.Fatal(err)
	}
	if len(content) != 15 {
		t.Fatalf("Expected: 15, Got: %d", len(content))
	}
	if method != "hi" {
		t.Fatalf("Expected: 'hi', Got: %s", method)
	}
}

func TestDecodeMessageErrors(t *testing.T) {
	var testCases = []struct {
		name string
		msg  string
	}{
		{name: "no separator", msg: "Content-Length: 2\r\n{}"},
		{name: "no length", msg: "Content-Type: x\r\n\r\n{}"},
		{name: "bad length", msg: "Content-Length: two\r\n\r\n{}"},
		{name: "short content", msg: "Content-Length: 20\r\n\r\n{}"},
		{name: "negative length", msg: "Content-Length: -30\r\n\r\n{}"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := DecodeMessage([]byte(tt.msg)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSplitMultipleMessages(t *testing.T) {
	msg1 := `{"jsonrpc":"2.0","method":"one"}`
	msg2 := `{"jsonrpc":"2.0","id":3,"result":{"applied":true}}`
	stream := EncodeMessage(rawJSON(msg1)) +
		"Content-Type: application/vscode-jsonrpc; charset=utf-8\r\n" +
		EncodeMessage(rawJSON(msg2))

	scanner := bufio.NewScanner(strings.NewReader(stream))
	scanner.Split(Split)

	var methods []string
	for scanner.Scan() {
		method, _, err := DecodeMessage(scanner.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		methods = append(methods, method)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	if len(methods) != 2 || methods[0] != "one" || methods[1] != "" {
		t.Fatalf("unexpected methods %q", methods)
	}
}

type rawJSON string

func (r rawJSON) MarshalJSON() ([]byte, error) {
	return []byte(r), nil
}

func TestNewErrorResponse(t *testing.T) {
	got := EncodeMessage(NewErrorResponse(7, ErrorRequestFailed, "json: bad"))
	want := `{"jsonrpc":"2.0","id":7,"error":{"code":-32803,"message":"json: bad"}}`
	if !strings.HasSuffix(got, want) {
		t.Errorf("got %s, want suffix %s", got, want)
	}
}

func TestSplitNegativeLength(t *testing.T) {
	advance, token, err := Split([]byte("Content-Length: -30\r\n\r\n{}"), false)
	if err == nil {
		t.Fatalf("expected error, got advance %d token %q", advance, token)
	}
}
