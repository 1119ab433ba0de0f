package server

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matkrin/prettyd/internal/command"
	"github.com/matkrin/prettyd/internal/lsp"
	"github.com/matkrin/prettyd/internal/prettify"
)

func TestDocumentHostRun(t *testing.T) {
	registry := command.NewRegistry(prettify.DefaultOptions())
	cmd, _ := registry.Lookup(command.PrettifyJSON)

	text := "x\n[2, {\"b\": true, \"a\": null}]\ny"
	host := newDocumentHost(jsonURI, text, lsp.NewRange(1, 0, 1, 27))
	if err := command.Run(host, cmd); err != nil {
		t.Fatal(err)
	}

	want := lsp.WorkspaceEdit{
		Changes: map[string][]lsp.TextEdit{
			jsonURI: {{
				Range:   lsp.NewRange(1, 0, 1, 27),
				NewText: "[\n    2,\n    {\n        \"a\": null,\n        \"b\": true\n    }\n]",
			}},
		},
	}
	if diff := cmp.Diff(want, host.workspaceEdit()); diff != "" {
		t.Errorf("edit mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentHostFailureRecordsNoEdit(t *testing.T) {
	registry := command.NewRegistry(prettify.DefaultOptions())
	cmd, _ := registry.Lookup(command.PrettifyXML)

	host := newDocumentHost(xmlURI, "<a><b></a>", lsp.Range{})
	err := command.Run(host, cmd)

	var parseErr *prettify.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if edits := host.textEdits(); len(edits) != 0 {
		t.Errorf("expected no edits, got %+v", edits)
	}
}

func TestDocumentHostErrorPosition(t *testing.T) {
	registry := command.NewRegistry(prettify.DefaultOptions())
	cmd, _ := registry.Lookup(command.PrettifyJSON)

	text := "x\ny\n{\"a\": }"
	host := newDocumentHost(jsonURI, text, lsp.NewRange(2, 0, 2, 7))
	err := host.documentError(command.Run(host, cmd))

	var parseErr *prettify.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Offset != 10 || parseErr.Line != 3 || parseErr.Column != 7 {
		t.Errorf("error at offset %d, %d:%d, want offset 10, 3:7", parseErr.Offset, parseErr.Line, parseErr.Column)
	}

	other := errors.New("not a parse error")
	if host.documentError(other) != other {
		t.Errorf("other errors must be returned unchanged")
	}
}
