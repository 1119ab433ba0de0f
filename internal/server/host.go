package server

import (
	"errors"

	"github.com/matkrin/prettyd/internal/lsp"
	"github.com/matkrin/prettyd/internal/prettify"
	"github.com/matkrin/prettyd/internal/region"
)

// documentHost exposes one document and selection to a command for a single
// invocation. Edits are collected for the client to apply; the document in
// State is left alone until the client reports the change back.
type documentHost struct {
	uri       string
	text      string
	selection region.Region
	edits     []lsp.TextEdit
}

func newDocumentHost(uri, text string, selection lsp.Range) *documentHost {
	return &documentHost{
		uri:       uri,
		text:      text,
		selection: rangeToRegion(text, selection),
	}
}

func (h *documentHost) Selection() region.Region {
	return h.selection
}

func (h *documentHost) Len() int {
	return len(h.text)
}

func (h *documentHost) Text(r region.Region) string {
	return region.Text(h.text, r)
}

func (h *documentHost) ApplyEdit(r region.Region, text string) error {
	h.edits = append(h.edits, lsp.TextEdit{
		Range:   regionToRange(h.text, r),
		NewText: text,
	})
	return nil
}

func (h *documentHost) workspaceEdit() lsp.WorkspaceEdit {
	return lsp.WorkspaceEdit{
		Changes: map[string][]lsp.TextEdit{
			h.uri: h.textEdits(),
		},
	}
}

func (h *documentHost) textEdits() []lsp.TextEdit {
	if h.edits == nil {
		return []lsp.TextEdit{}
	}
	return h.edits
}

// documentError moves a parse error from the formatted region to its place
// in the whole document. Other errors are returned as is.
func (h *documentHost) documentError(err error) error {
	var parseErr *prettify.ParseError
	if !errors.As(err, &parseErr) {
		return err
	}
	target := region.Resolve(h.selection, len(h.text))
	return parseErr.Relocate(h.text, target.Start)
}
