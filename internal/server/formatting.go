package server

import (
	"log/slog"

	"github.com/matkrin/prettyd/internal/command"
	"github.com/matkrin/prettyd/internal/lsp"
)

func handleFormatting(request *lsp.FormattingRequest, state *State) (*lsp.FormattingResponse, error) {
	slog.Info("FORMATTING", "params", request.Params)
	uri := request.Params.TextDocument.URI
	return formatDocument(request.ID, uri, lsp.Range{}, state)
}

// An empty range formats the whole document, like an empty selection.
func handleRangeFormatting(request *lsp.RangeFormattingRequest, state *State) (*lsp.FormattingResponse, error) {
	slog.Info("RANGE-FORMATTING", "params", request.Params)
	uri := request.Params.TextDocument.URI
	return formatDocument(request.ID, uri, request.Params.Range, state)
}

func formatDocument(id int, uri string, selection lsp.Range, state *State) (*lsp.FormattingResponse, error) {
	response := &lsp.FormattingResponse{
		Response: lsp.Response{
			RPC: lsp.RPC_VERSION,
			ID:  &id,
		},
		Result: []lsp.TextEdit{},
	}

	document, ok := state.Documents[uri]
	if !ok {
		slog.Warn("Formatting unknown document", "uri", uri)
		return response, nil
	}

	cmd, ok := state.Commands.ForLanguage(state.Language(uri))
	if !ok {
		slog.Debug("No formatter for document", "uri", uri, "languageId", document.LanguageID)
		return response, nil
	}

	host := newDocumentHost(uri, document.Text, selection)
	if err := command.Run(host, cmd); err != nil {
		return nil, host.documentError(err)
	}

	response.Result = host.textEdits()
	return response, nil
}
