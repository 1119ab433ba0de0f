package server

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/matkrin/prettyd/internal/command"
	"github.com/matkrin/prettyd/internal/lsp"
)

// handleCodeAction offers every command for the requested range. The edit is
// computed only when the client executes the command, so an invalid document
// still lists the actions and reports the parse error on use.
func handleCodeAction(request *lsp.CodeActionRequest, state *State) *lsp.CodeActionResponse {
	slog.Debug("CODE ACTION", "range", request.Params.Range)
	uri := request.Params.TextDocument.URI

	actions := []lsp.CodeAction{}
	if _, ok := state.Documents[uri]; ok && kindRequested(request.Params.Context.Only, lsp.CodeActionSourceFormat) {
		preferred, _ := state.Commands.ForLanguage(state.Language(uri))
		commands := state.Commands.All()
		// The command matching the document language comes first.
		slices.SortStableFunc(commands, func(a, b command.Command) int {
			return boolRank(a.Name == preferred.Name) - boolRank(b.Name == preferred.Name)
		})
		for _, cmd := range commands {
			actions = append(actions, commandCodeAction(cmd, uri, request.Params.Range))
		}
	}

	response := &lsp.CodeActionResponse{
		Response: lsp.Response{
			RPC: lsp.RPC_VERSION,
			ID:  &request.ID,
		},
		Result: actions,
	}
	return response
}

func commandCodeAction(cmd command.Command, uri string, selection lsp.Range) lsp.CodeAction {
	return lsp.CodeAction{
		Title: cmd.Description,
		Kind:  lsp.CodeActionSourceFormat,
		Command: &lsp.Command{
			Title:     cmd.Description,
			Command:   cmd.Name,
			Arguments: []any{uri, selection},
		},
	}
}

// kindRequested reports whether kind passes the client's "only" filter,
// where a filter entry also matches its sub-kinds.
func kindRequested(only []lsp.CodeActionKind, kind lsp.CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	for _, requested := range only {
		if kind == requested || strings.HasPrefix(string(kind), string(requested)+".") {
			return true
		}
	}
	return false
}

func boolRank(first bool) int {
	if first {
		return 0
	}
	return 1
}
