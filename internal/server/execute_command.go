package server

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/matkrin/prettyd/internal/command"
	"github.com/matkrin/prettyd/internal/lsp"
)

// commandArguments are the arguments code actions attach to a command:
// the document URI and, optionally, the range to format.
type commandArguments struct {
	URI   string
	Range lsp.Range
}

func parseCommandArguments(raw []json.RawMessage) (commandArguments, error) {
	var args commandArguments
	if len(raw) == 0 {
		return args, fmt.Errorf("missing document URI argument")
	}
	if err := json.Unmarshal(raw[0], &args.URI); err != nil {
		return args, fmt.Errorf("document URI argument: %w", err)
	}
	if len(raw) > 1 && string(raw[1]) != "null" {
		if err := json.Unmarshal(raw[1], &args.Range); err != nil {
			return args, fmt.Errorf("range argument: %w", err)
		}
	}
	return args, nil
}

// handleExecuteCommand runs a registered command against an open document and
// returns the edit for the client to apply. Formatting failures are returned
// as *prettify.ParseError wrapped with the command description.
func handleExecuteCommand(request *lsp.ExecuteCommandRequest, state *State) (*lsp.WorkspaceEdit, error) {
	slog.Info("EXECUTE COMMAND", "command", request.Params.Command)

	cmd, ok := state.Commands.Lookup(request.Params.Command)
	if !ok {
		return nil, fmt.Errorf("unknown command %q", request.Params.Command)
	}

	args, err := parseCommandArguments(request.Params.Arguments)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Description, err)
	}

	document, ok := state.Documents[args.URI]
	if !ok {
		return nil, fmt.Errorf("%s: document %s is not open", cmd.Description, args.URI)
	}

	host := newDocumentHost(args.URI, document.Text, args.Range)
	if err := command.Run(host, cmd); err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Description, host.documentError(err))
	}

	edit := host.workspaceEdit()
	return &edit, nil
}
