package server

import (
	"errors"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matkrin/prettyd/internal/lsp"
	"github.com/matkrin/prettyd/internal/prettify"
	"github.com/matkrin/prettyd/internal/utils"
)

const diagnosticSource = "prettyd"

// findDiagnostics validates text as language and returns at most one
// diagnostic, placed where the parser stopped.
func findDiagnostics(text string, language string) []lsp.Diagnostic {
	diagnostics := []lsp.Diagnostic{}
	if language == "" {
		return diagnostics
	}

	err := prettify.Check(language, text)
	if err == nil {
		return diagnostics
	}

	var parseErr *prettify.ParseError
	if !errors.As(err, &parseErr) {
		slog.Error("Could not check document", "language", language, "err", err)
		return diagnostics
	}

	return append(diagnostics, diagnosticParseError(text, parseErr))
}

func diagnosticParseError(text string, err *prettify.ParseError) lsp.Diagnostic {
	pos := positionForOffset(text, err.Offset)
	message := err.Error()
	if err.Err != nil {
		message = err.Err.Error()
	}

	return lsp.Diagnostic{
		Range:    lsp.Range{Start: pos, End: pos},
		Severity: lsp.DiagnosticError,
		Code:     nil,
		Source:   diagnosticSource,
		Message:  message,
	}
}

// findDiagnosticsWorkspace checks every JSON and XML file in the workspace
// folders that is not open in the editor.
func findDiagnosticsWorkspace(state *State) map[string][]lsp.Diagnostic {
	workspaceDiagnostics := map[string][]lsp.Diagnostic{}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, file := range state.WorkspaceFiles() {
		file := file
		uri := utils.PathToURI(file)
		if _, open := state.Documents[uri]; open {
			continue
		}
		language := utils.LanguageForDocument(uri, "")

		g.Go(func() error {
			fileContent, err := os.ReadFile(file)
			if err != nil {
				slog.Error("Could not read file content", "file", file, "err", err)
				return nil
			}

			diagnostics := findDiagnostics(string(fileContent), language)
			mu.Lock()
			workspaceDiagnostics[uri] = diagnostics
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return workspaceDiagnostics
}
