package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/matkrin/prettyd/internal/logger"
	"github.com/matkrin/prettyd/internal/lsp"
	"github.com/matkrin/prettyd/internal/prettify"
)

type queuedMessage struct {
	method   string
	contents []byte
}

type Server struct {
	name         string
	version      string
	state        State
	writer       io.Writer
	messageQueue chan queuedMessage
	wg           sync.WaitGroup
	mu           sync.Mutex
	exit         func(code int)
	requestID    int

	timerMu              sync.Mutex
	diagnosticTimers     map[string]*time.Timer
	diagnosticGeneration map[string]uint64
}

func NewServer(name, version string, state State, writer io.Writer) *Server {
	s := &Server{
		name:                 name,
		version:              version,
		state:                state,
		writer:               writer,
		messageQueue:         make(chan queuedMessage),
		exit:                 os.Exit,
		diagnosticTimers:     make(map[string]*time.Timer),
		diagnosticGeneration: make(map[string]uint64),
	}

	s.wg.Add(1)
	go s.run()

	return s
}

func (s *Server) run() {
	defer s.wg.Done()
	for msg := range s.messageQueue {
		s.dispatchMessage(msg.method, msg.contents)
	}
}

func (s *Server) HandleMessage(method string, contents []byte) {
	s.messageQueue <- queuedMessage{method: method, contents: contents}
}

// Stop waits for queued messages to be handled and cancels pending
// diagnostics.
func (s *Server) Stop() {
	close(s.messageQueue)
	s.wg.Wait()

	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	for uri, timer := range s.diagnosticTimers {
		timer.Stop()
		delete(s.diagnosticTimers, uri)
		s.diagnosticGeneration[uri]++
	}
}

func (s *Server) dispatchMessage(method string, contents []byte) {
	slog.Info("Received message", "method", method)

	switch method {
	case "initialize":
		var request lsp.InitializeRequest
		if err := json.Unmarshal(contents, &request); err != nil {
			slog.Error("Could not parse request", "method", method, "err", err)
			return
		}

		if request.Params.ClientInfo != nil {
			slog.Info("Connected to client",
				"name", request.Params.ClientInfo.Name,
				"version", request.Params.ClientInfo.Version,
			)
		}

		s.state.WorkspaceFolders = request.Params.WorkspaceFolders
		if len(s.state.WorkspaceFolders) == 0 && request.Params.RootURI != nil {
			s.state.WorkspaceFolders = []lsp.WorkspaceFolder{{URI: *request.Params.RootURI}}
		}
		slog.Info("Workspace folders set", "workspaceFolders", s.state.WorkspaceFolders)

		if err := s.applySettings(request.Params.InitializationOptions); err != nil {
			slog.Warn("Ignoring initialization options", "err", err)
		}

		capabilities := lsp.ServerCapabilities{
			TextDocumentSync:                2,
			DocumentFormattingProvider:      true,
			DocumentRangeFormattingProvider: true,
			CodeActionProvider: lsp.CodeActionOptions{
				CodeActionKinds: []lsp.CodeActionKind{lsp.CodeActionSourceFormat},
			},
			ExecuteCommandProvider: lsp.ExecuteCommandOptions{
				Commands: s.state.Commands.Names(),
			},
		}
		info := lsp.ServerInfo{
			Name:    s.name,
			Version: s.version,
		}

		msg := lsp.NewInitializeResponse(request.ID, &capabilities, &info)
		s.writeResponse(msg)

	case "initialized":
		if s.state.Config.Diagnostics && s.state.Config.WorkspaceDiagnostics {
			workspaceDiagnostics := findDiagnosticsWorkspace(&s.state)
			for uri, diagnostics := range workspaceDiagnostics {
				s.pushDiagnostic(uri, nil, diagnostics)
			}
		}

	case "shutdown":
		var request lsp.ShutdownRequest
		if err := json.Unmarshal(contents, &request); err != nil {
			slog.Error("Could not parse request", "method", method, "err", err)
		}

		slog.Info("Received shutdown request")
		s.state.ShutdownRequested = true

		response := lsp.ShutdownResponse{
			Response: lsp.Response{
				RPC: lsp.RPC_VERSION,
				ID:  &request.ID,
			},
			Result: nil,
		}
		s.writeResponse(response)

	case "exit":
		slog.Info("Exiting")
		if s.state.ShutdownRequested {
			s.exit(0)
		} else {
			slog.Warn("Exiting without preceding shutdown request")
			s.exit(1)
		}

	case "textDocument/didOpen":
		var request lsp.DidOpenTextDocumentNotification
		if err := json.Unmarshal(contents, &request); err != nil {
			slog.Error("Could not parse request", "method", method, "err", err)
			return
		}

		item := request.Params.TextDocument
		slog.Info("Opened document", "URI", item.URI, "languageId", item.LanguageID)
		s.state.SetDocument(item.URI, Document{
			Text:       item.Text,
			LanguageID: item.LanguageID,
			Version:    item.Version,
		})

		if s.state.Config.Diagnostics {
			diagnostics := findDiagnostics(item.Text, s.state.Language(item.URI))
			s.pushDiagnostic(item.URI, &item.Version, diagnostics)
		}

	case "textDocument/didChange":
		var request lsp.TextDocumentDidChangeNotification
		if err := json.Unmarshal(contents, &request); err != nil {
			slog.Error("Could not parse request", "method", method, "err", err)
			return
		}

		uri := request.Params.TextDocument.URI
		slog.Info("Changed document", "URI", uri)

		document := s.state.Documents[uri]
		document.Text = applyChanges(document.Text, request.Params.ContentChanges)
		document.Version = request.Params.TextDocument.Version
		s.state.SetDocument(uri, document)

		if s.state.Config.Diagnostics {
			s.scheduleDiagnostics(uri, document, s.state.Language(uri))
		}

	case "textDocument/didClose":
		var request lsp.DidCloseTextDocumentNotification
		if err := json.Unmarshal(contents, &request); err != nil {
			slog.Error("Could not parse request", "method", method, "err", err)
			return
		}

		uri := request.Params.TextDocument.URI
		slog.Info("Closed document", "URI", uri)
		delete(s.state.Documents, uri)
		s.cancelDiagnostics(uri)
		s.pushDiagnostic(uri, nil, nil)

	case "textDocument/formatting":
		var request lsp.FormattingRequest
		if err := json.Unmarshal(contents, &request); err != nil {
			slog.Error("Could not parse request", "method", method, "err", err)
			return
		}
		response, err := handleFormatting(&request, &s.state)
		if err != nil {
			s.reportFailure(request.ID, err)
			return
		}
		s.writeResponse(response)

	case "textDocument/rangeFormatting":
		var request lsp.RangeFormattingRequest
		if err := json.Unmarshal(contents, &request); err != nil {
			slog.Error("Could not parse request", "method", method, "err", err)
			return
		}
		response, err := handleRangeFormatting(&request, &s.state)
		if err != nil {
			s.reportFailure(request.ID, err)
			return
		}
		s.writeResponse(response)

	case "textDocument/codeAction":
		var request lsp.CodeActionRequest
		if err := json.Unmarshal(contents, &request); err != nil {
			slog.Error("Could not parse request", "method", method, "err", err)
			return
		}
		response := handleCodeAction(&request, &s.state)
		if response != nil {
			s.writeResponse(response)
		}

	case "workspace/executeCommand":
		var request lsp.ExecuteCommandRequest
		if err := json.Unmarshal(contents, &request); err != nil {
			slog.Error("Could not parse request", "method", method, "err", err)
			return
		}
		edit, err := handleExecuteCommand(&request, &s.state)
		if err != nil {
			s.reportFailure(request.ID, err)
			return
		}

		cmd, _ := s.state.Commands.Lookup(request.Params.Command)
		s.writeResponse(lsp.NewApplyWorkspaceEditRequest(s.nextRequestID(), cmd.Description, *edit))
		s.writeResponse(lsp.ExecuteCommandResponse{
			Response: lsp.Response{
				RPC: lsp.RPC_VERSION,
				ID:  &request.ID,
			},
			Result: nil,
		})

	case "workspace/didChangeConfiguration":
		var request lsp.DidChangeConfigurationNotification
		if err := json.Unmarshal(contents, &request); err != nil {
			slog.Error("Could not parse request", "method", method, "err", err)
			return
		}
		if err := s.applySettings(request.Params.Settings); err != nil {
			slog.Warn("Rejected settings", "err", err)
			s.writeResponse(lsp.NewShowMessageNotification(lsp.MessageWarning, err.Error()))
		}

	case "":
		// A response to one of our requests, e.g. workspace/applyEdit.
		slog.Debug("Received response", "contents", string(contents))

	default:
		slog.Debug("Unhandled method", "method", method)
	}
}

// applySettings overlays client settings on the current configuration and
// rebuilds the commands with the resulting formatting options.
func (s *Server) applySettings(raw json.RawMessage) error {
	cfg := s.state.Config
	if err := cfg.ApplySettings(raw); err != nil {
		return err
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	s.state.SetConfig(cfg)
	slog.Debug("Settings applied", "config", fmt.Sprintf("%+v", cfg))
	return nil
}

// reportFailure shows the error to the user and fails the request. No edit
// is sent, so the document stays as it was.
func (s *Server) reportFailure(id int, err error) {
	slog.Error("Request failed", "id", id, "err", err)

	code := lsp.ErrorInvalidParams
	if prettify.IsParseError(err) {
		code = lsp.ErrorRequestFailed
	}

	s.writeResponse(lsp.NewShowMessageNotification(lsp.MessageError, err.Error()))
	s.writeResponse(lsp.NewErrorResponse(id, code, err.Error()))
}

// scheduleDiagnostics publishes diagnostics for document once no change has
// arrived for the configured debounce time.
func (s *Server) scheduleDiagnostics(uri string, document Document, language string) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if timer, ok := s.diagnosticTimers[uri]; ok {
		timer.Stop()
	}
	s.diagnosticGeneration[uri]++
	generation := s.diagnosticGeneration[uri]

	version := document.Version
	s.diagnosticTimers[uri] = time.AfterFunc(s.state.Config.DiagnosticDebounce, func() {
		diagnostics := findDiagnostics(document.Text, language)
		s.pushScheduledDiagnostic(uri, generation, &version, diagnostics)
	})
}

// cancelDiagnostics drops pending diagnostics for uri, including ones whose
// timer already fired.
func (s *Server) cancelDiagnostics(uri string) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if timer, ok := s.diagnosticTimers[uri]; ok {
		timer.Stop()
		delete(s.diagnosticTimers, uri)
	}
	s.diagnosticGeneration[uri]++
}

// pushScheduledDiagnostic publishes diagnostics computed by a timer unless
// a later change, close or stop superseded them.
func (s *Server) pushScheduledDiagnostic(uri string, generation uint64, version *int, diagnostics []lsp.Diagnostic) bool {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.diagnosticGeneration[uri] != generation {
		return false
	}
	delete(s.diagnosticTimers, uri)
	s.pushDiagnostic(uri, version, diagnostics)
	return true
}

func (s *Server) pushDiagnostic(uri string, version *int, diagnostics []lsp.Diagnostic) {
	notification := lsp.NewDiagnosticNotification(uri, version, diagnostics)
	s.writeResponse(notification)
}

func (s *Server) nextRequestID() int {
	s.requestID++
	return s.requestID
}

func (s *Server) writeResponse(msg any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply := lsp.EncodeMessage(msg)
	if _, err := s.writer.Write([]byte(reply)); err != nil {
		slog.Error("Could not write message", "err", err)
	}
}
