package server

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/matkrin/prettyd/internal/command"
	"github.com/matkrin/prettyd/internal/config"
	"github.com/matkrin/prettyd/internal/lsp"
	"github.com/matkrin/prettyd/internal/utils"
)

type Document struct {
	Text       string
	LanguageID string
	Version    int
}

type State struct {
	Documents         map[string]Document
	WorkspaceFolders  []lsp.WorkspaceFolder
	Config            config.Config
	Commands          *command.Registry
	ShutdownRequested bool
}

func NewState(cfg config.Config) State {
	return State{
		Documents:         make(map[string]Document),
		Config:            cfg,
		Commands:          command.NewRegistry(cfg.FormatOptions()),
		ShutdownRequested: false,
	}
}

func (s *State) SetDocument(uri string, document Document) {
	s.Documents[uri] = document
}

// SetConfig replaces the configuration and rebuilds the commands, which
// capture the formatting options.
func (s *State) SetConfig(cfg config.Config) {
	s.Config = cfg
	s.Commands = command.NewRegistry(cfg.FormatOptions())
}

// Language returns "json", "xml" or "" for an open document.
func (s *State) Language(uri string) string {
	return utils.LanguageForDocument(uri, s.Documents[uri].LanguageID)
}

// WorkspaceFiles returns the paths of JSON and XML files below the
// workspace folders, skipping excluded directories.
func (s *State) WorkspaceFiles() []string {
	var files []string

	for _, folder := range s.WorkspaceFolders {
		dirpath, err := utils.UriToPath(folder.URI)
		if err != nil {
			continue
		}

		err = filepath.WalkDir(dirpath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if slices.Contains(s.Config.ExcludeDirs, d.Name()) {
					return fs.SkipDir
				}
				return nil
			}
			if utils.LanguageForDocument(utils.PathToURI(path), "") != "" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			slog.Warn("Could not walk workspace folder", "folder", dirpath, "err", err)
		}
	}

	return files
}
