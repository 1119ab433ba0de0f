package server

import (
	"unicode/utf8"

	"github.com/matkrin/prettyd/internal/lsp"
	"github.com/matkrin/prettyd/internal/region"
)

// offsetForPosition converts an LSP position (UTF-16 code units) to a byte
// offset into text. Positions past the end of a line or of the text clamp.
func offsetForPosition(text string, pos lsp.Position) int {
	line := uint(0)
	i := 0
	for i < len(text) && line < pos.Line {
		if text[i] == '\n' {
			line++
		}
		i++
	}
	if line < pos.Line {
		return len(text)
	}

	units := uint(0)
	for i < len(text) && units < pos.Character {
		if text[i] == '\n' {
			break
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		need := uint(1)
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}

func positionForOffset(text string, offset int) lsp.Position {
	if offset > len(text) {
		offset = len(text)
	}
	var pos lsp.Position
	for i := 0; i < offset; {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == '\n':
			pos.Line++
			pos.Character = 0
		case r > 0xFFFF:
			pos.Character += 2
		default:
			pos.Character++
		}
		i += size
	}
	return pos
}

func rangeToRegion(text string, r lsp.Range) region.Region {
	return region.New(offsetForPosition(text, r.Start), offsetForPosition(text, r.End))
}

func regionToRange(text string, r region.Region) lsp.Range {
	return lsp.Range{
		Start: positionForOffset(text, r.Start),
		End:   positionForOffset(text, r.End),
	}
}

func applyChanges(text string, changes []lsp.TextDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		text = region.Replace(text, rangeToRegion(text, *change.Range), change.Text)
	}
	return text
}
