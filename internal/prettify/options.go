package prettify

import "strings"

const DefaultIndentWidth = 4

type Options struct {
	JSONIndent     string
	XMLIndent      string
	XMLDeclaration bool
}

func DefaultOptions() Options {
	return Options{
		JSONIndent:     IndentString(DefaultIndentWidth),
		XMLIndent:      IndentString(DefaultIndentWidth),
		XMLDeclaration: true,
	}
}

// IndentString returns an indentation unit of width spaces.
func IndentString(width int) string {
	if width < 0 {
		width = 0
	}
	return strings.Repeat(" ", width)
}
