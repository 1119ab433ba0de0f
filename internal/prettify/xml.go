package prettify

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const xmlDeclaration = `<?xml version="1.0" ?>`

type xmlNodeKind int

const (
	xmlDocument xmlNodeKind = iota
	xmlElement
	xmlText
	xmlComment
	xmlProcInst
	xmlDirective
)

type xmlNode struct {
	kind     xmlNodeKind
	name     string
	attrs    []xml.Attr
	data     string
	children []*xmlNode
}

// XML parses src as a document with exactly one root element and prints one
// node per line, indented by opts.XMLIndent per level. Lines of the printed
// document that contain only whitespace are dropped.
func XML(src string, opts Options) (string, error) {
	doc, err := parseXML(src)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	if opts.XMLDeclaration {
		builder.WriteString(xmlDeclaration)
		builder.WriteByte('\n')
	}
	printer := xmlPrinter{builder: &builder, indent: opts.XMLIndent}
	for _, child := range doc.children {
		printer.writeNode(child, 0)
	}

	return dropBlankLines(builder.String()), nil
}

func dropBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func parseXML(src string) (*xmlNode, error) {
	body := strings.TrimPrefix(src, "\ufeff")
	skipped := len(src) - len(body)
	decoder := xml.NewDecoder(strings.NewReader(body))
	decoder.Strict = true
	// The text is already decoded; a declared encoding does not change it.
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	doc := &xmlNode{kind: xmlDocument}
	stack := []*xmlNode{doc}
	hasRoot := false

	fail := func(err error) (*xmlNode, error) {
		return nil, newParseError("xml", src, skipped+int(decoder.InputOffset()), err)
	}

	for {
		token, err := decoder.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(err)
		}

		parent := stack[len(stack)-1]
		switch t := token.(type) {
		case xml.StartElement:
			if parent == doc {
				if hasRoot {
					return fail(fmt.Errorf("unexpected element <%s> after the root element", qualifiedName(t.Name)))
				}
				hasRoot = true
			}
			element := &xmlNode{
				kind:  xmlElement,
				name:  qualifiedName(t.Name),
				attrs: append([]xml.Attr(nil), t.Attr...),
			}
			parent.children = append(parent.children, element)
			stack = append(stack, element)

		case xml.EndElement:
			name := qualifiedName(t.Name)
			if parent == doc {
				return fail(fmt.Errorf("unexpected end element </%s>", name))
			}
			if parent.name != name {
				return fail(fmt.Errorf("element <%s> closed by </%s>", parent.name, name))
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			text := string(t)
			if parent == doc {
				if strings.TrimSpace(text) != "" {
					return fail(errors.New("text outside of the root element"))
				}
				continue
			}
			// Entities and CDATA sections split text into several tokens.
			if n := len(parent.children); n > 0 && parent.children[n-1].kind == xmlText {
				parent.children[n-1].data += text
				continue
			}
			parent.children = append(parent.children, &xmlNode{kind: xmlText, data: text})

		case xml.Comment:
			parent.children = append(parent.children, &xmlNode{kind: xmlComment, data: string(t)})

		case xml.ProcInst:
			if t.Target == "xml" {
				continue
			}
			parent.children = append(parent.children, &xmlNode{
				kind: xmlProcInst,
				name: t.Target,
				data: string(t.Inst),
			})

		case xml.Directive:
			if parent == doc {
				if err := declareEntities(decoder, string(t)); err != nil {
					return fail(err)
				}
			}
			parent.children = append(parent.children, &xmlNode{kind: xmlDirective, data: string(t)})
		}
	}

	if len(stack) > 1 {
		return nil, newParseError("xml", src, len(src),
			fmt.Errorf("element <%s> is never closed", stack[len(stack)-1].name))
	}
	if !hasRoot {
		return nil, newParseError("xml", src, len(src), errors.New("no root element"))
	}
	return doc, nil
}

var entityDeclaration = regexp.MustCompile(`<!ENTITY\s+([^\s%"'>]+)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

// declareEntities registers the general entities declared in the internal
// subset of a DOCTYPE directive, so that references to them decode.
// Parameter and external entities are not supported.
func declareEntities(decoder *xml.Decoder, directive string) error {
	if !strings.HasPrefix(directive, "DOCTYPE") {
		return nil
	}
	start := strings.IndexByte(directive, '[')
	end := strings.LastIndexByte(directive, ']')
	if start < 0 || end < start {
		return nil
	}

	for _, match := range entityDeclaration.FindAllStringSubmatch(directive[start+1:end], -1) {
		value, err := expandEntityValue(match[2]+match[3], decoder.Entity)
		if err != nil {
			return fmt.Errorf("entity %q: %w", match[1], err)
		}
		if decoder.Entity == nil {
			decoder.Entity = make(map[string]string)
		}
		// The first declaration of an entity is binding.
		if _, ok := decoder.Entity[match[1]]; !ok {
			decoder.Entity[match[1]] = value
		}
	}
	return nil
}

// expandEntityValue resolves character references and references to
// entities declared earlier in an entity value.
func expandEntityValue(value string, entities map[string]string) (string, error) {
	if strings.Contains(value, "<") {
		return "", errors.New("markup in entity values is not supported")
	}
	if !strings.Contains(value, "&") {
		return value, nil
	}

	decoder := xml.NewDecoder(strings.NewReader("<v>" + value + "</v>"))
	decoder.Strict = true
	decoder.Entity = entities

	var text strings.Builder
	for {
		token, err := decoder.RawToken()
		if errors.Is(err, io.EOF) {
			return text.String(), nil
		}
		if err != nil {
			return "", err
		}
		if data, ok := token.(xml.CharData); ok {
			text.Write(data)
		}
	}
}

func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

type xmlPrinter struct {
	builder *strings.Builder
	indent  string
}

func (p *xmlPrinter) writeNode(node *xmlNode, depth int) {
	indent := strings.Repeat(p.indent, depth)
	b := p.builder

	switch node.kind {
	case xmlElement:
		b.WriteString(indent)
		b.WriteByte('<')
		b.WriteString(node.name)
		for _, attr := range node.attrs {
			b.WriteByte(' ')
			b.WriteString(qualifiedName(attr.Name))
			b.WriteString(`="`)
			b.WriteString(attrEscaper.Replace(attr.Value))
			b.WriteByte('"')
		}

		if len(node.children) == 0 {
			b.WriteString("/>\n")
			return
		}
		if len(node.children) == 1 && node.children[0].kind == xmlText {
			b.WriteByte('>')
			b.WriteString(textEscaper.Replace(node.children[0].data))
			b.WriteString("</" + node.name + ">\n")
			return
		}

		b.WriteString(">\n")
		for _, child := range node.children {
			p.writeNode(child, depth+1)
		}
		b.WriteString(indent + "</" + node.name + ">\n")

	case xmlText:
		// Surrounding whitespace here is layout, not content.
		text := strings.TrimSpace(node.data)
		if text == "" {
			return
		}
		b.WriteString(indent + textEscaper.Replace(text) + "\n")

	case xmlComment:
		b.WriteString(indent + "<!--" + node.data + "-->\n")

	case xmlProcInst:
		b.WriteString(indent + "<?" + node.name)
		if node.data != "" {
			b.WriteString(" " + node.data)
		}
		b.WriteString("?>\n")

	case xmlDirective:
		b.WriteString(indent + "<!" + node.data + ">\n")
	}
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\t", "&#9;",
	"\n", "&#10;",
	"\r", "&#13;",
)
