package prettify

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const decl = `<?xml version="1.0" ?>` + "\n"

func TestXML(t *testing.T) {
	var testCases = []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "nested elements",
			input: `<a><b>1</b><c>2</c></a>`,
			want:  decl + "<a>\n    <b>1</b>\n    <c>2</c>\n</a>",
		},
		{
			name:  "existing layout is replaced",
			input: "<a>\n  <b>1</b>\n\n\n  <c/>\n</a>\n",
			want:  decl + "<a>\n    <b>1</b>\n    <c/>\n</a>",
		},
		{
			name:  "deep nesting",
			input: `<a><b><c><d>x</d></c></b></a>`,
			want:  decl + "<a>\n    <b>\n        <c>\n            <d>x</d>\n        </c>\n    </b>\n</a>",
		},
		{
			name:  "attributes and empty elements",
			input: `<root id="1" name="x &amp; y"><empty></empty></root>`,
			want:  decl + "<root id=\"1\" name=\"x &amp; y\">\n    <empty/>\n</root>",
		},
		{
			name:  "mixed content",
			input: `<p>Hello <b>world</b>!</p>`,
			want:  decl + "<p>\n    Hello\n    <b>world</b>\n    !\n</p>",
		},
		{
			name:  "prolog, comments and processing instructions",
			input: `<?xml version="1.0"?><!DOCTYPE note><!-- top --><note><?pi data?><to>T</to></note>`,
			want:  decl + "<!DOCTYPE note>\n<!-- top -->\n<note>\n    <?pi data?>\n    <to>T</to>\n</note>",
		},
		{
			name:  "namespace prefixes are kept",
			input: `<x:a xmlns:x="urn:x"><x:b/></x:a>`,
			want:  decl + "<x:a xmlns:x=\"urn:x\">\n    <x:b/>\n</x:a>",
		},
		{
			name:  "cdata becomes escaped text",
			input: `<a><![CDATA[1 < 2]]></a>`,
			want:  decl + "<a>1 &lt; 2</a>",
		},
		{
			name:  "declared encoding",
			input: `<?xml version="1.0" encoding="ISO-8859-1"?><a>é</a>`,
			want:  decl + "<a>é</a>",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := XML(tt.input, DefaultOptions())
			if err != nil {
				t.Fatalf("XML(%q) returned error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("XML(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
			for i, line := range strings.Split(got, "\n") {
				if strings.TrimSpace(line) == "" {
					t.Errorf("line %d of output is blank", i+1)
				}
			}
		})
	}
}

func TestXMLWithoutDeclaration(t *testing.T) {
	opts := DefaultOptions()
	opts.XMLDeclaration = false
	opts.XMLIndent = IndentString(2)

	got, err := XML(`<a><b/></a>`, opts)
	if err != nil {
		t.Fatal(err)
	}
	if want := "<a>\n  <b/>\n</a>"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestXMLInvalid(t *testing.T) {
	var testCases = []struct {
		name  string
		input string
	}{
		{name: "empty", input: ``},
		{name: "whitespace only", input: "   \n\t"},
		{name: "mismatched tags", input: `<a><b></a>`},
		{name: "unclosed element", input: `<a>`},
		{name: "stray end element", input: `</a>`},
		{name: "two roots", input: `<a></a><b></b>`},
		{name: "text without root", input: `text`},
		{name: "undefined entity", input: `<a>&foo;</a>`},
		{name: "markup in entity value", input: `<!DOCTYPE a [<!ENTITY e "<b/>">]><a>&e;</a>`},
		{name: "unquoted attribute", input: `<a x=1/>`},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := XML(tt.input, DefaultOptions())
			if err == nil {
				t.Fatalf("XML(%q) = %q, expected error", tt.input, got)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if parseErr.Format != "xml" {
				t.Errorf("Format = %q, want xml", parseErr.Format)
			}
			if parseErr.Line < 1 || parseErr.Column < 1 {
				t.Errorf("expected a position, got %d:%d", parseErr.Line, parseErr.Column)
			}
		})
	}
}

func TestXMLInternalEntities(t *testing.T) {
	var testCases = []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "declared entity",
			input: `<!DOCTYPE a [<!ENTITY e "x">]><a>&e;</a>`,
			want:  "<?xml version=\"1.0\" ?>\n<!DOCTYPE a [<!ENTITY e \"x\">]>\n<a>x</a>",
		},
		{
			name:  "entity in attribute",
			input: `<!DOCTYPE a [<!ENTITY who 'world'>]><a greet="hello &who;"/>`,
			want:  "<?xml version=\"1.0\" ?>\n<!DOCTYPE a [<!ENTITY who 'world'>]>\n<a greet=\"hello world\"/>",
		},
		{
			name:  "character reference in value",
			input: `<!DOCTYPE a [<!ENTITY c "&#169; &amp; co">]><a>&c;</a>`,
			want:  "<?xml version=\"1.0\" ?>\n<!DOCTYPE a [<!ENTITY c \"&#169; &amp; co\">]>\n<a>© &amp; co</a>",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := XML(tt.input, DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("XML() mismatch (-want +got):\n%s", diff)
			}
			again, err := XML(got, DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			if again != got {
				t.Errorf("not idempotent: %q", again)
			}
		})
	}
}

func TestXMLIdempotent(t *testing.T) {
	inputs := []string{
		`<a><b>1</b><c>2</c></a>`,
		`<p>Hello <b>world</b>!</p>`,
		"<a>\n  line one\n\n  line two\n<b/></a>",
		"<a><b>\n  spaced\n\n</b></a>",
		`<r a="1&#10;2" b="&quot;"><!-- c --><?pi?></r>`,
		"<a>   </a>",
	}

	for _, input := range inputs {
		first, err := XML(input, DefaultOptions())
		if err != nil {
			t.Fatalf("XML(%q) returned error: %v", input, err)
		}
		second, err := XML(first, DefaultOptions())
		if err != nil {
			t.Fatalf("XML(%q) returned error: %v", first, err)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("formatting is not idempotent for %q (-first +second):\n%s", input, diff)
		}
	}
}

func TestDropBlankLines(t *testing.T) {
	got := dropBlankLines("a\n\n   \n\tb\n \t\nc\n")
	if want := "a\n\tb\nc"; got != want {
		t.Errorf("dropBlankLines() = %q, want %q", got, want)
	}
}

func TestCheck(t *testing.T) {
	if err := Check("xml", `<a/>`); err != nil {
		t.Errorf("Check(xml) = %v", err)
	}
	if err := Check("json", `[1]`); err != nil {
		t.Errorf("Check(json) = %v", err)
	}
	if err := Check("xml", `<a>`); !IsParseError(err) {
		t.Errorf("expected parse error, got %v", err)
	}
	if err := Check("yaml", `a: 1`); err == nil || IsParseError(err) {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}
