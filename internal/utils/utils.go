package utils

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

func UriToPath(uri string) (string, error) {
	if !strings.HasPrefix(uri, "file://") {
		return "", fmt.Errorf("unsupported URI scheme")
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	return u.Path, nil
}

func PathToURI(path string) string {
	uri := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return uri.String()
}

// JSON with comments (jsonc, json5) maps to no language, whatever the file
// extension: the JSON formatter is strict and would reject valid documents.
var languageIDs = map[string]string{
	"json":  "json",
	"jsonc": "",
	"json5": "",
	"xml":   "xml",
	"xsl":   "xml",
	"xslt":  "xml",
	"svg":   "xml",
}

var extensions = map[string]string{
	".json":        "json",
	".geojson":     "json",
	".webmanifest": "json",
	".xml":         "xml",
	".xsd":         "xml",
	".xsl":         "xml",
	".xslt":        "xml",
	".svg":         "xml",
	".rss":         "xml",
	".atom":        "xml",
	".wsdl":        "xml",
	".plist":       "xml",
	".csproj":      "xml",
	".pom":         "xml",
}

// LanguageForDocument returns "json", "xml" or "" for a document, preferring
// the client's languageId over the file extension.
func LanguageForDocument(uri, languageID string) string {
	if language, ok := languageIDs[strings.ToLower(languageID)]; ok {
		return language
	}

	p := uri
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		p = u.Path
	}
	return extensions[strings.ToLower(path.Ext(p))]
}
