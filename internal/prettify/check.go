package prettify

import "fmt"

// Check reports whether src is valid in the given format ("json" or "xml")
// without producing output.
func Check(format, src string) error {
	switch format {
	case "json":
		return validateJSON(src)
	case "xml":
		_, err := parseXML(src)
		return err
	}
	return fmt.Errorf("unsupported format %q", format)
}
