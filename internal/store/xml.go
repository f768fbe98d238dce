package store

import (
	"encoding/xml"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/heysubinoy/pyazdict/pkg/kv"
)

// ExportXML writes entries as an indented <entries> document. A key that is
// a valid XML name becomes the element name; any other key is carried in the
// key attribute of an <entry> element.
func ExportXML(w io.Writer, entries []kv.Entry) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: "entries"}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for _, e := range entries {
		start := xml.StartElement{Name: xml.Name{Local: e.Key}}
		if !isXMLName(e.Key) {
			start = xml.StartElement{
				Name: xml.Name{Local: "entry"},
				Attr: []xml.Attr{{Name: xml.Name{Local: "key"}, Value: e.Key}},
			}
		}
		if err := enc.EncodeElement(e.Value, start); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// isXMLName is a conservative check: names must start with a letter or '_',
// continue with letters, digits, '_', '-' or '.', and not start with "xml".
func isXMLName(s string) bool {
	if s == "" {
		return false
	}
	if len(s) >= 3 && (s[0]|0x20) == 'x' && (s[1]|0x20) == 'm' && (s[2]|0x20) == 'l' {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsLetter(first) && first != '_' {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return false
		}
	}
	return true
}
