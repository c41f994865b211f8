package schemadoc

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
	"github.com/Aleph-Alpha/schemasync/v1/schemadiff"
)

// File suffixes recognized as schema documents. Longer suffixes first.
const (
	SuffixJSONSchema = ".schema.json"
	SuffixAvro       = ".avsc"
	SuffixJSON       = ".json"
)

// versionToken matches a whole "v<digits>" token.
var versionToken = regexp.MustCompile(`^[vV](\d+)$`)

// Format is the schema type of a document.
type Format = registry.SchemaType

// Document is one locally authored schema, immutable once loaded.
type Document struct {
	// Name is the file path or object key the document was read from.
	Name string

	// Version is the numeric token parsed from Name.
	Version int64

	Format Format

	// Raw is the document text as stored.
	Raw string

	// Value is the parsed JSON tree of Raw.
	Value any
}

// Schema returns the document as a registrable schema.
func (d *Document) Schema() registry.Schema {
	return registry.Schema{
		Schema:     d.Raw,
		SchemaType: d.Format,
	}
}

// ParseDocument parses data read from name. The version and format are
// derived from name; defaultFormat applies to plain ".json" files.
func ParseDocument(name string, data []byte, defaultFormat Format) (*Document, error) {
	format, stem, ok := formatOf(name, defaultFormat)
	if !ok {
		return nil, &ParseError{Name: name, Err: fmt.Errorf("unrecognized schema document suffix")}
	}
	version, ok := versionOf(stem)
	if !ok {
		return nil, &ParseError{Name: name, Err: fmt.Errorf("name carries no version token")}
	}

	value, err := schemadiff.Parse(data)
	if err != nil {
		return nil, &ParseError{Name: name, Err: err}
	}

	doc := &Document{
		Name:    name,
		Version: version,
		Format:  format,
		Raw:     string(data),
		Value:   value,
	}
	if err := registry.ValidateSchema(doc.Schema()); err != nil {
		return nil, &ParseError{Name: name, Err: err}
	}
	return doc, nil
}

// formatOf returns the format and the suffix-less base name of name.
func formatOf(name string, defaultFormat Format) (Format, string, bool) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	lower := strings.ToLower(base)
	switch {
	case strings.HasSuffix(lower, SuffixJSONSchema):
		return registry.SchemaTypeJSON, base[:len(base)-len(SuffixJSONSchema)], true
	case strings.HasSuffix(lower, SuffixAvro):
		return registry.SchemaTypeAvro, base[:len(base)-len(SuffixAvro)], true
	case strings.HasSuffix(lower, SuffixJSON):
		return defaultFormat.Normalize(), base[:len(base)-len(SuffixJSON)], true
	}
	return "", "", false
}

// versionOf returns the last version token in stem. Tokens are the
// alphanumeric runs of stem.
func versionOf(stem string) (int64, bool) {
	var (
		version int64
		found   bool
	)
	fields := strings.FieldsFunc(stem, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, field := range fields {
		m := versionToken.FindStringSubmatch(field)
		if m == nil {
			continue
		}
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			version, found = n, true
		}
	}
	return version, found
}

// candidate is a versioned name seen in a listing, not yet read.
type candidate struct {
	name    string
	version int64
}

// candidateOf reports whether name looks like a versioned schema document.
func candidateOf(name string) (candidate, bool) {
	_, stem, ok := formatOf(name, registry.SchemaTypeAvro)
	if !ok {
		return candidate{}, false
	}
	version, ok := versionOf(stem)
	if !ok {
		return candidate{}, false
	}
	return candidate{name: name, version: version}, true
}
