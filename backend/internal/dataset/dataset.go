// Package dataset reads the temple JSON document: an object mapping region
// names to arrays of temple objects.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	apperrors "templegraph/backend/pkg/errors"
)

// Temple is one input record. Every field is optional and defaults to "".
type Temple struct {
	Name               string `json:"name"`
	State              string `json:"state"`
	Info               string `json:"info"`
	Story              string `json:"story"`
	VisitingGuide      string `json:"visiting_guide"`
	Architecture       string `json:"architecture"`
	MentionInScripture string `json:"mention_in_scripture"`
}

// Region is one top-level key of the document with its temples in input order.
type Region struct {
	Name    string
	Temples []Temple
}

// Document is the parsed input, regions in the order they appear in the file.
type Document struct {
	Regions []Region
}

// TempleCount returns the number of temple records across all regions.
func (d *Document) TempleCount() int {
	n := 0
	for _, r := range d.Regions {
		n += len(r.Temples)
	}
	return n
}

// ReadFile parses the document at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDatasetMalformed(path, "cannot open file", err)
	}
	defer f.Close()

	doc, err := parse(f, path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse reads a document from r.
func Parse(r io.Reader) (*Document, error) {
	return parse(r, "")
}

func parse(r io.Reader, path string) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, apperrors.NewDatasetMalformed(path, "invalid JSON", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, apperrors.NewDatasetMalformed(path, "top level must be an object of region -> temples", nil)
	}

	// A repeated region key keeps its first position and its last value.
	type entry struct {
		name string
		raw  any
	}
	var entries []entry
	seen := make(map[string]int)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, apperrors.NewDatasetMalformed(path, "invalid JSON", err)
		}
		name, _ := keyTok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, apperrors.NewDatasetMalformed(path, fmt.Sprintf("region %q: invalid JSON", name), err)
		}

		if i, ok := seen[name]; ok {
			entries[i].raw = raw
			continue
		}
		seen[name] = len(entries)
		entries = append(entries, entry{name: name, raw: raw})
	}

	if _, err := dec.Token(); err != nil {
		return nil, apperrors.NewDatasetMalformed(path, "invalid JSON", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, apperrors.NewDatasetMalformed(path, "trailing data after document", err)
	}

	doc := &Document{Regions: make([]Region, 0, len(entries))}
	for _, e := range entries {
		// A null region holds no temples.
		if e.raw == nil {
			doc.Regions = append(doc.Regions, Region{Name: e.name, Temples: []Temple{}})
			continue
		}

		temples, err := toTemples(NormalizeNulls(e.raw))
		if err != nil {
			return nil, apperrors.NewDatasetMalformed(path, fmt.Sprintf("region %q: %s", e.name, err.Error()), nil)
		}
		doc.Regions = append(doc.Regions, Region{Name: e.name, Temples: temples})
	}

	return doc, nil
}

// NormalizeNulls replaces every JSON null inside v with "", recursing into
// objects and arrays.
func NormalizeNulls(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = NormalizeNulls(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = NormalizeNulls(elem)
		}
		return out
	default:
		return val
	}
}

func toTemples(v any) ([]Temple, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array of temples, got %s", kind(v))
	}

	temples := make([]Temple, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("temple %d: expected an object, got %s", i, kind(item))
		}
		temples = append(temples, Temple{
			Name:               text(obj["name"]),
			State:              text(obj["state"]),
			Info:               text(obj["info"]),
			Story:              text(obj["story"]),
			VisitingGuide:      text(obj["visiting_guide"]),
			Architecture:       text(obj["architecture"]),
			MentionInScripture: text(obj["mention_in_scripture"]),
		})
	}
	return temples, nil
}

// text renders a field value as a string. Missing fields are "", non-string
// scalars keep their JSON spelling and nested values are re-encoded.
func text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(val); err != nil {
			return fmt.Sprint(val)
		}
		return string(bytes.TrimRight(buf.Bytes(), "\n"))
	}
}

func kind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
