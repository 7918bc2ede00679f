package local

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/upstreamer/pkg/extract"
)

// =============================================================================
// Manifests
// =============================================================================

func decodeTOMLManifest(label string, data []byte) (extract.Artifact, error) {
	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return manifest(label, tree)
}

func decodeJSONManifest(label string, data []byte) (extract.Artifact, error) {
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return manifest(label, tree)
}

func decodeYAMLManifest(label string, data []byte) (extract.Artifact, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return manifest(label, tree)
}

func decodeXMLManifest(label string, data []byte) (extract.Artifact, error) {
	tree, err := xmlTree(data)
	if err != nil {
		return nil, err
	}
	return manifest(label, tree)
}

func manifest(label string, tree map[string]any) (extract.Artifact, error) {
	if tree == nil {
		return nil, errors.New("empty document")
	}
	return extract.Manifest{Name: label, Tree: plain(tree).(map[string]any)}, nil
}

// plain rewrites decoder-specific container types into map[string]any and
// []any, the only containers extractors expect.
func plain(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = plain(x)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[fmt.Sprint(k)] = plain(x)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = plain(x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = plain(x)
		}
		return out
	}
	return v
}

// xmlTree converts an XML document to nested maps keyed by element local
// name. Text-only elements become strings; repeated siblings become a
// list. Attributes and namespaces are ignored.
func xmlTree(data []byte) (map[string]any, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, errors.New("no root element")
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			v, err := xmlElement(dec)
			if err != nil {
				return nil, err
			}
			return map[string]any{start.Name.Local: v}, nil
		}
	}
}

func xmlElement(dec *xml.Decoder) (any, error) {
	var (
		text     strings.Builder
		children map[string]any
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			v, err := xmlElement(dec)
			if err != nil {
				return nil, err
			}
			if children == nil {
				children = make(map[string]any)
			}
			name := t.Name.Local
			switch prev := children[name].(type) {
			case nil:
				children[name] = v
			case []any:
				children[name] = append(prev, v)
			default:
				children[name] = []any{prev, v}
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if children != nil {
				return children, nil
			}
			return strings.TrimSpace(text.String()), nil
		}
	}
}

// =============================================================================
// Build rules and documents
// =============================================================================

func decodeBuildRules(label string, data []byte) (extract.Artifact, error) {
	return extract.BuildRules{Name: label, Text: string(data)}, nil
}

func decodeDocument(label string, data []byte) (extract.Artifact, error) {
	text := string(data)
	return extract.Document{Name: label, Text: text, Links: Links(text)}, nil
}
