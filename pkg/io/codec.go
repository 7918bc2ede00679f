package io

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/upstreamer/pkg/errors"
	"github.com/matzehuels/upstreamer/pkg/extract"
)

var kindToString = map[extract.ArtifactKind]string{
	extract.KindManifest:   "manifest",
	extract.KindChangelog:  "changelog",
	extract.KindWatch:      "watch",
	extract.KindDocument:   "document",
	extract.KindBuildRules: "build-rules",
}

var kindFromString = map[string]extract.ArtifactKind{
	"manifest":    extract.KindManifest,
	"changelog":   extract.KindChangelog,
	"watch":       extract.KindWatch,
	"document":    extract.KindDocument,
	"build-rules": extract.KindBuildRules,
}

var formatFromString = map[string]extract.ChangelogFormat{
	"":        extract.FormatGeneric,
	"generic": extract.FormatGeneric,
	"debian":  extract.FormatDebian,
}

// artifact is the union of every artifact kind's fields.
type artifact struct {
	Kind    string                   `json:"kind"`
	Name    string                   `json:"name"`
	Tree    map[string]any           `json:"tree,omitempty"`
	Format  string                   `json:"format,omitempty"`
	Entries []extract.ChangelogEntry `json:"entries,omitempty"`
	Rules   []extract.WatchRule      `json:"rules,omitempty"`
	Text    string                   `json:"text,omitempty"`
	Links   []extract.Link           `json:"links,omitempty"`
}

// Envelope is the wire form of an artifact set. Request types embed it to
// carry artifacts next to their own fields.
type Envelope struct {
	Artifacts []artifact `json:"artifacts"`
}

func fromArtifact(a extract.Artifact) (artifact, error) {
	out := artifact{Kind: kindToString[a.Kind()], Name: a.Label()}
	switch t := a.(type) {
	case extract.Manifest:
		out.Tree = t.Tree
	case extract.Changelog:
		out.Format = t.Format.String()
		out.Entries = t.Entries
	case extract.Watch:
		out.Rules = t.Rules
	case extract.Document:
		out.Text = t.Text
		out.Links = t.Links
	case extract.BuildRules:
		out.Text = t.Text
	default:
		return artifact{}, fmt.Errorf("unsupported artifact type %T", a)
	}
	return out, nil
}

func (a artifact) toArtifact() (extract.Artifact, error) {
	if err := errors.ValidatePath(a.Name); err != nil {
		return nil, err
	}
	kind, ok := kindFromString[a.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", a.Kind)
	}
	switch kind {
	case extract.KindManifest:
		tree := a.Tree
		if tree == nil {
			tree = map[string]any{}
		}
		return extract.Manifest{Name: a.Name, Tree: tree}, nil
	case extract.KindChangelog:
		format, ok := formatFromString[a.Format]
		if !ok {
			return nil, fmt.Errorf("changelog %s: unknown format %q", a.Name, a.Format)
		}
		return extract.Changelog{Name: a.Name, Format: format, Entries: a.Entries}, nil
	case extract.KindWatch:
		return extract.Watch{Name: a.Name, Rules: a.Rules}, nil
	case extract.KindDocument:
		return extract.Document{Name: a.Name, Text: a.Text, Links: a.Links}, nil
	default:
		return extract.BuildRules{Name: a.Name, Text: a.Text}, nil
	}
}

// MarshalArtifact encodes one artifact in the set element format.
// Map keys are sorted by encoding/json, so equal artifacts encode to
// equal bytes.
func MarshalArtifact(a extract.Artifact) ([]byte, error) {
	out, err := fromArtifact(a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// Set validates and converts the envelope's artifacts.
func (e Envelope) Set() (extract.Set, error) {
	out := make(extract.Set, 0, len(e.Artifacts))
	for i, a := range e.Artifacts {
		art, err := a.toArtifact()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidArtifact, err, "artifact %d", i)
		}
		out = append(out, art)
	}
	return out, nil
}

// Wrap encodes s into an envelope.
func Wrap(s extract.Set) (Envelope, error) {
	out := Envelope{Artifacts: make([]artifact, len(s))}
	for i, a := range s {
		enc, err := fromArtifact(a)
		if err != nil {
			return Envelope{}, err
		}
		out.Artifacts[i] = enc
	}
	return out, nil
}
