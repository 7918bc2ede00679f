// Package manifest extracts guesses from key/value packaging manifests:
// debian/upstream/metadata, Cargo.toml, pyproject.toml, package.json,
// composer.json, pom.xml and pubspec.yaml.
//
// Extraction is table driven. Each manifest kind has a list of rules
// mapping a dotted key path in the decoded tree to a field and a
// certainty, plus optional custom logic for keys whose shape varies
// (npm's repository shorthand, pyproject's free-form url labels). A key
// that is missing, empty or of an unexpected type yields nothing; the
// remaining keys still extract.
package manifest

import (
	"path"
	"slices"
	"strings"

	"github.com/matzehuels/upstreamer/pkg/extract"
	"github.com/matzehuels/upstreamer/pkg/normalize"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// Extractor reads [extract.Manifest] artifacts.
type Extractor struct{}

// New returns the manifest extractor.
func New() Extractor { return Extractor{} }

func (Extractor) Name() string         { return "manifest" }
func (Extractor) Stage() extract.Stage { return extract.Primary }

// Supports reports whether a is a manifest of a known kind.
func (Extractor) Supports(a extract.Artifact) bool {
	m, ok := a.(extract.Manifest)
	if !ok {
		return false
	}
	_, ok = tableFor(m.Name)
	return ok
}

// Extract applies the table for the manifest's kind.
func (Extractor) Extract(a extract.Artifact, _ upstream.Context) []upstream.Guess {
	m, ok := a.(extract.Manifest)
	if !ok || m.Tree == nil {
		return nil
	}
	t, ok := tableFor(m.Name)
	if !ok {
		return nil
	}

	e := &emitter{origin: upstream.Origin{Class: upstream.ClassManifest, Label: m.Name}}
	for _, r := range t.rules {
		raw, ok := lookup(m.Tree, r.path)
		if !ok {
			continue
		}
		conv := r.value
		if conv == nil {
			conv = byKind(r.field)
		}
		if v, ok := conv(raw); ok {
			e.emit(r.field, v, r.certainty)
		}
	}
	if t.custom != nil {
		t.custom(m.Tree, e)
	}
	if t.registry != nil {
		if purl := t.registry(m.Tree); purl != "" {
			e.emit(upstream.Registry, upstream.Text(purl), t.registryCertainty)
		}
	}
	return e.out
}

// Kinds returns the manifest labels the extractor understands.
func Kinds() []string { return slices.Clone(tableOrder) }

// tableFor resolves a label to its table. debian/upstream/metadata
// matches exactly; other manifests match by base name so nested packages
// ("crates/core/Cargo.toml") are read too.
func tableFor(label string) (table, bool) {
	if t, ok := tables[label]; ok {
		return t, true
	}
	t, ok := tables[path.Base(label)]
	return t, ok
}

// =============================================================================
// Rules
// =============================================================================

type rule struct {
	path      string
	field     upstream.Field
	certainty upstream.Certainty
	// value converts the raw tree value; nil converts by field kind.
	value func(any) (upstream.Value, bool)
}

type table struct {
	rules             []rule
	custom            func(tree map[string]any, e *emitter)
	registry          func(tree map[string]any) string
	registryCertainty upstream.Certainty
}

type emitter struct {
	origin upstream.Origin
	out    []upstream.Guess
}

func (e *emitter) emit(f upstream.Field, v upstream.Value, c upstream.Certainty) {
	if v == nil || v.Empty() {
		return
	}
	e.out = append(e.out, upstream.MustGuess(f, v, c, e.origin, ""))
}

func (e *emitter) text(f upstream.Field, s string, c upstream.Certainty) {
	e.emit(f, upstream.Text(s), c)
}

// lookup walks a dotted key path through nested maps.
func lookup(tree map[string]any, keyPath string) (any, bool) {
	var cur any = tree
	for _, k := range strings.Split(keyPath, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[k]; !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

func str(tree map[string]any, keyPath string) string {
	v, _ := lookup(tree, keyPath)
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func byKind(f upstream.Field) func(any) (upstream.Value, bool) {
	switch f.Kind() {
	case upstream.KindList:
		return asList
	case upstream.KindVCS:
		return asVCS
	}
	return asText
}

func asText(v any) (upstream.Value, bool) {
	s, ok := v.(string)
	return upstream.Text(s), ok
}

// asList accepts a list of strings or person tables, or a single
// comma-separated string.
func asList(v any) (upstream.Value, bool) {
	switch t := v.(type) {
	case string:
		return upstream.NewList(strings.Split(t, ",")...), true
	case []any:
		var items []string
		for _, it := range t {
			if s, ok := person(it); ok {
				items = append(items, s)
			}
		}
		return upstream.NewList(items...), len(items) > 0
	}
	return nil, false
}

// asVCS accepts a URL string, a table with url, directory and branch, or
// the two-element CVS list of a CVSROOT and a module.
func asVCS(v any) (upstream.Value, bool) {
	switch t := v.(type) {
	case string:
		return upstream.VCS{URL: t}, true
	case []any:
		var items []string
		for _, it := range t {
			s, ok := it.(string)
			if !ok {
				return nil, false
			}
			items = append(items, s)
		}
		u, ok := normalize.CVSList(items)
		return upstream.VCS{URL: u}, ok
	case map[string]any:
		u, _ := t["url"].(string)
		dir, _ := t["directory"].(string)
		branch, _ := t["branch"].(string)
		return upstream.VCS{URL: u, Subpath: dir, Branch: branch}, u != ""
	}
	return nil, false
}

// asPerson renders a person string or table as text.
func asPerson(v any) (upstream.Value, bool) {
	s, ok := person(v)
	return upstream.Text(s), ok
}

// asPeople joins a list of persons into one text value.
func asPeople(v any) (upstream.Value, bool) {
	l, ok := asList(v)
	if !ok {
		return nil, false
	}
	return upstream.Text(strings.Join(l.(upstream.List).Items(), ", ")), true
}

// asFirstURL takes a URL string, a table with a url key, or the first
// such element of a list.
func asFirstURL(v any) (upstream.Value, bool) {
	switch t := v.(type) {
	case string:
		return upstream.Text(t), true
	case map[string]any:
		u, ok := t["url"].(string)
		return upstream.Text(u), ok
	case []any:
		for _, it := range t {
			if val, ok := asFirstURL(it); ok {
				return val, true
			}
		}
	}
	return nil, false
}

// person renders "Name <email>" from a string or a name/email table.
func person(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, strings.TrimSpace(t) != ""
	case map[string]any:
		name, _ := t["name"].(string)
		email, _ := t["email"].(string)
		name, email = strings.TrimSpace(name), strings.TrimSpace(email)
		switch {
		case name != "" && email != "":
			return name + " <" + email + ">", true
		case name != "":
			return name, true
		case email != "":
			return email, true
		}
	}
	return "", false
}
