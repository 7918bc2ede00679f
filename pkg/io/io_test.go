package io

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/upstreamer/pkg/errors"
	"github.com/matzehuels/upstreamer/pkg/extract"
)

func sampleSet() extract.Set {
	return extract.Set{
		extract.Manifest{Name: "Cargo.toml", Tree: map[string]any{"package": map[string]any{"name": "demo"}}},
		extract.Changelog{Name: "debian/changelog", Format: extract.FormatDebian, Entries: []extract.ChangelogEntry{
			{Version: "1.0-1", Author: "Jane <jane@example.org>"},
		}},
		extract.Watch{Name: "debian/watch", Rules: []extract.WatchRule{{URL: "https://github.com/o/r/tags", Match: ".*"}}},
		extract.Document{Name: "README.md", Text: "# demo", Links: []extract.Link{{Text: "ci", Target: "https://ci.example.org", Image: true}}},
		extract.BuildRules{Name: "meson.build", Text: "project('demo')"},
	}
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sampleSet(), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !reflect.DeepEqual(got, sampleSet()) {
		t.Errorf("round trip =\n%#v\nwant\n%#v", got, sampleSet())
	}
}

func TestExportImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifacts.json")
	if err := ExportJSON(sampleSet(), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(got) != 5 || got[4].Kind() != extract.KindBuildRules {
		t.Errorf("ImportJSON = %v", got.Labels())
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"malformed", `{"artifacts": [`, errors.ErrCodeInvalidFormat},
		{"unknown kind", `{"artifacts": [{"kind": "tarball", "name": "x"}]}`, errors.ErrCodeInvalidArtifact},
		{"missing name", `{"artifacts": [{"kind": "watch"}]}`, errors.ErrCodeInvalidArtifact},
		{"absolute name", `{"artifacts": [{"kind": "watch", "name": "/etc/passwd"}]}`, errors.ErrCodeInvalidArtifact},
		{"traversal", `{"artifacts": [{"kind": "watch", "name": "../debian/watch"}]}`, errors.ErrCodeInvalidArtifact},
		{"bad format", `{"artifacts": [{"kind": "changelog", "name": "c", "format": "rpm"}]}`, errors.ErrCodeInvalidArtifact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestEmptyManifestTree(t *testing.T) {
	set, err := ReadJSON(strings.NewReader(`{"artifacts": [{"kind": "manifest", "name": "package.json"}]}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if m := set[0].(extract.Manifest); m.Tree == nil {
		t.Error("tree should default to an empty map")
	}
}

func TestMarshalArtifactIsStable(t *testing.T) {
	a := extract.Manifest{Name: "package.json", Tree: map[string]any{"b": "2", "a": "1", "c": []any{"x"}}}
	first, err := MarshalArtifact(a)
	if err != nil {
		t.Fatal(err)
	}
	for range 10 {
		again, _ := MarshalArtifact(a)
		if !bytes.Equal(first, again) {
			t.Fatalf("MarshalArtifact not stable: %s vs %s", first, again)
		}
	}
	if !strings.HasPrefix(string(first), `{"kind":"manifest","name":"package.json"`) {
		t.Errorf("MarshalArtifact = %s", first)
	}
}
