package changelog

import (
	"testing"

	"github.com/matzehuels/upstreamer/pkg/extract"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

func TestUpstreamVersion(t *testing.T) {
	tests := []struct {
		in     string
		format extract.ChangelogFormat
		want   string
		ok     bool
	}{
		{"1.2.3", extract.FormatGeneric, "1.2.3", true},
		{"[1.2.3]", extract.FormatGeneric, "1.2.3", true},
		{"v2.0.0", extract.FormatGeneric, "v2.0.0", true},
		{"Unreleased", extract.FormatGeneric, "", false},
		{"UNRELEASED", extract.FormatGeneric, "", false},
		{"", extract.FormatGeneric, "", false},
		{"next", extract.FormatGeneric, "", false},
		{"1.0 beta garbage", extract.FormatGeneric, "", false},
		{"2.10-1", extract.FormatDebian, "2.10", true},
		{"1:2.10-3ubuntu1", extract.FormatDebian, "2.10", true},
		{"1.4+dfsg-2", extract.FormatDebian, "1.4", true},
		{"0.9~ds1-1", extract.FormatDebian, "0.9", true},
		{"3.1+dfsg.1-1", extract.FormatDebian, "3.1", true},
		{"1.0", extract.FormatDebian, "1.0", true},
		{"1.0-rc1-2", extract.FormatDebian, "1.0-rc1", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := UpstreamVersion(tt.in, tt.format)
			if got != tt.want || ok != tt.ok {
				t.Errorf("UpstreamVersion(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func run(c extract.Changelog) map[upstream.Field]upstream.Guess {
	out := make(map[upstream.Field]upstream.Guess)
	for _, g := range New().Extract(c, upstream.Context{}) {
		out[g.Field()] = g
	}
	return out
}

func TestNewestEntry(t *testing.T) {
	got := run(extract.Changelog{
		Name:   "debian/changelog",
		Format: extract.FormatDebian,
		Entries: []extract.ChangelogEntry{
			{Version: "2.1-1", Author: "Jane Doe <jane@example.org>"},
			{Version: "2.0-1", Author: "John Roe <john@example.org>"},
		},
	})
	if v := got[upstream.Version]; v.Value().String() != "2.1" || v.Certainty() != upstream.Certain {
		t.Errorf("Version = %v, want 2.1 at certain", v)
	}
	if c := got[upstream.Contact]; c.Value().String() != "Jane Doe <jane@example.org>" || c.Certainty() != upstream.Likely {
		t.Errorf("Contact = %v, want Jane at likely", c)
	}
	if o := got[upstream.Version].Origin(); o.Class != upstream.ClassChangelog || o.Label != "debian/changelog" {
		t.Errorf("origin = %v", o)
	}
}

func TestMalformedNewestEntry(t *testing.T) {
	got := run(extract.Changelog{
		Name: "CHANGELOG.md",
		Entries: []extract.ChangelogEntry{
			{Version: "Unreleased"},
			{Version: "not a version"},
			{Version: "1.4.0", Author: "Jane"},
			{Version: "1.3.0", Author: "John"},
		},
	})
	if v := got[upstream.Version]; v.Value().String() != "1.4.0" || v.Certainty() != upstream.Likely {
		t.Errorf("Version = %v, want 1.4.0 at likely", v)
	}
	if c := got[upstream.Contact]; c.Value().String() != "Jane" || c.Certainty() != upstream.Possible {
		t.Errorf("Contact = %v, want Jane at possible", c)
	}
}

func TestNoUsableEntries(t *testing.T) {
	got := run(extract.Changelog{
		Name:    "NEWS.md",
		Entries: []extract.ChangelogEntry{{Version: ""}, {Version: "TBD"}},
	})
	if len(got) != 0 {
		t.Errorf("got %v, want no guesses", got)
	}
	if len(New().Extract(extract.Changelog{Name: "NEWS.md"}, upstream.Context{})) != 0 {
		t.Error("empty changelog should yield nothing")
	}
}

func TestSupports(t *testing.T) {
	if !New().Supports(extract.Changelog{}) || New().Supports(extract.Watch{}) {
		t.Error("Supports should accept changelogs only")
	}
}
