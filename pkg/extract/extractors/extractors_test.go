package extractors

import (
	"encoding/json"
	"math/rand"
	"slices"
	"testing"

	"github.com/matzehuels/upstreamer/pkg/extract"
	"github.com/matzehuels/upstreamer/pkg/reconcile"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

func project() extract.Set {
	return extract.Set{
		extract.Manifest{Name: "Cargo.toml", Tree: map[string]any{
			"package": map[string]any{
				"name":       "demo",
				"version":    "0.4.0",
				"license":    "MIT",
				"repository": "https://github.com/o/demo",
			},
		}},
		extract.Changelog{Name: "debian/changelog", Format: extract.FormatDebian, Entries: []extract.ChangelogEntry{
			{Version: "0.4.1-1", Author: "Jane Doe <jane@example.org>"},
		}},
		extract.Watch{Name: "debian/watch", Rules: []extract.WatchRule{
			{URL: "https://github.com/o/demo/tags", Match: `.*/v?(\d\S+)\.tar\.gz`},
		}},
		extract.Document{Name: "README.md", Text: "# demo\n\nA demo tool.\n\nHomepage: https://demo.example.org\n",
			Links: []extract.Link{{Text: "docs", Target: "docs/index.md"}}},
	}
}

func TestRunEndToEnd(t *testing.T) {
	rec := reconcile.Reconcile(Run(project(), upstream.Context{}))

	tests := []struct {
		field     upstream.Field
		value     string
		certainty upstream.Certainty
	}{
		{upstream.Name, "demo", upstream.Confident},
		{upstream.Version, "0.4.1", upstream.Certain},
		{upstream.Homepage, "https://demo.example.org", upstream.Confident},
		{upstream.Repository, "https://github.com/o/demo", upstream.Confident},
		{upstream.BugDatabase, "https://github.com/o/demo/issues", upstream.Likely},
		{upstream.Contact, "Jane Doe <jane@example.org>", upstream.Likely},
		{upstream.License, "MIT", upstream.Confident},
		{upstream.Summary, "A demo tool", upstream.Possible},
	}
	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			if got := rec.Text(tt.field); got != tt.value {
				t.Errorf("value = %q, want %q", got, tt.value)
			}
			if got := rec.Certainty(tt.field); got != tt.certainty {
				t.Errorf("certainty = %v, want %v", got, tt.certainty)
			}
		})
	}
}

func TestRunDeterministic(t *testing.T) {
	want, err := json.Marshal(reconcile.Reconcile(Run(project(), upstream.Context{})))
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(7))
	for range 20 {
		set := project()
		rng.Shuffle(len(set), func(i, j int) { set[i], set[j] = set[j], set[i] })
		got, err := json.Marshal(reconcile.Reconcile(Run(set, upstream.Context{})))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != string(want) {
			t.Fatalf("record differs after reordering artifacts:\n got %s\nwant %s", got, want)
		}
	}
}

func TestRunDisabled(t *testing.T) {
	guesses := Run(project(), upstream.Context{}, "readme", "derived")
	for _, g := range guesses {
		if g.Origin().Class == upstream.ClassReadme || g.Origin().Class == upstream.ClassDerived {
			t.Errorf("disabled extractor produced %v", g)
		}
	}
}

func TestNames(t *testing.T) {
	want := []string{"manifest", "changelog", "watch", "buildrules", "readme", "derived"}
	if got := Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
