package extract

import (
	"slices"
	"testing"

	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// fake emits one guess per supported artifact and records the context it
// was given.
type fake struct {
	name  string
	stage Stage
	kind  ArtifactKind
	field upstream.Field
	value string
	seen  *upstream.Context
}

func (f fake) Name() string             { return f.name }
func (f fake) Stage() Stage             { return f.stage }
func (f fake) Supports(a Artifact) bool { return a.Kind() == f.kind }

func (f fake) Extract(a Artifact, ctx upstream.Context) []upstream.Guess {
	if f.seen != nil {
		*f.seen = ctx
	}
	return []upstream.Guess{upstream.MustGuess(f.field, upstream.Text(f.value), upstream.Confident,
		upstream.Origin{Class: upstream.ClassManifest, Label: a.Label()}, "")}
}

type fakeDeriver struct {
	fake
}

func (f fakeDeriver) Derive(ctx upstream.Context) []upstream.Guess {
	if f.seen != nil {
		*f.seen = ctx
	}
	return []upstream.Guess{upstream.MustGuess(f.field, upstream.Text(f.value), upstream.Possible,
		upstream.Origin{Class: upstream.ClassDerived, Label: upstream.LabelForge}, "")}
}

func TestRunStages(t *testing.T) {
	var secondaryCtx, deriveCtx upstream.Context
	exs := []Extractor{
		fake{name: "names", stage: Primary, kind: KindManifest, field: upstream.Name, value: "demo"},
		fake{name: "docs", stage: Secondary, kind: KindDocument, field: upstream.Summary, value: "A demo.", seen: &secondaryCtx},
		fakeDeriver{fake{name: "derive", stage: Secondary, field: upstream.Wiki, value: "https://wiki.example.org", seen: &deriveCtx}},
	}
	set := Set{
		Document{Name: "README.md"},
		Manifest{Name: "Cargo.toml"},
		Watch{Name: "debian/watch"},
	}
	seed := upstream.Context{Homepage: "https://seed.example.org"}

	got := Run(exs, set, seed)
	var fields []upstream.Field
	for _, g := range got {
		fields = append(fields, g.Field())
	}
	want := []upstream.Field{upstream.Name, upstream.Summary, upstream.Wiki}
	if !slices.Equal(fields, want) {
		t.Errorf("fields = %v, want %v", fields, want)
	}
	if secondaryCtx.Name != "demo" || secondaryCtx.Homepage != "https://seed.example.org" {
		t.Errorf("secondary context = %+v, want refined name and seed homepage", secondaryCtx)
	}
	if deriveCtx.Name != "demo" {
		t.Errorf("derive context = %+v", deriveCtx)
	}
}

func TestRunOrderIsStable(t *testing.T) {
	exs := []Extractor{
		fake{name: "a", stage: Primary, kind: KindManifest, field: upstream.Name, value: "a"},
		fake{name: "b", stage: Primary, kind: KindManifest, field: upstream.Version, value: "1.0"},
	}
	set := Set{Manifest{Name: "one"}, Manifest{Name: "two"}}
	for range 20 {
		got := Run(exs, set, upstream.Context{})
		var labels []string
		for _, g := range got {
			labels = append(labels, g.Origin().Label+"/"+g.Field().String())
		}
		want := []string{"one/Name", "one/Version", "two/Name", "two/Version"}
		if !slices.Equal(labels, want) {
			t.Fatalf("order = %v, want %v", labels, want)
		}
	}
}

func TestRunEmpty(t *testing.T) {
	if got := Run(nil, nil, upstream.Context{}); len(got) != 0 {
		t.Errorf("Run(nil) = %v", got)
	}
}

func TestFilter(t *testing.T) {
	exs := []Extractor{fake{name: "a"}, fake{name: "b"}, fake{name: "c"}}
	got := Filter(exs, []string{"b", "missing"})
	if len(got) != 2 || got[0].Name() != "a" || got[1].Name() != "c" {
		t.Errorf("Filter() = %v", got)
	}
	if len(Filter(exs, nil)) != 3 {
		t.Error("Filter(nil) should keep every extractor")
	}
}

func TestContext(t *testing.T) {
	exs := []Extractor{
		fake{name: "names", stage: Primary, kind: KindManifest, field: upstream.Name, value: "demo"},
	}
	ctx := Context(exs, Set{Manifest{Name: "Cargo.toml"}}, upstream.Context{Name: "seed"})
	if ctx.Name != "demo" {
		t.Errorf("Context().Name = %q, want demo", ctx.Name)
	}
}

func TestSetLabels(t *testing.T) {
	set := Set{Manifest{Name: "Cargo.toml"}, Changelog{Name: "NEWS.md"}}
	if got := set.Labels(); !slices.Equal(got, []string{"Cargo.toml", "NEWS.md"}) {
		t.Errorf("Labels() = %v", got)
	}
}

func TestSplitApplyDerive(t *testing.T) {
	exs := []Extractor{
		fake{name: "m", stage: Primary, kind: KindManifest, field: upstream.Name, value: "demo"},
		fake{name: "d", stage: Secondary, kind: KindDocument, field: upstream.Summary, value: "Demo"},
		fake{name: "m2", stage: Primary, kind: KindManifest, field: upstream.Version, value: "1.0"},
		fakeDeriver{fake{name: "x", stage: Secondary, field: upstream.Wiki, value: "https://wiki.example.org"}},
	}
	primary, secondary := Split(exs)
	if len(primary) != 2 || len(secondary) != 2 || primary[1].Name() != "m2" {
		t.Fatalf("Split = %d primary, %d secondary", len(primary), len(secondary))
	}

	got := Apply(exs, Manifest{Name: "Cargo.toml"}, upstream.Context{})
	if len(got) != 2 || got[0].Field() != upstream.Name || got[1].Field() != upstream.Version {
		t.Errorf("Apply = %v, want name then version", got)
	}
	if got := Apply(primary, Watch{Name: "debian/watch"}, upstream.Context{}); len(got) != 0 {
		t.Errorf("Apply on unsupported artifact = %v", got)
	}
	if got := Derive(exs, upstream.Context{}); len(got) != 1 || got[0].Field() != upstream.Wiki {
		t.Errorf("Derive = %v", got)
	}
}
