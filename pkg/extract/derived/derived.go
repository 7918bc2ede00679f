// Package derived fills in URLs that follow from a repository's forge
// conventions: the issue tracker, the new-issue page, the web view and a
// fallback homepage.
//
// It reads no artifact. It runs once per extraction in the secondary stage
// and sees the Repository and Homepage chosen from the primary guesses.
// Its guesses carry the "derived" origin class, which loses every tie
// against a guess read from a project file.
package derived

import (
	"github.com/matzehuels/upstreamer/pkg/extract"
	"github.com/matzehuels/upstreamer/pkg/forge"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

var origin = upstream.Origin{Class: upstream.ClassDerived, Label: upstream.LabelForge}

// Extractor derives guesses from the extraction context.
type Extractor struct{}

// New returns the forge-derived extractor.
func New() Extractor { return Extractor{} }

func (Extractor) Name() string         { return "derived" }
func (Extractor) Stage() extract.Stage { return extract.Secondary }

// Supports is always false; see [Extractor.Derive].
func (Extractor) Supports(extract.Artifact) bool { return false }

func (Extractor) Extract(extract.Artifact, upstream.Context) []upstream.Guess { return nil }

// Derive returns guesses implied by ctx. A repository on a code forge
// gives Bug-Database, Bug-Submit and Repository-Browse at "likely" and,
// when no homepage is known, the repository page as a "possible"
// Homepage. Without a repository, a homepage on a code forge is taken as
// a "possible" Repository. A Launchpad project page gives its bug tracker.
func (Extractor) Derive(ctx upstream.Context) []upstream.Guess {
	var out []upstream.Guess
	add := func(f upstream.Field, v string, c upstream.Certainty, note string) {
		if v == "" {
			return
		}
		var val upstream.Value = upstream.Text(v)
		if f.Kind() == upstream.KindVCS {
			val = upstream.VCS{URL: v}
		}
		out = append(out, upstream.MustGuess(f, val, c, origin, note))
	}

	repo, ok := forge.Repo{}, false
	if ctx.HasRepository() {
		repo, ok = forge.Parse(ctx.Repository.URL)
	}
	if !ok || !repo.IsCode() {
		home, homeOK := forge.Parse(ctx.Homepage)
		switch {
		case homeOK && home.IsCode() && !ctx.HasRepository():
			repo, ok = home, true
			add(upstream.Repository, home.URL(), upstream.Possible, "homepage is on "+home.Kind.String())
		case homeOK && home.Kind == forge.Launchpad:
			add(upstream.BugDatabase, home.BugDatabase(), upstream.Possible, "launchpad project")
			add(upstream.BugSubmit, home.BugSubmit(), upstream.Possible, "launchpad project")
			return out
		}
	}
	if !ok || !repo.IsCode() {
		return out
	}

	note := "from " + repo.Kind.String() + " repository"
	add(upstream.BugDatabase, repo.BugDatabase(), upstream.Likely, note)
	add(upstream.BugSubmit, repo.BugSubmit(), upstream.Likely, note)
	add(upstream.RepositoryBrowse, repo.URL(), upstream.Likely, note)
	if ctx.Homepage == "" {
		add(upstream.Homepage, repo.URL(), upstream.Possible, note)
	}
	return out
}
