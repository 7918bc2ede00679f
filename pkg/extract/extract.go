package extract

import (
	"sync"

	"github.com/matzehuels/upstreamer/pkg/reconcile"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// Stage orders extractors into the two passes of [Run].
type Stage int

const (
	// Primary extractors read structured artifacts and need no context
	// beyond the caller's seed.
	Primary Stage = iota
	// Secondary extractors use the context built from primary results.
	Secondary
)

// Extractor turns one artifact into guesses.
//
// Implementations live in subpackages (manifest, changelog, watch, readme,
// buildrules, derived). They are pure: no I/O, no shared mutable state, no
// clock. A malformed unit inside an artifact is skipped; the rest of the
// artifact still yields guesses.
type Extractor interface {
	// Name identifies the extractor in logs and configuration, for
	// example "manifest" or "readme".
	Name() string

	// Stage reports which pass of Run the extractor belongs to.
	Stage() Stage

	// Supports reports whether the extractor reads a.
	Supports(a Artifact) bool

	// Extract returns the guesses found in a. ctx is read-only.
	Extract(a Artifact, ctx upstream.Context) []upstream.Guess
}

// Deriver is implemented by secondary extractors that produce guesses from
// the context alone, without an artifact. Run calls Derive once per run.
type Deriver interface {
	Derive(ctx upstream.Context) []upstream.Guess
}

// Run dispatches every artifact in set to every extractor that supports
// it, in two stages.
//
// Primary extractors run with seed as their context. Their guesses are
// then reconciled and the chosen Name, Homepage and Repository refine the
// seed into the context for secondary extractors. Within a stage, pairs
// run concurrently; results are concatenated in artifact, then extractor
// order.
func Run(extractors []Extractor, set Set, seed upstream.Context) []upstream.Guess {
	primary, secondary := Split(extractors)
	first := runStage(primary, set, seed)
	ctx := seed.Refine(reconcile.Reconcile(first))
	second := runStage(secondary, set, ctx)
	return append(first, second...)
}

// Context returns the context secondary extractors would see for set.
func Context(extractors []Extractor, set Set, seed upstream.Context) upstream.Context {
	primary, _ := Split(extractors)
	return seed.Refine(reconcile.Reconcile(runStage(primary, set, seed)))
}

// Split partitions extractors by stage, keeping their order.
func Split(extractors []Extractor) (primary, secondary []Extractor) {
	for _, ex := range extractors {
		if ex.Stage() == Primary {
			primary = append(primary, ex)
		} else {
			secondary = append(secondary, ex)
		}
	}
	return primary, secondary
}

// Apply runs the extractors that support a, in order, ignoring their
// stage. Callers that schedule artifacts themselves use it together with
// [Derive] to reproduce one stage of [Run].
func Apply(extractors []Extractor, a Artifact, ctx upstream.Context) []upstream.Guess {
	var out []upstream.Guess
	for _, ex := range extractors {
		if ex.Supports(a) {
			out = append(out, ex.Extract(a, ctx)...)
		}
	}
	return out
}

// Derive collects the guesses of every [Deriver] in extractors.
func Derive(extractors []Extractor, ctx upstream.Context) []upstream.Guess {
	var out []upstream.Guess
	for _, ex := range extractors {
		if d, ok := ex.(Deriver); ok {
			out = append(out, d.Derive(ctx)...)
		}
	}
	return out
}

type job struct {
	ex Extractor
	a  Artifact
}

func runStage(extractors []Extractor, set Set, ctx upstream.Context) []upstream.Guess {
	var jobs []job
	for _, a := range set {
		for _, ex := range extractors {
			if ex.Supports(a) {
				jobs = append(jobs, job{ex: ex, a: a})
			}
		}
	}
	for _, ex := range extractors {
		if _, ok := ex.(Deriver); ok {
			jobs = append(jobs, job{ex: ex})
		}
	}

	results := make([][]upstream.Guess, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if j.a == nil {
				results[i] = j.ex.(Deriver).Derive(ctx)
				return
			}
			results[i] = j.ex.Extract(j.a, ctx)
		}()
	}
	wg.Wait()

	var out []upstream.Guess
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

// Filter returns the extractors whose name is not in disabled.
func Filter(extractors []Extractor, disabled []string) []Extractor {
	if len(disabled) == 0 {
		return extractors
	}
	skip := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		skip[name] = true
	}
	var out []Extractor
	for _, ex := range extractors {
		if !skip[ex.Name()] {
			out = append(out, ex)
		}
	}
	return out
}
