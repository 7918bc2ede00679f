// Package reconcile folds a bag of guesses into one [upstream.Record].
//
// Each field is resolved independently:
//
//  1. every guess is normalized (inputs are not modified); guesses whose
//     normalized value is empty or known to be bad are dropped;
//  2. the highest certainty present wins;
//  3. among those, the highest origin-class priority wins;
//  4. remaining ties are broken by the fixed origin label order, then the
//     label itself, then the value key.
//
// Guesses with identical normalized values count as one candidate. Every
// other distinct value is kept in the entry's Discarded list and
// summarized in its Note. The result does not depend on input order.
package reconcile

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/upstreamer/pkg/normalize"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// Reconcile resolves guesses into a record holding at most one value per
// field. Every value in the record is the normalized value of some input
// guess.
func Reconcile(guesses []upstream.Guess) *upstream.Record {
	byField := make(map[upstream.Field][]upstream.Guess)
	for _, g := range guesses {
		if g.IsZero() {
			continue
		}
		n := normalize.Guess(g)
		if n.Value().Empty() || KnownBad(n) {
			continue
		}
		byField[n.Field()] = append(byField[n.Field()], n)
	}

	var entries []upstream.Entry
	for _, f := range upstream.Fields() {
		if cands := byField[f]; len(cands) > 0 {
			entries = append(entries, resolve(f, cands))
		}
	}
	return upstream.NewRecord(entries...)
}

// resolve picks the winner among the normalized candidates for one field.
func resolve(f upstream.Field, cands []upstream.Guess) upstream.Entry {
	slices.SortFunc(cands, compare)
	win := cands[0]

	seen := map[string]bool{win.Value().Key(): true}
	var discarded []upstream.Guess
	for _, g := range cands[1:] {
		k := g.Value().Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		discarded = append(discarded, g)
	}

	return upstream.Entry{
		Field:     f,
		Value:     win.Value(),
		Certainty: win.Certainty(),
		Origin:    win.Origin(),
		Note:      summarize(win.Note(), discarded),
		Discarded: discarded,
	}
}

// compare orders guesses best first. It is a total order over everything
// that distinguishes two guesses, which makes the winner independent of
// input order.
func compare(a, b upstream.Guess) int {
	if c := cmp.Compare(b.Certainty(), a.Certainty()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Origin().Class.Priority(), a.Origin().Class.Priority()); c != 0 {
		return c
	}
	ra, _ := upstream.LabelRank(a.Origin().Label)
	rb, _ := upstream.LabelRank(b.Origin().Label)
	if c := cmp.Compare(ra, rb); c != 0 {
		return c
	}
	if c := strings.Compare(a.Origin().Label, b.Origin().Label); c != 0 {
		return c
	}
	if c := strings.Compare(a.Value().Key(), b.Value().Key()); c != 0 {
		return c
	}
	return strings.Compare(a.Note(), b.Note())
}

func summarize(note string, discarded []upstream.Guess) string {
	if len(discarded) == 0 {
		return note
	}
	parts := make([]string, len(discarded))
	for i, g := range discarded {
		parts[i] = g.Value().String() + " (" + g.Origin().String() + ")"
	}
	s := "discarded: " + strings.Join(parts, "; ")
	if note != "" {
		s = note + "; " + s
	}
	return s
}

// FilterMinimum returns a record without the entries below min.
func FilterMinimum(r *upstream.Record, min upstream.Certainty) *upstream.Record {
	var kept []upstream.Entry
	for _, e := range r.All() {
		if e.Certainty >= min {
			kept = append(kept, e)
		}
	}
	return upstream.NewRecord(kept...)
}
