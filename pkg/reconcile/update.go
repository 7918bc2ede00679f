package reconcile

import (
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// Change describes one field that [Update] added or changed.
type Change struct {
	Field     upstream.Field     `json:"field"`
	Old       upstream.Value     `json:"old,omitempty"`
	New       upstream.Value     `json:"new"`
	Certainty upstream.Certainty `json:"certainty"`
	Origin    upstream.Origin    `json:"origin"`
}

// Added reports whether the field was absent from the base record.
func (c Change) Added() bool { return c.Old == nil }

// Update reconciles the entries of base, including their discarded
// alternatives, together with new guesses. Since base entries compete
// with their own certainty, a base value is never replaced by a guess of
// lower certainty. The returned changes list fields whose value was added
// or changed, in canonical field order.
func Update(base *upstream.Record, guesses []upstream.Guess) (*upstream.Record, []Change) {
	var all []upstream.Guess
	for _, e := range base.All() {
		all = append(all, e.Guess().WithNote(""))
		all = append(all, e.Discarded...)
	}
	all = append(all, guesses...)

	rec := Reconcile(all)
	var changes []Change
	for f, e := range rec.All() {
		old := base.Value(f)
		if old != nil && old.Key() == e.Value.Key() {
			continue
		}
		changes = append(changes, Change{
			Field:     f,
			Old:       old,
			New:       e.Value,
			Certainty: e.Certainty,
			Origin:    e.Origin,
		})
	}
	return rec, changes
}
