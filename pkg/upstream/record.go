package upstream

import (
	"bytes"
	"encoding/json"
	"iter"
	"slices"
)

// Entry is the chosen value for one field of a [Record], together with
// the provenance of the winning guess and the alternatives it beat.
type Entry struct {
	Field     Field     `json:"-"`
	Value     Value     `json:"value"`
	Certainty Certainty `json:"certainty"`
	Origin    Origin    `json:"origin"`
	Note      string    `json:"note,omitempty"`
	Discarded []Guess   `json:"discarded,omitempty"`
}

// Guess returns the entry as a guess, dropping the discarded list.
func (e Entry) Guess() Guess {
	return Guess{field: e.Field, value: e.Value, certainty: e.Certainty, origin: e.Origin, note: e.Note}
}

// Record maps fields to their reconciled entries. A field missing from the
// record means no evidence survived for it. Records are read-only once
// built.
type Record struct {
	entries [fieldCount]*Entry
	n       int
}

// NewRecord builds a record from entries. Entries with an invalid field
// or nil value are ignored; a later entry for the same field replaces an
// earlier one.
func NewRecord(entries ...Entry) *Record {
	r := &Record{}
	for _, e := range entries {
		if !e.Field.Valid() || e.Value == nil {
			continue
		}
		e.Discarded = slices.Clone(e.Discarded)
		if r.entries[e.Field] == nil {
			r.n++
		}
		r.entries[e.Field] = &e
	}
	return r
}

// Get returns the entry for f.
func (r *Record) Get(f Field) (Entry, bool) {
	if r == nil || !f.Valid() || r.entries[f] == nil {
		return Entry{}, false
	}
	e := *r.entries[f]
	e.Discarded = slices.Clone(e.Discarded)
	return e, true
}

// Has reports whether the record holds a value for f.
func (r *Record) Has(f Field) bool {
	_, ok := r.Get(f)
	return ok
}

// Value returns the chosen value for f, or nil.
func (r *Record) Value(f Field) Value {
	e, ok := r.Get(f)
	if !ok {
		return nil
	}
	return e.Value
}

// Text returns the chosen value for f as a string, or "" when absent.
// VCS values yield their URL and lists their comma-joined form.
func (r *Record) Text(f Field) string {
	switch v := r.Value(f).(type) {
	case nil:
		return ""
	case VCS:
		return v.URL
	default:
		return v.String()
	}
}

// Certainty returns the certainty of the chosen value for f, or Unknown.
func (r *Record) Certainty(f Field) Certainty {
	e, _ := r.Get(f)
	return e.Certainty
}

// Origin returns the origin of the chosen value for f.
func (r *Record) Origin(f Field) Origin {
	e, _ := r.Get(f)
	return e.Origin
}

// Len returns the number of fields present.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return r.n
}

// Fields returns the present fields in canonical order.
func (r *Record) Fields() []Field {
	var out []Field
	for f := range r.All() {
		out = append(out, f)
	}
	return out
}

// All iterates the present entries in canonical field order.
func (r *Record) All() iter.Seq2[Field, Entry] {
	return func(yield func(Field, Entry) bool) {
		if r == nil {
			return
		}
		for f := Name; f < fieldCount; f++ {
			e, ok := r.Get(f)
			if !ok {
				continue
			}
			if !yield(f, e) {
				return
			}
		}
	}
}

// Guesses returns the chosen value of every field as a guess, in canonical
// order. It is the inverse of reconciling a record's own output.
func (r *Record) Guesses() []Guess {
	var out []Guess
	for _, e := range r.All() {
		out = append(out, e.Guess())
	}
	return out
}

// MarshalJSON encodes the record as an object keyed by canonical field
// name, in canonical field order. Identical records encode to identical
// bytes.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for f, e := range r.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, _ := json.Marshal(f.String())
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (r *Record) UnmarshalJSON(b []byte) error {
	var doc map[string]struct {
		Value     json.RawMessage `json:"value"`
		Certainty Certainty       `json:"certainty"`
		Origin    Origin          `json:"origin"`
		Note      string          `json:"note"`
		Discarded []Guess         `json:"discarded"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	entries := make([]Entry, 0, len(doc))
	for name, d := range doc {
		f, err := ParseField(name)
		if err != nil {
			return err
		}
		v, err := decodeValue(f, d.Value)
		if err != nil {
			return err
		}
		g, err := NewGuess(f, v, d.Certainty, d.Origin, d.Note)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{
			Field:     f,
			Value:     g.value,
			Certainty: g.certainty,
			Origin:    g.origin,
			Note:      g.note,
			Discarded: d.Discarded,
		})
	}
	*r = *NewRecord(entries...)
	return nil
}
