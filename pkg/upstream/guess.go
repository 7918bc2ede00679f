package upstream

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/upstreamer/pkg/errors"
)

// Guess is one signal about one field. The zero Guess is invalid; build
// guesses with [NewGuess] or [MustGuess].
type Guess struct {
	field     Field
	value     Value
	certainty Certainty
	origin    Origin
	note      string
}

// NewGuess validates and builds a guess. It fails with
// [errors.ErrCodeInvalidGuess] when the field or certainty is outside the
// closed sets, the value is nil, or the value kind does not match the field.
func NewGuess(field Field, value Value, certainty Certainty, origin Origin, note string) (Guess, error) {
	if !field.Valid() {
		return Guess{}, errors.New(errors.ErrCodeInvalidGuess, "invalid field %d", int(field))
	}
	if !certainty.Valid() {
		return Guess{}, errors.New(errors.ErrCodeInvalidGuess, "invalid certainty %d for %s", int(certainty), field)
	}
	if value == nil {
		return Guess{}, errors.New(errors.ErrCodeInvalidGuess, "nil value for %s", field)
	}
	if value.Kind() != field.Kind() {
		return Guess{}, errors.New(errors.ErrCodeInvalidGuess,
			"%s carries %s values, got %s", field, field.Kind(), value.Kind())
	}
	if !origin.Class.Valid() {
		return Guess{}, errors.New(errors.ErrCodeInvalidGuess, "invalid origin class for %s", field)
	}
	if l, ok := value.(List); ok {
		value = NewList(l.items...)
	}
	return Guess{field: field, value: value, certainty: certainty, origin: origin, note: note}, nil
}

// MustGuess is like [NewGuess] but panics on invalid input.
func MustGuess(field Field, value Value, certainty Certainty, origin Origin, note string) Guess {
	g, err := NewGuess(field, value, certainty, origin, note)
	if err != nil {
		panic(err)
	}
	return g
}

func (g Guess) Field() Field         { return g.field }
func (g Guess) Value() Value         { return g.value }
func (g Guess) Certainty() Certainty { return g.certainty }
func (g Guess) Origin() Origin       { return g.origin }
func (g Guess) Note() string         { return g.note }

// IsZero reports whether g is the zero Guess.
func (g Guess) IsZero() bool { return g.value == nil }

// WithValue returns a copy of g carrying v. The kind rules of [NewGuess]
// apply.
func (g Guess) WithValue(v Value) (Guess, error) {
	return NewGuess(g.field, v, g.certainty, g.origin, g.note)
}

// WithNote returns a copy of g carrying note.
func (g Guess) WithNote(note string) Guess {
	g.note = note
	return g
}

func (g Guess) String() string {
	return fmt.Sprintf("%s: %s (%s, %s)", g.field, g.value, g.certainty, g.origin)
}

type guessJSON struct {
	Field     Field           `json:"field"`
	Value     json.RawMessage `json:"value"`
	Certainty Certainty       `json:"certainty"`
	Origin    Origin          `json:"origin"`
	Note      string          `json:"note,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (g Guess) MarshalJSON() ([]byte, error) {
	if g.IsZero() {
		return nil, errors.New(errors.ErrCodeInvalidGuess, "cannot encode zero guess")
	}
	raw, err := json.Marshal(g.value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(guessJSON{
		Field:     g.field,
		Value:     raw,
		Certainty: g.certainty,
		Origin:    g.origin,
		Note:      g.note,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded guess passes the
// same validation as [NewGuess].
func (g *Guess) UnmarshalJSON(b []byte) error {
	var doc guessJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidGuess, err, "decode guess")
	}
	if len(doc.Value) == 0 {
		return errors.New(errors.ErrCodeInvalidGuess, "guess for %s has no value", doc.Field)
	}
	v, err := decodeValue(doc.Field, doc.Value)
	if err != nil {
		return err
	}
	parsed, err := NewGuess(doc.Field, v, doc.Certainty, doc.Origin, doc.Note)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
