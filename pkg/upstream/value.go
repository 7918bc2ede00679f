package upstream

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/matzehuels/upstreamer/pkg/errors"
)

// Value is the typed payload of a guess: [Text], [List] or [VCS].
// The set of implementations is closed.
type Value interface {
	// Kind returns the payload shape.
	Kind() ValueKind
	// Key returns a canonical string used to compare values for equality.
	Key() string
	// String returns a human-readable form.
	String() string
	// Empty reports whether the value carries no information.
	Empty() bool

	isValue()
}

// Text is a single string value.
type Text string

func (t Text) Kind() ValueKind { return KindText }
func (t Text) Key() string     { return string(t) }
func (t Text) String() string  { return string(t) }
func (t Text) Empty() bool     { return strings.TrimSpace(string(t)) == "" }
func (Text) isValue()          {}

// List is an ordered list of strings, used for Keywords and Author.
// The zero List is empty; construct with [NewList].
type List struct {
	items []string
}

// NewList copies items into a new List.
func NewList(items ...string) List {
	return List{items: slices.Clone(items)}
}

// Items returns a copy of the list items.
func (l List) Items() []string { return slices.Clone(l.items) }

// Len returns the number of items.
func (l List) Len() int { return len(l.items) }

func (l List) Kind() ValueKind { return KindList }
func (l List) Key() string     { return strings.Join(l.items, "\x1f") }
func (l List) String() string  { return strings.Join(l.items, ", ") }
func (List) isValue()          {}

func (l List) Empty() bool {
	for _, it := range l.items {
		if strings.TrimSpace(it) != "" {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the list as a JSON array.
func (l List) MarshalJSON() ([]byte, error) {
	if l.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.items)
}

// VCS locates a source repository: clone URL plus optional branch and
// subpath within the repository.
type VCS struct {
	URL     string `json:"url" yaml:"url"`
	Branch  string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Subpath string `json:"subpath,omitempty" yaml:"subpath,omitempty"`
}

func (v VCS) Kind() ValueKind { return KindVCS }
func (v VCS) Key() string     { return v.URL + "\x1f" + v.Branch + "\x1f" + v.Subpath }
func (v VCS) Empty() bool     { return strings.TrimSpace(v.URL) == "" }
func (VCS) isValue()          {}

// String renders the location in the Debian Vcs-Git style:
// "URL [-b branch] [path]".
func (v VCS) String() string {
	s := v.URL
	if v.Branch != "" {
		s += " -b " + v.Branch
	}
	if v.Subpath != "" {
		s += " [" + v.Subpath + "]"
	}
	return s
}

// decodeValue decodes a JSON payload into the value kind required by f.
func decodeValue(f Field, raw json.RawMessage) (Value, error) {
	switch f.Kind() {
	case KindList:
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			var single string
			if err2 := json.Unmarshal(raw, &single); err2 != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidGuess, err, "%s expects a list of strings", f)
			}
			items = []string{single}
		}
		return NewList(items...), nil
	case KindVCS:
		var loc VCS
		if err := json.Unmarshal(raw, &loc); err != nil {
			var url string
			if err2 := json.Unmarshal(raw, &url); err2 != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidGuess, err, "%s expects a url or location object", f)
			}
			loc.URL = url
		}
		return loc, nil
	default:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGuess, err, "%s expects a string", f)
		}
		return Text(s), nil
	}
}
