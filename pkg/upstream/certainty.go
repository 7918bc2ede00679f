package upstream

import (
	"github.com/matzehuels/upstreamer/pkg/errors"
)

// Certainty is the ordinal confidence grade of a guess.
// Grades compare with the usual integer operators: Possible < Likely.
type Certainty int

const (
	Unknown Certainty = iota
	Possible
	Likely
	Confident
	Certain
)

var certaintyNames = [...]string{
	Unknown:   "unknown",
	Possible:  "possible",
	Likely:    "likely",
	Confident: "confident",
	Certain:   "certain",
}

// Certainties returns every grade from lowest to highest.
func Certainties() []Certainty {
	return []Certainty{Unknown, Possible, Likely, Confident, Certain}
}

// ParseCertainty parses one of the grade words.
func ParseCertainty(s string) (Certainty, error) {
	for c, name := range certaintyNames {
		if s == name {
			return Certainty(c), nil
		}
	}
	return Unknown, errors.New(errors.ErrCodeInvalidCertainty, "unknown certainty %q", s)
}

// Valid reports whether c is inside the closed set of grades.
func (c Certainty) Valid() bool {
	return c >= Unknown && c <= Certain
}

func (c Certainty) String() string {
	if !c.Valid() {
		return "invalid"
	}
	return certaintyNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Certainty) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidCertainty, "invalid certainty %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Certainty) UnmarshalText(b []byte) error {
	parsed, err := ParseCertainty(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
