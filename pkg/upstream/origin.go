package upstream

import (
	"github.com/matzehuels/upstreamer/pkg/errors"
)

// OriginClass groups origins by the kind of artifact that produced them.
type OriginClass int

const (
	classInvalid OriginClass = iota
	ClassManifest
	ClassChangelog
	ClassWatch
	ClassBuild
	ClassReadme
	ClassDerived
)

var classNames = map[OriginClass]string{
	ClassManifest:  "manifest",
	ClassChangelog: "changelog",
	ClassWatch:     "watch",
	ClassBuild:     "build",
	ClassReadme:    "readme",
	ClassDerived:   "derived",
}

// classPriority ranks classes for tie-breaking among guesses of equal
// certainty: structured, author-declared data first, inferred data last.
var classPriority = map[OriginClass]int{
	ClassManifest:  5,
	ClassChangelog: 4,
	ClassWatch:     3,
	ClassBuild:     2,
	ClassReadme:    1,
	ClassDerived:   0,
}

// ParseOriginClass parses a class name such as "manifest".
func ParseOriginClass(s string) (OriginClass, error) {
	for c, name := range classNames {
		if name == s {
			return c, nil
		}
	}
	return classInvalid, errors.New(errors.ErrCodeInvalidInput, "unknown origin class %q", s)
}

// Valid reports whether c is a known class.
func (c OriginClass) Valid() bool {
	_, ok := classNames[c]
	return ok
}

func (c OriginClass) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "invalid"
}

// Priority returns the tie-break rank of the class; higher wins.
func (c OriginClass) Priority() int {
	if p, ok := classPriority[c]; ok {
		return p
	}
	return -1
}

// MarshalText implements encoding.TextMarshaler.
func (c OriginClass) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid origin class %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *OriginClass) UnmarshalText(b []byte) error {
	parsed, err := ParseOriginClass(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Well-known origin labels. Labels are artifact names relative to the
// project root, or a fixed tag for derived guesses.
const (
	LabelUpstreamMetadata = "debian/upstream/metadata"
	LabelCargo            = "Cargo.toml"
	LabelPyproject        = "pyproject.toml"
	LabelPackageJSON      = "package.json"
	LabelComposer         = "composer.json"
	LabelPOM              = "pom.xml"
	LabelPubspec          = "pubspec.yaml"
	LabelDebianChangelog  = "debian/changelog"
	LabelDebianWatch      = "debian/watch"
	LabelForge            = "forge"
)

// labelOrder is the fixed order used as the last tie-breaker between
// guesses of equal certainty and class. Labels not listed sort after all
// listed ones, alphabetically.
var labelOrder = []string{
	LabelUpstreamMetadata,
	LabelCargo,
	LabelPyproject,
	LabelPackageJSON,
	LabelComposer,
	LabelPOM,
	LabelPubspec,
	LabelDebianChangelog,
	"CHANGELOG.md",
	"CHANGES.md",
	"NEWS.md",
	LabelDebianWatch,
	"CMakeLists.txt",
	"meson.build",
	"README.md",
	"README.rst",
	"README",
	"README.txt",
	"SECURITY.md",
	LabelForge,
}

var labelRank = func() map[string]int {
	m := make(map[string]int, len(labelOrder))
	for i, l := range labelOrder {
		m[l] = i
	}
	return m
}()

// LabelRank returns the position of label in the fixed label order and
// whether the label is listed at all.
func LabelRank(label string) (int, bool) {
	r, ok := labelRank[label]
	if !ok {
		return len(labelOrder), false
	}
	return r, true
}

// Origin identifies the extractor and artifact behind a guess.
type Origin struct {
	Class OriginClass `json:"class" yaml:"class"`
	Label string      `json:"label" yaml:"label"`
}

// String returns the label, or the class name for unlabeled origins.
func (o Origin) String() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Class.String()
}

// Before reports whether o sorts before other in the fixed origin order:
// higher class priority first, then listed labels by rank, then unlisted
// labels alphabetically.
func (o Origin) Before(other Origin) bool {
	if pa, pb := o.Class.Priority(), other.Class.Priority(); pa != pb {
		return pa > pb
	}
	ra, _ := LabelRank(o.Label)
	rb, _ := LabelRank(other.Label)
	if ra != rb {
		return ra < rb
	}
	return o.Label < other.Label
}
