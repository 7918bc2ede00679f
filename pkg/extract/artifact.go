package extract

// ArtifactKind identifies the structural shape of an artifact.
type ArtifactKind int

const (
	KindManifest ArtifactKind = iota + 1
	KindChangelog
	KindWatch
	KindDocument
	KindBuildRules
)

func (k ArtifactKind) String() string {
	switch k {
	case KindManifest:
		return "manifest"
	case KindChangelog:
		return "changelog"
	case KindWatch:
		return "watch"
	case KindDocument:
		return "document"
	case KindBuildRules:
		return "build-rules"
	}
	return "unknown"
}

// Artifact is one project file, already decoded from its native syntax
// into the structural form an extractor consumes. Label is the path
// relative to the project root and becomes the origin label of every
// guess derived from the artifact.
type Artifact interface {
	Kind() ArtifactKind
	Label() string
}

// Set is the list of artifacts found for one project.
type Set []Artifact

// Labels returns the label of every artifact in order.
func (s Set) Labels() []string {
	out := make([]string, len(s))
	for i, a := range s {
		out[i] = a.Label()
	}
	return out
}

// =============================================================================
// Manifest
// =============================================================================

// Manifest is a parsed key/value manifest such as Cargo.toml or
// package.json. Tree holds the decoded document: nested map[string]any,
// []any, string, numbers and bools.
type Manifest struct {
	Name string         `json:"name"`
	Tree map[string]any `json:"tree"`
}

func (m Manifest) Kind() ArtifactKind { return KindManifest }
func (m Manifest) Label() string      { return m.Name }

// =============================================================================
// Changelog
// =============================================================================

// ChangelogFormat tells the changelog extractor how to read version
// strings.
type ChangelogFormat int

const (
	FormatGeneric ChangelogFormat = iota
	FormatDebian
)

func (f ChangelogFormat) String() string {
	if f == FormatDebian {
		return "debian"
	}
	return "generic"
}

// ChangelogEntry is one release section. Any field may be empty when the
// source could not recover it.
type ChangelogEntry struct {
	Version string `json:"version"`
	Author  string `json:"author,omitempty"`
	Date    string `json:"date,omitempty"`
	Body    string `json:"body,omitempty"`
}

// Changelog holds release entries, newest first.
type Changelog struct {
	Name    string           `json:"name"`
	Format  ChangelogFormat  `json:"format"`
	Entries []ChangelogEntry `json:"entries"`
}

func (c Changelog) Kind() ArtifactKind { return KindChangelog }
func (c Changelog) Label() string      { return c.Name }

// =============================================================================
// Watch file
// =============================================================================

// WatchRule is one download rule: a URL template and the expression that
// matches release versions.
type WatchRule struct {
	URL   string `json:"url"`
	Match string `json:"match,omitempty"`
}

// Watch is a parsed debian/watch file.
type Watch struct {
	Name  string      `json:"name"`
	Rules []WatchRule `json:"rules"`
}

func (w Watch) Kind() ArtifactKind { return KindWatch }
func (w Watch) Label() string      { return w.Name }

// =============================================================================
// Document
// =============================================================================

// Link is a hyperlink found in a document. Image is set for links whose
// anchor is an image, as badges are.
type Link struct {
	Text   string `json:"text,omitempty"`
	Target string `json:"target"`
	Image  bool   `json:"image,omitempty"`
}

// Document is free text such as a README, with its hyperlinks extracted.
type Document struct {
	Name  string `json:"name"`
	Text  string `json:"text"`
	Links []Link `json:"links,omitempty"`
}

func (d Document) Kind() ArtifactKind { return KindDocument }
func (d Document) Label() string      { return d.Name }

// =============================================================================
// Build rules
// =============================================================================

// BuildRules is the text of a build-system file such as CMakeLists.txt or
// meson.build.
type BuildRules struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

func (b BuildRules) Kind() ArtifactKind { return KindBuildRules }
func (b BuildRules) Label() string      { return b.Name }
