// Package changelog extracts the current version and a contact from
// changelog entries ordered newest first.
//
// The newest entry's version is the project's version ("certain"). When
// it cannot be parsed, the first later entry with a usable version gives a
// "likely" Version instead. The newest entry's author is a "likely"
// Contact; when it has none, the newest later entry with an author gives a
// "possible" one. A malformed entry is skipped and never stops the scan.
package changelog

import (
	"regexp"
	"strings"

	"github.com/matzehuels/upstreamer/pkg/extract"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// Extractor reads [extract.Changelog] artifacts.
type Extractor struct{}

// New returns the changelog extractor.
func New() Extractor { return Extractor{} }

func (Extractor) Name() string         { return "changelog" }
func (Extractor) Stage() extract.Stage { return extract.Primary }

func (Extractor) Supports(a extract.Artifact) bool {
	_, ok := a.(extract.Changelog)
	return ok
}

func (Extractor) Extract(a extract.Artifact, _ upstream.Context) []upstream.Guess {
	c, ok := a.(extract.Changelog)
	if !ok {
		return nil
	}
	origin := upstream.Origin{Class: upstream.ClassChangelog, Label: c.Name}
	var out []upstream.Guess

	for i, e := range c.Entries {
		v, ok := UpstreamVersion(e.Version, c.Format)
		if !ok {
			continue
		}
		cert, note := upstream.Certain, "newest entry"
		if i > 0 {
			cert, note = upstream.Likely, "newest entry has no usable version"
		}
		out = append(out, upstream.MustGuess(upstream.Version, upstream.Text(v), cert, origin, note))
		break
	}

	for i, e := range c.Entries {
		author := strings.TrimSpace(e.Author)
		if author == "" {
			continue
		}
		cert := upstream.Likely
		if i > 0 {
			cert = upstream.Possible
		}
		out = append(out, upstream.MustGuess(upstream.Contact, upstream.Text(author), cert, origin, ""))
		break
	}
	return out
}

var (
	epoch        = regexp.MustCompile(`^\d+:`)
	repackSuffix = regexp.MustCompile(`(?i)[+~](dfsg|ds|repack)\d*(\.\d+)?$`)
)

// UpstreamVersion extracts the upstream version from a changelog version
// string. For Debian changelogs the epoch, the Debian revision and repack
// suffixes are removed. ok is false for placeholders such as "Unreleased"
// and for strings without a digit.
func UpstreamVersion(s string, format extract.ChangelogFormat) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "[]()")
	if s == "" || !strings.ContainsAny(s, "0123456789") {
		return "", false
	}
	if strings.EqualFold(s, "unreleased") {
		return "", false
	}
	if format == extract.FormatDebian {
		s = epoch.ReplaceAllString(s, "")
		if i := strings.LastIndex(s, "-"); i > 0 {
			s = s[:i]
		}
		for {
			stripped := repackSuffix.ReplaceAllString(s, "")
			if stripped == s {
				break
			}
			s = stripped
		}
	}
	if strings.ContainsAny(s, " \t") {
		return "", false
	}
	return s, s != "" && strings.ContainsAny(s, "0123456789")
}
