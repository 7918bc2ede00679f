// Package watch extracts repository and homepage guesses from Debian watch
// file download rules.
//
// A rule's URL template is cut before its first regex or substitution
// component, leaving the page the rule scans. Code-hosting forges yield a
// Repository at the repository root; SourceForge and Launchpad yield the
// project page as Homepage. Watch files describe where releases appear,
// not what the current release is, so no Version is ever emitted.
package watch

import (
	"net/url"
	"strings"

	"github.com/matzehuels/upstreamer/pkg/extract"
	"github.com/matzehuels/upstreamer/pkg/forge"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// Extractor reads [extract.Watch] artifacts.
type Extractor struct{}

// New returns the watch-file extractor.
func New() Extractor { return Extractor{} }

func (Extractor) Name() string         { return "watch" }
func (Extractor) Stage() extract.Stage { return extract.Primary }

func (Extractor) Supports(a extract.Artifact) bool {
	_, ok := a.(extract.Watch)
	return ok
}

func (Extractor) Extract(a extract.Artifact, ctx upstream.Context) []upstream.Guess {
	w, ok := a.(extract.Watch)
	if !ok {
		return nil
	}
	origin := upstream.Origin{Class: upstream.ClassWatch, Label: w.Name}
	var out []upstream.Guess
	for _, rule := range w.Rules {
		base, ok := BaseURL(rule.URL, ctx.Name)
		if !ok {
			continue
		}
		repo, ok := forge.Parse(base)
		if !ok {
			continue
		}
		if repo.IsCode() {
			out = append(out, upstream.MustGuess(upstream.Repository,
				upstream.VCS{URL: repo.URL()}, upstream.Likely, origin, ""))
			continue
		}
		out = append(out, upstream.MustGuess(upstream.Homepage,
			upstream.Text(repo.URL()), upstream.Likely, origin, ""))
	}
	return out
}

// sfRedirectors are hosts that forward to a SourceForge project's file
// listing; the first path segment names the project.
var sfRedirectors = map[string]bool{
	"sf.net":     true,
	"www.sf.net": true,
}

// BaseURL strips the trailing regex components and uscan substitutions
// from a watch URL template. @PACKAGE@ is replaced by pkg when known;
// otherwise the template is cut before it. ok is false when what remains
// is not an absolute URL.
func BaseURL(template, pkg string) (string, bool) {
	if f := strings.Fields(template); len(f) > 0 {
		template = f[0]
	}
	scheme, rest, found := strings.Cut(template, "://")
	if !found || scheme == "" {
		return "", false
	}
	parts := strings.Split(rest, "/")
	kept := parts[:1]
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		if pkg != "" {
			p = strings.ReplaceAll(p, "@PACKAGE@", pkg)
		}
		if isPattern(p) {
			break
		}
		kept = append(kept, p)
	}
	if kept[0] == "" || isPattern(kept[0]) {
		return "", false
	}

	host := strings.ToLower(kept[0])
	if sfRedirectors[host] && len(kept) > 1 {
		kept = []string{"sourceforge.net", "projects", kept[1]}
	}
	if host == "qa.debian.org" && len(kept) > 3 && kept[1] == "watch" && kept[2] == "sf.php" {
		kept = []string{"sourceforge.net", "projects", kept[3]}
	}

	u, err := url.Parse(scheme + "://" + strings.Join(kept, "/"))
	if err != nil || u.Host == "" {
		return "", false
	}
	return u.String(), true
}

// isPattern reports whether a path component is a regex or an
// unexpanded uscan substitution rather than a literal name.
func isPattern(s string) bool {
	if strings.ContainsAny(s, `()[]*+?\|^$`) {
		return true
	}
	if i := strings.Index(s, "@"); i >= 0 && strings.Contains(s[i+1:], "@") {
		return true
	}
	return false
}
