// Package readme extracts guesses from free-text documents: README files
// in Markdown, reStructuredText or plain text, and SECURITY policies.
//
// Extraction is pattern based and runs in the secondary stage so relative
// links can be resolved against the repository found by the manifests.
// Rules, strongest first:
//
//  1. labeled lines such as "Homepage: <url>" (confident)
//  2. forge URLs in the text or link targets (likely)
//  3. CI and package-index badges (possible)
//  4. the title heading and the paragraph under it (possible)
//  5. SECURITY.* documents: the policy itself and its e-mail addresses
//
// Every match is emitted as its own guess, repeats included. Labeled
// values that are neither links nor path-like are ignored.
package readme

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/matzehuels/upstreamer/pkg/extract"
	"github.com/matzehuels/upstreamer/pkg/forge"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// Extractor reads [extract.Document] artifacts.
type Extractor struct{}

// New returns the free-text extractor.
func New() Extractor { return Extractor{} }

func (Extractor) Name() string         { return "readme" }
func (Extractor) Stage() extract.Stage { return extract.Secondary }

func (Extractor) Supports(a extract.Artifact) bool {
	_, ok := a.(extract.Document)
	return ok
}

func (Extractor) Extract(a extract.Artifact, ctx upstream.Context) []upstream.Guess {
	d, ok := a.(extract.Document)
	if !ok {
		return nil
	}
	e := &emitter{
		origin: upstream.Origin{Class: upstream.ClassReadme, Label: d.Name},
		base:   browseBase(ctx),
	}
	e.labeledLines(d.Text)
	e.forgeURLs(d)
	e.badges(d.Links)
	if IsSecurityPolicy(d.Name) {
		e.security(d)
	} else {
		e.title(d.Text)
	}
	return e.out
}

// IsSecurityPolicy reports whether name is a SECURITY.* document.
func IsSecurityPolicy(name string) bool {
	base := strings.ToUpper(path.Base(name))
	return base == "SECURITY" || strings.HasPrefix(base, "SECURITY.")
}

type emitter struct {
	origin upstream.Origin
	base   forge.Repo
	out    []upstream.Guess
}

func (e *emitter) emit(f upstream.Field, v upstream.Value, c upstream.Certainty) {
	if v == nil || v.Empty() {
		return
	}
	e.out = append(e.out, upstream.MustGuess(f, v, c, e.origin, ""))
}

// browseBase returns the forge repository relative links resolve against,
// or the zero Repo when the context has none on a recognized forge.
func browseBase(ctx upstream.Context) forge.Repo {
	if !ctx.HasRepository() {
		return forge.Repo{}
	}
	r, ok := forge.Parse(ctx.Repository.URL)
	if !ok || !r.IsCode() {
		return forge.Repo{}
	}
	if r.Branch == "" {
		r.Branch = ctx.Repository.Branch
	}
	if r.Subpath == "" {
		r.Subpath = ctx.Repository.Subpath
	}
	return r
}

// resolve returns target as an absolute URL. Relative targets resolve to
// the repository's web view; ok is false when that is not possible.
func (e *emitter) resolve(target string) (string, bool) {
	target = strings.TrimSpace(target)
	if target == "" || strings.HasPrefix(target, "#") {
		return "", false
	}
	if u, err := url.Parse(target); err == nil && u.Scheme != "" {
		return target, u.Scheme != "mailto"
	}
	if strings.HasPrefix(target, "www.") {
		return "https://" + target, true
	}
	if e.base.Kind == forge.Unknown {
		return "", false
	}
	rel, _, _ := strings.Cut(target, "#")
	if rel == "" {
		return "", false
	}
	u := e.base.FileURL(rel)
	return u, u != ""
}

// =============================================================================
// Labeled lines
// =============================================================================

var lineLabels = map[string]upstream.Field{
	"homepage":         upstream.Homepage,
	"home page":        upstream.Homepage,
	"website":          upstream.Homepage,
	"web site":         upstream.Homepage,
	"repository":       upstream.Repository,
	"source":           upstream.Repository,
	"source code":      upstream.Repository,
	"code":             upstream.Repository,
	"bugs":             upstream.BugDatabase,
	"issues":           upstream.BugDatabase,
	"bug tracker":      upstream.BugDatabase,
	"issue tracker":    upstream.BugDatabase,
	"documentation":    upstream.Documentation,
	"docs":             upstream.Documentation,
	"mailing list":     upstream.MailingList,
	"wiki":             upstream.Wiki,
	"changelog":        upstream.Changelog,
	"license":          upstream.License,
	"security contact": upstream.SecurityContact,
}

var (
	mdLink    = regexp.MustCompile(`\[[^\]]*\]\(\s*([^)\s]+)[^)]*\)`)
	rstLink   = regexp.MustCompile("`[^`<]*<([^>]+)>`_{1,2}")
	angleLink = regexp.MustCompile(`^<([^>]+)>`)
)

func (e *emitter) labeledLines(text string) {
	for _, line := range strings.Split(text, "\n") {
		f, value, ok := labeledLine(line)
		if !ok {
			continue
		}
		switch {
		case f == upstream.License:
			e.emit(f, upstream.Text(value), upstream.Confident)
		case f == upstream.SecurityContact:
			if isEmail(value) {
				e.emit(f, upstream.Text(value), upstream.Confident)
			} else if u, ok := e.resolveLabeled(value); ok {
				e.emit(f, upstream.Text(u), upstream.Confident)
			}
		case f == upstream.MailingList && isEmail(value):
			e.emit(f, upstream.Text(value), upstream.Confident)
		default:
			u, ok := e.resolveLabeled(value)
			if !ok {
				continue
			}
			if f == upstream.Repository {
				e.emit(f, upstream.VCS{URL: u}, upstream.Confident)
			} else {
				e.emit(f, upstream.Text(u), upstream.Confident)
			}
		}
	}
}

// labeledLine splits "Label: value", tolerating list bullets, a leading
// reST field colon and Markdown emphasis around the label.
func labeledLine(line string) (upstream.Field, string, bool) {
	s := strings.TrimSpace(line)
	for _, bullet := range []string{"- ", "* ", "+ "} {
		s = strings.TrimPrefix(s, bullet)
	}
	s = strings.TrimPrefix(s, ":")
	label, value, ok := strings.Cut(s, ":")
	if !ok {
		return 0, "", false
	}
	label = strings.ToLower(strings.Trim(label, " *_"))
	f, ok := lineLabels[label]
	if !ok {
		return 0, "", false
	}
	value = strings.TrimSpace(strings.TrimLeft(value, "*_ "))
	value = strings.TrimRight(value, "*_ ")
	return f, value, value != ""
}

// resolveLabeled resolves the value of a labeled line. Explicit links and
// absolute URLs are taken as is; anything else must be a single path-like
// token ("docs/", "CHANGELOG.md") to be resolved against the repository.
func (e *emitter) resolveLabeled(value string) (string, bool) {
	target, ok := linkTarget(value)
	if !ok {
		return "", false
	}
	return e.resolve(target)
}

var fileExt = regexp.MustCompile(`\.[A-Za-z][A-Za-z0-9]{0,5}$`)

// linkTarget unwraps a Markdown, reST or angle-bracket link. Without one,
// the first word counts only if it is an absolute URL, or if it is the
// whole value and looks like a path.
func linkTarget(s string) (string, bool) {
	for _, re := range []*regexp.Regexp{mdLink, rstLink, angleLink} {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1], true
		}
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return "", false
	}
	first := strings.TrimRight(words[0], ".,;")
	if strings.Contains(first, "://") || strings.HasPrefix(first, "www.") {
		return first, true
	}
	if len(words) > 1 || strings.HasPrefix(first, "#") {
		return "", false
	}
	if strings.Contains(first, "/") || fileExt.MatchString(first) {
		return first, true
	}
	return "", false
}

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

func isEmail(s string) bool {
	s = strings.TrimPrefix(strings.Trim(s, "<>"), "mailto:")
	return emailPattern.FindString(s) == s
}

// =============================================================================
// Forge URLs
// =============================================================================

var bareURL = regexp.MustCompile("https?://[^\\s<>()\\[\\]\"'`]+")

func (e *emitter) forgeURLs(d extract.Document) {
	var candidates []string
	candidates = append(candidates, bareURL.FindAllString(d.Text, -1)...)
	for _, l := range d.Links {
		if !l.Image {
			candidates = append(candidates, l.Target)
		}
	}
	for _, c := range candidates {
		r, ok := forge.Parse(strings.TrimRight(c, ".,;:"))
		if !ok || !r.IsCode() {
			continue
		}
		if r.Issues {
			e.emit(upstream.BugDatabase, upstream.Text(r.BugDatabase()), upstream.Likely)
			continue
		}
		e.emit(upstream.Repository, upstream.VCS{URL: r.URL()}, upstream.Likely)
	}
}

// =============================================================================
// Badges
// =============================================================================

var (
	travisBadge  = regexp.MustCompile(`^https?://(?:api\.|app\.)?travis-ci\.(?:org|com)/(?:gh/|github/)?([^/\s?#]+)/([^/\s?#.]+)`)
	codecovBadge = regexp.MustCompile(`^https?://codecov\.io/(gh|gl|bb|github|gitlab|bitbucket)/([^/\s?#]+)/([^/\s?#]+)`)
	pypiBadge    = regexp.MustCompile(`^https?://(?:pypi\.org/project|pypi\.python\.org/pypi)/([^/\s?#]+)`)
	cratesBadge  = regexp.MustCompile(`^https?://crates\.io/crates/([^/\s?#]+)`)
	npmBadge     = regexp.MustCompile(`^https?://(?:www\.)?npmjs\.(?:com|org)/package/((?:@[^/\s?#]+/)?[^/\s?#]+)`)
	packagist    = regexp.MustCompile(`^https?://packagist\.org/packages/([^/\s?#]+/[^/\s?#]+)`)
	rtdHost      = regexp.MustCompile(`^https?://([a-z0-9-]+)\.readthedocs\.(?:io|org)`)
	rtdProject   = regexp.MustCompile(`^https?://readthedocs\.org/projects/([a-z0-9-]+)`)
)

var codecovHosts = map[string]string{
	"gh": "github.com", "github": "github.com",
	"gl": "gitlab.com", "gitlab": "gitlab.com",
	"bb": "bitbucket.org", "bitbucket": "bitbucket.org",
}

func (e *emitter) badges(links []extract.Link) {
	for _, l := range links {
		if !l.Image {
			continue
		}
		t := strings.TrimSpace(l.Target)
		if m := travisBadge.FindStringSubmatch(t); m != nil {
			e.emit(upstream.Repository, upstream.VCS{URL: "https://github.com/" + m[1] + "/" + m[2]}, upstream.Possible)
			continue
		}
		if m := codecovBadge.FindStringSubmatch(t); m != nil {
			e.emit(upstream.Repository, upstream.VCS{URL: "https://" + codecovHosts[m[1]] + "/" + m[2] + "/" + m[3]}, upstream.Possible)
			continue
		}
		if r, ok := forge.Parse(t); ok && r.Kind == forge.GitHub && strings.Contains(t, "/actions") {
			e.emit(upstream.Repository, upstream.VCS{URL: r.URL()}, upstream.Possible)
			continue
		}
		for _, re := range []*regexp.Regexp{pypiBadge, cratesBadge, npmBadge, packagist} {
			if m := re.FindStringSubmatch(t); m != nil {
				e.emit(upstream.Name, upstream.Text(m[1]), upstream.Possible)
				break
			}
		}
		for _, re := range []*regexp.Regexp{rtdHost, rtdProject} {
			if m := re.FindStringSubmatch(t); m != nil && m[1] != "www" {
				e.emit(upstream.Documentation, upstream.Text("https://"+m[1]+".readthedocs.io"), upstream.Possible)
				break
			}
		}
	}
}

// =============================================================================
// Title and summary
// =============================================================================

var projectName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._+-]*$`)

// isAdornment reports whether s is a reST section adornment: three or more
// repeats of one punctuation character.
func isAdornment(s string) bool {
	if len(s) < 3 || !strings.ContainsRune(`=-~#*^"+`, rune(s[0])) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// title reads the top-level heading as Name and the first single-line
// paragraph under it as Summary.
func (e *emitter) title(text string) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	i := 0
	skipBlank := func() {
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
		}
	}
	skipBlank()
	// reST titles may carry an overline.
	if i < len(lines) && isAdornment(strings.TrimSpace(lines[i])) {
		i++
	}
	if i >= len(lines) {
		return
	}

	var heading string
	first := strings.TrimSpace(lines[i])
	switch {
	case strings.HasPrefix(first, "# "):
		heading = strings.TrimSpace(strings.TrimLeft(first, "#"))
		i++
	case i+1 < len(lines) && isAdornment(strings.TrimSpace(lines[i+1])):
		heading = first
		i += 2
	default:
		return
	}
	heading = strings.Trim(heading, "*_` ")
	if !projectName.MatchString(heading) {
		return
	}
	e.emit(upstream.Name, upstream.Text(heading), upstream.Possible)

	skipBlank()
	var para []string
	for ; i < len(lines) && strings.TrimSpace(lines[i]) != ""; i++ {
		para = append(para, strings.TrimSpace(lines[i]))
	}
	if len(para) != 1 || !isProse(para[0]) {
		return
	}
	e.emit(upstream.Summary, upstream.Text(para[0]), upstream.Possible)
}

func isProse(s string) bool {
	if len(s) > 200 {
		return false
	}
	for _, p := range []string{"#", "[", "!", "<", "|", ".. ", "```", ">", "-", "*", "="} {
		if strings.HasPrefix(s, p) {
			return false
		}
	}
	return strings.ContainsRune(s, ' ')
}

// =============================================================================
// Security policy
// =============================================================================

func (e *emitter) security(d extract.Document) {
	e.emit(upstream.SecurityMD, upstream.Text(d.Name), upstream.Certain)
	for _, addr := range emailPattern.FindAllString(d.Text, -1) {
		e.emit(upstream.SecurityContact, upstream.Text(strings.TrimRight(addr, ".")), upstream.Likely)
	}
	for _, l := range d.Links {
		if addr, ok := strings.CutPrefix(l.Target, "mailto:"); ok && isEmail(addr) {
			e.emit(upstream.SecurityContact, upstream.Text(addr), upstream.Likely)
		}
	}
}
