// Package forge recognizes URLs on well-known source forges and project
// hosts, and derives related URLs (repository root, issue tracker, bug
// submission page) from them.
//
// Recognition is purely syntactic: nothing is fetched and no redirect is
// followed.
//
//	r, ok := forge.Parse("https://github.com/owner/repo/blob/main/README.md")
//	// r.URL() == "https://github.com/owner/repo", r.Branch == "main"
package forge

import (
	"net/url"
	"path"
	"strings"
)

// Kind identifies a forge software family.
type Kind int

const (
	Unknown Kind = iota
	GitHub
	GitLab
	Codeberg
	Bitbucket
	Gitea
	SourceHut
	SourceForge
	Launchpad
)

var kindNames = map[Kind]string{
	GitHub:      "github",
	GitLab:      "gitlab",
	Codeberg:    "codeberg",
	Bitbucket:   "bitbucket",
	Gitea:       "gitea",
	SourceHut:   "sourcehut",
	SourceForge: "sourceforge",
	Launchpad:   "launchpad",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// hosts maps exact host names to forge kinds. Self-hosted GitLab and Gitea
// instances are also matched by host prefix in [Lookup].
var hosts = map[string]Kind{
	"github.com":             GitHub,
	"www.github.com":         GitHub,
	"gitlab.com":             GitLab,
	"salsa.debian.org":       GitLab,
	"gitlab.gnome.org":       GitLab,
	"invent.kde.org":         GitLab,
	"gitlab.freedesktop.org": GitLab,
	"framagit.org":           GitLab,
	"codeberg.org":           Codeberg,
	"bitbucket.org":          Bitbucket,
	"gitea.com":              Gitea,
	"git.sr.ht":              SourceHut,
	"hg.sr.ht":               SourceHut,
	"todo.sr.ht":             SourceHut,
	"sourceforge.net":        SourceForge,
	"www.sourceforge.net":    SourceForge,
	"launchpad.net":          Launchpad,
	"code.launchpad.net":     Launchpad,
	"bugs.launchpad.net":     Launchpad,
}

// Lookup returns the forge kind for host. Matching ignores case and a
// trailing port.
func Lookup(host string) (Kind, bool) {
	host = strings.ToLower(host)
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	if k, ok := hosts[host]; ok {
		return k, true
	}
	switch {
	case strings.HasSuffix(host, ".sourceforge.net"), strings.HasSuffix(host, ".sourceforge.io"):
		return SourceForge, true
	case strings.HasPrefix(host, "gitlab."):
		return GitLab, true
	case strings.HasPrefix(host, "gitea."), strings.HasPrefix(host, "forgejo."):
		return Gitea, true
	}
	return Unknown, false
}

// IsKnownHost reports whether host belongs to any recognized forge.
func IsKnownHost(host string) bool {
	_, ok := Lookup(host)
	return ok
}

// Repo is a project location on a forge.
type Repo struct {
	Kind Kind
	Host string
	// Owner is the user, organization or (for GitLab) group path. Empty
	// for SourceForge and Launchpad projects.
	Owner string
	Name  string
	// Branch and Subpath are set when the URL pointed into a web view of
	// the repository.
	Branch  string
	Subpath string
	// Issues is set when the URL pointed at the issue tracker.
	Issues bool
}

// IsCode reports whether the forge hosts the source repository itself,
// as opposed to a project page.
func (r Repo) IsCode() bool {
	switch r.Kind {
	case GitHub, GitLab, Codeberg, Bitbucket, Gitea, SourceHut:
		return true
	}
	return false
}

// URL returns the canonical https URL of the repository root or project
// page.
func (r Repo) URL() string {
	switch r.Kind {
	case SourceForge:
		return "https://sourceforge.net/projects/" + r.Name
	case Launchpad:
		return "https://launchpad.net/" + r.Name
	case SourceHut:
		return "https://git.sr.ht/" + r.Owner + "/" + r.Name
	}
	return "https://" + r.Host + "/" + r.Owner + "/" + r.Name
}

// BugDatabase returns the issue tracker URL, or "" when the forge has no
// predictable one.
func (r Repo) BugDatabase() string {
	switch r.Kind {
	case GitHub, Codeberg, Gitea, Bitbucket:
		return r.URL() + "/issues"
	case GitLab:
		return r.URL() + "/-/issues"
	case SourceHut:
		return "https://todo.sr.ht/" + r.Owner + "/" + r.Name
	case Launchpad:
		return "https://bugs.launchpad.net/" + r.Name
	}
	return ""
}

// BugSubmit returns the page for filing a new issue, or "".
func (r Repo) BugSubmit() string {
	switch r.Kind {
	case GitHub, Codeberg, Gitea, Bitbucket:
		return r.URL() + "/issues/new"
	case GitLab:
		return r.URL() + "/-/issues/new"
	case Launchpad:
		return "https://bugs.launchpad.net/" + r.Name + "/+filebug"
	}
	return ""
}

// FileURL returns the web view of a file or directory at rel inside the
// repository, or "" when the forge has no predictable layout. The branch
// defaults to HEAD.
func (r Repo) FileURL(rel string) string {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	if r.Subpath != "" {
		rel = path.Join(r.Subpath, rel)
	}
	branch := r.Branch
	if branch == "" {
		branch = "HEAD"
	}
	switch r.Kind {
	case GitHub:
		return r.URL() + "/blob/" + branch + "/" + rel
	case GitLab:
		return r.URL() + "/-/blob/" + branch + "/" + rel
	case Codeberg, Gitea:
		return r.URL() + "/src/branch/" + branch + "/" + rel
	case Bitbucket:
		return r.URL() + "/src/" + branch + "/" + rel
	case SourceHut:
		return r.URL() + "/tree/" + branch + "/item/" + rel
	}
	return ""
}

// Parse recognizes a forge URL. It accepts http, https, git and ssh
// schemes as well as scheme-less "host/path" input. ok is false when the
// host is not a known forge or the path names no project.
func Parse(raw string) (Repo, bool) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Repo{}, false
	}
	host := strings.ToLower(u.Hostname())
	kind, ok := Lookup(host)
	if !ok {
		return Repo{}, false
	}
	segs := splitPath(u.Path)
	r := Repo{Kind: kind, Host: host}

	switch kind {
	case SourceForge:
		return parseSourceForge(r, host, segs)
	case Launchpad:
		if len(segs) == 0 || strings.HasPrefix(segs[0], "~") || strings.HasPrefix(segs[0], "+") {
			return Repo{}, false
		}
		r.Name = segs[0]
		r.Issues = host == "bugs.launchpad.net"
		return r, true
	case SourceHut:
		if len(segs) < 2 || !strings.HasPrefix(segs[0], "~") {
			return Repo{}, false
		}
		r.Owner, r.Name = segs[0], trimGit(segs[1])
		r.Issues = host == "todo.sr.ht"
		if len(segs) >= 4 && segs[2] == "tree" {
			r.Branch = segs[3]
			if len(segs) > 5 && segs[4] == "item" {
				r.Subpath = strings.Join(segs[5:], "/")
			}
		}
		return r, true
	case GitLab:
		return parseGitLab(r, segs)
	}

	if len(segs) < 2 || reservedOwner(segs[0]) {
		return Repo{}, false
	}
	r.Owner, r.Name = segs[0], trimGit(segs[1])
	rest := segs[2:]
	if len(rest) > 0 {
		switch rest[0] {
		case "issues", "pulls":
			r.Issues = rest[0] == "issues"
		case "blob", "tree":
			readView(&r, rest[1:])
		case "src":
			// Gitea-style: src/branch/<name>/<path>.
			view := rest[1:]
			if len(view) > 0 && (view[0] == "branch" || view[0] == "tag" || view[0] == "commit") {
				view = view[1:]
			}
			readView(&r, view)
		}
	}
	return r, true
}

func parseGitLab(r Repo, segs []string) (Repo, bool) {
	// Project path ends before the "-" separator or a legacy view keyword.
	end := len(segs)
	var view []string
	for i, s := range segs {
		if s == "-" {
			end, view = i, segs[i+1:]
			break
		}
		if i >= 2 && (s == "tree" || s == "blob" || s == "issues") {
			end, view = i, segs[i:]
			break
		}
	}
	if end < 2 || reservedOwner(segs[0]) {
		return Repo{}, false
	}
	r.Owner = strings.Join(segs[:end-1], "/")
	r.Name = trimGit(segs[end-1])
	if len(view) > 0 {
		switch view[0] {
		case "issues":
			r.Issues = true
		case "tree", "blob":
			readView(&r, view[1:])
		}
	}
	return r, true
}

func parseSourceForge(r Repo, host string, segs []string) (Repo, bool) {
	if sub, ok := strings.CutSuffix(host, ".sourceforge.net"); ok && sub != "www" {
		r.Name = sub
		return r, true
	}
	if sub, ok := strings.CutSuffix(host, ".sourceforge.io"); ok {
		r.Name = sub
		return r, true
	}
	if len(segs) >= 2 && (segs[0] == "projects" || segs[0] == "p") {
		r.Name = segs[1]
		return r, true
	}
	return Repo{}, false
}

func readView(r *Repo, rest []string) {
	if len(rest) == 0 {
		return
	}
	r.Branch = rest[0]
	if len(rest) > 1 {
		r.Subpath = strings.Join(rest[1:], "/")
	}
}

// reservedOwner reports path prefixes that are site pages, not accounts.
func reservedOwner(s string) bool {
	switch strings.ToLower(s) {
	case "sponsors", "orgs", "topics", "marketplace", "settings", "explore", "users", "about", "features", "search":
		return true
	}
	return false
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func trimGit(s string) string {
	return strings.TrimSuffix(s, ".git")
}
