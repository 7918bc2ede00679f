package normalize

import (
	"strings"

	"github.com/matzehuels/upstreamer/pkg/forge"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// VCS canonicalizes a repository location. A URL written in the Debian
// Vcs-Git style ("URL -b branch [path]") is split into its parts, and a
// forge web-view URL contributes its branch and subpath when the location
// does not already carry them.
func VCS(v upstream.VCS) upstream.VCS {
	raw, branch, sub := splitVcsGit(v.URL)
	if v.Branch == "" {
		v.Branch = branch
	}
	if v.Subpath == "" {
		v.Subpath = sub
	}

	if r, ok := forge.Parse(prepareURL(raw)); ok && r.IsCode() && r.Branch != "" {
		if v.Branch == "" {
			v.Branch = r.Branch
		}
		if v.Subpath == "" {
			v.Subpath = r.Subpath
		}
	}

	return upstream.VCS{
		URL:     RepoURL(raw),
		Branch:  strings.TrimSpace(v.Branch),
		Subpath: strings.Trim(strings.TrimSpace(v.Subpath), "/"),
	}
}

// splitVcsGit splits "URL -b branch [path]" into its components.
func splitVcsGit(s string) (raw, branch, sub string) {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, " ["); i >= 0 && strings.HasSuffix(s, "]") {
		sub = s[i+2 : len(s)-1]
		s = strings.TrimSpace(s[:i])
	}
	if before, after, ok := strings.Cut(s, " -b "); ok {
		s = strings.TrimSpace(before)
		branch = strings.TrimSpace(after)
	}
	return s, branch, sub
}

// CVSList joins the two-element CVS form of a repository, a CVSROOT and a
// module name, into one URL: [":pserver:anon@cvs.example.org:/cvsroot/p",
// "mod"] becomes "cvs+pserver://anon@cvs.example.org/cvsroot/p#mod". ok is
// false for anything else.
func CVSList(items []string) (string, bool) {
	if len(items) != 2 {
		return "", false
	}
	root, module := strings.TrimSpace(items[0]), strings.TrimSpace(items[1])
	if module == "" || !strings.HasPrefix(root, ":") {
		return "", false
	}
	method, rest, ok := strings.Cut(root[1:], ":")
	if !ok || (method != "pserver" && method != "extssh" && method != "ext") {
		return "", false
	}
	host, dir, ok := strings.Cut(rest, ":")
	if !ok || host == "" || !strings.HasPrefix(dir, "/") {
		return "", false
	}
	return "cvs+" + method + "://" + host + dir + "#" + module, true
}
