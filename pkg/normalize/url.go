package normalize

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/matzehuels/upstreamer/pkg/forge"
)

var vcsSchemePrefixes = []string{"git+", "hg+", "bzr+", "svn+"}

// rcpStyle matches scp-like clone addresses such as git@github.com:o/r.git.
var rcpStyle = regexp.MustCompile(`^([A-Za-z0-9._-]+)@([A-Za-z0-9.-]+\.[A-Za-z]{2,}):([^/].*)$`)

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ssh":   "22",
	"git":   "9418",
}

// URL canonicalizes a URL that names a page or file: scheme and host are
// lower-cased, default ports and trailing slashes dropped, and known forges
// forced to https. The path keeps its case; query and fragment are kept
// verbatim. Input that does not parse as an absolute URL is returned
// trimmed.
func URL(s string) string {
	u, ok := parseURL(s)
	if !ok {
		return strings.TrimSpace(prepareURL(s))
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = strings.TrimRight(u.RawPath, "/")
	return u.String()
}

// RepoURL canonicalizes a repository locator. On top of [URL] it
// lower-cases the path, and on known forges drops a ".git" suffix and
// rewrites web views (blob, tree) to the repository root.
func RepoURL(s string) string {
	u, ok := parseURL(s)
	if !ok {
		return strings.TrimSpace(prepareURL(s))
	}
	u.Path = strings.ToLower(u.Path)
	u.RawPath = strings.ToLower(u.RawPath)
	if forge.IsKnownHost(u.Host) {
		if r, ok := forge.Parse(u.String()); ok && r.IsCode() {
			if r.Branch != "" {
				return r.URL()
			}
			u.Path = strings.TrimSuffix(strings.TrimRight(u.Path, "/"), ".git")
			u.RawPath = ""
		}
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = strings.TrimRight(u.RawPath, "/")
	return u.String()
}

func parseURL(s string) (*url.URL, bool) {
	s = prepareURL(s)
	if !strings.Contains(s, "://") {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return nil, false
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if port := u.Port(); port != "" && defaultPorts[u.Scheme] == port {
		u.Host = u.Hostname()
	}
	if forge.IsKnownHost(u.Host) {
		switch u.Scheme {
		case "http", "https", "git", "ssh":
			u.Scheme = "https"
			u.User = nil
			u.Host = u.Hostname()
		}
	}
	return u, true
}

// prepareURL trims wrapping, drops VCS scheme qualifiers and rewrites
// rcp-style addresses to ssh URLs.
func prepareURL(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "<")
	s = strings.TrimSuffix(s, ">")
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, p := range vcsSchemePrefixes {
		if strings.HasPrefix(lower, p) && strings.Contains(s, "://") {
			s = s[len(p):]
			break
		}
	}
	if !strings.Contains(s, "://") {
		if m := rcpStyle.FindStringSubmatch(s); m != nil {
			s = "ssh://" + m[1] + "@" + m[2] + "/" + strings.TrimPrefix(m[3], "/")
		}
	}
	return s
}
