package reconcile

import (
	"net/url"
	"strings"

	"github.com/matzehuels/upstreamer/pkg/forge"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// placeholders are values packaging tools write when the real value is
// missing.
var placeholders = map[string]bool{
	"unknown":   true,
	"none":      true,
	"null":      true,
	"undefined": true,
	"n/a":       true,
	"na":        true,
	"todo":      true,
	"tbd":       true,
	"-":         true,
	"?":         true,
}

var placeholderVersions = map[string]bool{
	"0":     true,
	"0.0":   true,
	"0.0.0": true,
}

var badHosts = map[string]bool{
	"example.com":     true,
	"www.example.com": true,
	"localhost":       true,
}

// KnownBad reports whether a normalized guess carries a value known to be
// a placeholder rather than real metadata.
func KnownBad(g upstream.Guess) bool {
	switch v := g.Value().(type) {
	case upstream.VCS:
		return badURL(v.URL)
	case upstream.List:
		for _, it := range v.Items() {
			if !placeholders[strings.ToLower(it)] {
				return false
			}
		}
		return true
	}

	s := g.Value().String()
	if placeholders[strings.ToLower(s)] {
		return true
	}
	switch f := g.Field(); {
	case f == upstream.Version:
		return placeholderVersions[s] || !strings.ContainsAny(s, "0123456789")
	case f.IsURL():
		return badURL(s)
	}
	return false
}

func badURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if badHosts[host] {
		return true
	}
	// A forge front page names no project.
	return forge.IsKnownHost(host) && strings.Trim(u.Path, "/") == ""
}
