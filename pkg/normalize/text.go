package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Text applies Unicode NFC, trims, and collapses internal whitespace runs
// to a single space.
func Text(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Summary is [Text] followed by dropping a single trailing period. When
// another period would be left at the end ("...", "Foo. .") the text is
// kept as is.
func Summary(s string) string {
	s = Text(s)
	if !strings.HasSuffix(s, ".") {
		return s
	}
	trimmed := strings.TrimSpace(strings.TrimSuffix(s, "."))
	if strings.HasSuffix(trimmed, ".") {
		return s
	}
	return trimmed
}

// Description normalizes long text while keeping its paragraph structure:
// whitespace collapses within lines and runs of blank lines become one.
func Description(s string) string {
	s = norm.NFC.String(strings.ReplaceAll(s, "\r\n", "\n"))
	var out []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// Version strips whitespace and leading "version " / "v" prefixes until
// none remain. It does not parse the version.
func Version(s string) string {
	s = strings.TrimSpace(s)
	for {
		lower := strings.ToLower(s)
		switch {
		case strings.HasPrefix(lower, "version "):
			s = strings.TrimSpace(s[len("version "):])
		case strings.HasPrefix(lower, "v") && len(s) > 1 && s[1] >= '0' && s[1] <= '9':
			s = s[1:]
		default:
			return s
		}
	}
}

var tightAngle = regexp.MustCompile(`(\S)<`)

// Contact normalizes a maintainer or contact string: "mailto:" is
// dropped, whitespace collapses, and "Name<e>" becomes "Name <e>".
func Contact(s string) string {
	s = Text(s)
	s = stripMailto(s)
	s = tightAngle.ReplaceAllString(s, "$1 <")
	return strings.Join(strings.Fields(s), " ")
}

func stripMailto(s string) string {
	for {
		i := strings.Index(strings.ToLower(s), "mailto:")
		if i < 0 {
			return s
		}
		s = s[:i] + s[i+len("mailto:"):]
	}
}

// ContactOrURL normalizes fields that hold either a URL or an e-mail
// address.
func ContactOrURL(s string) string {
	if strings.Contains(s, "://") {
		return URL(s)
	}
	return Contact(s)
}

// List trims items, drops empty ones, and removes case-insensitive
// duplicates keeping the first occurrence. item, if non-nil, is applied
// to each entry before deduplication.
func List(items []string, item func(string) string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if item != nil {
			it = item(it)
		}
		it = strings.TrimSpace(it)
		key := strings.ToLower(it)
		if it == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}
