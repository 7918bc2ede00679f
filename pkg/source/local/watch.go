package local

import (
	"strings"

	"github.com/matzehuels/upstreamer/pkg/extract"
)

// decodeWatch reads a debian/watch file. Continuation lines ending in a
// backslash are joined, the version= header and comments are skipped and
// a leading opts= option (quoted or bare) is dropped from each rule.
func decodeWatch(label string, data []byte) (extract.Artifact, error) {
	w := extract.Watch{Name: label}
	for _, line := range joinContinuations(lines(data)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "version=") {
			continue
		}
		line = dropOpts(line)
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		w.Rules = append(w.Rules, extract.WatchRule{
			URL:   fields[0],
			Match: strings.Join(fields[1:], " "),
		})
	}
	return w, nil
}

func joinContinuations(in []string) []string {
	var (
		out []string
		buf strings.Builder
	)
	for _, l := range in {
		trimmed := strings.TrimRight(l, " \t")
		if cont, ok := strings.CutSuffix(trimmed, `\`); ok {
			buf.WriteString(cont)
			continue
		}
		buf.WriteString(l)
		out = append(out, buf.String())
		buf.Reset()
	}
	if buf.Len() > 0 {
		out = append(out, buf.String())
	}
	return out
}

func dropOpts(line string) string {
	rest, ok := strings.CutPrefix(line, "opts=")
	if !ok {
		return line
	}
	if q := rest[:min(1, len(rest))]; q == `"` || q == `'` {
		if end := strings.Index(rest[1:], q); end >= 0 {
			return strings.TrimSpace(rest[end+2:])
		}
		return ""
	}
	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		return strings.TrimSpace(rest[i:])
	}
	return ""
}
