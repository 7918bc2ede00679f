package local

import (
	"regexp"
	"strings"

	"github.com/matzehuels/upstreamer/pkg/extract"
)

var (
	// "pkg (1.2-1) unstable; urgency=medium"
	debianHeader = regexp.MustCompile(`^(\S+)\s+\(([^)]*)\)`)
	// " -- Jane Doe <jane@example.org>  Mon, 01 Jan 2024 00:00:00 +0000"
	debianTrailer = regexp.MustCompile(`^ -- (.+?<[^>]*>)\s*(.*)$`)

	// "## [1.2.0] - 2024-01-01", "# 1.2.0 (2024-01-01)", "## v1.2.0"
	mdHeading = regexp.MustCompile(`^#{1,3}\s+(.+?)\s*$`)
	// "Version 1.2.0", "1.2.0 (2024-01-01)", "v1.2 - 2024-01-01"
	plainHeading = regexp.MustCompile(`^(?i:version\s+)?v?(\d[\w.+~-]*)(?:\s+[-(].*)?$`)
	headingDate  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

func decodeDebianChangelog(label string, data []byte) (extract.Artifact, error) {
	cl := extract.Changelog{Name: label, Format: extract.FormatDebian}
	var (
		cur  *extract.ChangelogEntry
		body []string
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.Body = strings.TrimSpace(strings.Join(body, "\n"))
		cl.Entries = append(cl.Entries, *cur)
		cur, body = nil, nil
	}
	for _, line := range lines(data) {
		if m := debianHeader.FindStringSubmatch(line); m != nil && !strings.HasPrefix(line, " ") {
			flush()
			cur = &extract.ChangelogEntry{Version: m[2]}
			continue
		}
		if cur == nil {
			continue
		}
		if m := debianTrailer.FindStringSubmatch(line); m != nil {
			cur.Author = strings.TrimSpace(m[1])
			cur.Date = strings.TrimSpace(m[2])
			flush()
			continue
		}
		body = append(body, strings.TrimSpace(line))
	}
	flush()
	return cl, nil
}

// decodeChangelog reads a free-form Markdown changelog. Each heading
// whose text starts with a version (or says "Unreleased") opens an entry,
// as does an unindented plain line carrying a dotted version or a date.
// Author lines are not recognized.
func decodeChangelog(label string, data []byte) (extract.Artifact, error) {
	cl := extract.Changelog{Name: label, Format: extract.FormatGeneric}
	var (
		cur  *extract.ChangelogEntry
		body []string
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.Body = strings.TrimSpace(strings.Join(body, "\n"))
		cl.Entries = append(cl.Entries, *cur)
		cur, body = nil, nil
	}
	for _, line := range lines(data) {
		if e, ok := changelogHeading(line); ok {
			flush()
			cur = &e
			continue
		}
		if cur != nil {
			body = append(body, line)
		}
	}
	flush()
	return cl, nil
}

func changelogHeading(line string) (extract.ChangelogEntry, bool) {
	text, heading := line, false
	if m := mdHeading.FindStringSubmatch(line); m != nil {
		text, heading = m[1], true
	} else if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
		return extract.ChangelogEntry{}, false
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return extract.ChangelogEntry{}, false
	}
	e := extract.ChangelogEntry{Date: headingDate.FindString(text)}

	head := strings.Trim(fields[0], "[]")
	if strings.EqualFold(head, "unreleased") {
		e.Version = head
		return e, true
	}
	stripped := strings.NewReplacer("[", "", "]", "").Replace(text)
	m := plainHeading.FindStringSubmatch(stripped)
	if m == nil {
		return extract.ChangelogEntry{}, false
	}
	// Outside a heading, "3 - Fixed crash" is a list item, not a release.
	if !heading && !strings.Contains(m[1], ".") && e.Date == "" {
		return extract.ChangelogEntry{}, false
	}
	e.Version = m[1]
	return e, true
}

func lines(data []byte) []string {
	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
}
