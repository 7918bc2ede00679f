package local

import (
	"regexp"
	"strings"

	"github.com/matzehuels/upstreamer/pkg/extract"
)

var (
	// [![alt](image)](target)
	mdBadge = regexp.MustCompile(`\[!\[([^\]]*)\]\(([^)\s]+)[^)]*\)\]\(([^)\s]+)[^)]*\)`)
	// ![alt](image) or [text](target)
	mdLink = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)\s]+)[^)]*\)`)
	// `text <target>`_
	rstLink = regexp.MustCompile("`([^`<]*)<([^>]+)>`__?")
	// .. image:: url
	rstImage  = regexp.MustCompile(`^\.\. (?:image|figure)::\s*(\S+)`)
	rstTarget = regexp.MustCompile(`^\s+:target:\s*(\S+)`)
)

// Links returns the hyperlinks and images of a Markdown or reStructuredText
// document in reading order. A badge (an image wrapped in a link) yields a
// single image link whose target is the wrapping link's target; a reST
// image with a :target: option does the same.
func Links(text string) []extract.Link {
	var out []extract.Link
	ls := lines([]byte(text))
	for i, line := range ls {
		out = append(out, markdownLinks(line)...)
		for _, m := range rstLink.FindAllStringSubmatch(line, -1) {
			out = append(out, extract.Link{Text: strings.TrimSpace(m[1]), Target: m[2]})
		}
		if m := rstImage.FindStringSubmatch(line); m != nil {
			target := m[1]
			for _, opt := range ls[i+1:] {
				if !strings.HasPrefix(opt, " ") && !strings.HasPrefix(opt, "\t") {
					break
				}
				if t := rstTarget.FindStringSubmatch(opt); t != nil {
					target = t[1]
					break
				}
			}
			out = append(out, extract.Link{Target: target, Image: true})
		}
	}
	return out
}

func markdownLinks(line string) []extract.Link {
	var out []extract.Link
	for _, m := range mdBadge.FindAllStringSubmatch(line, -1) {
		out = append(out, extract.Link{Text: m[1], Target: m[3], Image: true})
	}
	line = mdBadge.ReplaceAllString(line, "")
	for _, m := range mdLink.FindAllStringSubmatch(line, -1) {
		out = append(out, extract.Link{Text: m[2], Target: m[3], Image: m[1] == "!"})
	}
	return out
}
