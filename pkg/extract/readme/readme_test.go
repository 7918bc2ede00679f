package readme

import (
	"testing"

	"github.com/matzehuels/upstreamer/pkg/extract"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

type want struct {
	field     upstream.Field
	value     string
	certainty upstream.Certainty
}

func has(got []upstream.Guess, w want) bool {
	for _, g := range got {
		if g.Field() == w.field && g.Certainty() == w.certainty {
			v := g.Value().String()
			if vcs, ok := g.Value().(upstream.VCS); ok {
				v = vcs.URL
			}
			if v == w.value {
				return true
			}
		}
	}
	return false
}

func check(t *testing.T, got []upstream.Guess, wants ...want) {
	t.Helper()
	for _, w := range wants {
		if !has(got, w) {
			t.Errorf("missing %s = %q at %v in %v", w.field, w.value, w.certainty, got)
		}
	}
}

func TestLabeledLines(t *testing.T) {
	doc := extract.Document{Name: "README.md", Text: `# demo

Some words.

* **Homepage:** https://demo.example.org
- Bug tracker: <https://tracker.example.org/demo>
Documentation: [the docs](https://docs.example.org/demo/)
:Mailing list: demo-users@lists.example.org
License: MIT
Changelog: [changes](CHANGELOG.md)
`}
	got := New().Extract(doc, upstream.Context{Repository: upstream.VCS{URL: "https://github.com/o/demo"}})
	check(t, got,
		want{upstream.Homepage, "https://demo.example.org", upstream.Confident},
		want{upstream.BugDatabase, "https://tracker.example.org/demo", upstream.Confident},
		want{upstream.Documentation, "https://docs.example.org/demo/", upstream.Confident},
		want{upstream.MailingList, "demo-users@lists.example.org", upstream.Confident},
		want{upstream.License, "MIT", upstream.Confident},
		want{upstream.Changelog, "https://github.com/o/demo/blob/HEAD/CHANGELOG.md", upstream.Confident},
	)
}

func TestRelativeLinkWithoutRepository(t *testing.T) {
	doc := extract.Document{Name: "README.md", Text: "Changelog: CHANGELOG.md\n"}
	for _, g := range New().Extract(doc, upstream.Context{}) {
		if g.Field() == upstream.Changelog {
			t.Errorf("relative link resolved without a repository: %v", g)
		}
	}
}

func TestLabeledProseIgnored(t *testing.T) {
	doc := extract.Document{Name: "README.md", Text: `Source: Wikipedia article on trees
Docs: coming soon
Homepage: TBD
Wiki: see the #wiki channel
Docs: docs/
`}
	got := New().Extract(doc, upstream.Context{Repository: upstream.VCS{URL: "https://github.com/o/r"}})
	for _, g := range got {
		if g.Field() == upstream.Repository || g.Field() == upstream.Homepage || g.Field() == upstream.Wiki {
			t.Errorf("prose label produced %v", g)
		}
	}
	docs := 0
	for _, g := range got {
		if g.Field() == upstream.Documentation {
			docs++
			if v := g.Value().String(); v != "https://github.com/o/r/blob/HEAD/docs" {
				t.Errorf("Documentation = %q, want the docs/ path", v)
			}
		}
	}
	if docs != 1 {
		t.Errorf("Documentation guesses = %d, want 1", docs)
	}
}

func TestLinkTarget(t *testing.T) {
	tests := []struct {
		value string
		want  string
		ok    bool
	}{
		{"[the docs](https://docs.example.org)", "https://docs.example.org", true},
		{"<https://x.org/bugs>", "https://x.org/bugs", true},
		{"https://x.org (mirror)", "https://x.org", true},
		{"www.example.net.", "www.example.net", true},
		{"CHANGELOG.md", "CHANGELOG.md", true},
		{"doc/manual", "doc/manual", true},
		{"Wikipedia", "", false},
		{"coming soon", "", false},
		{"see CHANGELOG.md", "", false},
		{"#install", "", false},
	}
	for _, tt := range tests {
		got, ok := linkTarget(tt.value)
		if got != tt.want || ok != tt.ok {
			t.Errorf("linkTarget(%q) = %q, %v; want %q, %v", tt.value, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsAdornment(t *testing.T) {
	for s, want := range map[string]bool{
		"=====":  true,
		"---":    true,
		"^^^^":   true,
		"==":     false,
		"=-=":    false,
		"# demo": false,
		"abcabc": false,
	} {
		if got := isAdornment(s); got != want {
			t.Errorf("isAdornment(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestLabeledLine(t *testing.T) {
	tests := []struct {
		line  string
		field upstream.Field
		value string
		ok    bool
	}{
		{"Homepage: https://x.org", upstream.Homepage, "https://x.org", true},
		{"  - **Source code**: https://github.com/o/r", upstream.Repository, "https://github.com/o/r", true},
		{"__Website:__ https://x.org", upstream.Homepage, "https://x.org", true},
		{":Issues: https://x.org/issues", upstream.BugDatabase, "https://x.org/issues", true},
		{"Homepage:", 0, "", false},
		{"Note: this is not a label", 0, "", false},
		{"https://github.com/o/r", 0, "", false},
	}
	for _, tt := range tests {
		f, v, ok := labeledLine(tt.line)
		if ok != tt.ok || (ok && (f != tt.field || v != tt.value)) {
			t.Errorf("labeledLine(%q) = %v, %q, %v; want %v, %q, %v", tt.line, f, v, ok, tt.field, tt.value, tt.ok)
		}
	}
}

func TestForgeURLs(t *testing.T) {
	doc := extract.Document{
		Name: "README.rst",
		Text: "Clone https://github.com/o/r.git and report problems at https://github.com/o/r/issues.\nMirror of https://github.com/o/r.",
		Links: []extract.Link{
			{Text: "mirror", Target: "https://gitlab.com/g/sub/r"},
			{Text: "unrelated", Target: "https://example.net/page"},
		},
	}
	got := New().Extract(doc, upstream.Context{})
	check(t, got,
		want{upstream.Repository, "https://github.com/o/r", upstream.Likely},
		want{upstream.BugDatabase, "https://github.com/o/r/issues", upstream.Likely},
		want{upstream.Repository, "https://gitlab.com/g/sub/r", upstream.Likely},
	)
	repos := 0
	for _, g := range got {
		if g.Field() == upstream.Repository && g.Value().(upstream.VCS).URL == "https://github.com/o/r" {
			repos++
		}
	}
	if repos != 2 {
		t.Errorf("repository mentioned twice emitted %d times, want 2", repos)
	}
}

func TestBadges(t *testing.T) {
	doc := extract.Document{Name: "README.md", Links: []extract.Link{
		{Text: "CI", Target: "https://github.com/o/r/actions/workflows/ci.yml", Image: true},
		{Text: "build", Target: "https://travis-ci.org/o/legacy", Image: true},
		{Text: "coverage", Target: "https://codecov.io/gl/g/cov", Image: true},
		{Text: "pypi", Target: "https://pypi.org/project/demo-pkg/", Image: true},
		{Text: "crates", Target: "https://crates.io/crates/democrate", Image: true},
		{Text: "npm", Target: "https://www.npmjs.com/package/@scope/demo", Image: true},
		{Text: "packagist", Target: "https://packagist.org/packages/vendor/demo", Image: true},
		{Text: "docs", Target: "https://demo.readthedocs.io/en/latest/?badge=latest", Image: true},
	}}
	got := New().Extract(doc, upstream.Context{})
	check(t, got,
		want{upstream.Repository, "https://github.com/o/r", upstream.Possible},
		want{upstream.Repository, "https://github.com/o/legacy", upstream.Possible},
		want{upstream.Repository, "https://gitlab.com/g/cov", upstream.Possible},
		want{upstream.Name, "demo-pkg", upstream.Possible},
		want{upstream.Name, "democrate", upstream.Possible},
		want{upstream.Name, "@scope/demo", upstream.Possible},
		want{upstream.Name, "vendor/demo", upstream.Possible},
		want{upstream.Documentation, "https://demo.readthedocs.io", upstream.Possible},
	)
}

func TestTitleAndSummary(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		title   string
		summary string
	}{
		{"markdown", "# ripgrep\n\nA line-oriented search tool.\n\nMore text.", "ripgrep", "A line-oriented search tool."},
		{"rst", "=====\nhello\n=====\n\nGreets the world politely.\n", "hello", "Greets the world politely."},
		{"setext", "tool\n====\n\nDoes things.\nOver two lines.\n", "tool", ""},
		{"sentence title", "# Welcome to the project\n\nText here.\n", "", ""},
		{"badge paragraph", "# demo\n\n[![ci](x)](y)\n", "demo", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New().Extract(extract.Document{Name: "README", Text: tt.text}, upstream.Context{})
			var title, summary string
			for _, g := range got {
				switch g.Field() {
				case upstream.Name:
					title = g.Value().String()
				case upstream.Summary:
					summary = g.Value().String()
				}
			}
			if title != tt.title || summary != tt.summary {
				t.Errorf("title, summary = %q, %q; want %q, %q", title, summary, tt.title, tt.summary)
			}
		})
	}
}

func TestSecurityPolicy(t *testing.T) {
	doc := extract.Document{
		Name:  "SECURITY.md",
		Text:  "# Security Policy\n\nReport vulnerabilities to security@demo.example.org.\n",
		Links: []extract.Link{{Text: "mail", Target: "mailto:psirt@demo.example.org"}},
	}
	got := New().Extract(doc, upstream.Context{})
	check(t, got,
		want{upstream.SecurityMD, "SECURITY.md", upstream.Certain},
		want{upstream.SecurityContact, "security@demo.example.org", upstream.Likely},
		want{upstream.SecurityContact, "psirt@demo.example.org", upstream.Likely},
	)
	for _, g := range got {
		if g.Field() == upstream.Name {
			t.Errorf("security policy title read as Name: %v", g)
		}
	}
}

func TestIsSecurityPolicy(t *testing.T) {
	for name, want := range map[string]bool{
		"SECURITY.md":         true,
		".github/SECURITY.md": true,
		"security.rst":        true,
		"README.md":           false,
		"SECURITY-NOTES.txt":  false,
	} {
		if got := IsSecurityPolicy(name); got != want {
			t.Errorf("IsSecurityPolicy(%q) = %v, want %v", name, got, want)
		}
	}
}
