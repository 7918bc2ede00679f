package forge

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		kind     Kind
		url      string
		branch   string
		subpath  string
		issues   bool
		bugs     string
		bugSubmt string
	}{
		{
			in: "https://github.com/owner/repo", kind: GitHub,
			url:  "https://github.com/owner/repo",
			bugs: "https://github.com/owner/repo/issues", bugSubmt: "https://github.com/owner/repo/issues/new",
		},
		{
			in: "git://github.com/owner/repo.git", kind: GitHub,
			url:  "https://github.com/owner/repo",
			bugs: "https://github.com/owner/repo/issues", bugSubmt: "https://github.com/owner/repo/issues/new",
		},
		{
			in: "https://github.com/owner/repo/blob/main/docs/index.md", kind: GitHub,
			url: "https://github.com/owner/repo", branch: "main", subpath: "docs/index.md",
			bugs: "https://github.com/owner/repo/issues", bugSubmt: "https://github.com/owner/repo/issues/new",
		},
		{
			in: "https://github.com/owner/repo/issues/12", kind: GitHub, issues: true,
			url:  "https://github.com/owner/repo",
			bugs: "https://github.com/owner/repo/issues", bugSubmt: "https://github.com/owner/repo/issues/new",
		},
		{
			in: "https://gitlab.com/group/sub/proj/-/tree/dev/src", kind: GitLab,
			url: "https://gitlab.com/group/sub/proj", branch: "dev", subpath: "src",
			bugs: "https://gitlab.com/group/sub/proj/-/issues", bugSubmt: "https://gitlab.com/group/sub/proj/-/issues/new",
		},
		{
			in: "https://salsa.debian.org/debian/hello/-/issues", kind: GitLab, issues: true,
			url:  "https://salsa.debian.org/debian/hello",
			bugs: "https://salsa.debian.org/debian/hello/-/issues", bugSubmt: "https://salsa.debian.org/debian/hello/-/issues/new",
		},
		{
			in: "https://codeberg.org/forgejo/forgejo/src/branch/main", kind: Codeberg,
			url: "https://codeberg.org/forgejo/forgejo", branch: "main",
			bugs: "https://codeberg.org/forgejo/forgejo/issues", bugSubmt: "https://codeberg.org/forgejo/forgejo/issues/new",
		},
		{
			in: "https://git.sr.ht/~sircmpwn/scdoc", kind: SourceHut,
			url:  "https://git.sr.ht/~sircmpwn/scdoc",
			bugs: "https://todo.sr.ht/~sircmpwn/scdoc",
		},
		{
			in: "https://sourceforge.net/projects/zlib/files/", kind: SourceForge,
			url: "https://sourceforge.net/projects/zlib",
		},
		{
			in: "http://zlib.sourceforge.net/", kind: SourceForge,
			url: "https://sourceforge.net/projects/zlib",
		},
		{
			in: "https://launchpad.net/bzr", kind: Launchpad,
			url:  "https://launchpad.net/bzr",
			bugs: "https://bugs.launchpad.net/bzr", bugSubmt: "https://bugs.launchpad.net/bzr/+filebug",
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, ok := Parse(tt.in)
			if !ok {
				t.Fatalf("Parse(%q) not recognized", tt.in)
			}
			if r.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", r.Kind, tt.kind)
			}
			if got := r.URL(); got != tt.url {
				t.Errorf("URL() = %q, want %q", got, tt.url)
			}
			if r.Branch != tt.branch || r.Subpath != tt.subpath {
				t.Errorf("Branch/Subpath = %q/%q, want %q/%q", r.Branch, r.Subpath, tt.branch, tt.subpath)
			}
			if r.Issues != tt.issues {
				t.Errorf("Issues = %v, want %v", r.Issues, tt.issues)
			}
			if got := r.BugDatabase(); got != tt.bugs {
				t.Errorf("BugDatabase() = %q, want %q", got, tt.bugs)
			}
			if got := r.BugSubmit(); got != tt.bugSubmt {
				t.Errorf("BugSubmit() = %q, want %q", got, tt.bugSubmt)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{
		"https://github.com/",
		"https://github.com/owner",
		"https://github.com/sponsors/someone",
		"https://gitlab.com/explore/projects",
		"https://example.org/owner/repo",
		"https://launchpad.net/~someuser",
		"not a url at all",
	} {
		if r, ok := Parse(in); ok {
			t.Errorf("Parse(%q) = %+v, want not recognized", in, r)
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		host string
		want Kind
	}{
		{"GitHub.com", GitHub},
		{"gitlab.example.org", GitLab},
		{"gitea.example.org", Gitea},
		{"github.com:443", GitHub},
		{"example.org", Unknown},
	}
	for _, tt := range tests {
		if got, _ := Lookup(tt.host); got != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestIsCode(t *testing.T) {
	gh, _ := Parse("https://github.com/o/r")
	sf, _ := Parse("https://sourceforge.net/projects/x")
	if !gh.IsCode() || sf.IsCode() {
		t.Error("IsCode should hold for code forges only")
	}
}

func TestFileURL(t *testing.T) {
	tests := []struct {
		repo string
		rel  string
		want string
	}{
		{"https://github.com/o/r", "docs/index.md", "https://github.com/o/r/blob/HEAD/docs/index.md"},
		{"https://github.com/o/r/tree/dev/sub", "./README.md", "https://github.com/o/r/blob/dev/sub/README.md"},
		{"https://gitlab.com/g/p", "CHANGELOG.md", "https://gitlab.com/g/p/-/blob/HEAD/CHANGELOG.md"},
		{"https://codeberg.org/o/r", "NEWS", "https://codeberg.org/o/r/src/branch/HEAD/NEWS"},
		{"https://git.sr.ht/~u/r", "a/../b.md", "https://git.sr.ht/~u/r/tree/HEAD/item/b.md"},
		{"https://launchpad.net/p", "x", ""},
	}
	for _, tt := range tests {
		r, ok := Parse(tt.repo)
		if !ok {
			t.Fatalf("Parse(%q) failed", tt.repo)
		}
		if got := r.FileURL(tt.rel); got != tt.want {
			t.Errorf("FileURL(%q) on %s = %q, want %q", tt.rel, tt.repo, got, tt.want)
		}
	}
}
