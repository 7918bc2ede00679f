package derived

import (
	"testing"

	"github.com/matzehuels/upstreamer/pkg/upstream"
)

func values(gs []upstream.Guess) map[upstream.Field]string {
	out := make(map[upstream.Field]string)
	for _, g := range gs {
		v := g.Value().String()
		if vcs, ok := g.Value().(upstream.VCS); ok {
			v = vcs.URL
		}
		out[g.Field()] = v
	}
	return out
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name string
		ctx  upstream.Context
		want map[upstream.Field]string
	}{
		{
			name: "github repository",
			ctx:  upstream.Context{Repository: upstream.VCS{URL: "https://github.com/o/r.git"}},
			want: map[upstream.Field]string{
				upstream.BugDatabase:      "https://github.com/o/r/issues",
				upstream.BugSubmit:        "https://github.com/o/r/issues/new",
				upstream.RepositoryBrowse: "https://github.com/o/r",
				upstream.Homepage:         "https://github.com/o/r",
			},
		},
		{
			name: "gitlab with homepage",
			ctx:  upstream.Context{Homepage: "https://p.example.org", Repository: upstream.VCS{URL: "https://gitlab.com/g/p"}},
			want: map[upstream.Field]string{
				upstream.BugDatabase:      "https://gitlab.com/g/p/-/issues",
				upstream.BugSubmit:        "https://gitlab.com/g/p/-/issues/new",
				upstream.RepositoryBrowse: "https://gitlab.com/g/p",
			},
		},
		{
			name: "homepage on forge",
			ctx:  upstream.Context{Homepage: "https://codeberg.org/o/r"},
			want: map[upstream.Field]string{
				upstream.Repository:       "https://codeberg.org/o/r",
				upstream.BugDatabase:      "https://codeberg.org/o/r/issues",
				upstream.BugSubmit:        "https://codeberg.org/o/r/issues/new",
				upstream.RepositoryBrowse: "https://codeberg.org/o/r",
			},
		},
		{
			name: "launchpad homepage",
			ctx:  upstream.Context{Homepage: "https://launchpad.net/bzr"},
			want: map[upstream.Field]string{
				upstream.BugDatabase: "https://bugs.launchpad.net/bzr",
				upstream.BugSubmit:   "https://bugs.launchpad.net/bzr/+filebug",
			},
		},
		{
			name: "unknown host",
			ctx:  upstream.Context{Repository: upstream.VCS{URL: "https://git.example.org/r.git"}},
			want: map[upstream.Field]string{},
		},
		{
			name: "empty",
			want: map[upstream.Field]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := values(New().Derive(tt.ctx))
			if len(got) != len(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			for f, v := range tt.want {
				if got[f] != v {
					t.Errorf("%s = %q, want %q", f, got[f], v)
				}
			}
		})
	}
}

func TestDeriveOrigin(t *testing.T) {
	for _, g := range New().Derive(upstream.Context{Repository: upstream.VCS{URL: "https://github.com/o/r"}}) {
		if g.Origin().Class != upstream.ClassDerived || g.Origin().Label != upstream.LabelForge {
			t.Errorf("origin = %v", g.Origin())
		}
		if g.Certainty() > upstream.Likely {
			t.Errorf("derived guess above likely: %v", g)
		}
	}
}
