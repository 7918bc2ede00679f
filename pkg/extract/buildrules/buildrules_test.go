package buildrules

import (
	"testing"

	"github.com/matzehuels/upstreamer/pkg/extract"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

func TestParseCMake(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Declaration
		ok   bool
	}{
		{
			name: "full",
			text: `cmake_minimum_required(VERSION 3.16)
# project(wrong)
project(zstd
  VERSION 1.5.6 # release
  DESCRIPTION "Fast \"real-time\" compression"
  HOMEPAGE_URL https://facebook.github.io/zstd/
  LANGUAGES C)`,
			want: Declaration{Name: "zstd", Version: "1.5.6", Description: `Fast "real-time" compression`, Homepage: "https://facebook.github.io/zstd/"},
			ok:   true,
		},
		{
			name: "languages only",
			text: "PROJECT(hello C CXX)\n",
			want: Declaration{Name: "hello"},
			ok:   true,
		},
		{
			name: "unterminated",
			text: "project(hello VERSION 1.0",
		},
		{
			name: "missing",
			text: "add_executable(x main.c)\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCMake(tt.text)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseCMake() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseMeson(t *testing.T) {
	text := `project('libfoo', ['c', 'cpp'],
  version : '2.3.0',
  license : 'LGPL-2.1-or-later',
  default_options : ['warning_level=3'])

executable('demo', 'main.c', version : '9.9')
`
	got, ok := ParseMeson(text)
	want := Declaration{Name: "libfoo", Version: "2.3.0", License: "LGPL-2.1-or-later"}
	if !ok || got != want {
		t.Errorf("ParseMeson() = %+v, %v; want %+v", got, ok, want)
	}
}

func TestExtract(t *testing.T) {
	b := extract.BuildRules{Name: "CMakeLists.txt", Text: `project(demo VERSION ${DEMO_VERSION} HOMEPAGE_URL "https://demo.example.org")`}
	if !New().Supports(b) {
		t.Fatal("CMakeLists.txt should be supported")
	}
	got := New().Extract(b, upstream.Context{})
	if len(got) != 2 {
		t.Fatalf("got %v, want Name and Homepage", got)
	}
	if got[0].Field() != upstream.Name || got[0].Certainty() != upstream.Likely {
		t.Errorf("got[0] = %v, want Name at likely", got[0])
	}
	if got[1].Field() != upstream.Homepage || got[1].Certainty() != upstream.Possible {
		t.Errorf("got[1] = %v, want Homepage at possible", got[1])
	}
	if o := got[0].Origin(); o.Class != upstream.ClassBuild || o.Label != "CMakeLists.txt" {
		t.Errorf("origin = %v", o)
	}
}

func TestSupports(t *testing.T) {
	if New().Supports(extract.BuildRules{Name: "Makefile"}) {
		t.Error("Makefile should not be supported")
	}
	if !New().Supports(extract.BuildRules{Name: "sub/meson.build"}) {
		t.Error("nested meson.build should be supported")
	}
}
