// Package buildrules extracts the project declaration from CMake and Meson
// build files.
//
// CMake's project(<name> VERSION <v> DESCRIPTION <d> HOMEPAGE_URL <u>) and
// Meson's project('<name>', version : '<v>', license : '<l>') name the
// project explicitly, so Name, Version and License are "likely". The
// description and homepage are free-form and only "possible". Values that
// still contain variable references are skipped.
package buildrules

import (
	"path"
	"regexp"
	"strings"

	"github.com/matzehuels/upstreamer/pkg/extract"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// Extractor reads [extract.BuildRules] artifacts.
type Extractor struct{}

// New returns the build-rules extractor.
func New() Extractor { return Extractor{} }

func (Extractor) Name() string         { return "buildrules" }
func (Extractor) Stage() extract.Stage { return extract.Primary }

func (Extractor) Supports(a extract.Artifact) bool {
	b, ok := a.(extract.BuildRules)
	return ok && dialect(b.Name) != ""
}

func (Extractor) Extract(a extract.Artifact, _ upstream.Context) []upstream.Guess {
	b, ok := a.(extract.BuildRules)
	if !ok {
		return nil
	}
	var d Declaration
	switch dialect(b.Name) {
	case "cmake":
		d, ok = ParseCMake(b.Text)
	case "meson":
		d, ok = ParseMeson(b.Text)
	}
	if !ok {
		return nil
	}

	origin := upstream.Origin{Class: upstream.ClassBuild, Label: b.Name}
	var out []upstream.Guess
	add := func(f upstream.Field, v string, c upstream.Certainty) {
		if v == "" || strings.Contains(v, "${") {
			return
		}
		out = append(out, upstream.MustGuess(f, upstream.Text(v), c, origin, ""))
	}
	add(upstream.Name, d.Name, upstream.Likely)
	add(upstream.Version, d.Version, upstream.Likely)
	add(upstream.License, d.License, upstream.Likely)
	add(upstream.Summary, d.Description, upstream.Possible)
	add(upstream.Homepage, d.Homepage, upstream.Possible)
	return out
}

func dialect(name string) string {
	switch strings.ToLower(path.Base(name)) {
	case "cmakelists.txt":
		return "cmake"
	case "meson.build":
		return "meson"
	}
	return ""
}

// Declaration is a parsed project() call. Unset fields are empty.
type Declaration struct {
	Name        string
	Version     string
	Description string
	Homepage    string
	License     string
}

// =============================================================================
// CMake
// =============================================================================

var cmakeProject = regexp.MustCompile(`(?im)^\s*project\s*\(`)

// ParseCMake reads the first project() command.
func ParseCMake(text string) (Declaration, bool) {
	loc := cmakeProject.FindStringIndex(text)
	if loc == nil {
		return Declaration{}, false
	}
	args, ok := cmakeArgs(text[loc[1]:])
	if !ok || len(args) == 0 {
		return Declaration{}, false
	}

	d := Declaration{Name: args[0]}
	for i := 1; i < len(args)-1; i++ {
		switch args[i] {
		case "VERSION":
			d.Version = args[i+1]
		case "DESCRIPTION":
			d.Description = args[i+1]
		case "HOMEPAGE_URL":
			d.Homepage = args[i+1]
		default:
			continue
		}
		i++
	}
	return d, true
}

// cmakeArgs splits the arguments of a command up to its closing
// parenthesis. Quoted arguments keep their spaces; comments are dropped.
func cmakeArgs(s string) ([]string, bool) {
	var (
		args []string
		cur  strings.Builder
		quo  bool
	)
	flush := func() {
		if cur.Len() > 0 {
			args = append(args, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quo && c == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
		case quo && c == '"':
			quo = false
			args = append(args, cur.String())
			cur.Reset()
		case quo:
			cur.WriteByte(c)
		case c == '"':
			flush()
			quo = true
		case c == '#':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == ')':
			flush()
			return args, true
		case c == ' ', c == '\t', c == '\n', c == '\r':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	return nil, false
}

// =============================================================================
// Meson
// =============================================================================

var (
	mesonProject = regexp.MustCompile(`(?m)^\s*project\s*\(\s*'([^']*)'`)
	mesonKwarg   = regexp.MustCompile(`(\w+)\s*:\s*'([^']*)'`)
)

// ParseMeson reads the project() call, which Meson requires to be the
// first statement.
func ParseMeson(text string) (Declaration, bool) {
	loc := mesonProject.FindStringSubmatchIndex(text)
	if loc == nil {
		return Declaration{}, false
	}
	d := Declaration{Name: text[loc[2]:loc[3]]}

	body := text[loc[1]:]
	if end := closingParen(body); end >= 0 {
		body = body[:end]
	}
	for _, m := range mesonKwarg.FindAllStringSubmatch(body, -1) {
		switch m[1] {
		case "version":
			d.Version = m[2]
		case "license":
			d.License = m[2]
		}
	}
	return d, true
}

// closingParen returns the index of the parenthesis closing the call,
// skipping quoted strings and nested brackets.
func closingParen(s string) int {
	depth, quo := 0, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quo && c == '\\':
			i++
		case c == '\'':
			quo = !quo
		case quo:
		case c == '(' || c == '[':
			depth++
		case c == ']':
			depth--
		case c == ')':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}
