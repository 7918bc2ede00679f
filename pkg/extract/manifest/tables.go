package manifest

import (
	"strings"

	"github.com/package-url/packageurl-go"

	"github.com/matzehuels/upstreamer/pkg/upstream"
)

const (
	certain   = upstream.Certain
	confident = upstream.Confident
	likely    = upstream.Likely
)

var tableOrder = []string{
	upstream.LabelUpstreamMetadata,
	upstream.LabelCargo,
	upstream.LabelPyproject,
	upstream.LabelPackageJSON,
	upstream.LabelComposer,
	upstream.LabelPOM,
	upstream.LabelPubspec,
}

var tables = map[string]table{
	upstream.LabelUpstreamMetadata: dep12Table,
	upstream.LabelCargo:            cargoTable,
	upstream.LabelPyproject:        pyprojectTable,
	upstream.LabelPackageJSON:      npmTable,
	upstream.LabelComposer:         composerTable,
	upstream.LabelPOM:              pomTable,
	upstream.LabelPubspec:          pubspecTable,
}

// purl renders a package URL, or "" when name is empty.
func purl(typ, namespace, name string) string {
	if name == "" {
		return ""
	}
	return packageurl.NewPackageURL(typ, namespace, name, "", nil, "").ToString()
}

// =============================================================================
// debian/upstream/metadata (DEP-12)
// =============================================================================

// Curated upstream metadata is the most trusted manifest.
var dep12Table = table{
	rules: []rule{
		{path: "Name", field: upstream.Name, certainty: certain},
		{path: "Contact", field: upstream.Contact, certainty: certain, value: asPerson},
		{path: "Homepage", field: upstream.Homepage, certainty: certain},
		{path: "Repository", field: upstream.Repository, certainty: certain},
		{path: "Repository-Browse", field: upstream.RepositoryBrowse, certainty: certain},
		{path: "Bug-Database", field: upstream.BugDatabase, certainty: certain},
		{path: "Bug-Submit", field: upstream.BugSubmit, certainty: certain},
		{path: "Changelog", field: upstream.Changelog, certainty: certain},
		{path: "Documentation", field: upstream.Documentation, certainty: certain},
		{path: "Security-Contact", field: upstream.SecurityContact, certainty: certain},
		{path: "Donation", field: upstream.Funding, certainty: certain},
		{path: "Funding", field: upstream.Funding, certainty: certain, value: asFirstURL},
		{path: "FAQ", field: upstream.Wiki, certainty: likely},
		{path: "Webservice", field: upstream.Homepage, certainty: likely},
	},
	custom: func(tree map[string]any, e *emitter) {
		// Registry: [{Name: PyPI, Entry: foo}, ...]
		entries, _ := tree["Registry"].([]any)
		for _, it := range entries {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			reg, _ := m["Name"].(string)
			entry, _ := m["Entry"].(string)
			if typ, ok := dep12Registries[strings.ToLower(reg)]; ok {
				e.text(upstream.Registry, purl(typ, "", strings.TrimSpace(entry)), certain)
			}
		}
	},
}

var dep12Registries = map[string]string{
	"pypi":      packageurl.TypePyPi,
	"crates.io": packageurl.TypeCargo,
	"npm":       packageurl.TypeNPM,
	"packagist": packageurl.TypeComposer,
	"cpan":      "cpan",
	"hackage":   "hackage",
	"pub":       "pub",
}

// =============================================================================
// Cargo.toml
// =============================================================================

var cargoTable = table{
	rules: []rule{
		{path: "package.name", field: upstream.Name, certainty: confident},
		{path: "package.version", field: upstream.Version, certainty: confident},
		{path: "package.description", field: upstream.Summary, certainty: confident},
		{path: "package.homepage", field: upstream.Homepage, certainty: confident},
		{path: "package.repository", field: upstream.Repository, certainty: confident},
		{path: "package.documentation", field: upstream.Documentation, certainty: confident},
		{path: "package.license", field: upstream.License, certainty: confident},
		{path: "package.keywords", field: upstream.Keywords, certainty: confident},
		{path: "package.authors", field: upstream.Author, certainty: confident},
	},
	registry: func(tree map[string]any) string {
		return purl(packageurl.TypeCargo, "", str(tree, "package.name"))
	},
	registryCertainty: confident,
}

// =============================================================================
// pyproject.toml
// =============================================================================

var pyprojectTable = table{
	rules: []rule{
		{path: "project.name", field: upstream.Name, certainty: confident},
		{path: "project.version", field: upstream.Version, certainty: confident},
		{path: "project.description", field: upstream.Summary, certainty: confident},
		{path: "project.license", field: upstream.License, certainty: confident, value: asLicenseTable},
		{path: "project.keywords", field: upstream.Keywords, certainty: confident},
		{path: "project.authors", field: upstream.Author, certainty: confident},
		{path: "project.maintainers", field: upstream.Maintainer, certainty: confident, value: asPeople},
		{path: "tool.poetry.name", field: upstream.Name, certainty: confident},
		{path: "tool.poetry.version", field: upstream.Version, certainty: confident},
		{path: "tool.poetry.description", field: upstream.Summary, certainty: confident},
		{path: "tool.poetry.homepage", field: upstream.Homepage, certainty: confident},
		{path: "tool.poetry.repository", field: upstream.Repository, certainty: confident},
		{path: "tool.poetry.documentation", field: upstream.Documentation, certainty: confident},
		{path: "tool.poetry.license", field: upstream.License, certainty: confident},
		{path: "tool.poetry.keywords", field: upstream.Keywords, certainty: confident},
		{path: "tool.poetry.authors", field: upstream.Author, certainty: confident},
		{path: "tool.poetry.maintainers", field: upstream.Maintainer, certainty: confident, value: asPeople},
	},
	custom: func(tree map[string]any, e *emitter) {
		for _, key := range []string{"project.urls", "tool.poetry.urls"} {
			urls, _ := lookup(tree, key)
			m, _ := urls.(map[string]any)
			for label, v := range m {
				s, ok := v.(string)
				if !ok {
					continue
				}
				if f, ok := urlLabelField(label); ok {
					e.emit(f, valueFor(f, s), likely)
				}
			}
		}
	},
	registry: func(tree map[string]any) string {
		name := str(tree, "project.name")
		if name == "" {
			name = str(tree, "tool.poetry.name")
		}
		return purl(packageurl.TypePyPi, "", pep503(name))
	},
	registryCertainty: confident,
}

// pep503 normalizes a Python distribution name the way PyPI does.
func pep503(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

// asLicenseTable reads a PEP 621 license: a string, or a table with a
// text key. A table with only a file key names no license.
func asLicenseTable(v any) (upstream.Value, bool) {
	switch t := v.(type) {
	case string:
		return upstream.Text(t), true
	case map[string]any:
		s, ok := t["text"].(string)
		return upstream.Text(s), ok
	}
	return nil, false
}

// urlLabels maps folded project.urls labels to fields.
var urlLabels = map[string]upstream.Field{
	"homepage":      upstream.Homepage,
	"home":          upstream.Homepage,
	"website":       upstream.Homepage,
	"source":        upstream.Repository,
	"sourcecode":    upstream.Repository,
	"code":          upstream.Repository,
	"repository":    upstream.Repository,
	"github":        upstream.Repository,
	"gitlab":        upstream.Repository,
	"bugtracker":    upstream.BugDatabase,
	"issues":        upstream.BugDatabase,
	"issuetracker":  upstream.BugDatabase,
	"tracker":       upstream.BugDatabase,
	"bugs":          upstream.BugDatabase,
	"documentation": upstream.Documentation,
	"docs":          upstream.Documentation,
	"changelog":     upstream.Changelog,
	"changes":       upstream.Changelog,
	"releasenotes":  upstream.Changelog,
	"funding":       upstream.Funding,
	"sponsor":       upstream.Funding,
	"donate":        upstream.Funding,
	"wiki":          upstream.Wiki,
	"download":      upstream.Download,
}

func urlLabelField(label string) (upstream.Field, bool) {
	folded := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '_' || r == '.' {
			return -1
		}
		return r
	}, strings.ToLower(label))
	f, ok := urlLabels[folded]
	return f, ok
}

func valueFor(f upstream.Field, s string) upstream.Value {
	if f.Kind() == upstream.KindVCS {
		return upstream.VCS{URL: s}
	}
	return upstream.Text(s)
}

// =============================================================================
// package.json
// =============================================================================

var npmTable = table{
	rules: []rule{
		{path: "name", field: upstream.Name, certainty: confident},
		{path: "version", field: upstream.Version, certainty: confident},
		{path: "description", field: upstream.Summary, certainty: confident},
		{path: "homepage", field: upstream.Homepage, certainty: confident},
		{path: "license", field: upstream.License, certainty: confident, value: asNpmLicense},
		{path: "keywords", field: upstream.Keywords, certainty: confident},
		{path: "funding", field: upstream.Funding, certainty: confident, value: asFirstURL},
	},
	custom: func(tree map[string]any, e *emitter) {
		if a, ok := person(tree["author"]); ok {
			e.emit(upstream.Author, upstream.NewList(a), confident)
		}
		switch repo := tree["repository"].(type) {
		case string:
			e.emit(upstream.Repository, upstream.VCS{URL: npmShorthand(repo)}, confident)
		case map[string]any:
			if v, ok := asVCS(repo); ok {
				loc := v.(upstream.VCS)
				loc.URL = npmShorthand(loc.URL)
				e.emit(upstream.Repository, loc, confident)
			}
		}
		switch bugs := tree["bugs"].(type) {
		case string:
			// A bare string may be a URL or an address.
			if strings.Contains(bugs, "@") && !strings.Contains(bugs, "://") {
				e.text(upstream.BugSubmit, bugs, likely)
			} else {
				e.text(upstream.BugDatabase, bugs, likely)
			}
		case map[string]any:
			u, _ := bugs["url"].(string)
			mail, _ := bugs["email"].(string)
			e.text(upstream.BugDatabase, u, confident)
			e.text(upstream.BugSubmit, mail, confident)
		}
	},
	registry: func(tree map[string]any) string {
		name := str(tree, "name")
		ns := ""
		if strings.HasPrefix(name, "@") {
			if scope, rest, ok := strings.Cut(name, "/"); ok {
				ns, name = scope, rest
			}
		}
		return purl(packageurl.TypeNPM, ns, name)
	},
	registryCertainty: confident,
}

// npmShorthand expands "github:o/r", "gitlab:o/r", "bitbucket:o/r" and
// bare "o/r" repository shorthands.
func npmShorthand(s string) string {
	s = strings.TrimSpace(s)
	for prefix, host := range map[string]string{
		"github:":    "https://github.com/",
		"gitlab:":    "https://gitlab.com/",
		"bitbucket:": "https://bitbucket.org/",
		"gist:":      "https://gist.github.com/",
	} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			return host + rest
		}
	}
	if !strings.Contains(s, ":") && strings.Count(s, "/") == 1 && !strings.HasPrefix(s, "/") {
		return "https://github.com/" + s
	}
	return s
}

// asNpmLicense accepts a license string or the legacy {type: ...} table.
func asNpmLicense(v any) (upstream.Value, bool) {
	switch t := v.(type) {
	case string:
		return upstream.Text(t), true
	case map[string]any:
		s, ok := t["type"].(string)
		return upstream.Text(s), ok
	}
	return nil, false
}

// =============================================================================
// composer.json
// =============================================================================

var composerTable = table{
	rules: []rule{
		{path: "name", field: upstream.Name, certainty: confident},
		{path: "version", field: upstream.Version, certainty: confident},
		{path: "description", field: upstream.Summary, certainty: confident},
		{path: "homepage", field: upstream.Homepage, certainty: confident},
		{path: "license", field: upstream.License, certainty: confident, value: asLicenseList},
		{path: "keywords", field: upstream.Keywords, certainty: confident},
		{path: "authors", field: upstream.Author, certainty: confident},
		{path: "support.issues", field: upstream.BugDatabase, certainty: confident},
		{path: "support.source", field: upstream.Repository, certainty: confident},
		{path: "support.docs", field: upstream.Documentation, certainty: confident},
		{path: "support.wiki", field: upstream.Wiki, certainty: confident},
		{path: "support.security", field: upstream.SecurityContact, certainty: confident},
		{path: "support.email", field: upstream.Contact, certainty: likely},
		{path: "funding", field: upstream.Funding, certainty: confident, value: asFirstURL},
	},
	registry: func(tree map[string]any) string {
		vendor, name, ok := strings.Cut(str(tree, "name"), "/")
		if !ok {
			return ""
		}
		return purl(packageurl.TypeComposer, vendor, name)
	},
	registryCertainty: confident,
}

// asLicenseList accepts a license string or a list meaning any of them.
func asLicenseList(v any) (upstream.Value, bool) {
	switch t := v.(type) {
	case string:
		return upstream.Text(t), true
	case []any:
		var ids []string
		for _, it := range t {
			if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
				ids = append(ids, strings.TrimSpace(s))
			}
		}
		return upstream.Text(strings.Join(ids, " or ")), len(ids) > 0
	}
	return nil, false
}

// =============================================================================
// pom.xml
// =============================================================================

// The source decodes pom.xml into a tree rooted at "project"; repeated
// elements become lists.
var pomTable = table{
	rules: []rule{
		{path: "project.artifactId", field: upstream.Name, certainty: confident},
		{path: "project.version", field: upstream.Version, certainty: confident},
		{path: "project.name", field: upstream.Summary, certainty: likely},
		{path: "project.description", field: upstream.Description, certainty: confident},
		{path: "project.url", field: upstream.Homepage, certainty: confident},
		{path: "project.scm.url", field: upstream.RepositoryBrowse, certainty: confident},
		{path: "project.scm.url", field: upstream.Repository, certainty: likely},
		{path: "project.issueManagement.url", field: upstream.BugDatabase, certainty: confident},
		{path: "project.licenses.license", field: upstream.License, certainty: confident, value: asPomLicenses},
	},
	custom: func(tree map[string]any, e *emitter) {
		for _, key := range []string{"project.scm.connection", "project.scm.developerConnection"} {
			if conn := str(tree, key); conn != "" {
				e.emit(upstream.Repository, upstream.VCS{URL: stripSCM(conn)}, confident)
				return
			}
		}
	},
	registry: func(tree map[string]any) string {
		group := str(tree, "project.groupId")
		if group == "" {
			group = str(tree, "project.parent.groupId")
		}
		return purl(packageurl.TypeMaven, group, str(tree, "project.artifactId"))
	},
	registryCertainty: confident,
}

// stripSCM removes the Maven "scm:git:" provider prefix.
func stripSCM(s string) string {
	if rest, ok := strings.CutPrefix(s, "scm:"); ok {
		if _, url, ok := strings.Cut(rest, ":"); ok {
			return url
		}
	}
	return s
}

// asPomLicenses reads licenses.license, a single element or a list, and
// joins the names as alternatives.
func asPomLicenses(v any) (upstream.Value, bool) {
	var items []any
	switch t := v.(type) {
	case map[string]any:
		items = []any{t}
	case []any:
		items = t
	}
	var names []string
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		if name, ok := m["name"].(string); ok && strings.TrimSpace(name) != "" {
			names = append(names, strings.TrimSpace(name))
		}
	}
	return upstream.Text(strings.Join(names, " or ")), len(names) > 0
}

// =============================================================================
// pubspec.yaml
// =============================================================================

var pubspecTable = table{
	rules: []rule{
		{path: "name", field: upstream.Name, certainty: confident},
		{path: "version", field: upstream.Version, certainty: confident},
		{path: "description", field: upstream.Summary, certainty: confident},
		{path: "homepage", field: upstream.Homepage, certainty: confident},
		{path: "repository", field: upstream.Repository, certainty: confident},
		{path: "issue_tracker", field: upstream.BugDatabase, certainty: confident},
		{path: "documentation", field: upstream.Documentation, certainty: confident},
		{path: "topics", field: upstream.Keywords, certainty: confident},
		{path: "funding", field: upstream.Funding, certainty: confident, value: asFirstURL},
	},
	registry: func(tree map[string]any) string {
		return purl("pub", "", str(tree, "name"))
	},
	registryCertainty: confident,
}
