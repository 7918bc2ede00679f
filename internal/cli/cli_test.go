package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/upstreamer/pkg/reconcile"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// execute runs the CLI with args in an isolated config and cache home.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out, logs bytes.Buffer
	c := New(&out, &logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"Cargo.toml": `[package]
name = "demo"
version = "0.3.1"
license = "MIT"
repository = "https://github.com/example-org/demo"
`,
		"README.md": "# demo\n\nDocs at [the site](https://demo.example.org).\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, &bytes.Buffer{}, LogInfo).RootCommand()
	want := []string{"artifacts", "browse", "cache", "check", "completion", "config", "fields", "guess", "provenance", "serve"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestGuessJSON(t *testing.T) {
	out, err := execute(t, "guess", writeProject(t), "--format", "json", "--no-cache")
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	rec := upstream.NewRecord()
	if err := json.Unmarshal([]byte(out), rec); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got := rec.Text(upstream.Name); got != "demo" {
		t.Errorf("Name = %q, want demo", got)
	}
	if got := rec.Text(upstream.License); got != "MIT" {
		t.Errorf("License = %q, want MIT", got)
	}
}

func TestGuessYAML(t *testing.T) {
	out, err := execute(t, "guess", writeProject(t), "-f", "yaml", "--no-cache")
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	if !strings.Contains(out, "Name:\n") || !strings.Contains(out, "value: demo") {
		t.Errorf("unexpected YAML:\n%s", out)
	}
	if strings.Contains(out, "{") {
		t.Errorf("YAML should be block style:\n%s", out)
	}
}

func TestGuessText(t *testing.T) {
	out, err := execute(t, "guess", writeProject(t))
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	for _, want := range []string{"Field", "Repository", "https://github.com/example-org/demo", "Cargo.toml"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGuessFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"--format", "xml"}},
		{"bad certainty", []string{"--min-certainty", "sure"}},
		{"unknown extractor", []string{"--disable", "nope"}},
		{"missing artifacts", []string{"--from-json", "missing.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"guess", writeProject(t), "--no-cache"}, tt.args...)
			if _, err := execute(t, args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestArtifactsRoundTrip(t *testing.T) {
	dir := writeProject(t)
	file := filepath.Join(t.TempDir(), "artifacts.json")
	if _, err := execute(t, "artifacts", dir, "-o", file); err != nil {
		t.Fatalf("artifacts: %v", err)
	}

	fromDir, err := execute(t, "guess", dir, "-f", "json", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	fromJSON, err := execute(t, "guess", "--from-json", file, "-f", "json", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	if fromDir != fromJSON {
		t.Errorf("records differ:\n%s\nvs\n%s", fromDir, fromJSON)
	}
}

func TestProvenanceDOT(t *testing.T) {
	out, err := execute(t, "provenance", writeProject(t), "-f", "dot", "--field", "License", "--no-cache")
	if err != nil {
		t.Fatalf("provenance: %v", err)
	}
	if !strings.HasPrefix(out, "digraph provenance") || !strings.Contains(out, `"field:License"`) {
		t.Errorf("unexpected DOT:\n%s", out)
	}
	if strings.Contains(out, `"field:Name"`) {
		t.Errorf("field filter ignored:\n%s", out)
	}
}

func TestFields(t *testing.T) {
	out, err := execute(t, "fields", "-f", "json")
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Fields []struct {
			Name string `json:"name"`
		} `json:"fields"`
		Extractors []string `json:"extractors"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Fields) != len(upstream.Fields()) || len(doc.Extractors) == 0 {
		t.Errorf("got %d fields and %d extractors", len(doc.Fields), len(doc.Extractors))
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if _, err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := execute(t, "--config", path, "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}
	out, err := execute(t, "--config", path, "config", "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "Config is valid") {
		t.Errorf("output = %q", out)
	}

	if err := os.WriteFile(path, []byte("minimum_certainty = \"sure\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", path, "config", "validate"); err == nil {
		t.Error("invalid config should fail validation")
	}
}

func TestCacheClear(t *testing.T) {
	out, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared the file cache") {
		t.Errorf("output = %q", out)
	}
}

func TestJSONToYAMLKeepsOrderAndQuotes(t *testing.T) {
	got, err := jsonToYAML([]byte(`{"b": {"version": "1.0"}, "a": [1, 2]}`))
	if err != nil {
		t.Fatal(err)
	}
	want := "b:\n    version: \"1.0\"\na:\n    - 1\n    - 2\n"
	if string(got) != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRecordModelNavigation(t *testing.T) {
	guesses := []upstream.Guess{
		upstream.MustGuess(upstream.Name, upstream.Text("demo"), upstream.Certain, upstream.Origin{Class: upstream.ClassManifest, Label: "Cargo.toml"}, ""),
		upstream.MustGuess(upstream.Homepage, upstream.Text("https://demo.example.org"), upstream.Possible, upstream.Origin{Class: upstream.ClassReadme, Label: "README.md"}, ""),
	}
	m := NewRecordModel(reconcile.Reconcile(guesses), guesses)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(RecordModel)
	if m.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.Cursor)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := next.(RecordModel).Cursor; got != 1 {
		t.Errorf("cursor moved past the end: %d", got)
	}
	if view := m.View(); !strings.Contains(view, "README.md") {
		t.Errorf("view should show the selected field's origin:\n%s", view)
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit")
	}
}
