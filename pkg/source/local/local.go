// Package local finds upstream metadata artifacts in a project working
// tree and decodes them into the structural forms extractors consume.
//
// Every recognized file is read and decoded concurrently. A file that is
// absent yields nothing; a file that cannot be decoded is reported through
// the loader's logger at warn level and dropped. Neither aborts the load.
// Only an unusable project directory is an error.
package local

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/upstreamer/pkg/errors"
	"github.com/matzehuels/upstreamer/pkg/extract"
)

// maxFileSize bounds how much of any artifact is read.
const maxFileSize = 4 << 20

// decoder turns file contents into an artifact labeled label.
type decoder func(label string, data []byte) (extract.Artifact, error)

// known maps fixed relative paths to their decoders.
var known = map[string]decoder{
	"debian/upstream/metadata": decodeYAMLManifest,
	"Cargo.toml":               decodeTOMLManifest,
	"pyproject.toml":           decodeTOMLManifest,
	"package.json":             decodeJSONManifest,
	"composer.json":            decodeJSONManifest,
	"pom.xml":                  decodeXMLManifest,
	"pubspec.yaml":             decodeYAMLManifest,
	"debian/changelog":         decodeDebianChangelog,
	"CHANGELOG.md":             decodeChangelog,
	"CHANGES.md":               decodeChangelog,
	"NEWS.md":                  decodeChangelog,
	"debian/watch":             decodeWatch,
	"SECURITY.md":              decodeDocument,
	".github/SECURITY.md":      decodeDocument,
	"CMakeLists.txt":           decodeBuildRules,
	"meson.build":              decodeBuildRules,
}

// readmeNames are the README spellings read, in label order.
var readmeNames = []string{"README.md", "README.rst", "README", "README.txt", "README.markdown"}

// Loader loads artifacts from a directory.
type Loader struct {
	// Logger receives warnings about undecodable files. Nil discards them.
	Logger *log.Logger
	// Concurrency bounds parallel reads; zero means one per file.
	Concurrency int
}

// Load reads the artifacts in dir with a default loader.
func Load(ctx context.Context, dir string) (extract.Set, error) {
	return (&Loader{}).Load(ctx, dir)
}

// Load reads and decodes every recognized artifact in dir. The returned
// set is ordered by label.
func (l *Loader) Load(ctx context.Context, dir string) (extract.Set, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "project directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", dir)
	}

	labels := Candidates(dir)
	results := make([]extract.Artifact, len(labels))

	g, gctx := errgroup.WithContext(ctx)
	if l.Concurrency > 0 {
		g.SetLimit(l.Concurrency)
	}
	for i, label := range labels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := l.loadOne(dir, label)
			if err != nil {
				l.warn("skipping artifact", "label", label, "err", err)
				return nil
			}
			results[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var set extract.Set
	for _, a := range results {
		if a != nil {
			set = append(set, a)
		}
	}
	return set, nil
}

func (l *Loader) loadOne(dir, label string) (extract.Artifact, error) {
	data, err := readFile(filepath.Join(dir, filepath.FromSlash(label)))
	if err != nil {
		return nil, err
	}
	dec := decoderFor(label)
	if dec == nil {
		return nil, fmt.Errorf("no decoder for %s", label)
	}
	a, err := dec(label, data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArtifact, err, "decode %s", label)
	}
	return a, nil
}

func (l *Loader) warn(msg string, kv ...any) {
	if l.Logger != nil {
		l.Logger.Warn(msg, kv...)
	}
}

// Candidates returns the labels of recognized files present in dir,
// sorted.
func Candidates(dir string) []string {
	var out []string
	for label := range known {
		if isFile(filepath.Join(dir, filepath.FromSlash(label))) {
			out = append(out, label)
		}
	}
	for _, name := range readmeNames {
		if isFile(filepath.Join(dir, name)) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

func decoderFor(label string) decoder {
	if d, ok := known[label]; ok {
		return d
	}
	if strings.HasPrefix(strings.ToUpper(label), "README") {
		return decodeDocument
	}
	return nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", fs.ErrInvalid, maxFileSize)
	}
	return data, nil
}
