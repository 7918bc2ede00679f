// Package pkg provides the libraries behind upstreamer, which guesses the
// upstream metadata of a source project.
//
// # Overview
//
// A project's files rarely agree about where it lives. Cargo.toml names
// one homepage, the README links another, debian/watch points at a tag
// page on a forge. Upstreamer extracts every such statement as a
// upstream.Guess with a certainty and an origin, normalizes the values,
// and reconciles them into one upstream.Record per project.
//
// # Architecture
//
//	Project directory (or JSON artifact set)
//	         ↓
//	    [source/local] decode files into artifacts
//	         ↓
//	    [extract] run extractors, primary then secondary stage
//	         ↓
//	    [reconcile] normalize, drop known-bad values, pick a winner per field
//	         ↓
//	    Record (JSON, YAML, table, provenance graph)
//
// # Quick Start
//
//	set, _ := local.Load(ctx, "path/to/project")
//	guesses := extractors.Run(set, upstream.Context{})
//	rec := reconcile.Reconcile(guesses)
//	fmt.Println(rec.Text(upstream.Homepage))
//
// # Main Packages
//
// ## Core
//
// [upstream] - Fields, certainties, origins, values, guesses and records.
//
// [extract] - Artifact types, the Extractor interface and the two-stage
// run. Subpackages hold one extractor family each: manifest, changelog,
// watch, readme, buildrules and derived. [extract/extractors] lists them.
//
// [normalize] - Per-field value normalizers (URLs, VCS locations, SPDX
// licenses, text).
//
// [reconcile] - Conflict resolution, minimum-certainty filtering, record
// checks and incremental updates.
//
// [forge] - Recognizes GitHub, GitLab and other forges and derives their
// issue, browse and download URLs.
//
// ## Infrastructure
//
// [source/local] - Reads a project directory into an artifact set.
//
// [pipeline] - Load, extract and reconcile with per-artifact caching. Used
// by both the CLI and the API.
//
// [cache] - File (flock) and Redis guess caches.
//
// [config] - TOML configuration file.
//
// [api] - HTTP API.
//
// [io] - JSON codec for artifact sets.
//
// [render/provenance] - DOT and SVG graphs of where each field came from.
//
// [observability] - Hooks for load, extract, cache and request events.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include the Redis cache test
//
// [upstream]: https://pkg.go.dev/github.com/matzehuels/upstreamer/pkg/upstream
// [extract]: https://pkg.go.dev/github.com/matzehuels/upstreamer/pkg/extract
// [extract/extractors]: https://pkg.go.dev/github.com/matzehuels/upstreamer/pkg/extract/extractors
// [normalize]: https://pkg.go.dev/github.com/matzehuels/upstreamer/pkg/normalize
// [reconcile]: https://pkg.go.dev/github.com/matzehuels/upstreamer/pkg/reconcile
// [forge]: https://pkg.go.dev/github.com/matzehuels/upstreamer/pkg/forge
// [source/local]: https://pkg.go.dev/github.com/matzehuels/upstreamer/pkg/source/local
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/upstreamer/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/upstreamer/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/upstreamer/pkg/config
// [api]: https://pkg.go.dev/github.com/matzehuels/upstreamer/pkg/api
// [io]: https://pkg.go.dev/github.com/matzehuels/upstreamer/pkg/io
// [render/provenance]: https://pkg.go.dev/github.com/matzehuels/upstreamer/pkg/render/provenance
// [observability]: https://pkg.go.dev/github.com/matzehuels/upstreamer/pkg/observability
package pkg
