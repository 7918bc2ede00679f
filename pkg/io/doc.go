// Package io provides JSON import and export for artifact sets.
//
// # Overview
//
// An artifact set is what the local loader produces from a project tree:
// manifests, changelogs, watch files, documents and build rules, already
// decoded into structural form. Serializing a set lets callers extract
// metadata for a project that is not on the local disk, and lets the API
// server accept artifacts over the wire.
//
// # JSON Format
//
// The format has one required top-level array. Each artifact carries a
// "kind" discriminator followed by the fields of that kind:
//
//	{
//	  "artifacts": [
//	    {"kind": "manifest", "name": "Cargo.toml", "tree": {"package": {"name": "demo"}}},
//	    {"kind": "changelog", "name": "debian/changelog", "format": "debian",
//	     "entries": [{"version": "1.0-1", "author": "Jane <jane@example.org>"}]},
//	    {"kind": "watch", "name": "debian/watch", "rules": [{"url": "https://github.com/o/r/tags"}]},
//	    {"kind": "document", "name": "README.md", "text": "# demo", "links": []},
//	    {"kind": "build-rules", "name": "meson.build", "text": "project('demo')"}
//	  ]
//	}
//
// Kinds are "manifest", "changelog", "watch", "document" and
// "build-rules". A changelog "format" is "generic" (the default) or
// "debian".
//
// # Import
//
// Use [ImportJSON] to read a set from a file path, or [ReadJSON] to read
// from any io.Reader. Both reject unknown kinds and artifacts without a
// name, reporting the index of the offending artifact.
//
// # Export
//
// Use [ExportJSON] to write a set to a file, or [WriteJSON] to write to
// any io.Writer. [MarshalArtifact] encodes a single artifact the same way;
// the pipeline hashes its output to key cached guesses.
package io
