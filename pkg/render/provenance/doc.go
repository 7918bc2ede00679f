// Package provenance renders the origin of a record's values as a graph.
//
// # Overview
//
// Reconciliation keeps the winning guess per field and lists the ones it
// beat. This package turns that audit trail into a Graphviz diagram:
// artifact nodes grouped by origin class on the left, field nodes on the
// right, and one edge per distinct guess labeled with its certainty.
//
// # Usage
//
//	dot := provenance.ToDOT(rec, guesses, provenance.Options{Detailed: true})
//	svg, err := provenance.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: edge labels include the guessed value, not only its
//     certainty
//   - Fields: restrict the graph to these fields
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. No external Graphviz installation is needed.
package provenance
