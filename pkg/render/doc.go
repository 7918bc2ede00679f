// Package render provides visual renderings of extraction results.
//
// # Provenance Graphs
//
// The [provenance] subpackage draws where every value of a record came
// from: artifacts on one side, fields on the other, one edge per guess.
// Winning guesses are drawn solid, beaten ones dashed.
//
//	dot := provenance.ToDOT(result.Record, result.Guesses, provenance.Options{})
//	svg, err := provenance.RenderSVG(ctx, dot)
//
// [provenance]: github.com/matzehuels/upstreamer/pkg/render/provenance
package render
