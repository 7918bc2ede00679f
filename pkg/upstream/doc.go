// Package upstream defines the data model shared by extractors, normalizers
// and the reconciler.
//
// # Overview
//
// A [Guess] is one signal about one metadata [Field] of an upstream project:
// a typed [Value], a [Certainty] grade and the [Origin] that produced it.
// Extractors emit guesses; the reconciler folds them into a [Record] holding
// at most one chosen value per field.
//
// Fields and certainty grades are closed enumerations. A guess with an
// unknown field, an out-of-range certainty or a value of the wrong kind is
// rejected at construction:
//
//	g, err := upstream.NewGuess(upstream.Homepage, upstream.Text("https://example.org"),
//	    upstream.Confident, upstream.Origin{Class: upstream.ClassManifest, Label: "Cargo.toml"}, "")
//
// Extractors, whose fields are compile-time constants, use [MustGuess]: a
// failure there is a bug in the extractor, not bad input.
//
// # Immutability
//
// Guesses and records expose accessors only. Operations that "change" a
// guess, such as normalization, return a new value.
package upstream
