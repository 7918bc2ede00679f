// Package extract defines the extractor contract, the artifact types
// extractors consume, and [Run], which drives a set of extractors over a
// project's artifacts.
//
// # Artifacts
//
// An [Artifact] is a project file already decoded into structural form:
// a [Manifest] tree, [Changelog] entries, [Watch] rules, a [Document] with
// its links, or [BuildRules] text. Decoding native syntax is the job of a
// source such as pkg/source/local; extractors never read files.
//
// # Extractors
//
// An [Extractor] declares which artifacts it supports and turns each into
// a bag of [upstream.Guess] values. Extractors do not communicate with each
// other. The fixed list of built-in extractors is in the extractors
// subpackage:
//
//	guesses := extract.Run(extractors.All(), set, upstream.Context{})
//	record := reconcile.Reconcile(guesses)
//
// # Stages
//
// Some extractors need to know the project's repository (to resolve
// relative links, or to derive a bug tracker URL). Run therefore works in
// two stages: [Primary] extractors run first, their guesses are reconciled
// into an [upstream.Context], and [Secondary] extractors run with it. The
// context is computed from a complete, fixed set of guesses, so the result
// does not depend on the order extractors happen to finish in.
package extract
