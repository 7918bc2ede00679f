// Package pipeline runs the complete load → extract → reconcile flow for
// one project.
//
// This package is what the CLI and the API server share. It wraps the
// pure core (pkg/extract, pkg/reconcile) with the parts that touch the
// outside world: reading artifacts from disk, caching guesses and
// logging.
//
// # Architecture
//
// A run has three phases:
//
//  1. Load: decode the project's artifacts (skipped when the caller passes
//     an artifact set directly)
//  2. Extract: primary extractors per artifact, then secondary extractors
//     with the context the primary guesses establish; each artifact's
//     guesses are cached per stage
//  3. Reconcile: fold every guess into one record and run offline checks
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Run(ctx, pipeline.Options{Dir: "."})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Record.Text(upstream.Homepage))
package pipeline

import (
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/upstreamer/pkg/errors"
	"github.com/matzehuels/upstreamer/pkg/extract"
	"github.com/matzehuels/upstreamer/pkg/extract/extractors"
	"github.com/matzehuels/upstreamer/pkg/reconcile"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// =============================================================================
// Options
// =============================================================================

// Options configures one run. It supports JSON for API requests.
type Options struct {
	// Dir is the project directory to load. Ignored when Artifacts is set.
	Dir string `json:"dir,omitempty"`

	// Artifacts is a pre-loaded artifact set. A non-nil empty set is a
	// valid project with nothing to extract.
	Artifacts extract.Set `json:"-"`

	// Seed is what the caller already knows about the project.
	Seed upstream.Context `json:"seed,omitzero"`

	// MinimumCertainty drops record entries below it. Unknown keeps all.
	MinimumCertainty upstream.Certainty `json:"minimum_certainty,omitempty"`

	// Disabled names extractors to skip.
	Disabled []string `json:"disabled,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`
}

// Validate checks the options without modifying them.
func (o *Options) Validate() error {
	if o.Dir == "" && o.Artifacts == nil {
		return errors.New(errors.ErrCodeInvalidInput, "a project directory or an artifact set is required")
	}
	if !o.MinimumCertainty.Valid() {
		return errors.New(errors.ErrCodeInvalidCertainty, "invalid minimum certainty %d", int(o.MinimumCertainty))
	}
	return ValidateExtractors(o.Disabled)
}

// ValidateExtractors checks that every name is a registered extractor.
func ValidateExtractors(names []string) error {
	known := extractors.Names()
	for _, n := range names {
		if !slices.Contains(known, n) {
			return errors.New(errors.ErrCodeInvalidInput, "unknown extractor %q (known: %v)", n, known)
		}
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result holds the outputs of one run.
type Result struct {
	// ID identifies the run in logs and API responses.
	ID string `json:"id"`

	// Record is the reconciled record, filtered to the minimum certainty.
	Record *upstream.Record `json:"record"`

	// Guesses holds every guess in artifact, then extractor order,
	// derived guesses last.
	Guesses []upstream.Guess `json:"guesses"`

	// Problems lists the offline check warnings for Record.
	Problems []reconcile.Problem `json:"problems,omitempty"`

	// Artifacts lists the labels of the artifacts that were read.
	Artifacts []string `json:"artifacts"`

	// CacheHits reports, per artifact label, whether every stage that
	// read the artifact was answered from the cache.
	CacheHits map[string]bool `json:"cache_hits,omitempty"`

	// Stats holds timing information.
	Stats Stats `json:"stats"`
}

// Stats contains run statistics.
type Stats struct {
	LoadTime      time.Duration `json:"load_time"`
	ExtractTime   time.Duration `json:"extract_time"`
	ReconcileTime time.Duration `json:"reconcile_time"`
}

func (s Stats) String() string {
	return fmt.Sprintf("load %s, extract %s, reconcile %s",
		s.LoadTime.Round(time.Microsecond), s.ExtractTime.Round(time.Microsecond), s.ReconcileTime.Round(time.Microsecond))
}
