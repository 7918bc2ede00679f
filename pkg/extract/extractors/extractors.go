// Package extractors holds the registration list of every extractor.
//
// The list is explicit: adding an extractor means adding it here. Order
// within a stage only affects the order of returned guesses, never the
// reconciled record.
package extractors

import (
	"github.com/matzehuels/upstreamer/pkg/extract"
	"github.com/matzehuels/upstreamer/pkg/extract/buildrules"
	"github.com/matzehuels/upstreamer/pkg/extract/changelog"
	"github.com/matzehuels/upstreamer/pkg/extract/derived"
	"github.com/matzehuels/upstreamer/pkg/extract/manifest"
	"github.com/matzehuels/upstreamer/pkg/extract/readme"
	"github.com/matzehuels/upstreamer/pkg/extract/watch"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// All returns every extractor, primary stage first.
func All() []extract.Extractor {
	return []extract.Extractor{
		manifest.New(),
		changelog.New(),
		watch.New(),
		buildrules.New(),
		readme.New(),
		derived.New(),
	}
}

// Names returns the name of every extractor in [All] order.
func Names() []string {
	all := All()
	out := make([]string, len(all))
	for i, ex := range all {
		out[i] = ex.Name()
	}
	return out
}

// Run extracts guesses from set with every extractor except those named
// in disabled.
func Run(set extract.Set, seed upstream.Context, disabled ...string) []upstream.Guess {
	return extract.Run(extract.Filter(All(), disabled), set, seed)
}
