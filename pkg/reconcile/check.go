package reconcile

import (
	"cmp"
	"net/url"
	"slices"
	"strings"

	"github.com/matzehuels/upstreamer/pkg/errors"
	"github.com/matzehuels/upstreamer/pkg/forge"
	"github.com/matzehuels/upstreamer/pkg/normalize"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// Problem is a sanity warning about a reconciled record.
type Problem struct {
	Field   upstream.Field `json:"field"`
	Message string         `json:"message"`
}

func (p Problem) String() string {
	return p.Field.String() + ": " + p.Message
}

// Check runs offline sanity checks on r and returns the problems found in
// canonical field order. Nothing is fetched.
func Check(r *upstream.Record) []Problem {
	var out []Problem
	add := func(f upstream.Field, msg string) {
		out = append(out, Problem{Field: f, Message: msg})
	}

	for f, e := range r.All() {
		switch f {
		case upstream.Name:
			if err := errors.ValidatePackageName(e.Value.String()); err != nil {
				add(f, errors.UserMessage(err))
			}
		case upstream.License:
			if !normalize.ValidLicense(e.Value.String()) {
				add(f, "not a valid SPDX license expression")
			}
		case upstream.Repository:
			loc := e.Value.(upstream.VCS)
			u, err := url.Parse(loc.URL)
			if err != nil || u.Host == "" {
				add(f, "not an absolute URL")
				continue
			}
			if !forge.IsKnownHost(u.Host) {
				add(f, "not hosted on a recognized forge")
			}
			if u.Scheme == "http" {
				add(f, "insecure http URL")
			}
		default:
			if !f.IsURL() {
				continue
			}
			if err := errors.ValidateURL(e.Value.String()); err != nil {
				add(f, errors.UserMessage(err))
			} else if strings.HasPrefix(e.Value.String(), "http://") {
				add(f, "insecure http URL")
			}
		}
	}

	if hp := r.Text(upstream.Homepage); hp != "" && hp == r.Text(upstream.Repository) {
		add(upstream.Homepage, "same as Repository")
	}
	slices.SortStableFunc(out, func(a, b Problem) int { return cmp.Compare(a.Field, b.Field) })
	return out
}
