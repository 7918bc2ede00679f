// Package normalize canonicalizes guess values per field type so that
// equivalent spellings of the same value compare equal.
//
// Every normalizer is pure, total and idempotent: it never fails, and
// applying it twice yields the same result as applying it once. Input a
// normalizer does not understand passes through trimmed.
package normalize

import (
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// Value normalizes v according to the rules for field f. The result has
// the same kind as v.
func Value(f upstream.Field, v upstream.Value) upstream.Value {
	switch val := v.(type) {
	case upstream.VCS:
		return VCS(val)
	case upstream.List:
		if f == upstream.Author {
			return upstream.NewList(List(val.Items(), Contact)...)
		}
		return upstream.NewList(List(val.Items(), Text)...)
	case upstream.Text:
		return upstream.Text(text(f, string(val)))
	}
	return v
}

func text(f upstream.Field, s string) string {
	switch f {
	case upstream.Version:
		return Version(s)
	case upstream.Summary:
		return Summary(s)
	case upstream.Description:
		return Description(s)
	case upstream.License:
		return License(s)
	case upstream.Contact, upstream.Maintainer:
		return Contact(s)
	case upstream.BugSubmit, upstream.SecurityContact, upstream.MailingList:
		return ContactOrURL(s)
	case upstream.RepositoryBrowse:
		return RepoURL(s)
	}
	if f.IsURL() {
		return URL(s)
	}
	return Text(s)
}

// Guess returns a copy of g carrying its normalized value. g itself is
// not modified.
func Guess(g upstream.Guess) upstream.Guess {
	n, err := g.WithValue(Value(g.Field(), g.Value()))
	if err != nil {
		return g
	}
	return n
}
