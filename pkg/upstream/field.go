package upstream

import (
	"strings"

	"github.com/matzehuels/upstreamer/pkg/errors"
)

// Field identifies one canonical metadata field.
type Field int

// Canonical fields. The declaration order is the canonical output order.
const (
	fieldInvalid Field = iota
	Name
	Version
	Summary
	Description
	Homepage
	Repository
	RepositoryBrowse
	BugDatabase
	BugSubmit
	Contact
	Author
	Maintainer
	License
	Keywords
	SecurityContact
	SecurityMD
	Documentation
	Download
	Changelog
	Funding
	Wiki
	MailingList
	Registry
	fieldCount
)

// ValueKind is the payload shape a field carries.
type ValueKind int

const (
	KindText ValueKind = iota
	KindList
	KindVCS
)

func (k ValueKind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindVCS:
		return "vcs"
	default:
		return "text"
	}
}

var fieldNames = [fieldCount]string{
	Name:             "Name",
	Version:          "Version",
	Summary:          "Summary",
	Description:      "Description",
	Homepage:         "Homepage",
	Repository:       "Repository",
	RepositoryBrowse: "Repository-Browse",
	BugDatabase:      "Bug-Database",
	BugSubmit:        "Bug-Submit",
	Contact:          "Contact",
	Author:           "Author",
	Maintainer:       "Maintainer",
	License:          "License",
	Keywords:         "Keywords",
	SecurityContact:  "Security-Contact",
	SecurityMD:       "Security-MD",
	Documentation:    "Documentation",
	Download:         "Download",
	Changelog:        "Changelog",
	Funding:          "Funding",
	Wiki:             "Wiki",
	MailingList:      "MailingList",
	Registry:         "Registry",
}

// fieldLookup maps folded names (lower case, no hyphens) to fields.
var fieldLookup = func() map[string]Field {
	m := make(map[string]Field, fieldCount)
	for f := Name; f < fieldCount; f++ {
		m[foldFieldName(fieldNames[f])] = f
	}
	return m
}()

func foldFieldName(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "")
}

// Fields returns every canonical field in canonical order.
func Fields() []Field {
	out := make([]Field, 0, fieldCount-1)
	for f := Name; f < fieldCount; f++ {
		out = append(out, f)
	}
	return out
}

// ParseField resolves a canonical field name. Matching ignores case and
// hyphens, so "Bug-Database" and "BugDatabase" are the same field.
func ParseField(s string) (Field, error) {
	if f, ok := fieldLookup[foldFieldName(s)]; ok {
		return f, nil
	}
	return fieldInvalid, errors.New(errors.ErrCodeInvalidField, "unknown field %q", s)
}

// Valid reports whether f is one of the canonical fields.
func (f Field) Valid() bool {
	return f > fieldInvalid && f < fieldCount
}

// String returns the canonical field name.
func (f Field) String() string {
	if !f.Valid() {
		return "Invalid"
	}
	return fieldNames[f]
}

// Kind returns the value kind the field carries.
func (f Field) Kind() ValueKind {
	switch f {
	case Keywords, Author:
		return KindList
	case Repository:
		return KindVCS
	default:
		return KindText
	}
}

// IsURL reports whether the field's text value is a URL.
func (f Field) IsURL() bool {
	switch f {
	case Homepage, RepositoryBrowse, BugDatabase, Documentation, Download,
		Changelog, Funding, Wiki:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (f Field) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidField, "invalid field %d", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Field) UnmarshalText(b []byte) error {
	parsed, err := ParseField(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
