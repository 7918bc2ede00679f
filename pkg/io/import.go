package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/upstreamer/pkg/errors"
	"github.com/matzehuels/upstreamer/pkg/extract"
)

// ReadJSON decodes a JSON artifact set from r.
//
// ReadJSON returns an error if the JSON is malformed, an artifact has an
// unknown kind, or an artifact has no name. It does not close r.
func ReadJSON(r io.Reader) (extract.Set, error) {
	var in Envelope
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode artifacts")
	}
	return in.Set()
}

// ImportJSON reads a JSON artifact set from the file at path.
func ImportJSON(path string) (extract.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
