package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/upstreamer/pkg/extract"
)

// WriteJSON encodes s as indented JSON and writes it to w. The output can
// be re-imported with [ReadJSON].
func WriteJSON(s extract.Set, w io.Writer) error {
	out, err := Wrap(s)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes s to a JSON file at path.
func ExportJSON(s extract.Set, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(s, f)
}
