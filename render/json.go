package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/corpstat/feature"
)

// JSONRenderer writes feature tables as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Table serializes the rows of t as a JSON array.
func (r *JSONRenderer) Table(t feature.Table) error {
	rows := t.Rows
	if rows == nil {
		rows = []feature.Row{}
	}

	enc := json.NewEncoder(r.W)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
