package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes data as JSON. Keys and values are written verbatim,
// without HTML escaping, since map keys like "<a&b>" are ordinary data here.
type JSONFormatter struct {
	// Compact writes one line per document instead of indenting.
	Compact bool
}

// Format writes data followed by a newline.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !f.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(data)
}
