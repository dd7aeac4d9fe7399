package hospital

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// The two extraction failures that are turned into a fallback response.
var (
	ErrNoJSONObject = errors.New("no JSON object found in model reply")
	ErrInvalidJSON  = errors.New("model reply is not valid JSON")
)

// Extraction is the outcome of Extract: either Value holds the parsed
// object, or Err is one of ErrNoJSONObject / ErrInvalidJSON.
type Extraction struct {
	Value json.RawMessage
	Err   error
}

// OK reports whether a JSON object was extracted.
func (e Extraction) OK() bool { return e.Err == nil }

// Extract slices text from the first '{' to the last '}' and parses the
// slice as strict JSON. The parsed value is returned compacted but
// otherwise verbatim; its shape is not checked.
func Extract(text string) Extraction {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return Extraction{Err: ErrNoJSONObject}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text[start:end+1])); err != nil {
		return Extraction{Err: fmt.Errorf("%w: %v", ErrInvalidJSON, err)}
	}
	return Extraction{Value: buf.Bytes()}
}

// doctorShapeOK reports whether v looks like {"id": int|null, "name": string}.
func doctorShapeOK(v json.RawMessage) bool {
	var d struct {
		ID   *int64  `json:"id"`
		Name *string `json:"name"`
	}
	return json.Unmarshal(v, &d) == nil && d.Name != nil
}

// medicineShapeOK reports whether v looks like {"medicines": [string, ...]}.
func medicineShapeOK(v json.RawMessage) bool {
	var m struct {
		Medicines []string `json:"medicines"`
	}
	return json.Unmarshal(v, &m) == nil && m.Medicines != nil
}
