package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kelora-dev/kelora/internal/model"
)

// JSONL renders the event as a single-line JSON object, keys in their
// current mapping order. encoding/json cannot encode an ordered mapping, so
// the object is assembled per-field with standard JSON escaping.
type JSONL struct{}

// Name returns the format tag.
func (JSONL) Name() string { return "jsonl" }

// Format renders the event's current mapping.
func (JSONL) Format(e *model.Event) (string, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range e.Fields() {
		if i > 0 {
			sb.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return "", fmt.Errorf("encoding key %q: %w", f.Key, err)
		}
		sb.Write(key)
		sb.WriteByte(':')
		val, err := jsonValue(f.Value)
		if err != nil {
			return "", fmt.Errorf("encoding field %q: %w", f.Key, err)
		}
		sb.WriteString(val)
	}
	sb.WriteByte('}')
	return sb.String(), nil
}

func jsonValue(v model.Value) (string, error) {
	switch v.Kind() {
	case model.KindString:
		b, err := json.Marshal(v.Str())
		return string(b), err
	case model.KindNull:
		return "null", nil
	default:
		// Int, Float and Bool native text is already valid JSON; floats keep
		// a fractional digit or exponent so they round-trip as floats.
		return v.Text(), nil
	}
}
