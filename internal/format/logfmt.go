package format

import (
	"sort"
	"strings"

	"github.com/kelora-dev/kelora/internal/model"
)

// Logfmt is the default formatter: key=value tokens sorted alphabetically by
// key, space-separated. Strings are always double-quoted with backslash
// escaping of `"` and `\`; quoting unconditionally keeps the output
// re-parseable regardless of embedded spaces or equals signs. Bools render
// bare, numbers in their native text, null as "".
type Logfmt struct{}

// Name returns the format tag.
func (Logfmt) Name() string { return "default" }

// Format renders the event's current mapping.
func (Logfmt) Format(e *model.Event) (string, error) {
	fields := e.Fields()
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		v, _ := e.Get(k)
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(renderValue(v))
	}
	return sb.String(), nil
}

func renderValue(v model.Value) string {
	switch v.Kind() {
	case model.KindString:
		return quote(v.Str())
	case model.KindNull:
		return `""`
	default:
		return v.Text()
	}
}

func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('"')
	return sb.String()
}
