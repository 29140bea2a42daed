package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kelora-dev/kelora/internal/model"
)

// Logfmt parses space-separated key=value lines. Values may be unquoted
// (no embedded spaces, type-inferred) or double-quoted with backslash
// escaping of `\"` and `\\` (always strings). A bare key with no `=` is a
// boolean-true marker.
type Logfmt struct{}

// Name returns the format tag.
func (Logfmt) Name() string { return "logfmt" }

// Parse tokenizes one logfmt line into an ordered mapping.
func (Logfmt) Parse(line string) (*model.Event, error) {
	ev := model.NewEvent()
	i, n := 0, len(line)

	for i < n {
		for i < n && line[i] == ' ' {
			i++
		}
		if i >= n {
			break
		}
		if line[i] == '=' {
			return nil, fmt.Errorf("missing key before '=' at offset %d", i)
		}

		start := i
		for i < n && line[i] != '=' && line[i] != ' ' {
			i++
		}
		key := line[start:i]

		// Bare key: boolean-true marker.
		if i >= n || line[i] == ' ' {
			ev.Set(key, model.Bool(true))
			continue
		}

		i++ // consume '='
		if i < n && line[i] == '"' {
			val, next, err := scanQuoted(line, i)
			if err != nil {
				return nil, err
			}
			i = next
			ev.Set(key, model.String(val))
			continue
		}

		start = i
		for i < n && line[i] != ' ' {
			i++
		}
		ev.Set(key, inferScalar(line[start:i]))
	}

	ev.DetectCore()
	return ev, nil
}

// scanQuoted consumes a double-quoted value starting at the opening quote.
// It returns the unescaped text and the offset just past the closing quote.
func scanQuoted(line string, open int) (string, int, error) {
	var sb strings.Builder
	i, n := open+1, len(line)
	for i < n {
		c := line[i]
		if c == '\\' && i+1 < n && (line[i+1] == '"' || line[i+1] == '\\') {
			sb.WriteByte(line[i+1])
			i += 2
			continue
		}
		if c == '"' {
			return sb.String(), i + 1, nil
		}
		sb.WriteByte(c)
		i++
	}
	return "", 0, fmt.Errorf("unterminated quote at offset %d", open)
}

// inferScalar types an unquoted token: integer, then float, then the
// case-sensitive literals true/false, otherwise string.
func inferScalar(tok string) model.Value {
	switch tok {
	case "true":
		return model.Bool(true)
	case "false":
		return model.Bool(false)
	}
	if isInteger(tok) {
		if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return model.Int(i)
		}
		// Too large for int64: degrade to float rather than string.
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return model.FloatLit(f, tok)
		}
	}
	if isFloat(tok) {
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return model.FloatLit(f, tok)
		}
	}
	return model.String(tok)
}

// isInteger matches an optional-sign digit sequence.
func isInteger(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isFloat matches a decimal or exponent numeral. A plain digit sequence does
// not qualify; integers are handled first. This deliberately rejects the
// strconv extensions (Inf, NaN, hex floats) which are not numerals in any
// log format we parse.
func isFloat(s string) bool {
	if s == "" {
		return false
	}
	i, n := 0, len(s)
	if s[i] == '+' || s[i] == '-' {
		i++
	}
	digits := 0
	for i < n && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	hasDot := false
	if i < n && s[i] == '.' {
		hasDot = true
		i++
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	hasExp := false
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		hasExp = true
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= n {
			return false
		}
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	return i == n && (hasDot || hasExp)
}
