// Package parser defines the contract for turning one raw log line into a
// canonical Event, and the per-format implementations.
package parser

import (
	"fmt"

	"github.com/kelora-dev/kelora/internal/model"
)

// Parser converts a single line of raw text into an Event.
// Implementations are stateless with respect to the line sequence; a failed
// line never affects the next one.
type Parser interface {
	// Parse returns the Event for one line, or an error describing why the
	// line could not be parsed. The error is recoverable by contract.
	Parse(line string) (*model.Event, error)

	// Name returns the format tag this parser handles.
	Name() string
}

// ParseError wraps a per-line parse failure with its source line number.
// It is counted and optionally logged, never fatal to the run.
type ParseError struct {
	Line  int
	Cause string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Cause)
}

// ForFormat returns the parser for an input format tag.
func ForFormat(format string) (Parser, error) {
	switch format {
	case "logfmt":
		return Logfmt{}, nil
	case "jsonl":
		return NewJSONL(), nil
	case "syslog":
		return Syslog{}, nil
	default:
		return nil, fmt.Errorf("unknown input format: %q", format)
	}
}
