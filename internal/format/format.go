// Package format renders events back to text. Each formatter has its own
// quoting and ordering contract; formatter choice is orthogonal to the input
// format.
package format

import (
	"fmt"

	"github.com/kelora-dev/kelora/internal/model"
)

// Formatter renders one event as a single output line (without trailing
// newline). A formatting error signals an internal invariant violation, not
// a recoverable per-line condition.
type Formatter interface {
	Format(e *model.Event) (string, error)
	Name() string
}

// ForFormat returns the formatter for an output format tag.
func ForFormat(format string) (Formatter, error) {
	switch format {
	case "default":
		return Logfmt{}, nil
	case "jsonl":
		return JSONL{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %q", format)
	}
}
