package model

import (
	"strings"
	"time"

	"github.com/kelora-dev/kelora/internal/timeparse"
)

// Core-field alias tables. Matching is case-sensitive and exact; the first
// alias present in the mapping wins, in the priority order listed here, not
// in field insertion order.
var (
	timestampAliases = []string{"timestamp", "ts", "time", "at", "_t", "@t", "t"}
	levelAliases     = []string{"level", "log_level", "loglevel", "lvl", "severity", "@l"}
	messageAliases   = []string{"message", "msg", "@m"}
)

// IsCoreAlias reports whether key appears in any of the alias tables.
func IsCoreAlias(key string) bool {
	for _, tbl := range [][]string{timestampAliases, levelAliases, messageAliases} {
		for _, a := range tbl {
			if key == a {
				return true
			}
		}
	}
	return false
}

// Field is one key/value pair of an Event's ordered mapping.
type Field struct {
	Key   string
	Value Value
}

// Event is the canonical record produced by the parsers. Fields keep parse
// order; keys are unique with last-write-wins semantics. The core fields
// (Time, Level, Message) are views derived from the mapping by DetectCore and
// must be recomputed whenever the mapping changes.
type Event struct {
	fields []Field
	index  map[string]int

	// Time is the parsed instant of the matched timestamp field; valid only
	// when TimeOK is true. TimeRaw keeps the original text either way so an
	// unparseable timestamp can still be displayed.
	Time    time.Time
	TimeOK  bool
	TimeRaw string

	// Level is the normalized uppercase level, "" when no alias matched.
	Level string

	// Message is the detected message text; HasMessage distinguishes an
	// empty message from an absent one.
	Message    string
	HasMessage bool

	// LineNumber is the 1-based ordinal of the source line.
	LineNumber int
}

// NewEvent creates an empty Event.
func NewEvent() *Event {
	return &Event{index: make(map[string]int)}
}

// Set inserts or replaces a field. A replaced key keeps its original
// position in the mapping.
func (e *Event) Set(key string, v Value) {
	if i, ok := e.index[key]; ok {
		e.fields[i].Value = v
		return
	}
	e.index[key] = len(e.fields)
	e.fields = append(e.fields, Field{Key: key, Value: v})
}

// Get looks up a field by exact key.
func (e *Event) Get(key string) (Value, bool) {
	if i, ok := e.index[key]; ok {
		return e.fields[i].Value, true
	}
	return Value{}, false
}

// Fields returns the mapping in insertion order. The slice is shared; callers
// must not mutate it.
func (e *Event) Fields() []Field {
	return e.fields
}

// Len returns the number of fields.
func (e *Event) Len() int {
	return len(e.fields)
}

// DetectCore recomputes the derived timestamp/level/message views from the
// current mapping using the alias tables. The matched fields stay in the
// mapping; the views never replace them.
func (e *Event) DetectCore() {
	e.Time, e.TimeOK, e.TimeRaw = time.Time{}, false, ""
	e.Level = ""
	e.Message, e.HasMessage = "", false

	for _, a := range timestampAliases {
		v, ok := e.Get(a)
		if !ok {
			continue
		}
		e.TimeRaw = v.Text()
		if t, ok := timeparse.Parse(e.TimeRaw); ok {
			e.Time, e.TimeOK = t, true
		}
		break
	}

	for _, a := range levelAliases {
		v, ok := e.Get(a)
		if !ok {
			continue
		}
		e.Level = strings.ToUpper(v.Text())
		break
	}

	for _, a := range messageAliases {
		v, ok := e.Get(a)
		if !ok {
			continue
		}
		e.Message, e.HasMessage = v.Text(), true
		break
	}
}
