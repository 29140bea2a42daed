// Package stats accumulates running statistics over one processing run.
// The Collector is an explicit run-scoped object handed to the pipeline and
// read out at end of stream; it is never a process-wide singleton.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/kelora-dev/kelora/internal/model"
)

// unknownLevel is the histogram bucket for events with no detected level.
const unknownLevel = "UNKNOWN"

// Collector is the single mutable accumulator of a run. Updates are strictly
// sequential, one per input line.
type Collector struct {
	linesSeen   int
	eventsShown int
	parseErrors int
	filtered    int

	minTime  time.Time
	maxTime  time.Time
	haveTime bool

	levels map[string]int
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{levels: make(map[string]int)}
}

// Line records that a line was seen. Called once for every input line,
// including blank and malformed ones.
func (c *Collector) Line() {
	c.linesSeen++
}

// RecordError records a parse failure. The level histogram and time span are
// untouched.
func (c *Collector) RecordError() {
	c.parseErrors++
}

// RecordFiltered records an event that parsed but was excluded by the level
// filter.
func (c *Collector) RecordFiltered() {
	c.filtered++
}

// RecordShown records a shown event: histogram bucket by detected level and,
// when the timestamp actually parsed, the min/max span bounds. A merely
// detected-raw timestamp does not contribute to the span.
func (c *Collector) RecordShown(e *model.Event) {
	c.eventsShown++

	level := e.Level
	if level == "" {
		level = unknownLevel
	}
	c.levels[level]++

	if !e.TimeOK {
		return
	}
	if !c.haveTime {
		c.minTime, c.maxTime = e.Time, e.Time
		c.haveTime = true
		return
	}
	if e.Time.Before(c.minTime) {
		c.minTime = e.Time
	}
	if e.Time.After(c.maxTime) {
		c.maxTime = e.Time
	}
}

// LevelCount is one histogram entry of the final report.
type LevelCount struct {
	Level string
	Count int
}

// Report is the immutable end-of-run snapshot.
type Report struct {
	LinesSeen   int
	EventsShown int
	ParseErrors int
	Filtered    int

	MinTime time.Time
	MaxTime time.Time
	HasSpan bool

	// Levels is sorted alphabetically by level name for determinism.
	Levels []LevelCount
}

// Report snapshots the collector.
func (c *Collector) Report() Report {
	r := Report{
		LinesSeen:   c.linesSeen,
		EventsShown: c.eventsShown,
		ParseErrors: c.parseErrors,
		Filtered:    c.filtered,
		MinTime:     c.minTime,
		MaxTime:     c.maxTime,
		HasSpan:     c.haveTime,
	}
	r.Levels = make([]LevelCount, 0, len(c.levels))
	for level, count := range c.levels {
		r.Levels = append(r.Levels, LevelCount{Level: level, Count: count})
	}
	sort.Slice(r.Levels, func(i, j int) bool { return r.Levels[i].Level < r.Levels[j].Level })
	return r
}

// Span returns the duration between the earliest and latest parsed
// timestamps, zero when HasSpan is false.
func (r Report) Span() time.Duration {
	if !r.HasSpan {
		return 0
	}
	return r.MaxTime.Sub(r.MinTime)
}

// SpanString renders the time span, "n/a" when no timestamp parsed.
func (r Report) SpanString() string {
	if !r.HasSpan {
		return "n/a"
	}
	return r.Span().String()
}

// Summary renders the one-line counter summary.
func (r Report) Summary() string {
	return fmt.Sprintf("Events shown: %d (parse errors: %d, lines seen: %d, filtered: %d)",
		r.EventsShown, r.ParseErrors, r.LinesSeen, r.Filtered)
}
