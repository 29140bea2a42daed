// Package filter holds the stateless predicates and projections applied to
// parsed events: level-set membership and key-set projection.
package filter

import (
	"strings"

	"github.com/kelora-dev/kelora/internal/model"
)

// Level retains events whose detected level belongs to a fixed set.
// Matching is case-insensitive. When a level filter is active, events with
// no detected level are excluded.
type Level struct {
	allow map[string]struct{}
}

// NewLevel builds a level filter from level names. An empty set yields a
// filter that keeps everything.
func NewLevel(levels []string) *Level {
	f := &Level{allow: make(map[string]struct{}, len(levels))}
	for _, l := range levels {
		f.allow[strings.ToUpper(l)] = struct{}{}
	}
	return f
}

// Keep reports whether the event passes the filter.
func (f *Level) Keep(e *model.Event) bool {
	if f == nil || len(f.allow) == 0 {
		return true
	}
	if e.Level == "" {
		return false
	}
	_, ok := f.allow[e.Level]
	return ok
}

// Projection narrows an event's field mapping. Projections change shape,
// never inclusion: they run after the level filter and do not touch the
// shown/filtered statistics.
type Projection interface {
	Apply(e *model.Event) *model.Event
}

// Keys projects the mapping down to an explicit key set when includeOnly is
// set. In advisory mode (includeOnly false) the mapping is left unchanged.
type Keys struct {
	keys        map[string]struct{}
	includeOnly bool
}

// NewKeys builds a key projection.
func NewKeys(keys []string, includeOnly bool) *Keys {
	p := &Keys{keys: make(map[string]struct{}, len(keys)), includeOnly: includeOnly}
	for _, k := range keys {
		p.keys[k] = struct{}{}
	}
	return p
}

// Apply returns the projected event. Surviving fields keep their original
// relative order; the core-field views are recomputed over the result.
func (p *Keys) Apply(e *model.Event) *model.Event {
	if !p.includeOnly || len(p.keys) == 0 {
		return e
	}
	return project(e, func(key string) bool {
		_, ok := p.keys[key]
		return ok
	})
}

// CommonFields keeps only the fields that matched a timestamp/level/message
// alias.
type CommonFields struct{}

// Apply returns the projected event.
func (CommonFields) Apply(e *model.Event) *model.Event {
	return project(e, model.IsCoreAlias)
}

func project(e *model.Event, keep func(key string) bool) *model.Event {
	out := model.NewEvent()
	out.LineNumber = e.LineNumber
	for _, f := range e.Fields() {
		if keep(f.Key) {
			out.Set(f.Key, f.Value)
		}
	}
	out.DetectCore()
	return out
}
