// Package pipeline runs the single-pass processing loop:
// raw line -> parse -> statistics -> filter -> project -> format -> sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/kelora-dev/kelora/internal/config"
	"github.com/kelora-dev/kelora/internal/filter"
	"github.com/kelora-dev/kelora/internal/format"
	"github.com/kelora-dev/kelora/internal/parser"
	"github.com/kelora-dev/kelora/internal/reader"
	"github.com/kelora-dev/kelora/internal/sink"
	"github.com/kelora-dev/kelora/internal/stats"
)

// Pipeline holds the stages of one run. Processing is single-threaded and
// strictly sequential: one statistics update per input line, events rendered
// in input order.
type Pipeline struct {
	parser     parser.Parser
	formatter  format.Formatter
	level      *filter.Level
	projection filter.Projection // nil when no projection configured
	collector  *stats.Collector
	out        sink.Sink
	logger     *logrus.Logger
}

// New builds a pipeline from a validated configuration.
func New(cfg *config.Config, out sink.Sink, log *logrus.Logger) (*Pipeline, error) {
	p, err := parser.ForFormat(cfg.Input.Format)
	if err != nil {
		return nil, fmt.Errorf("building parser: %w", err)
	}
	f, err := format.ForFormat(cfg.Output.Format)
	if err != nil {
		return nil, fmt.Errorf("building formatter: %w", err)
	}

	var proj filter.Projection
	switch {
	case cfg.Filter.CommonOnly:
		proj = filter.CommonFields{}
	case len(cfg.Filter.Keys) > 0 && cfg.Filter.IncludeOnly:
		proj = filter.NewKeys(cfg.Filter.Keys, true)
	}

	return &Pipeline{
		parser:     p,
		formatter:  f,
		level:      filter.NewLevel(cfg.Filter.Levels),
		projection: proj,
		collector:  stats.NewCollector(),
		out:        out,
		logger:     log,
	}, nil
}

// Run consumes the source until EOF or cancellation and returns the final
// statistics snapshot. Per-line parse failures are counted and logged on the
// debug channel, never propagated. A broken pipe downstream ends the run
// cleanly.
func (p *Pipeline) Run(ctx context.Context, src reader.Source) (stats.Report, error) {
	for {
		select {
		case <-ctx.Done():
			return p.collector.Report(), ctx.Err()
		default:
		}

		ln, err := src.Next()
		if err == io.EOF {
			return p.collector.Report(), nil
		}
		if err != nil {
			return p.collector.Report(), fmt.Errorf("reading input: %w", err)
		}

		if err := p.process(ln); err != nil {
			if errors.Is(err, syscall.EPIPE) {
				// Downstream consumer went away; treat as clean early stop.
				p.logger.Debug("output pipe closed, stopping")
				return p.collector.Report(), nil
			}
			return p.collector.Report(), err
		}
	}
}

// process handles exactly one input line.
func (p *Pipeline) process(ln reader.Line) error {
	p.collector.Line()

	if strings.TrimSpace(ln.Text) == "" {
		return nil
	}

	ev, err := p.parser.Parse(ln.Text)
	if err != nil {
		p.collector.RecordError()
		perr := &parser.ParseError{Line: ln.Number, Cause: err.Error()}
		p.logger.WithFields(logrus.Fields{
			"line":  perr.Line,
			"cause": perr.Cause,
		}).Debug("skipping unparseable line")
		return nil
	}
	ev.LineNumber = ln.Number

	if !p.level.Keep(ev) {
		p.collector.RecordFiltered()
		return nil
	}

	// Statistics see the pre-projection event; projection changes shape,
	// never inclusion.
	p.collector.RecordShown(ev)

	out := ev
	if p.projection != nil {
		out = p.projection.Apply(ev)
	}

	text, err := p.formatter.Format(out)
	if err != nil {
		return fmt.Errorf("formatting line %d: %w", ln.Number, err)
	}
	return p.out.Write(text)
}

// Report snapshots the collector without ending the run. Useful for
// follow-mode interrupt handling.
func (p *Pipeline) Report() stats.Report {
	return p.collector.Report()
}
