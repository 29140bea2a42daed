// Package sink receives rendered output lines. Sinks are local byte
// destinations: stdout or a rotated file.
package sink

import (
	"bufio"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Sink accepts one rendered line per shown event, in input order.
type Sink interface {
	// Write emits one line; the sink appends the newline.
	Write(line string) error

	// Close flushes and releases the sink.
	Close() error
}

// WriterSink writes lines to an io.Writer, buffered.
type WriterSink struct {
	w  *bufio.Writer
	cl io.Closer
}

// NewStdout creates a sink on standard output.
func NewStdout() *WriterSink {
	return NewWriter(os.Stdout)
}

// NewWriter creates a sink on an arbitrary writer. The writer is injected so
// tests can capture output.
func NewWriter(w io.Writer) *WriterSink {
	s := &WriterSink{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok && w != os.Stdout {
		s.cl = c
	}
	return s
}

// Write emits one line.
func (s *WriterSink) Write(line string) error {
	if _, err := s.w.WriteString(line); err != nil {
		return err
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return err
	}
	// Flush per line: the consumer may be a pipe reading incrementally.
	return s.w.Flush()
}

// Close flushes remaining output.
func (s *WriterSink) Close() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	if s.cl != nil {
		return s.cl.Close()
	}
	return nil
}

// RotatingFileConfig controls the rotated file sink.
type RotatingFileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// FileSink writes lines to a size-rotated file.
type FileSink struct {
	lj *lumberjack.Logger
}

// NewFile creates a rotated file sink.
func NewFile(cfg RotatingFileConfig) *FileSink {
	return &FileSink{
		lj: &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		},
	}
}

// Write emits one line.
func (s *FileSink) Write(line string) error {
	_, err := s.lj.Write(append([]byte(line), '\n'))
	return err
}

// Close closes the current log file.
func (s *FileSink) Close() error {
	return s.lj.Close()
}
