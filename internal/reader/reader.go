// Package reader supplies the pipeline with a lazy sequence of
// (line, source line number) pairs. Line numbers are scoped per input
// source, not cumulative across files.
package reader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Line is one logical log line, stripped of its trailing newline.
type Line struct {
	Text   string
	Number int
}

// Source yields lines until io.EOF.
type Source interface {
	// Next returns the next line, or io.EOF at end of stream.
	Next() (Line, error)

	// Close releases the source's resources.
	Close() error
}

// ScannerSource reads lines from an io.Reader with a 1-based counter.
type ScannerSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

// NewScanner wraps an arbitrary reader, typically os.Stdin. The reader is
// injected so tests can feed fixed input.
func NewScanner(r io.Reader) *ScannerSource {
	sc := bufio.NewScanner(r)
	// Increase buffer for long lines.
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return &ScannerSource{scanner: sc}
}

// Open creates a source reading a file from the start.
func Open(path string) (*ScannerSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	s := NewScanner(f)
	s.closer = f
	return s, nil
}

// Next returns the next line.
func (s *ScannerSource) Next() (Line, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return Line{}, err
		}
		return Line{}, io.EOF
	}
	s.line++
	return Line{Text: s.scanner.Text(), Number: s.line}, nil
}

// Close closes the underlying file, if any.
func (s *ScannerSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// MultiSource concatenates sources in order. Each source keeps its own line
// numbering.
type MultiSource struct {
	sources []Source
	i       int
}

// NewMulti builds a concatenated source.
func NewMulti(sources ...Source) *MultiSource {
	return &MultiSource{sources: sources}
}

// Next returns the next line of the current source, advancing to the next
// source on EOF.
func (m *MultiSource) Next() (Line, error) {
	for m.i < len(m.sources) {
		ln, err := m.sources[m.i].Next()
		if err == io.EOF {
			m.i++
			continue
		}
		return ln, err
	}
	return Line{}, io.EOF
}

// Close closes every underlying source, returning the first error.
func (m *MultiSource) Close() error {
	var first error
	for _, s := range m.sources {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Expand resolves doublestar glob patterns into a sorted list of file paths.
// A pattern with no metacharacters must name an existing file.
func Expand(patterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]struct{})
	for _, pat := range patterns {
		matches, err := doublestar.FilepathGlob(pat)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", pat, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pat)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)
	return paths, nil
}
