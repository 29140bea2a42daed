package reader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FollowSource tails a single file: it reads to the current end, then waits
// for write notifications and keeps going until the context is cancelled.
// A partially written line is held back until its newline arrives.
type FollowSource struct {
	ctx     context.Context
	f       *os.File
	r       *bufio.Reader
	watcher *fsnotify.Watcher
	partial strings.Builder
	line    int
}

// NewFollow opens path for tailing. Cancelling ctx ends the stream with a
// clean io.EOF.
func NewFollow(ctx context.Context, path string) (*FollowSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		f.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	return &FollowSource{
		ctx:     ctx,
		f:       f,
		r:       bufio.NewReader(f),
		watcher: watcher,
	}, nil
}

// Next returns the next complete line, blocking at end of file until the
// file grows or the context is cancelled.
func (s *FollowSource) Next() (Line, error) {
	for {
		chunk, err := s.r.ReadString('\n')
		s.partial.WriteString(chunk)
		if err == nil {
			text := strings.TrimRight(s.partial.String(), "\r\n")
			s.partial.Reset()
			s.line++
			return Line{Text: text, Number: s.line}, nil
		}
		if err != io.EOF {
			return Line{}, err
		}

		select {
		case <-s.ctx.Done():
			// Flush a trailing unterminated line before ending the stream.
			if s.partial.Len() > 0 {
				text := s.partial.String()
				s.partial.Reset()
				s.line++
				return Line{Text: text, Number: s.line}, nil
			}
			return Line{}, io.EOF
		case _, ok := <-s.watcher.Events:
			if !ok {
				return Line{}, io.EOF
			}
		case werr, ok := <-s.watcher.Errors:
			if !ok {
				return Line{}, io.EOF
			}
			return Line{}, werr
		}
	}
}

// Close stops the watcher and closes the file.
func (s *FollowSource) Close() error {
	s.watcher.Close()
	return s.f.Close()
}
