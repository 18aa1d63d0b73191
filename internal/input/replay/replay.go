// Package replay feeds recorded input events from a file.
//
// The file holds one JSON event per line, {"type":1,"code":256,"value":1}.
// A blank line ends a batch; lines starting with '#' are comments. Once the
// file is exhausted every read returns an empty batch, like an idle device.
package replay

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// Source is a contracts.EventSource reading a recording.
type Source struct {
	name    string
	closer  io.Closer
	scanner *bufio.Scanner
	line    int
	eof     bool
}

// Open opens the recording at path.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	s := New(path, f)
	s.closer = f
	return s, nil
}

// New reads a recording from r. name is used in error messages.
func New(name string, r io.Reader) *Source {
	return &Source{name: name, scanner: bufio.NewScanner(r)}
}

// ReadBatch returns the events up to the next blank line.
func (s *Source) ReadBatch() ([]contracts.RawInputEvent, error) {
	var batch []contracts.RawInputEvent
	for !s.eof {
		if !s.scanner.Scan() {
			s.eof = true
			if err := s.scanner.Err(); err != nil {
				return batch, fmt.Errorf("%s: %w", s.name, err)
			}
			break
		}
		s.line++

		line := bytes.TrimSpace(s.scanner.Bytes())
		switch {
		case len(line) == 0:
			if len(batch) > 0 {
				return batch, nil
			}
			continue
		case line[0] == '#':
			continue
		}

		var ev contracts.RawInputEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return batch, fmt.Errorf("%s:%d: %w", s.name, s.line, err)
		}
		batch = append(batch, ev)
	}
	return batch, nil
}

// Close closes the underlying file, if Open created it.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
