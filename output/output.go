// Package output renders command results as JSON on a terminal.
package output

import (
	"fmt"
	"io"
	"iter"
	"os"
	"sync"

	"github.com/goccy/go-json"
)

// Terminal writes JSON documents to a writer. Single objects are
// pretty-printed; sequences are written one compact document per line.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

// New creates a terminal writing to stdout
func New() *Terminal {
	return WithWriter(os.Stdout)
}

// WithWriter creates a terminal writing to w
func WithWriter(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// DisplayObject writes v as indented JSON
func (t *Terminal) DisplayObject(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return t.writeLine(data)
}

// DisplayLine writes v as one line of JSON
func (t *Terminal) DisplayLine(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return t.writeLine(data)
}

func (t *Terminal) writeLine(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	data = append(data, '\n')
	if _, err := t.w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// DisplaySeq writes every item of seq as JSON Lines, stopping at the first
// error from seq or the writer.
func DisplaySeq[T any](t *Terminal, seq iter.Seq2[T, error]) error {
	for item, err := range seq {
		if err != nil {
			return err
		}
		if err := t.DisplayLine(item); err != nil {
			return err
		}
	}
	return nil
}
