// SPDX-License-Identifier: Apache-2.0

package source

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/internal/capture"
)

// Replay feeds chunks back from a capture file. With pacing enabled the
// recorded inter-chunk gaps are reproduced, so a replayed ride looks
// live to downstream consumers.
type Replay struct {
	path   string
	paced  bool
	chunks chan []byte

	mu     sync.Mutex
	closed bool
	err    error
	done   chan struct{}
}

// NewReplay creates a replay source for the given capture file.
func NewReplay(path string, paced bool) *Replay {
	return &Replay{
		path:   path,
		paced:  paced,
		chunks: make(chan []byte, 64),
		done:   make(chan struct{}),
	}
}

// Name returns the transport name.
func (r *Replay) Name() string {
	return "Replay: " + r.path
}

// Chunks returns the replayed chunk channel. The channel closes at the
// end of the capture.
func (r *Replay) Chunks() <-chan []byte {
	return r.chunks
}

// Err returns the terminal error after the chunk channel closes.
func (r *Replay) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Connect opens the capture file and starts the replay loop.
func (r *Replay) Connect() error {
	reader, err := capture.Open(r.path)
	if err != nil {
		return err
	}
	go r.run(reader)
	return nil
}

// Close stops the replay loop.
func (r *Replay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	close(r.done)
	return nil
}

func (r *Replay) run(reader *capture.Reader) {
	defer close(r.chunks)
	defer reader.Close()

	var prev time.Time
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			r.mu.Lock()
			if !r.closed {
				r.err = err
			}
			r.mu.Unlock()
			return
		}

		if r.paced && !prev.IsZero() {
			gap := rec.Time().Sub(prev)
			if gap > 0 {
				select {
				case <-time.After(gap):
				case <-r.done:
					return
				}
			}
		}
		prev = rec.Time()

		select {
		case r.chunks <- rec.Data:
		case <-r.done:
			return
		}
	}
}
