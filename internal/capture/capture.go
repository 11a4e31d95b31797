// SPDX-License-Identifier: Apache-2.0

// Package capture reads and writes timestamped raw-byte capture files.
// The format is a plain CBOR sequence of records, compact enough to run
// on a ride-long recording and self-describing enough to survive schema
// additions.
package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Record is one received chunk with its arrival time.
type Record struct {
	UnixNano int64  `cbor:"1,keyasint"`
	Data     []byte `cbor:"2,keyasint"`
}

// Time returns the record's arrival time.
func (r Record) Time() time.Time {
	return time.Unix(0, r.UnixNano)
}

// Writer appends records to a capture file.
type Writer struct {
	f   *os.File
	enc *cbor.Encoder
}

// Create opens a new capture file for writing.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create capture %s: %w", path, err)
	}
	return &Writer{f: f, enc: cbor.NewEncoder(f)}, nil
}

// Write appends one chunk with the given arrival time.
func (w *Writer) Write(ts time.Time, data []byte) error {
	return w.enc.Encode(Record{UnixNano: ts.UnixNano(), Data: data})
}

// Close flushes and closes the file.
func (w *Writer) Close() error {
	return w.f.Close()
}

// Reader iterates over a capture file's records.
type Reader struct {
	f   *os.File
	dec *cbor.Decoder
}

// Open opens a capture file for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture %s: %w", path, err)
	}
	return &Reader{f: f, dec: cbor.NewDecoder(f)}, nil
}

// Next returns the next record, or io.EOF at the end of the file.
func (r *Reader) Next() (Record, error) {
	var rec Record
	err := r.dec.Decode(&rec)
	if errors.Is(err, io.EOF) {
		return rec, io.EOF
	}
	if err != nil {
		return rec, fmt.Errorf("decode capture record: %w", err)
	}
	return rec, nil
}

// Close closes the file.
func (r *Reader) Close() error {
	return r.f.Close()
}
