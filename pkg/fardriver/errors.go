// SPDX-License-Identifier: Apache-2.0

package fardriver

import (
	"errors"
	"fmt"
)

// ErrNeedMoreData is returned by the framer when fewer than FrameSize
// bytes are buffered. Callers keep feeding; it is not a frame error.
var ErrNeedMoreData = errors.New("need more data")

// WrongLengthError reports a buffer that is not exactly one frame.
// The CRC is never computed for such buffers.
type WrongLengthError struct {
	Length int
}

func (e *WrongLengthError) Error() string {
	return fmt.Sprintf("wrong frame length: %d bytes (expected %d)", e.Length, FrameSize)
}

// ChecksumError reports a CRC trailer mismatch. The frame is dropped and
// the stream continues.
type ChecksumError struct {
	Want uint16 // Computed over payload bytes 0-13
	Got  uint16 // Little-endian trailer from bytes 14-15
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("CRC mismatch: expected 0x%04X, got 0x%04X", e.Want, e.Got)
}

// UnknownIdentifierError reports an identifier outside the address table.
// Reserved packet types appear on the wire; this is informational, the
// frame is skipped and the stream continues.
type UnknownIdentifierError struct {
	Identifier uint8
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown packet identifier %d (table covers 0-%d)", e.Identifier, AddressTableSize-1)
}

// FieldRangeError reports a decode rule whose bytes fall outside the
// frame. This is a structural bug in the rule table, never silently
// zero-filled.
type FieldRangeError struct {
	Field  string
	Offset int
	Width  int
}

func (e *FieldRangeError) Error() string {
	return fmt.Sprintf("field %s: bytes %d-%d outside %d-byte frame", e.Field, e.Offset, e.Offset+e.Width-1, FrameSize)
}

// MalformedError reports leftover bytes after extracting whole frames
// from a one-shot buffer.
type MalformedError struct {
	Remainder int
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed trailing data: %d bytes left over", e.Remainder)
}
