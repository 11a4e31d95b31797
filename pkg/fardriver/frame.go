// SPDX-License-Identifier: Apache-2.0

package fardriver

// RawFrame is one immutable 16-byte wire frame. It is a value type:
// decode calls copy it and retain nothing between frames.
type RawFrame [FrameSize]byte

// Identifier extracts the 6-bit packet identifier from byte 1.
func (f RawFrame) Identifier() uint8 {
	return f[identOffset] & identMask
}

// Trailer returns the little-endian CRC-16 check value from bytes 14-15.
func (f RawFrame) Trailer() uint16 {
	return uint16(f[PayloadSize]) | uint16(f[PayloadSize+1])<<8
}

// Payload returns the CRC-covered bytes 0-13.
func (f RawFrame) Payload() []byte {
	return f[:PayloadSize]
}

// Framer slices a continuous byte stream into candidate 16-byte frames.
// A partial trailing frame is kept between Push calls so callers can feed
// reads of arbitrary size.
type Framer struct {
	buf []byte
}

// NewFramer creates an empty stream framer.
func NewFramer() *Framer {
	return &Framer{buf: make([]byte, 0, FrameSize*4)}
}

// Push appends raw bytes from the transport.
func (f *Framer) Push(data []byte) {
	f.buf = append(f.buf, data...)
}

// Next extracts the next complete frame, or returns ErrNeedMoreData when
// fewer than FrameSize bytes are buffered.
func (f *Framer) Next() (RawFrame, error) {
	var frame RawFrame
	if len(f.buf) < FrameSize {
		return frame, ErrNeedMoreData
	}
	copy(frame[:], f.buf[:FrameSize])
	n := copy(f.buf, f.buf[FrameSize:])
	f.buf = f.buf[:n]
	return frame, nil
}

// Pending returns the number of buffered bytes not yet framed.
func (f *Framer) Pending() int {
	return len(f.buf)
}

// Reset discards any buffered partial frame.
func (f *Framer) Reset() {
	f.buf = f.buf[:0]
}

// TryFrame extracts one frame from the head of buf, returning the
// remaining bytes. A short buffer yields ErrNeedMoreData.
func TryFrame(buf []byte) (RawFrame, []byte, error) {
	var frame RawFrame
	if len(buf) < FrameSize {
		return frame, buf, ErrNeedMoreData
	}
	copy(frame[:], buf[:FrameSize])
	return frame, buf[FrameSize:], nil
}

// SplitFrames splits a one-shot buffer into whole frames. A nonzero
// remainder after extraction is malformed: the complete frames are still
// returned alongside the error.
func SplitFrames(buf []byte) ([]RawFrame, error) {
	frames := make([]RawFrame, 0, len(buf)/FrameSize)
	for len(buf) >= FrameSize {
		var frame RawFrame
		frame, buf, _ = TryFrame(buf)
		frames = append(frames, frame)
	}
	if len(buf) != 0 {
		return frames, &MalformedError{Remainder: len(buf)}
	}
	return frames, nil
}
