// SPDX-License-Identifier: Apache-2.0

package fardriver

import (
	"errors"
	"testing"
)

// ============================================================
// Framer Tests
// ============================================================

func TestFramer_PartialThenComplete(t *testing.T) {
	f := NewFramer()
	frame := Seal(RawFrame{FrameHeader, 0x01})

	f.Push(frame[:10])
	if _, err := f.Next(); !errors.Is(err, ErrNeedMoreData) {
		t.Fatalf("expected ErrNeedMoreData for 10 buffered bytes, got %v", err)
	}

	f.Push(frame[10:])
	got, err := f.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != frame {
		t.Errorf("framed bytes differ from pushed bytes")
	}
	if f.Pending() != 0 {
		t.Errorf("expected empty buffer, %d bytes pending", f.Pending())
	}
}

func TestFramer_MultipleFramesWithTail(t *testing.T) {
	f := NewFramer()
	a := Seal(RawFrame{FrameHeader, 0x00})
	b := Seal(RawFrame{FrameHeader, 0x01})

	buf := append(append(append([]byte{}, a[:]...), b[:]...), 0xDE, 0xAD)
	f.Push(buf)

	for i, want := range []RawFrame{a, b} {
		got, err := f.Next()
		if err != nil {
			t.Fatalf("frame %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("frame %d: bytes differ", i)
		}
	}
	if _, err := f.Next(); !errors.Is(err, ErrNeedMoreData) {
		t.Fatalf("expected ErrNeedMoreData for the 2-byte tail, got %v", err)
	}
	if f.Pending() != 2 {
		t.Errorf("expected 2 pending bytes, got %d", f.Pending())
	}

	f.Reset()
	if f.Pending() != 0 {
		t.Errorf("Reset should discard the tail")
	}
}

func TestTryFrame_ShortBuffer(t *testing.T) {
	buf := make([]byte, FrameSize-1)
	_, rest, err := TryFrame(buf)
	if !errors.Is(err, ErrNeedMoreData) {
		t.Fatalf("expected ErrNeedMoreData, got %v", err)
	}
	if len(rest) != len(buf) {
		t.Errorf("short buffer must be returned untouched")
	}
}

func TestSplitFrames_ExactMultiple(t *testing.T) {
	a := Seal(RawFrame{FrameHeader, 0x04})
	b := Seal(RawFrame{FrameHeader, 0x06})
	frames, err := SplitFrames(append(a[:], b[:]...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
}

func TestSplitFrames_MalformedRemainder(t *testing.T) {
	a := Seal(RawFrame{FrameHeader, 0x04})
	frames, err := SplitFrames(append(a[:], 0x01, 0x02, 0x03))

	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedError, got %v", err)
	}
	if malformed.Remainder != 3 {
		t.Errorf("expected 3 leftover bytes, got %d", malformed.Remainder)
	}
	// Complete frames are still extracted.
	if len(frames) != 1 || frames[0] != a {
		t.Errorf("complete frames should be returned alongside the error")
	}
}

func TestRawFrame_Accessors(t *testing.T) {
	frame := Seal(RawFrame{FrameHeader, 0x8D}) // identifier bits 0x0D under a set top bit

	if got := frame.Identifier(); got != 0x0D {
		t.Errorf("identifier: expected 0x0D, got 0x%02X", got)
	}
	if len(frame.Payload()) != PayloadSize {
		t.Errorf("payload length: expected %d, got %d", PayloadSize, len(frame.Payload()))
	}
	want := CalculateCRC(frame.Payload())
	if frame.Trailer() != want {
		t.Errorf("trailer: expected 0x%04X, got 0x%04X", want, frame.Trailer())
	}
}
