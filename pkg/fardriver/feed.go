// SPDX-License-Identifier: Apache-2.0

package fardriver

// Result is the outcome of processing one candidate frame: either a
// decoded (and derived) sample, or the error that stopped it. Errors are
// scoped to their frame; the stream always continues.
type Result struct {
	Frame  RawFrame
	Group  FieldGroup
	Sample *Sample
	Err    error
}

// Stream is the feed boundary for a continuous byte stream from one
// transport: framing, CRC validation, identifier resolution, field
// decoding and derivation in one pass. The only state between Feed calls
// is the framer's partial tail, so independent transports get
// independent Streams and need no locking.
type Stream struct {
	framer *Framer
	calc   Calculator
}

// NewStream creates a decode pipeline with the given drivetrain
// constants.
func NewStream(calc Calculator) *Stream {
	return &Stream{
		framer: NewFramer(),
		calc:   calc,
	}
}

// Feed consumes a chunk of transport bytes and returns one Result per
// complete frame found. A partial trailing frame is retained for the
// next call.
func (st *Stream) Feed(data []byte) []Result {
	st.framer.Push(data)

	var results []Result
	for {
		frame, err := st.framer.Next()
		if err != nil {
			// Partial tail stays buffered for the next read.
			break
		}
		results = append(results, st.process(frame))
	}
	return results
}

// Pending returns the number of buffered bytes awaiting a full frame.
func (st *Stream) Pending() int {
	return st.framer.Pending()
}

// Reset discards any buffered partial frame, e.g. after a reconnect.
func (st *Stream) Reset() {
	st.framer.Reset()
}

func (st *Stream) process(frame RawFrame) Result {
	res := Result{Frame: frame, Group: GroupReserved}

	if err := VerifyFrame(frame); err != nil {
		res.Err = err
		return res
	}

	group, err := Resolve(frame)
	if err != nil {
		res.Err = err
		return res
	}
	res.Group = group

	sample, err := Decode(frame, group)
	if err != nil {
		res.Err = err
		return res
	}
	st.calc.Derive(sample)
	res.Sample = sample
	return res
}

// DecodeFrame runs validation, resolution, decoding and derivation on a
// single caller-framed buffer. Buffers that are not exactly one frame
// fail with WrongLengthError.
func (st *Stream) DecodeFrame(buf []byte) Result {
	if len(buf) != FrameSize {
		return Result{Group: GroupReserved, Err: &WrongLengthError{Length: len(buf)}}
	}
	var frame RawFrame
	copy(frame[:], buf)
	return st.process(frame)
}
