// SPDX-License-Identifier: Apache-2.0

package fardriver

// Header byte every controller frame starts with.
const FrameHeader = 0xAA

// Seal computes the CRC over payload bytes 0-13 and writes the
// little-endian trailer into bytes 14-15, returning the wire-valid
// frame. Used by the demo source and by tests to build known-good
// frames.
func Seal(frame RawFrame) RawFrame {
	crc := CalculateCRC(frame[:PayloadSize])
	frame[PayloadSize] = byte(crc)
	frame[PayloadSize+1] = byte(crc >> 8)
	return frame
}

// BuildFrame constructs a sealed frame for the given identifier. fill
// receives the 14-byte payload with the header and identifier already
// set and may write field bytes in place.
func BuildFrame(ident uint8, fill func(payload []byte)) RawFrame {
	var frame RawFrame
	frame[0] = FrameHeader
	frame[identOffset] = ident & identMask
	if fill != nil {
		fill(frame[:PayloadSize])
	}
	return Seal(frame)
}
