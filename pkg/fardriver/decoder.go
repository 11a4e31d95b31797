// SPDX-License-Identifier: Apache-2.0

package fardriver

import "time"

// Canonical byte offsets per field group. Offsets index the whole
// 16-byte frame; multi-byte fields assemble high byte first. These are
// the hardware-validated wire contract and must not be "fixed" even
// where they look asymmetric (the motor temperature word overlaps the
// identifier byte).
const (
	offGear        = 2  // (byte >> 2) & 0b11
	offVoltage     = 2  // 16-bit, /10.0
	offRPM         = 8  // 16-bit, raw display value
	offCurrent     = 4  // signed 16-bit, /4.0
	offCtrlTemp    = 10 // signed 16-bit, raw °C
	offMotorTemp   = 1  // signed 16-bit, raw °C
	offSOC         = 3  // single byte, percent
	offThrottle    = 4  // 16-bit, 0-4095 raw
	gearShift      = 2
	gearMask       = 0b11
	currentDivisor = 4.0
	voltageDivisor = 10.0
)

// be16 assembles an unsigned big-endian 16-bit value with a bounds check
// against the frame. Out-of-range rules are a structural bug and surface
// as FieldRangeError, never as a silent zero.
func be16(frame RawFrame, field string, off int) (uint16, error) {
	if off < 0 || off+2 > FrameSize {
		return 0, &FieldRangeError{Field: field, Offset: off, Width: 2}
	}
	return uint16(frame[off])<<8 | uint16(frame[off+1]), nil
}

// sbe16 assembles a signed (two's-complement) big-endian 16-bit value.
func sbe16(frame RawFrame, field string, off int) (int16, error) {
	v, err := be16(frame, field, off)
	if err != nil {
		return 0, err
	}
	return int16(v), nil
}

func byteAt(frame RawFrame, field string, off int) (uint8, error) {
	if off < 0 || off >= FrameSize {
		return 0, &FieldRangeError{Field: field, Offset: off, Width: 1}
	}
	return frame[off], nil
}

// Decode extracts the fields the given group carries from a validated
// frame. The returned sample holds only that group's fields; everything
// else stays absent. Decoding is total per group: it yields a sample or
// an explicit error for every well-formed frame routed to it.
func Decode(frame RawFrame, group FieldGroup) (*Sample, error) {
	s := &Sample{Timestamp: time.Now()}

	switch group {
	case GroupMainData:
		gearByte, err := byteAt(frame, "gear", offGear)
		if err != nil {
			return nil, err
		}
		rpm, err := be16(frame, "rpm", offRPM)
		if err != nil {
			return nil, err
		}
		s.Gear = uint8p((gearByte >> gearShift) & gearMask)
		s.RPM = uint16p(rpm)

	case GroupVoltage:
		raw, err := be16(frame, "voltage", offVoltage)
		if err != nil {
			return nil, err
		}
		s.VoltageV = float64p(float64(raw) / voltageDivisor)

	case GroupCurrent:
		raw, err := sbe16(frame, "current", offCurrent)
		if err != nil {
			return nil, err
		}
		s.CurrentA = float64p(float64(raw) / currentDivisor)

	case GroupControllerTemp:
		raw, err := sbe16(frame, "controller_temp", offCtrlTemp)
		if err != nil {
			return nil, err
		}
		s.ControllerTempC = int16p(raw)

	case GroupMotorTempSOC:
		temp, err := sbe16(frame, "motor_temp", offMotorTemp)
		if err != nil {
			return nil, err
		}
		soc, err := byteAt(frame, "soc", offSOC)
		if err != nil {
			return nil, err
		}
		throttle, err := be16(frame, "throttle", offThrottle)
		if err != nil {
			return nil, err
		}
		s.MotorTempC = int16p(temp)
		s.SOCPercent = uint8p(soc)
		s.ThrottleRaw = uint16p(throttle)

	case GroupReserved:
		// In-table identifier carrying a reserved register page:
		// decodes to an empty sample.
	}

	return s, nil
}
