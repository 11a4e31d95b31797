// SPDX-License-Identifier: Apache-2.0

package fardriver

import (
	"math"
	"testing"
)

// ============================================================
// Field Decoder Tests
// ============================================================

func TestDecode_Voltage(t *testing.T) {
	// 0x0194 = 404 raw -> 40.4 V
	frame := BuildFrame(1, func(p []byte) {
		p[2] = 0x01
		p[3] = 0x94
	})

	s, err := Decode(frame, GroupVoltage)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if s.VoltageV == nil {
		t.Fatal("voltage absent")
	}
	if math.Abs(*s.VoltageV-40.4) > 1e-6 {
		t.Errorf("expected 40.4 V, got %v", *s.VoltageV)
	}
	// Only the voltage field is carried by this group.
	if s.RPM != nil || s.CurrentA != nil || s.Gear != nil {
		t.Errorf("voltage group must not produce other fields")
	}
}

func TestDecode_MainData(t *testing.T) {
	// Gear bits 0b10 in byte 2; RPM 3000 (0x0BB8) in bytes 8-9, high
	// byte first. Bytes 4-5 deliberately carry a different value to
	// catch a decoder reading the wrong offset.
	frame := BuildFrame(0, func(p []byte) {
		p[2] = GearLow << 2
		p[4] = 0x13
		p[5] = 0x88
		p[8] = 0x0B
		p[9] = 0xB8
	})

	s, err := Decode(frame, GroupMainData)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if s.Gear == nil || *s.Gear != GearLow {
		t.Errorf("expected gear %d, got %v", GearLow, s.Gear)
	}
	if s.RPM == nil {
		t.Fatal("rpm absent")
	}
	if *s.RPM != 3000 {
		t.Errorf("expected RPM 3000 from bytes 8-9, got %d", *s.RPM)
	}
}

func TestDecode_CurrentSigned(t *testing.T) {
	// 0xFFFE = -2 raw -> -0.5 A
	frame := BuildFrame(6, func(p []byte) {
		p[4] = 0xFF
		p[5] = 0xFE
	})

	s, err := Decode(frame, GroupCurrent)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if s.CurrentA == nil {
		t.Fatal("current absent")
	}
	if math.Abs(*s.CurrentA-(-0.5)) > 1e-6 {
		t.Errorf("expected -0.5 A, got %v", *s.CurrentA)
	}
}

func TestDecode_CurrentPositive(t *testing.T) {
	// 0x0191 = 401 raw -> 100.25 A
	frame := BuildFrame(6, func(p []byte) {
		p[4] = 0x01
		p[5] = 0x91
	})

	s, err := Decode(frame, GroupCurrent)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if math.Abs(*s.CurrentA-100.25) > 1e-6 {
		t.Errorf("expected 100.25 A, got %v", *s.CurrentA)
	}
}

func TestDecode_ControllerTemp(t *testing.T) {
	tests := []struct {
		name string
		hi   byte
		lo   byte
		want int16
	}{
		{"positive", 0x00, 0x37, 55},
		{"negative", 0xFF, 0xF9, -7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := BuildFrame(4, func(p []byte) {
				p[10] = tt.hi
				p[11] = tt.lo
			})
			s, err := Decode(frame, GroupControllerTemp)
			if err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if s.ControllerTempC == nil || *s.ControllerTempC != tt.want {
				t.Errorf("expected %d°C, got %v", tt.want, s.ControllerTempC)
			}
		})
	}
}

func TestDecode_MotorTempSOC(t *testing.T) {
	// The motor temperature word is assembled from frame bytes 1-2, so
	// its high byte carries the identifier (13 = 0x0D): byte 2 of 0x28
	// yields the raw register value 0x0D28.
	frame := BuildFrame(13, func(p []byte) {
		p[2] = 0x28
		p[3] = 85   // SOC percent
		p[4] = 0x02 // throttle 0x029A = 666
		p[5] = 0x9A
	})

	s, err := Decode(frame, GroupMotorTempSOC)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if s.MotorTempC == nil || *s.MotorTempC != 0x0D28 {
		t.Errorf("expected motor temp word 0x0D28, got %v", s.MotorTempC)
	}
	if s.SOCPercent == nil || *s.SOCPercent != 85 {
		t.Errorf("expected SOC 85%%, got %v", s.SOCPercent)
	}
	if s.ThrottleRaw == nil || *s.ThrottleRaw != 666 {
		t.Errorf("expected throttle 666, got %v", s.ThrottleRaw)
	}
}

func TestDecode_ReservedIsEmpty(t *testing.T) {
	frame := BuildFrame(54, nil)
	s, err := Decode(frame, GroupReserved)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if s.Gear != nil || s.RPM != nil || s.VoltageV != nil || s.CurrentA != nil ||
		s.ControllerTempC != nil || s.MotorTempC != nil || s.SOCPercent != nil || s.ThrottleRaw != nil {
		t.Errorf("reserved group must decode to an empty sample")
	}
}

func TestDecode_FieldRangeChecked(t *testing.T) {
	var frame RawFrame
	if _, err := be16(frame, "bad", FrameSize-1); err == nil {
		t.Errorf("expected FieldRangeError for a 2-byte read at the last byte")
	}
	if _, err := byteAt(frame, "bad", FrameSize); err == nil {
		t.Errorf("expected FieldRangeError for a read past the frame")
	}
}
