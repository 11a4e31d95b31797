// SPDX-License-Identifier: Apache-2.0

package fardriver

import (
	"errors"
	"testing"
)

// ============================================================
// Integrity Validator Tests
// ============================================================

func TestVerify_WrongLength(t *testing.T) {
	for _, n := range []int{0, 1, 15, 17, 32} {
		buf := make([]byte, n)
		err := Verify(buf)
		var lenErr *WrongLengthError
		if !errors.As(err, &lenErr) {
			t.Errorf("length %d: expected WrongLengthError, got %v", n, err)
			continue
		}
		if lenErr.Length != n {
			t.Errorf("length %d: error reports %d", n, lenErr.Length)
		}
	}
}

func TestVerify_GoldenZeroFrame(t *testing.T) {
	// All-zero payload with its correct little-endian trailer
	// (CRC 0x0397 -> bytes 0x97, 0x03) must validate.
	frame := make([]byte, FrameSize)
	frame[14] = 0x97
	frame[15] = 0x03
	if err := Verify(frame); err != nil {
		t.Fatalf("golden zero frame should validate, got %v", err)
	}
}

func TestVerify_SealedFrame(t *testing.T) {
	frame := Seal(RawFrame{FrameHeader, 0x01, 0x01, 0x94})
	if err := VerifyFrame(frame); err != nil {
		t.Fatalf("sealed frame should validate, got %v", err)
	}
}

func TestVerify_BitFlipInvalidates(t *testing.T) {
	sealed := Seal(RawFrame{FrameHeader, 0x00, 0x08})
	for i := 0; i < PayloadSize; i++ {
		frame := sealed
		frame[i] ^= 0x01
		err := VerifyFrame(frame)
		var crcErr *ChecksumError
		if !errors.As(err, &crcErr) {
			t.Errorf("flip in byte %d: expected ChecksumError, got %v", i, err)
		}
	}
}

func TestVerify_CorruptedTrailer(t *testing.T) {
	frame := Seal(RawFrame{FrameHeader, 0x01})
	frame[15] ^= 0xFF
	err := VerifyFrame(frame)
	var crcErr *ChecksumError
	if !errors.As(err, &crcErr) {
		t.Fatalf("expected ChecksumError, got %v", err)
	}
	if crcErr.Want == crcErr.Got {
		t.Errorf("mismatch error should carry differing values")
	}
}

// ============================================================
// Plausibility Validation Tests
// ============================================================

func TestValidateSample_Plausible(t *testing.T) {
	s := &Sample{
		RPM:             uint16p(3000),
		ControllerTempC: int16p(55),
		SOCPercent:      uint8p(85),
		ThrottleRaw:     uint16p(2048),
	}
	if errs := ValidateSample(s); len(errs) != 0 {
		t.Errorf("plausible sample flagged: %v", errs)
	}
}

func TestValidateSample_Anomalies(t *testing.T) {
	tests := []struct {
		name   string
		sample *Sample
		want   AnomalyType
	}{
		{"high rpm", &Sample{RPM: uint16p(16000)}, AnomalyHighRPM},
		{"controller temp low", &Sample{ControllerTempC: int16p(-100)}, AnomalyInvalidTemp},
		{"controller temp high", &Sample{ControllerTempC: int16p(300)}, AnomalyInvalidTemp},
		{"soc over 100", &Sample{SOCPercent: uint8p(120)}, AnomalyInvalidSOC},
		{"throttle over max", &Sample{ThrottleRaw: uint16p(5000)}, AnomalyInvalidThrottle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateSample(tt.sample)
			if len(errs) != 1 {
				t.Fatalf("expected 1 validation error, got %d: %v", len(errs), errs)
			}
			if errs[0].Type != tt.want {
				t.Errorf("expected anomaly type %d, got %d", tt.want, errs[0].Type)
			}
		})
	}
}

func TestValidateSample_AbsentFieldsNeverFlagged(t *testing.T) {
	if errs := ValidateSample(&Sample{}); len(errs) != 0 {
		t.Errorf("empty sample flagged: %v", errs)
	}
}
