// SPDX-License-Identifier: Apache-2.0

package fardriver

import "fmt"

// Verify checks a candidate frame's integrity. A buffer that is not
// exactly FrameSize bytes fails with WrongLengthError before any CRC
// work; otherwise the CRC-16 over bytes 0-13 is compared against the
// little-endian trailer in bytes 14-15.
func Verify(buf []byte) error {
	if len(buf) != FrameSize {
		return &WrongLengthError{Length: len(buf)}
	}
	want := CalculateCRC(buf[:PayloadSize])
	got := uint16(buf[PayloadSize]) | uint16(buf[PayloadSize+1])<<8
	if want != got {
		return &ChecksumError{Want: want, Got: got}
	}
	return nil
}

// VerifyFrame checks an already-framed RawFrame's CRC trailer.
func VerifyFrame(frame RawFrame) error {
	return Verify(frame[:])
}

// AnomalyType classifies sample plausibility failures.
type AnomalyType int

const (
	AnomalyHighRPM AnomalyType = iota
	AnomalyInvalidTemp
	AnomalyInvalidSOC
	AnomalyInvalidThrottle
)

// Plausibility bounds. Frames passing CRC can still carry garbage when
// the controller is mid-reboot; these catch the obvious cases.
const (
	maxPlausibleRPM   = 15000
	minPlausibleTempC = -40
	maxPlausibleTempC = 250
)

// ValidationError represents a sample plausibility failure.
type ValidationError struct {
	Type    AnomalyType
	Message string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return v.Message
}

// ValidateSample checks decoded values against physical plausibility
// bounds. Returns a slice of validation errors (empty if the sample is
// plausible). Absent fields are never flagged.
func ValidateSample(s *Sample) []ValidationError {
	errs := []ValidationError{}

	if s.RPM != nil && *s.RPM > maxPlausibleRPM {
		errs = append(errs, ValidationError{
			Type:    AnomalyHighRPM,
			Message: fmt.Sprintf("High RPM detected (rpm=%d, max %d)", *s.RPM, maxPlausibleRPM),
		})
	}
	if s.ControllerTempC != nil && (*s.ControllerTempC < minPlausibleTempC || *s.ControllerTempC > maxPlausibleTempC) {
		errs = append(errs, ValidationError{
			Type:    AnomalyInvalidTemp,
			Message: fmt.Sprintf("Controller temp out of range (%d°C, valid: %d to %d°C)", *s.ControllerTempC, minPlausibleTempC, maxPlausibleTempC),
		})
	}
	// The motor temperature word overlaps the identifier byte on the
	// wire, so no absolute bound applies to it.
	if s.SOCPercent != nil && *s.SOCPercent > 100 {
		errs = append(errs, ValidationError{
			Type:    AnomalyInvalidSOC,
			Message: fmt.Sprintf("SOC out of range (%d%%, max 100%%)", *s.SOCPercent),
		})
	}
	if s.ThrottleRaw != nil && *s.ThrottleRaw > ThrottleMax {
		errs = append(errs, ValidationError{
			Type:    AnomalyInvalidThrottle,
			Message: fmt.Sprintf("Throttle out of range (%d, max %d)", *s.ThrottleRaw, ThrottleMax),
		})
	}

	return errs
}
