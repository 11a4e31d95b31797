// SPDX-License-Identifier: Apache-2.0

package fardriver

// Default drivetrain constants from the hardware-validated reference.
// Both differ between controller installs; supply measured values.
const (
	DefaultWheelCircumferenceM = 1.416
	DefaultMotorPolePairs      = 20
)

// Calculator computes derived quantities from directly-decoded fields.
// It holds only caller-supplied drivetrain constants and is safe for
// concurrent use.
type Calculator struct {
	WheelCircumferenceM float64
	MotorPolePairs      int
}

// NewCalculator creates a calculator, substituting the reference
// drivetrain constants for unset values.
func NewCalculator(wheelCircumferenceM float64, motorPolePairs int) Calculator {
	if wheelCircumferenceM <= 0 {
		wheelCircumferenceM = DefaultWheelCircumferenceM
	}
	if motorPolePairs <= 0 {
		motorPolePairs = DefaultMotorPolePairs
	}
	return Calculator{
		WheelCircumferenceM: wheelCircumferenceM,
		MotorPolePairs:      motorPolePairs,
	}
}

// WheelRPM converts the raw display RPM to wheel revolutions per minute.
func (c Calculator) WheelRPM(rawRPM uint16) float64 {
	return float64(rawRPM) * 4.0 / float64(c.MotorPolePairs)
}

// SpeedKmh converts the raw display RPM to road speed.
func (c Calculator) SpeedKmh(rawRPM uint16) float64 {
	return c.WheelRPM(rawRPM) * c.WheelCircumferenceM * 60.0 / 1000.0
}

// Derive adds computed fields to a sample in place: speed from RPM,
// signed power from voltage and current, and the regeneration flag from
// the current sign. It never fails and never overwrites directly-decoded
// fields; absent inputs simply produce absent outputs.
func (c Calculator) Derive(s *Sample) {
	if s == nil {
		return
	}
	if s.RPM != nil {
		s.SpeedKmh = float64p(c.SpeedKmh(*s.RPM))
	}
	if s.CurrentA != nil {
		s.Regenerating = boolp(*s.CurrentA < 0)
		if s.VoltageV != nil {
			// Negative power is valid: the motor is feeding the battery.
			s.PowerW = float64p(*s.VoltageV * *s.CurrentA)
		}
	}
}
