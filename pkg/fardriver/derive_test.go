// SPDX-License-Identifier: Apache-2.0

package fardriver

import (
	"math"
	"testing"
)

// ============================================================
// Derived-Quantity Calculator Tests
// ============================================================

func TestCalculator_SpeedRoundTrip(t *testing.T) {
	calc := NewCalculator(1.416, 20)

	rawRPM := uint16(3000)
	want := (float64(rawRPM) * 4.0 / 20.0) * 1.416 * 60.0 / 1000.0 // 50.976

	got := calc.SpeedKmh(rawRPM)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("expected %.6f km/h, got %.6f", want, got)
	}
}

func TestCalculator_Defaults(t *testing.T) {
	calc := NewCalculator(0, 0)
	if calc.WheelCircumferenceM != DefaultWheelCircumferenceM {
		t.Errorf("expected default circumference %.3f, got %.3f", DefaultWheelCircumferenceM, calc.WheelCircumferenceM)
	}
	if calc.MotorPolePairs != DefaultMotorPolePairs {
		t.Errorf("expected default pole pairs %d, got %d", DefaultMotorPolePairs, calc.MotorPolePairs)
	}
}

func TestDerive_RegenAndPower(t *testing.T) {
	calc := NewCalculator(1.416, 20)
	s := &Sample{
		VoltageV: float64p(80.4),
		CurrentA: float64p(-0.5),
	}
	calc.Derive(s)

	if s.Regenerating == nil || !*s.Regenerating {
		t.Errorf("negative current must set the regeneration flag")
	}
	if s.PowerW == nil {
		t.Fatal("power absent with voltage and current present")
	}
	if math.Abs(*s.PowerW-(-40.2)) > 1e-6 {
		t.Errorf("expected -40.2 W, got %v", *s.PowerW)
	}
}

func TestDerive_PositiveCurrentNoRegen(t *testing.T) {
	calc := NewCalculator(1.416, 20)
	s := &Sample{
		VoltageV: float64p(80.0),
		CurrentA: float64p(12.5),
	}
	calc.Derive(s)

	if s.Regenerating == nil || *s.Regenerating {
		t.Errorf("positive current must clear the regeneration flag")
	}
	if s.PowerW == nil || math.Abs(*s.PowerW-1000.0) > 1e-6 {
		t.Errorf("expected 1000 W, got %v", s.PowerW)
	}
}

func TestDerive_AbsentInputsAbsentOutputs(t *testing.T) {
	calc := NewCalculator(1.416, 20)
	s := &Sample{}
	calc.Derive(s)

	if s.SpeedKmh != nil || s.PowerW != nil || s.Regenerating != nil {
		t.Errorf("derivation from an empty sample must stay empty")
	}

	// Current alone: regen is known, power is not.
	s = &Sample{CurrentA: float64p(-3.0)}
	calc.Derive(s)
	if s.Regenerating == nil || !*s.Regenerating {
		t.Errorf("regen flag should derive from current alone")
	}
	if s.PowerW != nil {
		t.Errorf("power must stay absent without voltage")
	}
}

func TestDerive_NeverOverwritesDecodedFields(t *testing.T) {
	calc := NewCalculator(1.416, 20)
	s := &Sample{
		RPM:      uint16p(3000),
		VoltageV: float64p(80.4),
		CurrentA: float64p(10.0),
	}
	calc.Derive(s)

	if *s.RPM != 3000 || *s.VoltageV != 80.4 || *s.CurrentA != 10.0 {
		t.Errorf("derive must not touch directly-decoded fields")
	}
	if s.SpeedKmh == nil {
		t.Errorf("speed should derive from RPM")
	}
}
