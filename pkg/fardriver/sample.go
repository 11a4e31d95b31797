// SPDX-License-Identifier: Apache-2.0

package fardriver

import "time"

// Sample is the decoded output record for one frame. Fields use pointers
// so that "not carried by this field group" stays distinguishable from a
// measured zero. Samples are freshly allocated per decode call and owned
// by the caller.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`

	// Directly decoded fields
	Gear            *uint8   `json:"gear,omitempty"`
	RPM             *uint16  `json:"rpm,omitempty"`
	VoltageV        *float64 `json:"voltageV,omitempty"`
	CurrentA        *float64 `json:"currentA,omitempty"`
	ControllerTempC *int16   `json:"controllerTempC,omitempty"`
	MotorTempC      *int16   `json:"motorTempC,omitempty"`
	SOCPercent      *uint8   `json:"socPercent,omitempty"`
	ThrottleRaw     *uint16  `json:"throttleRaw,omitempty"`

	// Derived fields (see Calculator)
	SpeedKmh     *float64 `json:"speedKmh,omitempty"`
	PowerW       *float64 `json:"powerW,omitempty"`
	Regenerating *bool    `json:"isRegenerating,omitempty"`
}

// Merge folds the fields present in o into s, keeping s's values for
// fields o does not carry. Dashboards use this to accumulate the latest
// reading from each field group into one display state.
func (s *Sample) Merge(o *Sample) {
	if o == nil {
		return
	}
	if !o.Timestamp.IsZero() {
		s.Timestamp = o.Timestamp
	}
	if o.Gear != nil {
		s.Gear = o.Gear
	}
	if o.RPM != nil {
		s.RPM = o.RPM
	}
	if o.VoltageV != nil {
		s.VoltageV = o.VoltageV
	}
	if o.CurrentA != nil {
		s.CurrentA = o.CurrentA
	}
	if o.ControllerTempC != nil {
		s.ControllerTempC = o.ControllerTempC
	}
	if o.MotorTempC != nil {
		s.MotorTempC = o.MotorTempC
	}
	if o.SOCPercent != nil {
		s.SOCPercent = o.SOCPercent
	}
	if o.ThrottleRaw != nil {
		s.ThrottleRaw = o.ThrottleRaw
	}
	if o.SpeedKmh != nil {
		s.SpeedKmh = o.SpeedKmh
	}
	if o.PowerW != nil {
		s.PowerW = o.PowerW
	}
	if o.Regenerating != nil {
		s.Regenerating = o.Regenerating
	}
}

// Clone returns a deep copy of the sample.
func (s *Sample) Clone() *Sample {
	if s == nil {
		return nil
	}
	out := &Sample{Timestamp: s.Timestamp}
	out.Merge(s)
	return out
}

func uint8p(v uint8) *uint8       { return &v }
func uint16p(v uint16) *uint16    { return &v }
func int16p(v int16) *int16       { return &v }
func float64p(v float64) *float64 { return &v }
func boolp(v bool) *bool          { return &v }
