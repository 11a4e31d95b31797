// SPDX-License-Identifier: Apache-2.0

package fardriver

import (
	"fmt"
	"strings"
)

// FormatFrame renders one frame as the hex line the original monitor
// logged, e.g. "AA 01 01 94 ... 2A D9".
func FormatFrame(frame RawFrame) string {
	parts := make([]string, FrameSize)
	for i, b := range frame {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}

// FormatGearName names the gear selector position from the MAIN_DATA
// gear bits.
func FormatGearName(gear uint8) string {
	switch gear {
	case GearHigh:
		return "High"
	case GearMid:
		return "Mid"
	case GearLow:
		return "Low"
	case 3:
		return "Mid"
	default:
		return "Unknown"
	}
}

// FormatResult renders one decode result in human-readable form for the
// raw packet log.
func FormatResult(r Result) string {
	timestamp := ""
	if r.Sample != nil {
		timestamp = r.Sample.Timestamp.Format("15:04:05.000")
	}

	if r.Err != nil {
		return fmt.Sprintf("[ERROR] %v | %s\n", r.Err, FormatFrame(r.Frame))
	}

	header := fmt.Sprintf("[%s] %s (ident %d)\n", timestamp, r.Group, r.Frame.Identifier())
	body := FormatSample(r.Sample)
	if body == "" {
		body = "  (no telemetry fields)\n"
	}
	return header + body
}

// FormatSample renders the fields present in a sample, one line per
// field, in display units.
func FormatSample(s *Sample) string {
	if s == nil {
		return ""
	}

	var b strings.Builder
	if s.Gear != nil {
		fmt.Fprintf(&b, "  Gear:            %s (0b%02b)\n", FormatGearName(*s.Gear), *s.Gear)
	}
	if s.RPM != nil {
		fmt.Fprintf(&b, "  RPM:             %d\n", *s.RPM)
	}
	if s.SpeedKmh != nil {
		fmt.Fprintf(&b, "  Speed:           %.1f km/h\n", *s.SpeedKmh)
	}
	if s.VoltageV != nil {
		fmt.Fprintf(&b, "  Voltage:         %.1f V\n", *s.VoltageV)
	}
	if s.CurrentA != nil {
		fmt.Fprintf(&b, "  Line current:    %.2f A\n", *s.CurrentA)
	}
	if s.PowerW != nil {
		fmt.Fprintf(&b, "  Power:           %.0f W\n", *s.PowerW)
	}
	if s.Regenerating != nil && *s.Regenerating {
		fmt.Fprintf(&b, "  Regenerating:    yes\n")
	}
	if s.ControllerTempC != nil {
		fmt.Fprintf(&b, "  Controller temp: %d°C\n", *s.ControllerTempC)
	}
	if s.MotorTempC != nil {
		fmt.Fprintf(&b, "  Motor temp raw:  %d\n", *s.MotorTempC)
	}
	if s.SOCPercent != nil {
		fmt.Fprintf(&b, "  SOC:             %d%%\n", *s.SOCPercent)
	}
	if s.ThrottleRaw != nil {
		fmt.Fprintf(&b, "  Throttle:        %d / %d\n", *s.ThrottleRaw, ThrottleMax)
	}
	return b.String()
}
