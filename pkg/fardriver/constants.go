// SPDX-License-Identifier: Apache-2.0

// Package fardriver decodes the fixed-length binary telemetry packets a
// FarDriver-class motor controller broadcasts over BLE.
//
// The wire unit is a 16-byte frame: bytes 0-13 carry the payload (byte 1's
// low 6 bits are the packet identifier), bytes 14-15 carry a little-endian
// CRC-16 trailer. This package provides framing, CRC validation, identifier
// resolution, per-group field decoding and derived-quantity calculation.
package fardriver

// Frame geometry
const (
	FrameSize   = 16 // One wire frame
	PayloadSize = 14 // Bytes covered by the CRC trailer
)

// CRC-16 configuration (reflected, LSB-first)
const (
	crcSeed       = 0x7F3C
	crcPolynomial = 0xA001
)

// Identifier extraction
const (
	identOffset = 1    // Frame byte holding the packet identifier
	identMask   = 0x3F // Low 6 bits of that byte
)

// BLE GATT identifiers used by FarDriver and YuanQu controllers.
const (
	ServiceUUID16        = 0xFFE0
	CharacteristicUUID16 = 0xFFEC
)

// AddressTableSize is the number of identifiers the controller emits.
// Identifiers 0..54 are valid; anything above is reserved on the wire.
const AddressTableSize = 55

// AddressTable maps each packet identifier to the controller register
// token that packet's payload mirrors. The tokens come from the FarDriver
// register map and act purely as a stable key space; they are carried
// verbatim for wire compatibility and never reinterpreted.
var AddressTable = [AddressTableSize]uint8{
	0x00, 0x04, 0x08, 0x0C, 0x10, 0x14, 0x18, 0x1C,
	0x20, 0x24, 0x28, 0x2C, 0x30, 0x34, 0x38, 0x3C,
	0x40, 0x44, 0x48, 0x4C, 0x50, 0x54, 0x58, 0x5C,
	0x60, 0x64, 0x68, 0x6C, 0x70, 0x74, 0x78, 0x7C,
	0x80, 0x84, 0x88, 0x8C, 0x90, 0x94, 0x98, 0x9C,
	0xA0, 0xA4, 0xA8, 0xAC, 0xB0, 0xB4, 0xB8, 0xBC,
	0xC0, 0xC4, 0xC8, 0xCC, 0xD0, 0xD4, 0xD8,
}

// FieldGroup selects which byte-offset/scale rule set applies to a frame.
type FieldGroup int

// Field groups
const (
	GroupReserved       FieldGroup = iota // In-table identifier with no telemetry fields
	GroupMainData                         // Gear bits and motor RPM
	GroupVoltage                          // Battery voltage
	GroupCurrent                          // Signed line current
	GroupControllerTemp                   // Controller temperature
	GroupMotorTempSOC                     // Motor temperature, SOC and throttle
)

// groupByIdentifier routes each valid identifier to its decode rule set.
// Identifiers not listed here carry reserved register pages and decode to
// an empty sample.
var groupByIdentifier = map[uint8]FieldGroup{
	0:  GroupMainData,
	1:  GroupVoltage,
	4:  GroupControllerTemp,
	6:  GroupCurrent,
	13: GroupMotorTempSOC,
}

// String returns the field group name.
func (g FieldGroup) String() string {
	switch g {
	case GroupMainData:
		return "MAIN_DATA"
	case GroupVoltage:
		return "VOLTAGE"
	case GroupCurrent:
		return "CURRENT"
	case GroupControllerTemp:
		return "CONTROLLER_TEMP"
	case GroupMotorTempSOC:
		return "MOTOR_TEMP_SOC"
	case GroupReserved:
		return "RESERVED"
	default:
		return "UNKNOWN"
	}
}

// Gear values carried in the MAIN_DATA gear bits.
const (
	GearHigh = 0
	GearMid  = 1
	GearLow  = 2
)

// ThrottleMax is the upper bound of the raw throttle ADC field.
const ThrottleMax = 4095
