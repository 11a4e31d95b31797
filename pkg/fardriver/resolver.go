// SPDX-License-Identifier: Apache-2.0

package fardriver

// Resolve maps a frame's embedded 6-bit identifier to its field group.
// Identifiers outside the 55-entry address table return an
// UnknownIdentifierError; reserved packet types appear on the wire and
// callers are expected to skip them.
func Resolve(frame RawFrame) (FieldGroup, error) {
	ident := frame.Identifier()
	if int(ident) >= AddressTableSize {
		return GroupReserved, &UnknownIdentifierError{Identifier: ident}
	}
	if group, ok := groupByIdentifier[ident]; ok {
		return group, nil
	}
	return GroupReserved, nil
}

// RegisterToken returns the controller register token the address table
// assigns to an in-range identifier.
func RegisterToken(ident uint8) (uint8, bool) {
	if int(ident) >= AddressTableSize {
		return 0, false
	}
	return AddressTable[ident], true
}
