// SPDX-License-Identifier: Apache-2.0

package fardriver

// CalculateCRC computes the reflected CRC-16 the controller appends to
// every frame: seed 0x7F3C, polynomial 0xA001, LSB-first bit loop.
func CalculateCRC(data []byte) uint16 {
	crc := uint16(crcSeed)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&0x0001 != 0 {
				crc = (crc >> 1) ^ crcPolynomial
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}
