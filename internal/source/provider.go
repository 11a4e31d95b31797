// SPDX-License-Identifier: Apache-2.0

// Package source provides the transport backends that feed raw
// controller bytes to the decoder: BLE, a serial UART bridge, a
// websocket bridge, a capture-file replay and a simulated controller.
// The decoder itself performs no I/O; sources own connection lifecycle
// and deliver byte chunks exactly as received.
package source

// Source is the interface all transport backends implement. FarDriver
// BLE is the primary implementation; the serial and websocket bridges
// cover ESP32 relay setups.
type Source interface {
	// Name returns the human-readable name of this transport.
	Name() string
	// Connect establishes the transport and starts delivering chunks.
	Connect() error
	// Close cleanly shuts the transport down. The chunk channel is
	// closed afterwards.
	Close() error
	// Chunks returns the channel of raw byte chunks as received from
	// the controller. Chunk boundaries carry no meaning; the decoder's
	// framer reassembles frames across them.
	Chunks() <-chan []byte
	// Err returns the terminal error after the chunk channel closes,
	// or nil for a clean shutdown.
	Err() error
}
