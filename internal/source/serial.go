// SPDX-License-Identifier: Apache-2.0

package source

import (
	"fmt"
	"sync"

	"go.bug.st/serial"
)

// SerialConfig holds connection configuration for the UART bridge.
type SerialConfig struct {
	PortPath string
	BaudRate int
}

// Serial reads controller bytes from a UART bridge (e.g. an ESP32
// forwarding BLE notifications over USB serial), 8N1.
type Serial struct {
	cfg    SerialConfig
	port   serial.Port
	chunks chan []byte

	mu     sync.Mutex
	closed bool
	err    error
}

// NewSerial creates a serial source.
func NewSerial(cfg SerialConfig) *Serial {
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = 115200
	}
	return &Serial{
		cfg:    cfg,
		chunks: make(chan []byte, 64),
	}
}

// Name returns the transport name.
func (s *Serial) Name() string {
	return fmt.Sprintf("Serial: %s @ %d baud", s.cfg.PortPath, s.cfg.BaudRate)
}

// Chunks returns the read chunk channel.
func (s *Serial) Chunks() <-chan []byte {
	return s.chunks
}

// Err returns the terminal error after the chunk channel closes.
func (s *Serial) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Connect opens the port and starts the read loop.
func (s *Serial) Connect() error {
	mode := &serial.Mode{
		BaudRate: s.cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(s.cfg.PortPath, mode)
	if err != nil {
		return fmt.Errorf("open serial port %s: %w", s.cfg.PortPath, err)
	}
	s.port = port

	go s.readLoop()
	return nil
}

// Close stops the read loop and closes the port.
func (s *Serial) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	if s.port != nil {
		return s.port.Close()
	}
	return nil
}

func (s *Serial) readLoop() {
	defer close(s.chunks)
	buf := make([]byte, 128)

	for {
		n, err := s.port.Read(buf)
		if err != nil {
			s.mu.Lock()
			if !s.closed {
				s.err = err
			}
			s.mu.Unlock()
			return
		}
		if n == 0 {
			continue
		}
		chunk := make([]byte, n)
		copy(chunk, buf[:n])
		s.chunks <- chunk
	}
}
