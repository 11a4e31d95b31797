// SPDX-License-Identifier: Apache-2.0

package source

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/pkg/fardriver"
)

// Demo simulates a controller for development and testing: wire-valid
// frames cycling through the telemetry field groups at roughly the real
// controller's packet rate.
type Demo struct {
	interval time.Duration
	chunks   chan []byte

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewDemo creates a demo source. interval <= 0 uses the controller's
// observed 20ms packet spacing.
func NewDemo(interval time.Duration) *Demo {
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	return &Demo{
		interval: interval,
		chunks:   make(chan []byte, 64),
		done:     make(chan struct{}),
	}
}

// Name returns the transport name.
func (d *Demo) Name() string { return "Demo (Simulated)" }

// Chunks returns the simulated frame channel.
func (d *Demo) Chunks() <-chan []byte { return d.chunks }

// Err always returns nil; the demo never fails.
func (d *Demo) Err() error { return nil }

// Connect starts the frame generator.
func (d *Demo) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return nil
	}
	d.running = true
	go d.run()
	return nil
}

// Close stops the generator and closes the chunk channel.
func (d *Demo) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return nil
	}
	d.running = false
	close(d.done)
	return nil
}

func (d *Demo) run() {
	defer close(d.chunks)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	t := 0.0
	idents := []uint8{0, 1, 6, 4, 13}
	step := 0

	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
		}

		t += d.interval.Seconds()

		// Ride profile: rpm swells and fades, with occasional regen.
		rpm := uint16(3500 + 3000*math.Sin(t*0.4)*math.Sin(t*0.4) + rand.Float64()*50)
		throttle := uint16(float64(rpm) / 8000 * fardriver.ThrottleMax)
		current := int16(float64(rpm)/8000*480 - 40) // raw quarter-amps, dips negative at low rpm
		voltage := uint16(804 - rpm/200)             // sag under load, raw tenths
		ctrlTemp := int16(45 + int16(t/10)%20)
		motorTemp := byte(50 + int(t/15)%25)
		soc := byte(95 - int(t/30)%60)

		ident := idents[step%len(idents)]
		step++

		frame := fardriver.BuildFrame(ident, func(p []byte) {
			switch ident {
			case 0:
				p[2] = fardriver.GearMid << 2
				p[8] = byte(rpm >> 8)
				p[9] = byte(rpm)
			case 1:
				p[2] = byte(voltage >> 8)
				p[3] = byte(voltage)
			case 6:
				p[4] = byte(uint16(current) >> 8)
				p[5] = byte(uint16(current))
			case 4:
				p[10] = byte(uint16(ctrlTemp) >> 8)
				p[11] = byte(uint16(ctrlTemp))
			case 13:
				p[2] = motorTemp
				p[3] = soc
				p[4] = byte(throttle >> 8)
				p[5] = byte(throttle)
			}
		})

		select {
		case d.chunks <- frame[:]:
		case <-d.done:
			return
		}
	}
}
