// SPDX-License-Identifier: Apache-2.0

package source

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/pkg/fardriver"
)

// Device names the controller advertises. Any advertisement containing
// one of these substrings is treated as a match.
var defaultDeviceNames = []string{"FarDriver", "YuanQuFOC982"}

// BLEConfig holds connection configuration for the BLE source.
type BLEConfig struct {
	// DeviceName restricts scanning to advertisements containing this
	// substring. Empty means any of the known controller names.
	DeviceName string
	// ScanTimeout bounds the scan phase. Zero means scan indefinitely.
	ScanTimeout time.Duration
}

// BLE is the primary transport: scans for a FarDriver controller,
// connects and subscribes to telemetry notifications on the 0xFFE0
// service / 0xFFEC characteristic.
type BLE struct {
	cfg     BLEConfig
	adapter *bluetooth.Adapter
	device  bluetooth.Device
	chunks  chan []byte

	mu        sync.Mutex
	connected bool
	err       error
}

// NewBLE creates a BLE source.
func NewBLE(cfg BLEConfig) *BLE {
	return &BLE{
		cfg:     cfg,
		adapter: bluetooth.DefaultAdapter,
		chunks:  make(chan []byte, 64),
	}
}

// Name returns the transport name.
func (b *BLE) Name() string {
	if b.cfg.DeviceName != "" {
		return fmt.Sprintf("BLE: %s", b.cfg.DeviceName)
	}
	return "BLE: FarDriver"
}

// Chunks returns the notification payload channel.
func (b *BLE) Chunks() <-chan []byte {
	return b.chunks
}

// Err returns the terminal error after the chunk channel closes.
func (b *BLE) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Connect scans for the controller, connects and enables notifications.
func (b *BLE) Connect() error {
	if err := b.adapter.Enable(); err != nil {
		return fmt.Errorf("enable BLE adapter: %w", err)
	}

	result, err := b.scan()
	if err != nil {
		return err
	}
	log.Printf("[ble] found %s (%s)", result.LocalName(), result.Address.String())

	device, err := b.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("connect to %s: %w", result.Address.String(), err)
	}
	b.device = device

	char, err := b.telemetryCharacteristic(device)
	if err != nil {
		device.Disconnect()
		return err
	}

	if err := char.EnableNotifications(b.onNotify); err != nil {
		device.Disconnect()
		return fmt.Errorf("enable notifications: %w", err)
	}

	b.mu.Lock()
	b.connected = true
	b.mu.Unlock()
	log.Printf("[ble] subscribed to telemetry notifications")
	return nil
}

// Close disconnects and closes the chunk channel.
func (b *BLE) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return nil
	}
	b.connected = false
	err := b.device.Disconnect()
	close(b.chunks)
	return err
}

func (b *BLE) onNotify(buf []byte) {
	// Notification buffers are reused by the stack; copy before handing off.
	chunk := make([]byte, len(buf))
	copy(chunk, buf)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return
	}
	select {
	case b.chunks <- chunk:
	default:
		// Consumer stalled; dropping telemetry beats blocking the BLE
		// event loop.
	}
}

func (b *BLE) scan() (bluetooth.ScanResult, error) {
	var (
		found  bluetooth.ScanResult
		okOnce sync.Once
		ok     bool
	)

	deadline := time.Time{}
	if b.cfg.ScanTimeout > 0 {
		deadline = time.Now().Add(b.cfg.ScanTimeout)
	}

	err := b.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		if !deadline.IsZero() && time.Now().After(deadline) {
			adapter.StopScan()
			return
		}
		if !b.nameMatches(result.LocalName()) {
			return
		}
		okOnce.Do(func() {
			found = result
			ok = true
			adapter.StopScan()
		})
	})
	if err != nil {
		return found, fmt.Errorf("BLE scan: %w", err)
	}
	if !ok {
		return found, fmt.Errorf("no controller found (service 0x%04X)", fardriver.ServiceUUID16)
	}
	return found, nil
}

func (b *BLE) nameMatches(name string) bool {
	if name == "" {
		return false
	}
	if b.cfg.DeviceName != "" {
		return strings.Contains(name, b.cfg.DeviceName)
	}
	for _, candidate := range defaultDeviceNames {
		if strings.Contains(name, candidate) {
			return true
		}
	}
	return false
}

func (b *BLE) telemetryCharacteristic(device bluetooth.Device) (bluetooth.DeviceCharacteristic, error) {
	var char bluetooth.DeviceCharacteristic

	services, err := device.DiscoverServices([]bluetooth.UUID{bluetooth.New16BitUUID(fardriver.ServiceUUID16)})
	if err != nil {
		return char, fmt.Errorf("discover service 0x%04X: %w", fardriver.ServiceUUID16, err)
	}
	if len(services) == 0 {
		return char, fmt.Errorf("service 0x%04X not present", fardriver.ServiceUUID16)
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{bluetooth.New16BitUUID(fardriver.CharacteristicUUID16)})
	if err != nil {
		return char, fmt.Errorf("discover characteristic 0x%04X: %w", fardriver.CharacteristicUUID16, err)
	}
	if len(chars) == 0 {
		return char, fmt.Errorf("characteristic 0x%04X not present", fardriver.CharacteristicUUID16)
	}
	return chars[0], nil
}
