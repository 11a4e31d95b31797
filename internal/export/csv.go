// SPDX-License-Identifier: Apache-2.0

// Package export writes decoded telemetry snapshots to CSV ride logs.
package export

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/pkg/fardriver"
)

// CSVLogger records timestamped dashboard snapshots to CSV files with
// automatic rotation.
type CSVLogger struct {
	mu       sync.Mutex
	dir      string
	interval time.Duration
	enabled  bool

	file   *os.File
	writer *csv.Writer
	lastTs time.Time
	rows   int
}

// Config holds CSV logger configuration.
type Config struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	Path       string `yaml:"path" json:"path"`
	IntervalMs int    `yaml:"interval_ms" json:"intervalMs"`
}

const (
	maxRowsPerFile = 100_000 // Rotate after 100k rows (~33 min at the 50 Hz frame rate)
)

var csvHeader = []string{
	"timestamp", "gear", "rpm", "speed_kmh",
	"voltage_v", "current_a", "power_w", "regen",
	"controller_temp_c", "motor_temp_c", "soc_pct", "throttle_raw",
}

// NewCSVLogger creates a CSV logger.
func NewCSVLogger(cfg Config) *CSVLogger {
	if cfg.Path == "" {
		cfg.Path = "rides"
	}
	interval := time.Duration(cfg.IntervalMs) * time.Millisecond
	if interval < 20*time.Millisecond {
		interval = 100 * time.Millisecond // Default 10 Hz
	}
	return &CSVLogger{
		dir:      cfg.Path,
		interval: interval,
		enabled:  cfg.Enabled,
	}
}

// SetEnabled allows toggling logging at runtime.
func (l *CSVLogger) SetEnabled(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = on
	if !on && l.file != nil {
		l.closeFile()
	}
}

// IsEnabled returns whether logging is active.
func (l *CSVLogger) IsEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// Record writes a dashboard snapshot if the minimum interval has
// elapsed since the last row.
func (l *CSVLogger) Record(s *fardriver.Sample) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || s == nil {
		return
	}

	now := time.Now()
	if now.Sub(l.lastTs) < l.interval {
		return
	}
	l.lastTs = now

	if l.writer == nil || l.rows >= maxRowsPerFile {
		if err := l.rotateFile(now); err != nil {
			log.Printf("[export] rotate failed: %v", err)
			return
		}
	}

	if err := l.writer.Write(buildRow(now, s)); err != nil {
		log.Printf("[export] write failed: %v", err)
		return
	}
	l.writer.Flush()
	l.rows++
}

// Close flushes and closes the current log file.
func (l *CSVLogger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeFile()
}

func (l *CSVLogger) rotateFile(now time.Time) error {
	l.closeFile()

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", l.dir, err)
	}

	filename := fmt.Sprintf("fardriver_%s.csv", now.Format("2006-01-02_150405"))
	path := filepath.Join(l.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	l.file = f
	l.writer = csv.NewWriter(f)
	l.rows = 0

	if err := l.writer.Write(csvHeader); err != nil {
		return err
	}
	l.writer.Flush()

	log.Printf("[export] opened %s", path)
	return nil
}

func (l *CSVLogger) closeFile() {
	if l.writer != nil {
		l.writer.Flush()
		l.writer = nil
	}
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

// buildRow formats one snapshot. Fields the controller has not reported
// yet stay empty rather than printing as zero.
func buildRow(ts time.Time, s *fardriver.Sample) []string {
	row := make([]string, len(csvHeader))
	row[0] = ts.Format(time.RFC3339Nano)

	if s.Gear != nil {
		row[1] = fardriver.FormatGearName(*s.Gear)
	}
	if s.RPM != nil {
		row[2] = fmt.Sprintf("%d", *s.RPM)
	}
	if s.SpeedKmh != nil {
		row[3] = fmt.Sprintf("%.1f", *s.SpeedKmh)
	}
	if s.VoltageV != nil {
		row[4] = fmt.Sprintf("%.1f", *s.VoltageV)
	}
	if s.CurrentA != nil {
		row[5] = fmt.Sprintf("%.2f", *s.CurrentA)
	}
	if s.PowerW != nil {
		row[6] = fmt.Sprintf("%.1f", *s.PowerW)
	}
	if s.Regenerating != nil {
		row[7] = boolStr(*s.Regenerating)
	}
	if s.ControllerTempC != nil {
		row[8] = fmt.Sprintf("%d", *s.ControllerTempC)
	}
	if s.MotorTempC != nil {
		row[9] = fmt.Sprintf("%d", *s.MotorTempC)
	}
	if s.SOCPercent != nil {
		row[10] = fmt.Sprintf("%d", *s.SOCPercent)
	}
	if s.ThrottleRaw != nil {
		row[11] = fmt.Sprintf("%d", *s.ThrottleRaw)
	}

	return row
}

func boolStr(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
