// SPDX-License-Identifier: Apache-2.0

package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/C-broderick-225/ESP32-Fardriver-BLE-Reader/pkg/fardriver"
)

func TestCSVLogger_WritesHeaderAndRow(t *testing.T) {
	dir := t.TempDir()
	l := NewCSVLogger(Config{Enabled: true, Path: dir, IntervalMs: 20})
	defer l.Close()

	rpm := uint16(3000)
	gear := uint8(fardriver.GearMid)
	voltage := 80.4
	current := -0.5
	power := voltage * current
	regen := true
	s := &fardriver.Sample{
		Gear:         &gear,
		RPM:          &rpm,
		VoltageV:     &voltage,
		CurrentA:     &current,
		PowerW:       &power,
		Regenerating: &regen,
	}

	l.Record(s)
	l.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 log file, got %d", len(entries))
	}

	f, err := os.Open(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "timestamp" {
		t.Errorf("expected header row, got %v", rows[0])
	}

	row := rows[1]
	if row[1] != "Mid" {
		t.Errorf("expected gear Mid, got %q", row[1])
	}
	if row[2] != "3000" {
		t.Errorf("expected rpm 3000, got %q", row[2])
	}
	if row[4] != "80.4" {
		t.Errorf("expected voltage 80.4, got %q", row[4])
	}
	if row[5] != "-0.50" {
		t.Errorf("expected current -0.50, got %q", row[5])
	}
	if row[7] != "1" {
		t.Errorf("expected regen flag 1, got %q", row[7])
	}
	// Fields with no decoded value stay empty.
	if row[10] != "" {
		t.Errorf("expected empty SOC column, got %q", row[10])
	}
}

func TestCSVLogger_IntervalThrottling(t *testing.T) {
	dir := t.TempDir()
	l := NewCSVLogger(Config{Enabled: true, Path: dir, IntervalMs: 60000})
	defer l.Close()

	rpm := uint16(1000)
	s := &fardriver.Sample{RPM: &rpm}
	l.Record(s)
	l.Record(s)
	l.Record(s)
	l.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 log file, got %d", len(entries))
	}
	f, err := os.Open(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected only header + 1 row within interval, got %d", len(rows))
	}
}

func TestCSVLogger_Disabled(t *testing.T) {
	dir := t.TempDir()
	l := NewCSVLogger(Config{Enabled: false, Path: dir})
	defer l.Close()

	rpm := uint16(1000)
	l.Record(&fardriver.Sample{RPM: &rpm})

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files while disabled, got %d", len(entries))
	}
}
