// SPDX-License-Identifier: Apache-2.0

package fardriver

import (
	"strings"
	"testing"
)

func TestStatistics_Classification(t *testing.T) {
	stats := NewStatistics()

	stats.Update(Result{Err: &ChecksumError{Want: 1, Got: 2}}, nil)
	stats.Update(Result{Err: &WrongLengthError{Length: 15}}, nil)
	stats.Update(Result{Err: &UnknownIdentifierError{Identifier: 63}}, nil)
	stats.Update(Result{Err: &FieldRangeError{Field: "x", Offset: 15, Width: 2}}, nil)
	stats.Update(Result{Sample: &Sample{}}, nil)
	stats.Update(Result{Sample: &Sample{}}, []ValidationError{{Type: AnomalyHighRPM, Message: "high"}})

	if stats.TotalFrames != 6 {
		t.Errorf("expected 6 total frames, got %d", stats.TotalFrames)
	}
	if stats.CRCErrors != 1 || stats.LengthErrors != 1 || stats.UnknownIdents != 1 || stats.DecodeErrors != 1 {
		t.Errorf("error counters misclassified: %+v", stats)
	}
	if stats.ValidFrames != 1 {
		t.Errorf("expected 1 valid frame, got %d", stats.ValidFrames)
	}
	if stats.AnomalousValues != 1 {
		t.Errorf("expected 1 anomalous value, got %d", stats.AnomalousValues)
	}
}

func TestStatistics_StringAndReset(t *testing.T) {
	stats := NewStatistics()
	stats.Update(Result{Sample: &Sample{}}, nil)

	out := stats.String()
	if !strings.Contains(out, "Total Frames") || !strings.Contains(out, "Valid Frames") {
		t.Errorf("summary missing counters:\n%s", out)
	}

	stats.Reset()
	if stats.TotalFrames != 0 || stats.ValidFrames != 0 {
		t.Errorf("reset should zero counters")
	}
}
