// SPDX-License-Identifier: Apache-2.0

package fardriver

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks frame counters and error rates for one stream.
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalFrames     uint64
	ValidFrames     uint64
	CRCErrors       uint64
	LengthErrors    uint64
	UnknownIdents   uint64
	DecodeErrors    uint64
	AnomalousValues uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update counts one decode result and its plausibility findings.
func (s *Statistics) Update(r Result, validationErrors []ValidationError) {
	s.TotalFrames++
	s.LastUpdateTime = time.Now()

	if r.Err != nil {
		var crcErr *ChecksumError
		var lenErr *WrongLengthError
		var identErr *UnknownIdentifierError
		switch {
		case errors.As(r.Err, &crcErr):
			s.CRCErrors++
		case errors.As(r.Err, &lenErr):
			s.LengthErrors++
		case errors.As(r.Err, &identErr):
			s.UnknownIdents++
		default:
			s.DecodeErrors++
		}
		return
	}

	if len(validationErrors) > 0 {
		s.AnomalousValues += uint64(len(validationErrors))
		return
	}

	s.ValidFrames++
}

// CalculateRates recomputes the frame and error rates.
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
		errorCount := s.CRCErrors + s.LengthErrors + s.DecodeErrors + s.AnomalousValues
		s.ErrorRate = float64(errorCount) / elapsed
	}
}

// String returns a formatted statistics summary.
func (s *Statistics) String() string {
	s.CalculateRates()

	var validPercent float64
	if s.TotalFrames > 0 {
		validPercent = float64(s.ValidFrames) * 100.0 / float64(s.TotalFrames)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Frames:    %8d\n", s.TotalFrames)
	result += fmt.Sprintf("Valid Frames:    %8d (%.1f%%)\n", s.ValidFrames, validPercent)

	if s.CRCErrors > 0 {
		result += fmt.Sprintf("CRC Errors:      %8d\n", s.CRCErrors)
	}
	if s.LengthErrors > 0 {
		result += fmt.Sprintf("Length Errors:   %8d\n", s.LengthErrors)
	}
	if s.UnknownIdents > 0 {
		result += fmt.Sprintf("Unknown Idents:  %8d\n", s.UnknownIdents)
	}
	if s.DecodeErrors > 0 {
		result += fmt.Sprintf("Decode Errors:   %8d\n", s.DecodeErrors)
	}
	if s.AnomalousValues > 0 {
		result += fmt.Sprintf("Anomalous Values:%8d\n", s.AnomalousValues)
	}

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset zeroes all counters and restarts the rate window.
func (s *Statistics) Reset() {
	*s = Statistics{}
	now := time.Now()
	s.StartTime = now
	s.LastUpdateTime = now
}
