// SPDX-License-Identifier: Apache-2.0

package fardriver

import (
	"errors"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// ============================================================
// Decoder Fuzz Tests
// ============================================================

func TestFuzz_SealedFramesAlwaysValidate(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		var frame RawFrame
		for j := 0; j < PayloadSize; j++ {
			frame[j] = byte(rng.Intn(256))
		}
		frame = Seal(frame)
		if err := VerifyFrame(frame); err != nil {
			t.Fatalf("round %d: sealed frame failed validation: %v", i, err)
		}
	}
}

func TestFuzz_BitFlipAlwaysInvalidates(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		var frame RawFrame
		for j := 0; j < PayloadSize; j++ {
			frame[j] = byte(rng.Intn(256))
		}
		frame = Seal(frame)

		corrupted := frame
		corrupted[rng.Intn(PayloadSize)] ^= 1 << rng.Intn(8)
		err := VerifyFrame(corrupted)
		var crcErr *ChecksumError
		if !errors.As(err, &crcErr) {
			t.Fatalf("round %d: corrupted frame validated (err=%v)", i, err)
		}
	}
}

func TestFuzz_DecodeIsTotal(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		frame := BuildFrame(uint8(rng.Intn(64)), func(p []byte) {
			for j := 2; j < PayloadSize; j++ {
				p[j] = byte(rng.Intn(256))
			}
		})

		group, err := Resolve(frame)
		if err != nil {
			var identErr *UnknownIdentifierError
			if !errors.As(err, &identErr) {
				t.Fatalf("round %d: unexpected resolve error: %v", i, err)
			}
			continue
		}
		// Every in-table group must produce a sample for a well-formed frame.
		if _, err := Decode(frame, group); err != nil {
			t.Fatalf("round %d: decode of %s failed: %v", i, group, err)
		}
	}
}

func TestFuzz_RandomStreamNeverPanics(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()
	st := NewStream(NewCalculator(1.416, 20))

	for i := 0; i < rounds; i++ {
		chunk := make([]byte, rng.Intn(48))
		for j := range chunk {
			chunk[j] = byte(rng.Intn(256))
		}
		for _, r := range st.Feed(chunk) {
			// Random bytes are overwhelmingly invalid; what matters is
			// that every result is either an error or a decoded sample.
			if r.Err == nil && r.Sample == nil {
				t.Fatalf("round %d: result with neither sample nor error", i)
			}
		}
	}
}
