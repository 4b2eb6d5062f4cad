package heuristic

import (
	"crypto/rand"
	"math/big"
	randv2 "math/rand/v2"
)

// Source is the randomness provider for gear sampling.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in [0, n) for any
// n > 0. Safe for concurrent use.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "heuristic: Intn called with n <= 0" if
// n <= 0. Panics with "heuristic: crypto/rand failure: <err>" if crypto/rand
// fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("heuristic: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("heuristic: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// seededSource implements Source with a fixed-seed PCG stream so a benchmark
// run can be reproduced exactly.
//
// Not safe for concurrent use; confine one instance to one benchmark run.
type seededSource struct {
	rng *randv2.Rand
}

// NewSeededSource returns a deterministic Source seeded from seed.
//
// Postcondition: Two sources built from the same seed produce the same value
// sequence for the same Intn calls.
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: randv2.New(randv2.NewPCG(seed, seed))}
}

// Intn returns a deterministic pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "heuristic: Intn called with n <= 0" if
// n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("heuristic: Intn called with n <= 0")
	}
	return s.rng.IntN(n)
}
