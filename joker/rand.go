package joker

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	randv2 "math/rand/v2"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// RandSource supplies uniform integers in [0, n). Production code uses
// CryptoSource; tests inject a seeded source for reproducible deals.
type RandSource interface {
	Intn(n int) int
}

// CryptoSource draws from crypto/rand with rejection sampling so every value
// in [0, n) is equally likely.
type CryptoSource struct {
	r io.Reader
}

// NewCryptoSource returns a source backed by crypto/rand.Reader.
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{r: rand.Reader}
}

// newCryptoSourceFrom lets tests feed a fixed byte stream through the
// rejection sampler.
func newCryptoSourceFrom(r io.Reader) *CryptoSource {
	return &CryptoSource{r: r}
}

// Intn returns a uniform value in [0, n). Raw 32-bit values at or above the
// largest multiple of n that fits below 2^32 are rejected and redrawn.
func (s *CryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("joker: Intn called with non-positive n")
	}
	if n == 1 {
		return 0
	}
	const space = uint64(1) << 32
	limit := space - space%uint64(n)

	var buf [4]byte
	for {
		if _, err := io.ReadFull(s.r, buf[:]); err != nil {
			panic("joker: failed to read random bytes: " + err.Error())
		}
		v := uint64(binary.BigEndian.Uint32(buf[:]))
		if v < limit {
			return int(v % uint64(n))
		}
	}
}

// SeededSource is a deterministic RandSource for tests and reproducible
// simulations. It must never back a live game.
type SeededSource struct {
	rng *randv2.Rand
}

// NewSeededSource derives the two PCG seeds from seed.
func NewSeededSource(seed int64) *SeededSource {
	u := uint64(seed)
	return &SeededSource{rng: randv2.New(randv2.NewPCG(mix(u), mix(u+goldenRatio64)))}
}

// Intn returns a value in [0, n).
func (s *SeededSource) Intn(n int) int {
	return s.rng.IntN(n)
}

// Int64 returns a non-negative pseudo-random int64, used to derive child seeds.
func (s *SeededSource) Int64() int64 {
	return s.rng.Int64()
}

// RandomSeed draws a non-zero seed from crypto/rand, for reproducible runs
// whose seed must not be guessable from the clock.
func RandomSeed() int64 {
	var buf [8]byte
	for {
		if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
			panic("joker: failed to read random bytes: " + err.Error())
		}
		if seed := int64(binary.BigEndian.Uint64(buf[:]) >> 1); seed != 0 {
			return seed
		}
	}
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
