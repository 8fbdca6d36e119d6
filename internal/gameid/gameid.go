package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/coder/quartz"
	"github.com/google/uuid"
)

// Crockford's base32, lower case
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded game ID
const Length = 26

// RandSource supplies uniform integers in [0, n).
type RandSource interface {
	Intn(n int) int
}

// Generator creates time-ordered game IDs: a UUIDv7 encoded as 26 base32
// characters. With a mock clock and a seeded source the IDs are
// reproducible, so a replayed simulation names its games the same way.
type Generator struct {
	clock quartz.Clock
	src   RandSource
}

// NewGenerator creates a generator. A nil clock uses the real clock and a
// nil source uses crypto/rand.
func NewGenerator(clock quartz.Clock, src RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, src: src}
}

// Generate creates a game ID from the real clock and crypto/rand.
func Generate() string {
	return NewGenerator(nil, nil).Generate()
}

// Generate creates the next game ID.
func (g *Generator) Generate() string {
	return Encode(g.uuid())
}

func (g *Generator) uuid() uuid.UUID {
	var id uuid.UUID

	now := g.clock.Now("gameid").UnixMilli()
	id[0] = byte(now >> 40)
	id[1] = byte(now >> 32)
	id[2] = byte(now >> 24)
	id[3] = byte(now >> 16)
	id[4] = byte(now >> 8)
	id[5] = byte(now)

	if g.src != nil {
		for i := 6; i < len(id); i++ {
			id[i] = byte(g.src.Intn(256))
		}
	} else if _, err := rand.Read(id[6:]); err != nil {
		panic("gameid: failed to generate random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant
	return id
}

// Encode writes the 128 bits of id as 26 base32 characters, two zero bits
// leading.
func Encode(id uuid.UUID) string {
	out := make([]byte, Length)
	var acc uint32
	bits := 2 // pad to 130 bits
	pos := 0
	for _, b := range id {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[pos] = alphabet[(acc>>bits)&0x1f]
			pos++
		}
	}
	return string(out)
}

// Decode reverses Encode.
func Decode(s string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := Validate(s); err != nil {
		return id, err
	}
	var acc uint32
	bits := -2 // drop the two pad bits
	pos := 0
	for i := range len(s) {
		acc = acc<<5 | uint32(strings.IndexByte(alphabet, s[i]))
		bits += 5
		if bits >= 8 {
			bits -= 8
			id[pos] = byte(acc >> bits)
			pos++
		}
	}
	return id, nil
}

// Validate checks that id is 26 lower-case base32 characters holding at most
// 128 bits.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i := range len(id) {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
