// Package sessionid generates time-sortable identifiers for table sessions.
// IDs are UUIDv7 values written as 26 characters of Crockford base32, so
// sessions started later sort later.
package sessionid

import (
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/coder/quartz"
)

// Length is the number of characters in an ID
const Length = 26

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generator produces IDs from a clock and an optional seeded source
type Generator struct {
	clock quartz.Clock
	rng   *rand.Rand
}

// NewGenerator creates a generator. A nil clock uses wall time; a nil rng
// uses crypto/rand. Seeded simulations pass their rng so reports are
// reproducible under a mock clock.
func NewGenerator(clock quartz.Clock, rng *rand.Rand) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, rng: rng}
}

// New returns an ID from wall time and crypto/rand
func New() string {
	return NewGenerator(nil, nil).Next()
}

// Next returns a new ID
func (g *Generator) Next() string {
	return encode(g.uuid())
}

func (g *Generator) uuid() [16]byte {
	var id [16]byte

	ms := uint64(g.clock.Now().UnixMilli())
	for i := range 6 {
		id[i] = byte(ms >> (40 - 8*i))
	}

	if g.rng != nil {
		for i := 6; i < 16; i++ {
			id[i] = byte(g.rng.UintN(256))
		}
	} else if _, err := crand.Read(id[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant
	return id
}

// encode writes the 128 bits as 26 five-bit groups, most significant
// first, with two zero bits of padding at the front
func encode(id [16]byte) string {
	var hi, lo uint64
	for i := range 8 {
		hi = hi<<8 | uint64(id[i])
		lo = lo<<8 | uint64(id[i+8])
	}

	out := make([]byte, Length)
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out)
}

// Validate checks that id is a well-formed session ID
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("session ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("session ID first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
