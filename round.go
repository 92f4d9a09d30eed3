package icefast

import (
	"math/bits"

	"github.com/codahale/icefast/internal/keysched"
	"github.com/codahale/icefast/internal/sbox"
)

// f is the ICE round function for a single half-block.
func f(p uint32, sk *keysched.Subkey, s *sbox.Tables) uint32 {
	// Expand the 32-bit half into two overlapping 20-bit halves.
	tr := (p & 0x3ff) | ((p << 2) & 0xffc00)
	tl := ((p >> 16) & 0x3ff) | (bits.RotateLeft32(p, 18) & 0xffc00)

	// The salt swaps the bits of tl and tr wherever it is set.
	salt := sk[2] & (tl ^ tr)
	al := salt ^ tl ^ sk[0]
	ar := salt ^ tr ^ sk[1]

	return s[0][(al>>10)&0x3ff] | s[1][al&0x3ff] | s[2][(ar>>10)&0x3ff] | s[3][ar&0x3ff]
}

// feistel XORs f(src[i]) into dst[i] for every lane. Lanes never interact, so any batch width gives the same result as
// processing one lane at a time.
func feistel(dst, src []uint32, sk *keysched.Subkey, s *sbox.Tables) {
	dst = dst[:len(src)]
	for i, p := range src {
		dst[i] ^= f(p, sk, s)
	}
}
