// Package keysched expands an ICE key into its per-round subkeys.
package keysched

// Subkey is the three words consumed by one round: two XOR masks and a salt selecting which expansion bits swap.
type Subkey [3]uint32

// Schedule is the ordered list of subkeys, one per round.
type Schedule []Subkey

// keyrot is the register rotation order; the first half builds the forward rounds, the second half the mirror rounds.
//
//nolint:gochecknoglobals // constant table
var keyrot = [16]int{0, 1, 2, 3, 2, 1, 3, 0, 1, 3, 2, 0, 3, 1, 0, 2}

// Size returns the number of 8-byte key slices for the given level. Levels below 1 (Thin-ICE) use a single slice.
func Size(level int) int {
	return max(level, 1)
}

// Rounds returns the number of rounds for the given level.
func Rounds(level int) int {
	if level < 1 {
		return 8
	}
	return level * 16
}

// KeySize returns the number of key bytes the given level consumes.
func KeySize(level int) int {
	return Size(level) * 8
}

// New builds the key schedule for level from key. The key must be at least KeySize(level) bytes; extra bytes are
// ignored.
func New(level int, key []byte) Schedule {
	size, rounds := Size(level), Rounds(level)
	if len(key) < size*8 {
		panic("keysched: key too short for level")
	}

	s := make(Schedule, rounds)
	for i := range size {
		var kb [4]uint16
		for j := range 4 {
			kb[3-j] = uint16(key[i*8+j*2])<<8 | uint16(key[i*8+j*2+1])
		}

		s.build(&kb, i*8, keyrot[:8])
		if rounds == 8 {
			// Thin-ICE has no mirror half.
			continue
		}
		s.build(&kb, rounds-8-i*8, keyrot[8:])
	}
	return s
}

// build fills eight rounds starting at n. Each round's subkey is clocked out of the four 16-bit registers one bit at a
// time, round-robin over the subkey words; every bit pulled from a register is fed back complemented at the top.
func (s Schedule) build(kb *[4]uint16, n int, rot []int) {
	for i, kr := range rot {
		sk := &s[n+i]
		*sk = Subkey{}

		for j := range 15 {
			w := &sk[j%3]
			for k := range 4 {
				r := &kb[(kr+k)&3]
				bit := *r & 1
				*w = *w<<1 | uint32(bit)
				*r = *r>>1 | (bit^1)<<15
			}
		}
	}
}
