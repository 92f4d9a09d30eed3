// Package sbox builds the four ICE S-boxes. Each table maps a 10-bit index to a 32-bit word which already has the ICE
// P-box permutation applied, so a round function only needs four lookups and three ORs.
//
// The tables depend only on fixed constants, never on the key, so they are built once per process and shared by every
// cipher.
package sbox

import (
	"sync"

	"github.com/codahale/icefast/internal/gf"
)

// Size is the number of entries in each S-box.
const Size = 1024

// Tables holds the four S-boxes, indexed [box][10-bit input].
type Tables [4][Size]uint32

//nolint:gochecknoglobals // computed once
var (
	// smod is the reduction modulus for each S-box row.
	smod = [4][4]uint32{
		{333, 313, 505, 369},
		{379, 375, 319, 391},
		{361, 445, 451, 397},
		{397, 425, 395, 505},
	}

	// sxor is the value XORed into each S-box column before exponentiation.
	sxor = [4][4]uint32{
		{0x83, 0x85, 0x9b, 0xcd},
		{0xcc, 0xa7, 0xad, 0x41},
		{0x4b, 0x2e, 0xd4, 0x33},
		{0xea, 0xcb, 0x2e, 0x04},
	}

	// pbox is the expanded P-box: bit i of the input sets pbox[i] in the output.
	pbox = [32]uint32{
		0x00000001, 0x00000080, 0x00000400, 0x00002000,
		0x00080000, 0x00200000, 0x01000000, 0x40000000,
		0x00000008, 0x00000020, 0x00000100, 0x00004000,
		0x00010000, 0x00800000, 0x04000000, 0x20000000,
		0x00000004, 0x00000010, 0x00000200, 0x00008000,
		0x00020000, 0x00400000, 0x08000000, 0x10000000,
		0x00000002, 0x00000040, 0x00000800, 0x00001000,
		0x00040000, 0x00100000, 0x02000000, 0x80000000,
	}

	tables = sync.OnceValue(build)
)

// Get returns the process-wide S-boxes, building them on first use. The result must not be modified.
func Get() *Tables {
	return tables()
}

// Permute32 applies the ICE P-box to x.
func Permute32(x uint32) uint32 {
	var res uint32
	for _, p := range pbox {
		if x&1 != 0 {
			res |= p
		}
		x >>= 1
	}
	return res
}

func build() *Tables {
	t := new(Tables)
	for i := range uint32(Size) {
		// The outer two bits of the 10-bit input select the row, the inner eight the column.
		col := (i >> 1) & 0xff
		row := (i & 0x1) | ((i & 0x200) >> 8)

		for box := range 4 {
			x := gf.Exp7(col^sxor[box][row], smod[box][row])
			t[box][i] = Permute32(x << (24 - 8*box))
		}
	}
	return t
}
