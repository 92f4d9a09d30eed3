package icefast

import "encoding/binary"

// cryptBatch runs every round over the n blocks of chunk, which must be exactly n*BlockSize bytes long.
func (c *Cipher) cryptBatch(chunk []byte, n int, decrypt bool) {
	var lb, rb [MaxBatch]uint32
	l, r := lb[:n], rb[:n]
	chunk = chunk[:n*BlockSize]

	for i := range n {
		b := chunk[i*BlockSize : (i+1)*BlockSize]
		l[i] = binary.BigEndian.Uint32(b[0:4])
		r[i] = binary.BigEndian.Uint32(b[4:8])
	}

	ks := c.sched
	if decrypt {
		for i := len(ks) - 2; i >= 0; i -= 2 {
			feistel(l, r, &ks[i+1], c.sbox)
			feistel(r, l, &ks[i], c.sbox)
		}
	} else {
		for i := 0; i < len(ks); i += 2 {
			feistel(l, r, &ks[i], c.sbox)
			feistel(r, l, &ks[i+1], c.sbox)
		}
	}

	// The halves are swapped on output.
	for i := range n {
		b := chunk[i*BlockSize : (i+1)*BlockSize]
		binary.BigEndian.PutUint32(b[0:4], r[i])
		binary.BigEndian.PutUint32(b[4:8], l[i])
	}
}
