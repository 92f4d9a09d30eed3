// Package gf implements the GF(2^8) arithmetic used to derive the ICE S-boxes. Each S-box row uses its own reduction
// modulus, so the modulus is a parameter rather than a constant.
package gf

// Mult returns a*b in GF(2^8) reduced modulo m.
func Mult(a, b, m uint32) uint32 {
	var res uint32
	for b != 0 {
		if b&1 != 0 {
			res ^= a
		}
		a <<= 1
		b >>= 1
		if a >= 256 {
			a ^= m
		}
	}
	return res
}

// Exp7 returns b^7 in GF(2^8) reduced modulo m.
func Exp7(b, m uint32) uint32 {
	if b == 0 {
		return 0
	}

	x := Mult(b, b, m) // b^2
	x = Mult(b, x, m)  // b^3
	x = Mult(x, x, m)  // b^6
	return Mult(b, x, m)
}
