// Package testdata provides deterministic pseudorandom inputs for tests and fuzz corpora.
package testdata

import "crypto/sha3"

// DRBG is a deterministic byte generator seeded from a domain string.
type DRBG struct {
	shake *sha3.SHAKE
}

// New returns a DRBG seeded with domain.
func New(domain string) *DRBG {
	shake := sha3.NewSHAKE128()
	_, _ = shake.Write([]byte(domain))
	return &DRBG{shake: shake}
}

// Data returns the next n bytes.
func (d *DRBG) Data(n int) []byte {
	b := make([]byte, n)
	_, _ = d.shake.Read(b)
	return b
}
