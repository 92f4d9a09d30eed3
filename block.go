package icefast

import "crypto/cipher"

// Block returns a cipher.Block which encrypts and decrypts single blocks with c, for use with the block modes in
// crypto/cipher.
func (c *Cipher) Block() cipher.Block {
	return block{c}
}

type block struct {
	c *Cipher
}

func (b block) BlockSize() int {
	return BlockSize
}

func (b block) Encrypt(dst, src []byte) {
	b.crypt(dst, src, false)
}

func (b block) Decrypt(dst, src []byte) {
	b.crypt(dst, src, true)
}

func (b block) crypt(dst, src []byte, decrypt bool) {
	if len(src) < BlockSize {
		panic("icefast: input not full block")
	}

	if len(dst) < BlockSize {
		panic("icefast: output not full block")
	}

	var tmp [BlockSize]byte
	copy(tmp[:], src)
	b.c.cryptBatch(tmp[:], 1, decrypt)
	copy(dst, tmp[:])
}
