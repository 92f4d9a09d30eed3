// Package icefast implements the [ICE] (Information Concealment Engine) block cipher, including Thin-ICE (level 0) and
// the multi-level variants, with a batched transform engine for encrypting large buffers in place.
//
// ICE is a 64-bit Feistel cipher designed in 1997. It is NOT secure by modern standards: its block size is small and
// its key sizes are easily searched with current hardware. It is provided for compatibility with existing data and
// protocols.
//
// Buffers are processed in batches of up to MaxBatch blocks, each block a lane of the round function. For any buffer
// the dispatcher picks the widest power-of-two batch that fits, processes as many whole batches as possible, then
// repeats on the remainder. Buffers of at least ParallelThreshold bytes are spread across GOMAXPROCS goroutines. The
// output never depends on the batch size or the number of goroutines used.
//
// [ICE]: https://www.darkside.com.au/ice/
package icefast

import (
	"fmt"

	"github.com/codahale/icefast/internal/keysched"
	"github.com/codahale/icefast/internal/mem"
	"github.com/codahale/icefast/internal/sbox"
)

const (
	// BlockSize is the ICE block size in bytes.
	BlockSize = 8

	// MaxBatch is the largest number of blocks processed together as one batch.
	MaxBatch = 64

	// ParallelThreshold is the buffer size in bytes at which Encrypt and Decrypt start using multiple goroutines.
	ParallelThreshold = 32 * 1024
)

// A Cipher is an ICE key schedule. Cipher instances are immutable and safe for concurrent use.
type Cipher struct {
	level int
	sched keysched.Schedule
	sbox  *sbox.Tables
}

// NewCipher returns an ICE cipher of the given level using the first KeySize(level) bytes of key.
//
// Level 0 (or less) is Thin-ICE, with an 8-byte key and 8 rounds. Level n ≥ 1 uses an n*8-byte key and n*16 rounds. If
// key is shorter than the level requires, NewCipher returns an error wrapping ErrInvalidKey.
func NewCipher(level int, key []byte) (*Cipher, error) {
	level = max(level, 0)
	if n := KeySize(level); len(key) < n {
		return nil, fmt.Errorf("%w: level %d requires %d bytes, got %d", ErrInvalidKey, level, n, len(key))
	}

	return &Cipher{
		level: level,
		sched: keysched.New(level, key),
		sbox:  sbox.Get(),
	}, nil
}

// KeySize returns the number of key bytes the given level requires.
func KeySize(level int) int {
	return keysched.KeySize(level)
}

// Level returns the cipher's level; 0 means Thin-ICE.
func (c *Cipher) Level() int {
	return c.level
}

// Rounds returns the number of Feistel rounds the cipher performs per block.
func (c *Cipher) Rounds() int {
	return len(c.sched)
}

// Encrypt encrypts buf in place. The length of buf must be a positive multiple of BlockSize.
//
// Buffers of at least ParallelThreshold bytes are encrypted using multiple goroutines if GOMAXPROCS allows.
func (c *Cipher) Encrypt(buf []byte) {
	c.dispatch(buf, false, autoMode(len(buf)))
}

// Decrypt decrypts buf in place. The length of buf must be a positive multiple of BlockSize.
//
// Buffers of at least ParallelThreshold bytes are decrypted using multiple goroutines if GOMAXPROCS allows.
func (c *Cipher) Decrypt(buf []byte) {
	c.dispatch(buf, true, autoMode(len(buf)))
}

// EncryptSerial encrypts buf in place on the calling goroutine.
func (c *Cipher) EncryptSerial(buf []byte) {
	c.dispatch(buf, false, serial)
}

// DecryptSerial decrypts buf in place on the calling goroutine.
func (c *Cipher) DecryptSerial(buf []byte) {
	c.dispatch(buf, true, serial)
}

// EncryptParallel encrypts buf in place, spreading batches over GOMAXPROCS goroutines regardless of its size.
func (c *Cipher) EncryptParallel(buf []byte) {
	c.dispatch(buf, false, parallel)
}

// DecryptParallel decrypts buf in place, spreading batches over GOMAXPROCS goroutines regardless of its size.
func (c *Cipher) DecryptParallel(buf []byte) {
	c.dispatch(buf, true, parallel)
}

// EncryptBlocks encrypts buf in place in batches of exactly batch blocks, on the calling goroutine. It performs no
// remainder handling: batch must be a power of two no greater than MaxBatch, and the length of buf must be a positive
// multiple of batch*BlockSize.
func (c *Cipher) EncryptBlocks(buf []byte, batch int) {
	checkBatch(buf, batch)
	c.cryptBlocks(buf, batch, false, serial)
}

// DecryptBlocks is the inverse of EncryptBlocks, with the same requirements.
func (c *Cipher) DecryptBlocks(buf []byte, batch int) {
	checkBatch(buf, batch)
	c.cryptBlocks(buf, batch, true, serial)
}

// EncryptBlocksParallel is EncryptBlocks with batches spread over GOMAXPROCS goroutines.
func (c *Cipher) EncryptBlocksParallel(buf []byte, batch int) {
	checkBatch(buf, batch)
	c.cryptBlocks(buf, batch, false, parallel)
}

// DecryptBlocksParallel is DecryptBlocks with batches spread over GOMAXPROCS goroutines.
func (c *Cipher) DecryptBlocksParallel(buf []byte, batch int) {
	checkBatch(buf, batch)
	c.cryptBlocks(buf, batch, true, parallel)
}

// AppendEncrypt encrypts src, appends the ciphertext to dst, and returns the resulting slice. The length of src must be a
// positive multiple of BlockSize.
//
// To reuse src's storage for the encrypted output, use src[:0] as dst. Otherwise, the remaining capacity of dst must not
// overlap src.
func (c *Cipher) AppendEncrypt(dst, src []byte) []byte {
	checkAligned(src)
	ret, out := mem.SliceForAppend(dst, len(src))
	copy(out, src)
	c.Encrypt(out)
	return ret
}

// AppendDecrypt decrypts src, appends the plaintext to dst, and returns the resulting slice. The length of src must be a
// positive multiple of BlockSize.
//
// To reuse src's storage for the decrypted output, use src[:0] as dst. Otherwise, the remaining capacity of dst must not
// overlap src.
func (c *Cipher) AppendDecrypt(dst, src []byte) []byte {
	checkAligned(src)
	ret, out := mem.SliceForAppend(dst, len(src))
	copy(out, src)
	c.Decrypt(out)
	return ret
}
