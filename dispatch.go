package icefast

import (
	"math/bits"

	"github.com/codahale/icefast/internal/workpool"
)

type mode int

const (
	serial mode = iota
	parallel
)

const (
	// parallelBatch caps the batch width on the parallel path, where each goroutine brings its own working set.
	parallelBatch = 32

	// spanSize is the number of bytes a worker claims at a time. It is a multiple of every batch size.
	spanSize = 16 * 1024
)

// autoMode picks serial or parallel execution for an n-byte buffer.
func autoMode(n int) mode {
	if n < ParallelThreshold || workpool.Workers() < 2 {
		return serial
	}
	return parallel
}

// wideBatch returns the serial batch cap for a CPU with or without wide vector units.
func wideBatch(wide bool) int {
	if wide {
		return MaxBatch
	}
	return parallelBatch
}

// batchFor returns the widest power-of-two batch, up to the mode's cap, that fits in the given number of blocks.
func batchFor(blocks int, m mode) int {
	limit := serialBatch
	if m == parallel {
		limit = parallelBatch
	}
	widest := 1 << (bits.Len(uint(blocks)) - 1)
	return min(widest, limit)
}

// dispatch transforms buf in place. It processes the longest prefix of buf that divides evenly into batches of the
// widest usable size, then repeats on what remains with narrower batches until nothing is left. Each pass at least
// halves the remainder's block count, so the loop runs at most log2(MaxBatch)+1 times.
func (c *Cipher) dispatch(buf []byte, decrypt bool, m mode) {
	checkAligned(buf)

	for len(buf) > 0 {
		blocks := len(buf) / BlockSize
		batch := batchFor(blocks, m)
		n := blocks / batch * batch * BlockSize

		c.cryptBlocks(buf[:n], batch, decrypt, m)
		buf = buf[n:]
	}
}

// cryptBlocks transforms buf, whose length must be a multiple of batch*BlockSize, in batches of batch blocks.
func (c *Cipher) cryptBlocks(buf []byte, batch int, decrypt bool, m mode) {
	if m == parallel && len(buf) > batch*BlockSize {
		span := max(spanSize, batch*BlockSize)
		spans := (len(buf) + span - 1) / span
		_ = workpool.Split(0, spans, func(i int) error {
			lo := i * span
			c.cryptSerial(buf[lo:min(lo+span, len(buf))], batch, decrypt)
			return nil
		})
		return
	}

	c.cryptSerial(buf, batch, decrypt)
}

func (c *Cipher) cryptSerial(buf []byte, batch int, decrypt bool) {
	step := batch * BlockSize
	for off := 0; off < len(buf); off += step {
		c.cryptBatch(buf[off:off+step], batch, decrypt)
	}
}

func checkAligned(buf []byte) {
	if len(buf) == 0 || len(buf)%BlockSize != 0 {
		panic("icefast: input not a positive multiple of the block size")
	}
}

func checkBatch(buf []byte, batch int) {
	if batch < 1 || batch > MaxBatch || batch&(batch-1) != 0 {
		panic("icefast: batch size must be a power of two no greater than MaxBatch")
	}

	if len(buf) == 0 || len(buf)%(batch*BlockSize) != 0 {
		panic("icefast: input not a positive multiple of the batch size")
	}
}
