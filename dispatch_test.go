package icefast //nolint:testpackage // testing unexported internals

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
)

var testKey = []byte{0x51, 0xF3, 0x0F, 0x11, 0x04, 0x24, 0x6A, 0x00}

func testBuffer(blocks int) []byte {
	buf := make([]byte, blocks*BlockSize)
	for i := range buf {
		buf[i] = byte(i*31 + i>>8)
	}
	return buf
}

// reference encrypts or decrypts buf one block at a time.
func reference(c *Cipher, buf []byte, decrypt bool) []byte {
	out := bytes.Clone(buf)
	for off := 0; off < len(out); off += BlockSize {
		c.cryptBatch(out[off:off+BlockSize], 1, decrypt)
	}
	return out
}

func assertPanics(t *testing.T, name string, fn func()) {
	t.Helper()

	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func TestDispatch(t *testing.T) {
	spec.Run(t, "batchFor", func(t *testing.T, when spec.G, it spec.S) {
		it("uses single blocks at the bottom", func() {
			if got := batchFor(1, serial); got != 1 {
				t.Errorf("batchFor(1) = %d, want = 1", got)
			}
		})

		it("picks the largest power of two that fits", func() {
			for blocks, want := range map[int]int{2: 2, 3: 2, 5: 4, 17: 16, 31: 16} {
				if got := batchFor(blocks, serial); got != want {
					t.Errorf("batchFor(%d) = %d, want = %d", blocks, got, want)
				}
			}
		})

		it("caps the serial path", func() {
			if got := batchFor(1<<20, serial); got != serialBatch {
				t.Errorf("batchFor(1<<20, serial) = %d, want = %d", got, serialBatch)
			}
		})

		it("caps the parallel path below the serial cap", func() {
			if got := batchFor(1<<20, parallel); got != parallelBatch {
				t.Errorf("batchFor(1<<20, parallel) = %d, want = %d", got, parallelBatch)
			}

			if parallelBatch > serialBatch {
				t.Errorf("parallel cap %d exceeds serial cap %d", parallelBatch, serialBatch)
			}
		})

		it("keeps spans aligned to every batch size", func() {
			for batch := 1; batch <= MaxBatch; batch <<= 1 {
				if spanSize%(batch*BlockSize) != 0 {
					t.Errorf("spanSize %d not a multiple of batch %d", spanSize, batch)
				}
			}
		})
	}, spec.Report(report.Terminal{}))

	spec.Run(t, "autoMode", func(t *testing.T, when spec.G, it spec.S) {
		it("stays serial below the threshold", func() {
			if autoMode(ParallelThreshold-BlockSize) != serial {
				t.Error("small buffer dispatched in parallel")
			}
		})

		when("GOMAXPROCS allows more than one goroutine", func() {
			var prev int

			it.Before(func() {
				prev = runtime.GOMAXPROCS(4)
			})

			it.After(func() {
				runtime.GOMAXPROCS(prev)
			})

			it("goes parallel at the threshold", func() {
				if autoMode(ParallelThreshold) != parallel {
					t.Fatal("threshold-sized buffer dispatched serially")
				}

				c, _ := NewCipher(0, testKey)
				buf := testBuffer(ParallelThreshold / BlockSize)
				want := reference(c, buf, false)

				c.Encrypt(buf)
				if !bytes.Equal(buf, want) {
					t.Error("auto-dispatched Encrypt differs from block-at-a-time reference")
				}
			})
		})
	}, spec.Report(report.Terminal{}))

	spec.Run(t, "Cipher", func(t *testing.T, when spec.G, it spec.S) {
		var c *Cipher

		it.Before(func() {
			var err error
			c, err = NewCipher(1, testKey)
			if err != nil {
				t.Fatal(err)
			}
		})

		when("the block count is not a power of two", func() {
			it("handles the remainder in narrower batches", func() {
				for _, blocks := range []int{3, 65, 97, 127, 4099} {
					buf := testBuffer(blocks)
					pt := bytes.Clone(buf)
					want := reference(c, buf, false)

					c.Encrypt(buf)
					if !bytes.Equal(buf, want) {
						t.Errorf("%d blocks: Encrypt differs from reference", blocks)
					}

					c.Decrypt(buf)
					if !bytes.Equal(buf, pt) {
						t.Errorf("%d blocks: Decrypt(Encrypt(pt)) != pt", blocks)
					}
				}
			})
		})

		when("forcing an execution mode", func() {
			it("produces the same output serially and in parallel", func() {
				for _, blocks := range []int{1, 65, ParallelThreshold / BlockSize, ParallelThreshold/BlockSize*3 + 5} {
					a, b := testBuffer(blocks), testBuffer(blocks)
					c.EncryptSerial(a)
					c.EncryptParallel(b)
					if !bytes.Equal(a, b) {
						t.Errorf("%d blocks: EncryptSerial != EncryptParallel", blocks)
					}

					c.DecryptParallel(a)
					c.DecryptSerial(b)
					if !bytes.Equal(a, b) || !bytes.Equal(a, testBuffer(blocks)) {
						t.Errorf("%d blocks: parallel/serial decryption mismatch", blocks)
					}
				}
			})
		})

		when("using fixed batch sizes", func() {
			it("gives identical output for every batch size", func() {
				const blocks = 4 * MaxBatch
				want := testBuffer(blocks)
				c.Encrypt(want)

				for batch := 1; batch <= MaxBatch; batch <<= 1 {
					a, b := testBuffer(blocks), testBuffer(blocks)
					c.EncryptBlocks(a, batch)
					c.EncryptBlocksParallel(b, batch)
					if !bytes.Equal(a, want) {
						t.Errorf("EncryptBlocks(%d) differs from Encrypt", batch)
					}
					if !bytes.Equal(b, want) {
						t.Errorf("EncryptBlocksParallel(%d) differs from Encrypt", batch)
					}

					c.DecryptBlocks(a, batch)
					c.DecryptBlocksParallel(b, batch)
					if !bytes.Equal(a, testBuffer(blocks)) || !bytes.Equal(b, testBuffer(blocks)) {
						t.Errorf("DecryptBlocks(%d) did not invert EncryptBlocks", batch)
					}
				}
			})

			it("rejects invalid batch sizes", func() {
				buf := testBuffer(MaxBatch * 2)
				for _, batch := range []int{-1, 0, 3, 12, MaxBatch * 2} {
					assertPanics(t, "EncryptBlocks", func() { c.EncryptBlocks(buf, batch) })
					assertPanics(t, "DecryptBlocksParallel", func() { c.DecryptBlocksParallel(buf, batch) })
				}
			})

			it("rejects lengths that are not a multiple of the batch", func() {
				buf := testBuffer(12)
				assertPanics(t, "EncryptBlocks", func() { c.EncryptBlocks(buf, 8) })
				assertPanics(t, "EncryptBlocksParallel", func() { c.EncryptBlocksParallel(buf, 16) })
				assertPanics(t, "DecryptBlocks", func() { c.DecryptBlocks(nil, 1) })
			})
		})
	}, spec.Report(report.Terminal{}))
}

func TestFeistelLaneIndependence(t *testing.T) {
	c, _ := NewCipher(2, bytes.Repeat(testKey, 2))
	src := make([]uint32, MaxBatch)
	for i := range src {
		src[i] = uint32(i) * 0x9e3779b9
	}

	wide := make([]uint32, MaxBatch)
	feistel(wide, src, &c.sched[0], c.sbox)

	for i := range src {
		var one [1]uint32
		feistel(one[:], src[i:i+1], &c.sched[0], c.sbox)
		if one[0] != wide[i] {
			t.Errorf("lane %d: batched = %#x, single = %#x", i, wide[i], one[0])
		}
	}
}
