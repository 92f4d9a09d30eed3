// Command ice_profile encrypts and decrypts a repeated plaintext with ICE, verifies the round trip, and logs the
// throughput of each pass. It is intended to be run under a profiler.
package main

import (
	"bytes"
	"crypto/sha3"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/codahale/icefast"
	"github.com/tmthrgd/go-hex"
)

func main() {
	var (
		mode   = flag.String("mode", "auto", "the dispatch mode: auto, serial, or parallel")
		blocks = flag.Int("blocks", 1_000_000, "the number of 8-byte blocks to process")
		level  = flag.Int("level", 0, "the ICE level (0 is Thin-ICE)")
		key    = flag.String("key", "51f30f1104246a00", "the key, hex-encoded; repeated to fill the level's key size")
	)
	flag.Parse()

	log := slog.New(slog.Default().Handler())

	k, err := hex.DecodeString(*key)
	if err != nil || len(k) == 0 {
		log.Error("invalid key", "key", *key, "err", err)
		os.Exit(2)
	}

	encrypt, decrypt, ok := modeFuncs(*mode)
	if !ok {
		log.Error("unknown mode", "mode", *mode)
		os.Exit(2)
	}

	if *blocks < 1 {
		log.Error("block count must be positive", "blocks", *blocks)
		os.Exit(2)
	}

	n := icefast.KeySize(*level)
	c, err := icefast.NewCipher(*level, bytes.Repeat(k, (n+len(k)-1)/len(k))[:n])
	if err != nil {
		log.Error("failed to create cipher", "err", err)
		os.Exit(1)
	}

	plaintext := bytes.Repeat([]byte("abcdefgh"), *blocks)
	buf := bytes.Clone(plaintext)
	log.Info("starting", "mode", *mode, "level", c.Level(), "rounds", c.Rounds(), "bytes", len(buf))

	elapsed := timed(func() { encrypt(c, buf) })
	logPass(log, "encrypted", len(buf), elapsed)

	digest := sha3.SumSHAKE128(buf, 16)
	log.Info("ciphertext digest", "shake128", hex.EncodeToString(digest))

	elapsed = timed(func() { decrypt(c, buf) })
	logPass(log, "decrypted", len(buf), elapsed)

	if !bytes.Equal(buf, plaintext) {
		log.Error("round trip failed")
		os.Exit(1)
	}
	log.Info("round trip verified")
}

func modeFuncs(mode string) (encrypt, decrypt func(*icefast.Cipher, []byte), ok bool) {
	switch mode {
	case "auto":
		return (*icefast.Cipher).Encrypt, (*icefast.Cipher).Decrypt, true
	case "serial":
		return (*icefast.Cipher).EncryptSerial, (*icefast.Cipher).DecryptSerial, true
	case "parallel":
		return (*icefast.Cipher).EncryptParallel, (*icefast.Cipher).DecryptParallel, true
	default:
		return nil, nil, false
	}
}

func timed(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}

func logPass(log *slog.Logger, msg string, n int, elapsed time.Duration) {
	mbps := float64(n) / (1 << 20) / max(elapsed.Seconds(), 1e-9)
	log.Info(msg, "elapsed", elapsed, "MiB/s", mbps)
}
