//go:build (!amd64 && !arm64) || purego

package icefast

// serialBatch is the widest batch the serial path uses.
var serialBatch = wideBatch(false) //nolint:gochecknoglobals // fixed without CPU feature detection
