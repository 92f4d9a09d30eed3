//go:build arm64 && !purego

package icefast

import "golang.org/x/sys/cpu"

// serialBatch is the widest batch the serial path uses.
var serialBatch = wideBatch(cpu.ARM64.HasASIMD) //nolint:gochecknoglobals // should only check once
