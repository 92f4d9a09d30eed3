//go:build amd64 && !purego

package icefast

import "golang.org/x/sys/cpu"

// serialBatch is the widest batch the serial path uses.
var serialBatch = wideBatch(cpu.X86.HasAVX2) //nolint:gochecknoglobals // should only check once
