// Package memory holds the explicit-ownership wrappers used for engine
// objects whose lifetime is tied to an external resource (GPU buffers,
// prefab geometry) rather than to the garbage collector.
//
// Nothing here releases on scope exit. Every Owner, Array and StringMap
// created must be released by whoever holds it; the live counter makes a
// missed release visible at shutdown.
package memory

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Alignment is the byte alignment every container backing store satisfies.
const Alignment = 16

// minAllocBytes keeps backing stores out of the 8- and 24-byte size classes
// and the tiny allocator, the only runtime classes not 16-byte aligned.
const minAllocBytes = 32

var live atomic.Int64

// Live returns the number of owners and containers not yet released.
func Live() int64 { return live.Load() }

// AssertNoLeaks panics if any owner or container is still live.
func AssertNoLeaks() {
	if n := live.Load(); n != 0 {
		panic(fmt.Sprintf("memory: %d live allocations at shutdown", n))
	}
}

func track()   { live.Add(1) }
func untrack() { live.Add(-1) }

// alignSize rounds size up to the next multiple of Alignment.
func alignSize(size uintptr) uintptr {
	if size == 0 {
		return 0
	}
	return ((size - 1) | (Alignment - 1)) + 1
}

// growCap returns a capacity of at least want elements whose byte size is
// aligned and large enough to land in an aligned size class.
func growCap[T any](want int) int {
	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 {
		return want
	}
	bytes := alignSize(uintptr(want) * size)
	if bytes < minAllocBytes {
		bytes = minAllocBytes
	}
	n := int((bytes + size - 1) / size)
	if n < want {
		n = want
	}
	return n
}
