package vm

import (
	"fmt"
)

// PageSize is the size of a WASM linear memory page in bytes.
const PageSize = 65536

var ErrLimitExceeded = fmt.Errorf("memory limit exceeded")

// Memory is a WASM linear memory: a single contiguous, growable byte buffer.
// It is the only memory host functions may touch on behalf of a guest, and
// always via guest-supplied offsets.
type Memory struct {
	min, max uint32
	bytes    []byte
}

// NewMemory creates a new linear memory with the given limits in pages.
func NewMemory(min, max uint32) Memory {
	return Memory{
		min:   min,
		max:   max,
		bytes: make([]byte, min*PageSize),
	}
}

// Limits returns the minimum and maximum size of the memory in pages.
func (m *Memory) Limits() (min, max uint32) {
	return m.min, m.max
}

// Size returns the current size of the memory in pages. A guest may grow its
// memory at any time, so consumers must not cache this value across calls.
func (m *Memory) Size() uint32 {
	return uint32(len(m.bytes) / PageSize)
}

// Grow grows the memory by the given number of pages. It returns the old size
// of the memory in pages and an error if growing the memory by the requested
// amount would exceed the memory's maximum size.
func (m *Memory) Grow(pages uint32) (uint32, error) {
	currentSize := m.Size()
	newSize := uint64(currentSize) + uint64(pages)
	if newSize > uint64(m.max) || newSize > 65536 {
		return currentSize, ErrLimitExceeded
	}
	newBytes := make([]byte, int(newSize)*PageSize)
	copy(newBytes, m.bytes)
	m.bytes = newBytes
	return currentSize, nil
}

// Bytes returns the memory's bytes. The returned slice is invalidated by the
// next call to Grow.
func (m *Memory) Bytes() []byte {
	return m.bytes
}
