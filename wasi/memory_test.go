package wasi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgavlin/wasihost/vm"
)

func newTestView(pages uint32) memoryView {
	memory := vm.NewMemory(pages, pages+4)
	return memoryView{mem: &memory}
}

func TestMemoryViewBounds(t *testing.T) {
	view := newTestView(1)

	b, err := view.bytes(0, vm.PageSize)
	require.NoError(t, err)
	assert.Len(t, b, vm.PageSize)

	_, err = view.bytes(0, vm.PageSize+1)
	assert.Equal(t, ErrMemoryFault, err)

	_, err = view.bytes(vm.PageSize, 1)
	assert.Equal(t, ErrMemoryFault, err)

	b, err = view.bytes(vm.PageSize, 0)
	require.NoError(t, err)
	assert.Len(t, b, 0)
}

func TestMemoryViewOverflow(t *testing.T) {
	view := newTestView(1)

	// base+length wraps around uint32; the checked accessor must not treat
	// the wrapped sum as in-bounds.
	_, err := view.bytes(0xfffffff0, 0x20)
	assert.Equal(t, ErrMemoryFault, err)

	_, err = view.bytes(0xffffffff, 0xffffffff)
	assert.Equal(t, ErrMemoryFault, err)
}

func TestMemoryViewScalars(t *testing.T) {
	view := newTestView(1)

	require.NoError(t, view.putByte(0xab, 16))
	b, err := view.byte(16)
	require.NoError(t, err)
	assert.Equal(t, byte(0xab), b)

	require.NoError(t, view.putUint16(0xbeef, 20))
	u16, err := view.uint16(20)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xbeef), u16)

	require.NoError(t, view.putUint32(0xdeadbeef, 24))
	u32, err := view.uint32(24)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), u32)

	require.NoError(t, view.putUint64(0x0123456789abcdef, 32))
	u64, err := view.uint64(32)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0123456789abcdef), u64)

	// Little-endian layout.
	raw, err := view.bytes(24, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xef, 0xbe, 0xad, 0xde}, raw)

	assert.Error(t, view.putUint64(0, vm.PageSize-4))
	_, err = view.uint32(vm.PageSize-2)
	assert.Error(t, err)
}

func TestMemoryViewGrow(t *testing.T) {
	memory := vm.NewMemory(1, 4)
	view := memoryView{mem: &memory}

	_, err := view.bytes(vm.PageSize, 8)
	require.Equal(t, ErrMemoryFault, err)

	_, err = memory.Grow(1)
	require.NoError(t, err)

	// The view has no cached size: accesses made after a grow see the new
	// bounds.
	_, err = view.bytes(vm.PageSize, 8)
	assert.NoError(t, err)
}

func TestMemoryViewReadString(t *testing.T) {
	view := newTestView(1)

	b, err := view.bytes(64, 5)
	require.NoError(t, err)
	copy(b, "hello")

	s, err := view.readString(64, 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	_, err = view.readString(vm.PageSize-2, 5)
	assert.Equal(t, ErrMemoryFault, err)
}
