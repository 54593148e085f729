package wasi

import (
	"errors"

	"github.com/pgavlin/wasihost/vm"
)

// ErrMemoryFault indicates a guest-supplied pointer/length pair that does not
// lie within the guest's linear memory. Syscall handlers translate this to
// errno fault; it never escapes to the embedding as a panic.
var ErrMemoryFault = errors.New("out of bounds guest memory access")

// memoryView provides bounds-checked access to a guest's linear memory. Every
// access validates offset+length against the current size of the memory with
// overflow-safe arithmetic; the size is re-read on each call because the
// guest may grow its memory between syscalls.
type memoryView struct {
	mem *vm.Memory
}

func (v memoryView) bytes(base, length uint32) ([]byte, error) {
	bytes := v.mem.Bytes()
	// uint64 arithmetic so that base+length cannot wrap.
	if uint64(base)+uint64(length) > uint64(len(bytes)) {
		return nil, ErrMemoryFault
	}
	return bytes[base : uint64(base)+uint64(length)], nil
}

func (v memoryView) byte(addr uint32) (byte, error) {
	b, err := v.bytes(addr, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (v memoryView) putByte(b byte, addr uint32) error {
	s, err := v.bytes(addr, 1)
	if err != nil {
		return err
	}
	s[0] = b
	return nil
}

func (v memoryView) uint16(addr uint32) (uint16, error) {
	b, err := v.bytes(addr, 2)
	if err != nil {
		return 0, err
	}
	return le.Uint16(b), nil
}

func (v memoryView) putUint16(u uint16, addr uint32) error {
	b, err := v.bytes(addr, 2)
	if err != nil {
		return err
	}
	le.PutUint16(b, u)
	return nil
}

func (v memoryView) uint32(addr uint32) (uint32, error) {
	b, err := v.bytes(addr, 4)
	if err != nil {
		return 0, err
	}
	return le.Uint32(b), nil
}

func (v memoryView) putUint32(u uint32, addr uint32) error {
	b, err := v.bytes(addr, 4)
	if err != nil {
		return err
	}
	le.PutUint32(b, u)
	return nil
}

func (v memoryView) uint64(addr uint32) (uint64, error) {
	b, err := v.bytes(addr, 8)
	if err != nil {
		return 0, err
	}
	return le.Uint64(b), nil
}

func (v memoryView) putUint64(u uint64, addr uint32) error {
	b, err := v.bytes(addr, 8)
	if err != nil {
		return err
	}
	le.PutUint64(b, u)
	return nil
}

// readString copies length bytes at base out of guest memory.
func (v memoryView) readString(base, length uint32) (string, error) {
	b, err := v.bytes(base, length)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
