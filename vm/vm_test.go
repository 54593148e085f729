package vm

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGrow(t *testing.T) {
	m := NewMemory(1, 3)
	assert.Equal(t, uint32(1), m.Size())
	assert.Len(t, m.Bytes(), PageSize)

	old, err := m.Grow(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), old)
	assert.Equal(t, uint32(2), m.Size())

	// Contents survive a grow.
	m.Bytes()[0] = 42
	_, err = m.Grow(1)
	require.NoError(t, err)
	assert.Equal(t, byte(42), m.Bytes()[0])

	_, err = m.Grow(1)
	assert.Equal(t, ErrLimitExceeded, err)

	// A page count large enough to wrap 32-bit size arithmetic must fail
	// rather than shrink the memory.
	m.Bytes()[0] = 42
	_, err = m.Grow(0xFFFFFFFF)
	assert.Equal(t, ErrLimitExceeded, err)
	assert.Equal(t, uint32(3), m.Size())
	assert.Equal(t, byte(42), m.Bytes()[0])

	min, max := m.Limits()
	assert.Equal(t, uint32(1), min)
	assert.Equal(t, uint32(3), max)
}

type testModule int

func (testModule) Name() string                         { return "test" }
func (testModule) GetFunction(string) (Function, error) { return nil, ErrModuleNotFound }

func TestHostFunctionSignature(t *testing.T) {
	f := func(a int32, b int64, c uint32) int32 { return a + int32(b) + int32(c) }
	hf := NewHostFunction(testModule(0), 7, reflect.ValueOf(f))

	sig := hf.Signature()
	assert.Equal(t, []ValueType{ValueTypeI32, ValueTypeI64, ValueTypeI32}, sig.Params)
	assert.Equal(t, []ValueType{ValueTypeI32}, sig.Results)
	assert.Equal(t, "(i32, i64, i32) -> (i32)", sig.String())

	results := make([]uint64, 1)
	hf.Call([]uint64{1, 2, 3}, results)
	assert.Equal(t, uint64(6), results[0])
}

func TestHostFunctionNegativeResult(t *testing.T) {
	f := func() int32 { return -1 }
	hf := NewHostFunction(testModule(0), 0, reflect.ValueOf(f))

	results := make([]uint64, 1)
	hf.Call(nil, results)

	// i32 results are sign-extended into the 64-bit slot.
	assert.Equal(t, uint64(0xffffffffffffffff), results[0])
}

func TestHostFunctionRejectsBadTypes(t *testing.T) {
	assert.Panics(t, func() {
		NewHostFunction(testModule(0), 0, reflect.ValueOf(func(string) {}))
	})
}

func TestSignatureEquals(t *testing.T) {
	a := FunctionSig{Params: []ValueType{ValueTypeI32}, Results: []ValueType{ValueTypeI32}}
	b := FunctionSig{Params: []ValueType{ValueTypeI32}, Results: []ValueType{ValueTypeI32}}
	c := FunctionSig{Params: []ValueType{ValueTypeI64}, Results: []ValueType{ValueTypeI32}}

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(FunctionSig{}))
}

func TestMapResolver(t *testing.T) {
	r := MapResolver{}
	_, err := r.ResolveModule("missing")
	assert.Equal(t, ErrModuleNotFound, err)
}
