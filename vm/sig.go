package vm

import "strings"

// A ValueType is the type of a WASM value at a host-function boundary. Guest
// pointers and lengths are always i32 offsets into linear memory; byte counts
// and time values that may exceed 32 bits are i64.
type ValueType byte

const (
	ValueTypeI32 ValueType = 0x7f
	ValueTypeI64 ValueType = 0x7e
	ValueTypeF32 ValueType = 0x7d
	ValueTypeF64 ValueType = 0x7c
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	default:
		return "unknown"
	}
}

// A FunctionSig is the fixed typed signature of a function at the
// host/guest boundary.
type FunctionSig struct {
	Params  []ValueType
	Results []ValueType
}

// Equals returns true if the receiver and the given signature have the same
// parameter and result types.
func (s FunctionSig) Equals(other FunctionSig) bool {
	if len(s.Params) != len(other.Params) || len(s.Results) != len(other.Results) {
		return false
	}
	for i, t := range s.Params {
		if other.Params[i] != t {
			return false
		}
	}
	for i, t := range s.Results {
		if other.Results[i] != t {
			return false
		}
	}
	return true
}

func (s FunctionSig) String() string {
	var b strings.Builder
	b.WriteString("(")
	for i, t := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteString(") -> (")
	for i, t := range s.Results {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteString(")")
	return b.String()
}
