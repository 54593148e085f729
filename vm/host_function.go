package vm

import (
	"fmt"
	"math"
	"reflect"
)

// A Function is a callable function at the host/guest boundary. Arguments and
// results are passed as raw 64-bit words per the WASM value representation.
type Function interface {
	// Signature returns the function's fixed typed signature.
	Signature() FunctionSig
	// Call invokes the function. results must have room for one word per
	// result type in the function's signature.
	Call(args []uint64, results []uint64)
}

// A HostFunction adapts a Go method to the Function interface. The method's
// parameter and result types must be sized integer or float types; the
// corresponding WASM signature is derived via reflection.
type HostFunction struct {
	module Module
	index  uint32
	sig    FunctionSig

	method reflect.Value
}

func wasmType(k reflect.Kind) ValueType {
	switch k {
	case reflect.Int32, reflect.Uint32:
		return ValueTypeI32
	case reflect.Int64, reflect.Uint64:
		return ValueTypeI64
	case reflect.Float32:
		return ValueTypeF32
	case reflect.Float64:
		return ValueTypeF64
	default:
		return 0
	}
}

// NewHostFunction creates a new host function with the given index backed by
// the given method.
func NewHostFunction(module Module, index uint32, method reflect.Value) *HostFunction {
	t := method.Type()

	params := make([]ValueType, t.NumIn())
	for i, n := 0, t.NumIn(); i < n; i++ {
		vt := wasmType(t.In(i).Kind())
		if vt == 0 {
			panic(fmt.Errorf("cannot export method with parameter type %v", t.In(i)))
		}
		params[i] = vt
	}

	results := make([]ValueType, t.NumOut())
	for i, n := 0, t.NumOut(); i < n; i++ {
		vt := wasmType(t.Out(i).Kind())
		if vt == 0 {
			panic(fmt.Errorf("cannot export method with return type %v", t.Out(i)))
		}
		results[i] = vt
	}

	return &HostFunction{
		module: module,
		index:  index,
		sig:    FunctionSig{Params: params, Results: results},
		method: method,
	}
}

// Module returns the module the function belongs to.
func (f *HostFunction) Module() Module {
	return f.module
}

// Signature returns the function's fixed typed signature.
func (f *HostFunction) Signature() FunctionSig {
	return f.sig
}

// Call invokes the host function with the given raw arguments.
func (f *HostFunction) Call(args []uint64, results []uint64) {
	if len(args) != len(f.sig.Params) {
		panic(fmt.Errorf("expected %v args; got %v", len(f.sig.Params), len(args)))
	}

	t := f.method.Type()

	vargs := make([]reflect.Value, len(args))
	for i, v := range args {
		in := t.In(i)
		switch f.sig.Params[i] {
		case ValueTypeI32, ValueTypeI64:
			vargs[i] = reflect.ValueOf(v).Convert(in)
		case ValueTypeF32:
			vargs[i] = reflect.ValueOf(math.Float32frombits(uint32(v))).Convert(in)
		case ValueTypeF64:
			vargs[i] = reflect.ValueOf(math.Float64frombits(v)).Convert(in)
		}
	}

	vresults := f.method.Call(vargs)

	for i, v := range vresults {
		switch f.sig.Results[i] {
		case ValueTypeI32:
			if v.Kind() == reflect.Uint32 {
				results[i] = v.Uint()
			} else {
				results[i] = uint64(int32(v.Int()))
			}
		case ValueTypeI64:
			if v.Kind() == reflect.Uint64 {
				results[i] = v.Uint()
			} else {
				results[i] = uint64(v.Int())
			}
		case ValueTypeF32:
			results[i] = uint64(math.Float32bits(float32(v.Float())))
		case ValueTypeF64:
			results[i] = math.Float64bits(v.Float())
		}
	}
}
