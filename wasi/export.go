package wasi

import (
	"fmt"
	"io"

	"github.com/pgavlin/wasihost/vm"
)

// Preopen grants a guest access to the host directory tree rooted at FSPath.
// The guest discovers the capability under the name Path via the
// fd_prestat_* functions; Rights and Inherit bound what the guest may do
// with the directory and with descriptors opened through it.
type Preopen struct {
	FSPath  string
	Path    string
	Rights  Rights
	Inherit Rights
}

type Options struct {
	Env  map[string]string
	Args []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	FS      FS
	Preopen []Preopen

	// Sockets are installed at the descriptors immediately following the
	// preopens, in order.
	Sockets []Socket
}

// SnapshotPreview1 returns the definition for the module canonically named
// "wasi_snapshot_preview1". A nil opts runs the guest with the host's
// environment, stdio, and no preopens.
func SnapshotPreview1(opts *Options) vm.ModuleDefinition {
	return &wasiSnapshotPreview1Definition{options: opts}
}

// Instantiate allocates a snapshot_preview1 instance under the given name
// and links it against the given guest memory.
func Instantiate(name string, memory *vm.Memory, opts *Options) (vm.Module, error) {
	alloc, err := SnapshotPreview1(opts).Allocate(name)
	if err != nil {
		return nil, err
	}
	return alloc.Instantiate(vm.MemoryImports{Memory: memory})
}

type ExitError struct {
	code int
}

func (e *ExitError) Code() int {
	return e.code
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Call invokes a guest entry point, converting the stack unwind performed by
// proc_exit into an ExitError. A zero exit code is reported as a nil error.
func Call(f func() error) (err error) {
	defer func() {
		if x := recover(); x != nil {
			if ec, ok := x.(TrapExit); ok {
				if ec != 0 {
					err = &ExitError{code: int(ec)}
				} else {
					err = nil
				}
				return
			}
			panic(x)
		}
	}()

	return f()
}

type Resolver struct {
	options *Options
	inner   vm.ModuleResolver
}

// NewResolver returns a resolver that serves "wasi_snapshot_preview1" itself
// and defers every other module name to inner.
func NewResolver(options *Options, inner vm.ModuleResolver) Resolver {
	if inner == nil {
		inner = vm.MapResolver{}
	}
	return Resolver{options: options, inner: inner}
}

func (r Resolver) ResolveModule(name string) (vm.ModuleDefinition, error) {
	switch name {
	case "wasi_snapshot_preview1":
		return SnapshotPreview1(r.options), nil
	default:
		return r.inner.ResolveModule(name)
	}
}
