package vm

import "fmt"

var ErrModuleNotFound = fmt.Errorf("module not found")

// A ModuleDefinition describes a module that can be allocated and
// instantiated by an embedding VM.
type ModuleDefinition interface {
	// Allocate allocates an instance of the module with the given name.
	Allocate(name string) (AllocatedModule, error)
}

// An AllocatedModule is a module instance that has been allocated but not yet
// linked against its imports.
type AllocatedModule interface {
	// Instantiate links the module against its imports and returns the
	// instantiated module.
	Instantiate(imports ImportResolver) (Module, error)
}

// A Module is an instantiated module whose exports may be queried by the
// embedding VM.
type Module interface {
	// Name returns the name the module was allocated under.
	Name() string
	// GetFunction returns the named exported function.
	GetFunction(name string) (Function, error)
}

// An ImportResolver resolves the imports required by a module during
// instantiation. The native WASI layer requires exactly one import: the
// guest instance's exported linear memory.
type ImportResolver interface {
	// ResolveMemory resolves the linear memory exported by the given module
	// under the given name.
	ResolveMemory(module, name string) (*Memory, error)
}

// MemoryImports is an ImportResolver that resolves every memory import to a
// single linear memory. It is suitable for embeddings with one guest
// instance per store.
type MemoryImports struct {
	Memory *Memory
}

func (r MemoryImports) ResolveMemory(module, name string) (*Memory, error) {
	if r.Memory == nil {
		return nil, fmt.Errorf("no memory available for import %q %q", module, name)
	}
	return r.Memory, nil
}

// A ModuleResolver resolves module names to module definitions.
type ModuleResolver interface {
	// ResolveModule resolves the given module name to a module definition.
	ResolveModule(name string) (ModuleDefinition, error)
}

// A MapResolver is a ModuleResolver that maps module names to definitions
// using the contents of a map.
type MapResolver map[string]ModuleDefinition

// ResolveModule resolves the given module name to a module definition.
func (r MapResolver) ResolveModule(name string) (ModuleDefinition, error) {
	def, ok := r[name]
	if !ok {
		return nil, ErrModuleNotFound
	}
	return def, nil
}
