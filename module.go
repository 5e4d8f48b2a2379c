// Package cil provides an in-memory object model for CIL-style compiled
// modules: type, method, and field definitions with attributes, signatures,
// generic parameters, and executable method bodies made of opcode/operand
// instructions and exception-handler regions.
//
// The model is deliberately navigable in both directions (definitions carry
// back-pointers to their declaring type and module) so that tooling built on
// top of it, such as the inject package, can walk a definition subgraph and
// re-create it elsewhere.
package cil

import "strings"

// ModuleDef is a single compiled module: a named, ordered collection of
// top-level type definitions plus the module references it has emitted.
type ModuleDef struct {
	Name  string
	Types []*TypeDef

	moduleRefs map[string]*ModuleRef
}

// NewModule creates an empty module with the given name.
func NewModule(name string) *ModuleDef {
	return &ModuleDef{Name: name}
}

// AddType attaches t as a top-level type of the module and returns it.
// The whole nested subtree of t is re-homed to this module.
func (m *ModuleDef) AddType(t *TypeDef) *TypeDef {
	t.setModule(m)
	m.Types = append(m.Types, t)
	return t
}

// ModuleRef returns the module reference with the given name, creating it on
// first use. References are cached so repeated bindings against the same
// external module share one scope object.
func (m *ModuleDef) ModuleRef(name string) *ModuleRef {
	if m.moduleRefs == nil {
		m.moduleRefs = make(map[string]*ModuleRef)
	}
	if ref, ok := m.moduleRefs[name]; ok {
		return ref
	}
	ref := &ModuleRef{Name: name}
	m.moduleRefs[name] = ref
	return ref
}

// FindType looks up a type definition by full name, searching nested types.
// Nested names use the "Namespace.Outer/Inner" form. Returns nil when the
// module declares no such type.
func (m *ModuleDef) FindType(fullName string) *TypeDef {
	for _, t := range m.Types {
		if found := findTypeIn(t, fullName); found != nil {
			return found
		}
	}
	return nil
}

func findTypeIn(t *TypeDef, fullName string) *TypeDef {
	if t.FullName() == fullName {
		return t
	}
	// Nested names are prefixed by the declaring type's full name.
	if !strings.HasPrefix(fullName, t.FullName()+"/") {
		return nil
	}
	for _, nested := range t.NestedTypes {
		if found := findTypeIn(nested, fullName); found != nil {
			return found
		}
	}
	return nil
}

// ModuleRef is a reference to an external module by name, used as the scope
// of cross-module type references and native-call bindings.
type ModuleRef struct {
	Name string
}

func (r *ModuleRef) String() string {
	if r == nil {
		return "<nil module>"
	}
	return "[" + r.Name + "]"
}
