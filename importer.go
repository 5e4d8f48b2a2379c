package cil

import "fmt"

// Importer translates references defined against one module's universe into
// references that resolve inside another module. Implementations are bound to
// a single target module and are not safe for concurrent use: import results
// are typically cached keyed by origin reference.
type Importer interface {
	// ImportType translates a type definition or reference. A nil input is
	// returned as nil.
	ImportType(t TypeDefOrRef) (TypeDefOrRef, error)

	// ImportMethod translates a method definition or member reference.
	ImportMethod(m MethodDefOrRef) (MethodDefOrRef, error)

	// ImportField translates a field definition or member reference.
	ImportField(f FieldDefOrRef) (FieldDefOrRef, error)

	// ImportTypeSig rebuilds a type signature with every embedded type
	// reference translated.
	ImportTypeSig(sig TypeSig) (TypeSig, error)

	// ImportMethodSig rebuilds a method signature with every parameter and
	// return type translated.
	ImportMethodSig(sig *MethodSig) (*MethodSig, error)
}

// RewriteTypeSig rebuilds sig structurally, translating every embedded type
// reference through imp.ImportType. Importer implementations delegate their
// signature handling here so reference translation stays in one place.
func RewriteTypeSig(imp Importer, sig TypeSig) (TypeSig, error) {
	switch s := sig.(type) {
	case nil:
		return nil, nil
	case *PrimSig:
		return &PrimSig{Kind: s.Kind}, nil
	case *ClassSig:
		typ, err := imp.ImportType(s.Type)
		if err != nil {
			return nil, err
		}
		return &ClassSig{Type: typ, ValueType: s.ValueType}, nil
	case *SZArraySig:
		elem, err := RewriteTypeSig(imp, s.Elem)
		if err != nil {
			return nil, err
		}
		return &SZArraySig{Elem: elem}, nil
	case *ByRefSig:
		elem, err := RewriteTypeSig(imp, s.Elem)
		if err != nil {
			return nil, err
		}
		return &ByRefSig{Elem: elem}, nil
	case *GenericVarSig:
		return &GenericVarSig{Number: s.Number, Method: s.Method}, nil
	default:
		return nil, fmt.Errorf("cil: unknown type signature %T", sig)
	}
}

// RewriteMethodSig rebuilds sig with every parameter and return type
// translated through imp.
func RewriteMethodSig(imp Importer, sig *MethodSig) (*MethodSig, error) {
	if sig == nil {
		return nil, nil
	}
	ret, err := RewriteTypeSig(imp, sig.Return)
	if err != nil {
		return nil, err
	}
	out := &MethodSig{CallConv: sig.CallConv, HasThis: sig.HasThis, Return: ret}
	if len(sig.Params) > 0 {
		out.Params = make([]TypeSig, len(sig.Params))
		for i, p := range sig.Params {
			if out.Params[i], err = RewriteTypeSig(imp, p); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// RewriteFieldSig rebuilds sig with its value type translated through imp.
func RewriteFieldSig(imp Importer, sig *FieldSig) (*FieldSig, error) {
	if sig == nil {
		return nil, nil
	}
	typ, err := RewriteTypeSig(imp, sig.Type)
	if err != nil {
		return nil, err
	}
	return &FieldSig{Type: typ}, nil
}

// ImportOptions configures a StandardImporter.
type ImportOptions struct {
	// PreferLocalDefs resolves a reference to an existing type definition in
	// the target module when full names match, instead of emitting a
	// redundant cross-module reference.
	PreferLocalDefs bool
}

// StandardImporter is the default Importer: it re-scopes references against
// one target module, caching results per origin reference. Definitions
// already declared in the target module pass through unchanged.
type StandardImporter struct {
	target      *ModuleDef
	preferLocal bool

	typeCache map[TypeDefOrRef]TypeDefOrRef
}

// NewImporter creates a StandardImporter bound to target.
func NewImporter(target *ModuleDef, opts ...ImportOptions) *StandardImporter {
	imp := &StandardImporter{
		target:    target,
		typeCache: make(map[TypeDefOrRef]TypeDefOrRef),
	}
	if len(opts) > 0 {
		imp.preferLocal = opts[0].PreferLocalDefs
	}
	return imp
}

// Target returns the module the importer is bound to.
func (i *StandardImporter) Target() *ModuleDef { return i.target }

// ImportType translates t into a reference valid in the target module.
func (i *StandardImporter) ImportType(t TypeDefOrRef) (TypeDefOrRef, error) {
	if t == nil {
		return nil, nil
	}
	if cached, ok := i.typeCache[t]; ok {
		return cached, nil
	}
	out, err := i.importType(t)
	if err != nil {
		return nil, err
	}
	i.typeCache[t] = out
	return out, nil
}

func (i *StandardImporter) importType(t TypeDefOrRef) (TypeDefOrRef, error) {
	switch td := t.(type) {
	case *TypeDef:
		if td.Module == i.target {
			return td, nil
		}
		if i.preferLocal {
			if local := i.target.FindType(td.FullName()); local != nil {
				return local, nil
			}
		}
		return i.refToDef(td)
	case *TypeRef:
		if i.preferLocal {
			if local := i.target.FindType(td.FullName()); local != nil {
				return local, nil
			}
		}
		return i.rescopeRef(td)
	default:
		return nil, fmt.Errorf("cil: unknown type reference %T", t)
	}
}

// refToDef builds a cross-module reference pointing back at a definition in
// its origin module.
func (i *StandardImporter) refToDef(td *TypeDef) (*TypeRef, error) {
	if td.DeclaringType != nil {
		parent, err := i.ImportType(td.DeclaringType)
		if err != nil {
			return nil, err
		}
		pref, ok := parent.(*TypeRef)
		if !ok {
			// Declaring type resolved locally; reference the nested type
			// through the same origin scope instead.
			pref = &TypeRef{
				Name:      td.DeclaringType.Name,
				Namespace: td.DeclaringType.Namespace,
				Scope:     i.originScope(td.DeclaringType.Module),
			}
		}
		return &TypeRef{Name: td.Name, Parent: pref}, nil
	}
	if td.Module == nil {
		return nil, fmt.Errorf("cil: cannot import detached type %s", td.FullName())
	}
	return &TypeRef{
		Name:      td.Name,
		Namespace: td.Namespace,
		Scope:     i.originScope(td.Module),
	}, nil
}

func (i *StandardImporter) rescopeRef(r *TypeRef) (*TypeRef, error) {
	out := &TypeRef{Name: r.Name, Namespace: r.Namespace}
	if r.Parent != nil {
		parent, err := i.rescopeRef(r.Parent)
		if err != nil {
			return nil, err
		}
		out.Parent = parent
		return out, nil
	}
	if r.Scope == nil {
		return nil, fmt.Errorf("cil: type reference %s has no scope", r.FullName())
	}
	out.Scope = i.target.ModuleRef(r.Scope.Name)
	return out, nil
}

func (i *StandardImporter) originScope(origin *ModuleDef) *ModuleRef {
	if origin == nil {
		return nil
	}
	return i.target.ModuleRef(origin.Name)
}

// ImportMethod translates m into a reference valid in the target module.
func (i *StandardImporter) ImportMethod(m MethodDefOrRef) (MethodDefOrRef, error) {
	if m == nil {
		return nil, nil
	}
	switch md := m.(type) {
	case *MethodDef:
		if md.Module() == i.target {
			return md, nil
		}
		class, err := i.ImportType(md.DeclaringType)
		if err != nil {
			return nil, err
		}
		if local, ok := i.localMethod(class, md.Name); ok {
			return local, nil
		}
		sig, err := i.ImportMethodSig(md.Signature)
		if err != nil {
			return nil, err
		}
		return &MemberRef{Name: md.Name, Class: class, Method: sig}, nil
	case *MemberRef:
		class, err := i.ImportType(md.Class)
		if err != nil {
			return nil, err
		}
		sig, err := i.ImportMethodSig(md.Method)
		if err != nil {
			return nil, err
		}
		return &MemberRef{Name: md.Name, Class: class, Method: sig}, nil
	default:
		return nil, fmt.Errorf("cil: unknown method reference %T", m)
	}
}

// localMethod resolves a method by name when the declaring type itself
// resolved to a local definition.
func (i *StandardImporter) localMethod(class TypeDefOrRef, name string) (*MethodDef, bool) {
	td, ok := class.(*TypeDef)
	if !ok || td.Module != i.target {
		return nil, false
	}
	for _, m := range td.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// ImportField translates f into a reference valid in the target module.
func (i *StandardImporter) ImportField(f FieldDefOrRef) (FieldDefOrRef, error) {
	if f == nil {
		return nil, nil
	}
	switch fd := f.(type) {
	case *FieldDef:
		if fd.DeclaringType != nil && fd.DeclaringType.Module == i.target {
			return fd, nil
		}
		class, err := i.ImportType(fd.DeclaringType)
		if err != nil {
			return nil, err
		}
		if local, ok := i.localField(class, fd.Name); ok {
			return local, nil
		}
		sig, err := RewriteFieldSig(i, fd.Signature)
		if err != nil {
			return nil, err
		}
		return &MemberRef{Name: fd.Name, Class: class, Field: sig}, nil
	case *MemberRef:
		class, err := i.ImportType(fd.Class)
		if err != nil {
			return nil, err
		}
		sig, err := RewriteFieldSig(i, fd.Field)
		if err != nil {
			return nil, err
		}
		return &MemberRef{Name: fd.Name, Class: class, Field: sig}, nil
	default:
		return nil, fmt.Errorf("cil: unknown field reference %T", f)
	}
}

func (i *StandardImporter) localField(class TypeDefOrRef, name string) (*FieldDef, bool) {
	td, ok := class.(*TypeDef)
	if !ok || td.Module != i.target {
		return nil, false
	}
	for _, f := range td.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// ImportTypeSig rebuilds sig against the target module.
func (i *StandardImporter) ImportTypeSig(sig TypeSig) (TypeSig, error) {
	return RewriteTypeSig(i, sig)
}

// ImportMethodSig rebuilds sig against the target module.
func (i *StandardImporter) ImportMethodSig(sig *MethodSig) (*MethodSig, error) {
	return RewriteMethodSig(i, sig)
}
