package cil

// TypeAttributes is the flag set carried by a type definition.
type TypeAttributes uint32

const (
	TypePublic TypeAttributes = 1 << iota
	TypeNestedPublic
	TypeNestedPrivate
	TypeAbstract
	TypeSealed
	TypeInterface
	TypeValueType
	TypeExplicitLayout
	TypeBeforeFieldInit
)

// TypeDef is a type definition: a named, attributed element owning an ordered
// list of nested types, methods, and fields.
type TypeDef struct {
	Name       string
	Namespace  string
	Attributes TypeAttributes

	BaseType   TypeDefOrRef
	Interfaces []TypeDefOrRef

	NestedTypes []*TypeDef
	Methods     []*MethodDef
	Fields      []*FieldDef

	GenericParams    []*GenericParam
	Layout           *ClassLayout
	CustomAttributes []*CustomAttribute

	// Back-pointers, maintained by the attach helpers.
	Module        *ModuleDef
	DeclaringType *TypeDef
}

// TypeName returns the simple name of the type.
func (t *TypeDef) TypeName() string { return t.Name }

// TypeNamespace returns the namespace of the type. Nested types inherit the
// enclosing namespace and report an empty namespace of their own.
func (t *TypeDef) TypeNamespace() string { return t.Namespace }

// FullName returns "Namespace.Name", with nested types rendered as
// "Namespace.Outer/Inner".
func (t *TypeDef) FullName() string {
	if t.DeclaringType != nil {
		return t.DeclaringType.FullName() + "/" + t.Name
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// IsNested reports whether the type is declared inside another type.
func (t *TypeDef) IsNested() bool { return t.DeclaringType != nil }

// AddNestedType attaches nested as a child of t, preserving declaration
// order, and returns it.
func (t *TypeDef) AddNestedType(nested *TypeDef) *TypeDef {
	nested.DeclaringType = t
	nested.setModule(t.Module)
	t.NestedTypes = append(t.NestedTypes, nested)
	return nested
}

// AddMethod attaches m to t, preserving declaration order, and returns it.
func (t *TypeDef) AddMethod(m *MethodDef) *MethodDef {
	m.DeclaringType = t
	t.Methods = append(t.Methods, m)
	return m
}

// AddField attaches f to t, preserving declaration order, and returns it.
func (t *TypeDef) AddField(f *FieldDef) *FieldDef {
	f.DeclaringType = t
	t.Fields = append(t.Fields, f)
	return f
}

// setModule re-homes t and its whole nested subtree to m.
func (t *TypeDef) setModule(m *ModuleDef) {
	t.Module = m
	for _, nested := range t.NestedTypes {
		nested.setModule(m)
	}
}

// ClassLayout is an explicit layout directive: field packing and total size.
type ClassLayout struct {
	PackingSize uint16
	ClassSize   uint32
}

// GenericParamAttributes is the variance/constraint flag set of a generic
// parameter.
type GenericParamAttributes uint16

const (
	GenericParamCovariant GenericParamAttributes = 1 << iota
	GenericParamContravariant
	GenericParamReferenceTypeConstraint
	GenericParamValueTypeConstraint
	GenericParamDefaultConstructorConstraint
)

// GenericParam is one generic parameter of a type or method. Number is the
// zero-based position; Name is immaterial to execution.
type GenericParam struct {
	Number int
	Flags  GenericParamAttributes
	Name   string
}

// CustomAttribute is one attribute instance: a constructor reference plus the
// raw argument blob as authored. The blob is opaque to this package.
type CustomAttribute struct {
	Ctor MethodDefOrRef
	Blob []byte
}
