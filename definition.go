package cil

// Definition is a type, method, or field declared within a module, as opposed
// to a reference to one declared elsewhere. Identity is pointer identity: two
// definitions with the same name in different scopes are distinct values.
//
// Implemented by *TypeDef, *MethodDef, and *FieldDef.
type Definition interface {
	FullName() string
	isDefinition()
}

// TypeDefOrRef is either a type definition (*TypeDef) or a cross-module type
// reference (*TypeRef).
type TypeDefOrRef interface {
	TypeName() string
	TypeNamespace() string
	FullName() string
	isTypeDefOrRef()
}

// MethodDefOrRef is either a method definition (*MethodDef) or a member
// reference to a method declared elsewhere (*MemberRef).
type MethodDefOrRef interface {
	FullName() string
	isMethodDefOrRef()
}

// FieldDefOrRef is either a field definition (*FieldDef) or a member
// reference to a field declared elsewhere (*MemberRef).
type FieldDefOrRef interface {
	FullName() string
	isFieldDefOrRef()
}

func (*TypeDef) isDefinition()   {}
func (*MethodDef) isDefinition() {}
func (*FieldDef) isDefinition()  {}

func (*TypeDef) isTypeDefOrRef() {}
func (*TypeRef) isTypeDefOrRef() {}

func (*MethodDef) isMethodDefOrRef() {}
func (*MemberRef) isMethodDefOrRef() {}

func (*FieldDef) isFieldDefOrRef()  {}
func (*MemberRef) isFieldDefOrRef() {}
