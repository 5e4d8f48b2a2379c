package cil

// TypeRef is a reference to a type declared in another module (or, for
// nested types, inside another type reference).
type TypeRef struct {
	Name      string
	Namespace string

	// Scope names the module the type lives in. Nil for a nested reference,
	// which is scoped by Parent instead.
	Scope  *ModuleRef
	Parent *TypeRef
}

// TypeName returns the simple name of the referenced type.
func (r *TypeRef) TypeName() string { return r.Name }

// TypeNamespace returns the namespace of the referenced type.
func (r *TypeRef) TypeNamespace() string { return r.Namespace }

// FullName returns "Namespace.Name", with nested references rendered as
// "Namespace.Outer/Inner".
func (r *TypeRef) FullName() string {
	if r.Parent != nil {
		return r.Parent.FullName() + "/" + r.Name
	}
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

// MemberRef is a reference to a method or field declared on a type outside
// the current module. Exactly one of Method and Field is set.
type MemberRef struct {
	Name  string
	Class TypeDefOrRef

	Method *MethodSig
	Field  *FieldSig
}

// IsField reports whether the reference names a field rather than a method.
func (r *MemberRef) IsField() bool { return r.Field != nil }

// FullName returns "Class::Name".
func (r *MemberRef) FullName() string {
	if r.Class != nil {
		return r.Class.FullName() + "::" + r.Name
	}
	return r.Name
}
