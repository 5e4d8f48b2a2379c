package cil

// FieldAttributes is the flag set carried by a field definition.
type FieldAttributes uint16

const (
	FieldPublic FieldAttributes = 1 << iota
	FieldPrivate
	FieldStatic
	FieldInitOnly
	FieldLiteral
	FieldSpecialName
)

// FieldDef is a field definition: name, flags, and a field signature.
type FieldDef struct {
	Name       string
	Attributes FieldAttributes
	Signature  *FieldSig

	CustomAttributes []*CustomAttribute

	DeclaringType *TypeDef
}

// FullName returns "DeclaringType::Name", or just the name for a detached
// field.
func (f *FieldDef) FullName() string {
	if f.DeclaringType != nil {
		return f.DeclaringType.FullName() + "::" + f.Name
	}
	return f.Name
}

// IsStatic reports whether the field is per-type rather than per-instance.
func (f *FieldDef) IsStatic() bool { return f.Attributes&FieldStatic != 0 }
