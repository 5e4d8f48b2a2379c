package cil

import "strconv"

// TypeSig is the structural description of a value type slot: a primitive,
// a (possibly cross-module) class or value type, an array, a by-ref, or a
// generic parameter placeholder.
type TypeSig interface {
	SigString() string
	isTypeSig()
}

// PrimKind enumerates the built-in primitive element types.
type PrimKind int

const (
	PrimVoid PrimKind = iota
	PrimBool
	PrimChar
	PrimI4
	PrimI8
	PrimR4
	PrimR8
	PrimString
	PrimObject
	PrimIntPtr
)

func (k PrimKind) String() string {
	switch k {
	case PrimVoid:
		return "void"
	case PrimBool:
		return "bool"
	case PrimChar:
		return "char"
	case PrimI4:
		return "int32"
	case PrimI8:
		return "int64"
	case PrimR4:
		return "float32"
	case PrimR8:
		return "float64"
	case PrimString:
		return "string"
	case PrimObject:
		return "object"
	case PrimIntPtr:
		return "native int"
	default:
		return "prim(" + strconv.Itoa(int(k)) + ")"
	}
}

// PrimSig is a primitive type signature.
type PrimSig struct {
	Kind PrimKind
}

func (s *PrimSig) SigString() string { return s.Kind.String() }
func (*PrimSig) isTypeSig()          {}

// ClassSig is a signature naming a class or value type, by definition or by
// cross-module reference.
type ClassSig struct {
	Type      TypeDefOrRef
	ValueType bool
}

func (s *ClassSig) SigString() string {
	if s.Type == nil {
		return "<nil class>"
	}
	return s.Type.FullName()
}
func (*ClassSig) isTypeSig() {}

// SZArraySig is a single-dimension, zero-based array signature.
type SZArraySig struct {
	Elem TypeSig
}

func (s *SZArraySig) SigString() string { return s.Elem.SigString() + "[]" }
func (*SZArraySig) isTypeSig()          {}

// ByRefSig is a managed reference signature.
type ByRefSig struct {
	Elem TypeSig
}

func (s *ByRefSig) SigString() string { return s.Elem.SigString() + "&" }
func (*ByRefSig) isTypeSig()          {}

// GenericVarSig is a placeholder for the n-th generic parameter of the
// declaring type or method.
type GenericVarSig struct {
	Number int
	Method bool // true for method generic parameters ("!!n")
}

func (s *GenericVarSig) SigString() string {
	if s.Method {
		return "!!" + strconv.Itoa(s.Number)
	}
	return "!" + strconv.Itoa(s.Number)
}
func (*GenericVarSig) isTypeSig() {}

// CallConv is a method calling convention.
type CallConv int

const (
	CallConvDefault CallConv = iota
	CallConvVarArg
)

// MethodSig describes a method's calling convention, return type, and
// parameter types.
type MethodSig struct {
	CallConv CallConv
	HasThis  bool
	Return   TypeSig
	Params   []TypeSig
}

// SigString renders the signature as "ret(p0, p1, ...)".
func (s *MethodSig) SigString() string {
	ret := "void"
	if s.Return != nil {
		ret = s.Return.SigString()
	}
	out := ret + "("
	for i, p := range s.Params {
		if i > 0 {
			out += ", "
		}
		out += p.SigString()
	}
	return out + ")"
}

// FieldSig describes the value type of a field.
type FieldSig struct {
	Type TypeSig
}

// SigString renders the field's value type.
func (s *FieldSig) SigString() string {
	if s.Type == nil {
		return "<nil>"
	}
	return s.Type.SigString()
}
