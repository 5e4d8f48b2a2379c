package cil

// MethodAttributes is the flag set carried by a method definition.
type MethodAttributes uint16

const (
	MethodPublic MethodAttributes = 1 << iota
	MethodPrivate
	MethodStatic
	MethodAbstract
	MethodVirtual
	MethodFinal
	MethodHideBySig
	MethodPInvokeImpl
	MethodSpecialName
)

// MethodImplAttributes describes how a method body is implemented.
type MethodImplAttributes uint16

const (
	MethodImplIL MethodImplAttributes = iota
	MethodImplNative
	MethodImplRuntime
)

// MethodDef is a method definition: name, flags, signature, generic
// parameters, and optionally an executable body or a native-call binding.
type MethodDef struct {
	Name           string
	Attributes     MethodAttributes
	ImplAttributes MethodImplAttributes

	Signature *MethodSig

	// Params is a cache derived from Signature; rebuild it with
	// RecomputeParams whenever the signature is replaced.
	Params []*Parameter

	Body *MethodBody

	GenericParams    []*GenericParam
	CustomAttributes []*CustomAttribute
	PInvoke          *PInvokeInfo

	DeclaringType *TypeDef
}

// FullName returns "DeclaringType::Name", or just the name for a detached
// method.
func (m *MethodDef) FullName() string {
	if m.DeclaringType != nil {
		return m.DeclaringType.FullName() + "::" + m.Name
	}
	return m.Name
}

// Module returns the module the method is declared in, or nil for a detached
// method.
func (m *MethodDef) Module() *ModuleDef {
	if m.DeclaringType == nil {
		return nil
	}
	return m.DeclaringType.Module
}

// IsStatic reports whether the method has no this parameter.
func (m *MethodDef) IsStatic() bool { return m.Attributes&MethodStatic != 0 }

// HasBody reports whether the method carries an executable body. Abstract
// and native-bound methods do not.
func (m *MethodDef) HasBody() bool { return m.Body != nil }

// RecomputeParams rebuilds the parameter cache from the current signature.
// Existing parameter names are preserved positionally when they still fit.
func (m *MethodDef) RecomputeParams() {
	if m.Signature == nil {
		m.Params = nil
		return
	}
	old := m.Params
	params := make([]*Parameter, len(m.Signature.Params))
	for i, typ := range m.Signature.Params {
		p := &Parameter{Index: i, Type: typ}
		if i < len(old) && old[i] != nil {
			p.Name = old[i].Name
		}
		params[i] = p
	}
	m.Params = params
}

// Parameter is one entry of a method's parameter cache.
type Parameter struct {
	Index int
	Type  TypeSig
	Name  string
}

// PInvokeAttributes is the flag set of a native-call binding.
type PInvokeAttributes uint16

const (
	PInvokeNoMangle PInvokeAttributes = 1 << iota
	PInvokeCharSetAnsi
	PInvokeCharSetUnicode
	PInvokeSupportsLastError
	PInvokeCallConvCdecl
	PInvokeCallConvStdcall
)

// PInvokeInfo binds a method to a native entry point in an external module.
type PInvokeInfo struct {
	Module     *ModuleRef
	EntryPoint string
	Attributes PInvokeAttributes
}
