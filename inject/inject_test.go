package inject

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkit/cil"
)

// systemObject returns a reference to the usual root base type, scoped to m.
func systemObject(m *cil.ModuleDef) *cil.TypeRef {
	return &cil.TypeRef{Name: "Object", Namespace: "System", Scope: m.ModuleRef("mscorlib")}
}

func int32Sig() cil.TypeSig  { return &cil.PrimSig{Kind: cil.PrimI4} }
func stringSig() cil.TypeSig { return &cil.PrimSig{Kind: cil.PrimString} }

// buildHelper constructs an origin module with:
//
//	Lib.Helper : [mscorlib]System.Object
//	    .field static int32 count
//	    .method Increment() : int32   (forward branch, locals, stfld/ldfld)
//	    nested Inner
//	        .method Get() : string
func buildHelper(t *testing.T) (*cil.ModuleDef, *cil.TypeDef) {
	t.Helper()
	origin := cil.NewModule("origin.dll")

	helper := &cil.TypeDef{Name: "Helper", Namespace: "Lib", Attributes: cil.TypePublic}
	helper.BaseType = systemObject(origin)
	origin.AddType(helper)

	count := helper.AddField(&cil.FieldDef{
		Name:       "count",
		Attributes: cil.FieldStatic | cil.FieldPrivate,
		Signature:  &cil.FieldSig{Type: int32Sig()},
	})

	inc := helper.AddMethod(&cil.MethodDef{
		Name:       "Increment",
		Attributes: cil.MethodPublic | cil.MethodStatic,
		Signature:  &cil.MethodSig{Return: int32Sig()},
	})
	inc.RecomputeParams()

	body := &cil.MethodBody{MaxStack: 2, InitLocals: true}
	tmp := body.AddLocal(int32Sig(), "tmp")
	last := cil.NewInstr(cil.OpRet)
	// First instruction branches forward to the last one.
	body.Add(cil.NewInstrOperand(cil.OpBrS, last))
	body.Add(cil.NewInstrOperand(cil.OpLdsfld, count))
	body.Add(cil.NewInstrOperand(cil.OpLdcI4, int32(1)))
	body.Add(cil.NewInstr(cil.OpAdd))
	body.Add(cil.NewInstrOperand(cil.OpStloc, tmp))
	body.Add(cil.NewInstrOperand(cil.OpLdloc, tmp))
	body.Add(cil.NewInstrOperand(cil.OpStsfld, count))
	body.Add(cil.NewInstrOperand(cil.OpLdloc, tmp))
	body.Add(last)
	inc.Body = body

	inner := helper.AddNestedType(&cil.TypeDef{Name: "Inner", Attributes: cil.TypeNestedPublic})
	inner.BaseType = systemObject(origin)
	get := inner.AddMethod(&cil.MethodDef{
		Name:       "Get",
		Attributes: cil.MethodPublic | cil.MethodStatic,
		Signature:  &cil.MethodSig{Return: stringSig()},
	})
	get.RecomputeParams()
	getBody := &cil.MethodBody{MaxStack: 1}
	getBody.Add(cil.NewInstrOperand(cil.OpLdstr, "inner"))
	getBody.Add(cil.NewInstr(cil.OpRet))
	get.Body = getBody

	return origin, helper
}

// typeShape is a comparable summary of a type subtree for isomorphism checks.
type typeShape struct {
	Name    string
	Nested  []typeShape
	Methods []string
	Fields  []string
}

func shapeOf(t *cil.TypeDef) typeShape {
	s := typeShape{Name: t.Name}
	for _, nt := range t.NestedTypes {
		s.Nested = append(s.Nested, shapeOf(nt))
	}
	for _, m := range t.Methods {
		s.Methods = append(s.Methods, m.Name)
	}
	for _, f := range t.Fields {
		s.Fields = append(s.Fields, f.Name)
	}
	return s
}

func TestTypeStructuralIsomorphism(t *testing.T) {
	_, helper := buildHelper(t)
	target := cil.NewModule("target.dll")

	clone, err := Type(helper, target)
	require.NoError(t, err)
	require.NotNil(t, clone)
	require.NotSame(t, helper, clone)

	if diff := cmp.Diff(shapeOf(helper), shapeOf(clone)); diff != "" {
		t.Errorf("clone shape differs from original (-want +got):\n%s", diff)
	}

	// The clone is complete but not inserted into the target's type list.
	assert.Nil(t, clone.Module)
	assert.Empty(t, target.Types)

	// The origin is untouched.
	assert.Len(t, helper.Methods, 1)
	assert.Same(t, helper, helper.Methods[0].DeclaringType)
}

func TestTypeBaseTypeRescoped(t *testing.T) {
	_, helper := buildHelper(t)
	target := cil.NewModule("target.dll")

	clone, err := Type(helper, target)
	require.NoError(t, err)

	base, ok := clone.BaseType.(*cil.TypeRef)
	require.True(t, ok, "base type should be a cross-module reference, got %T", clone.BaseType)
	assert.Equal(t, "System.Object", base.FullName())
	require.NotNil(t, base.Scope)
	// The scope object belongs to the target module, not the origin.
	assert.Same(t, target.ModuleRef("mscorlib"), base.Scope)
}

func TestTypeNoCrossContamination(t *testing.T) {
	_, helper := buildHelper(t)
	target := cil.NewModule("target.dll")

	clone, err := Type(helper, target)
	require.NoError(t, err)

	origBody := helper.Methods[0].Body
	body := clone.Methods[0].Body
	require.NotNil(t, body)
	require.NotSame(t, origBody, body)

	origInstrs := make(map[*cil.Instruction]bool, len(origBody.Instructions))
	for _, ins := range origBody.Instructions {
		origInstrs[ins] = true
	}
	origLocals := make(map[*cil.Local]bool, len(origBody.Locals))
	for _, l := range origBody.Locals {
		origLocals[l] = true
	}
	ownInstrs := make(map[*cil.Instruction]bool, len(body.Instructions))
	for _, ins := range body.Instructions {
		require.False(t, origInstrs[ins], "cloned body shares an instruction with the original")
		ownInstrs[ins] = true
	}

	for _, ins := range body.Instructions {
		switch op := ins.Operand.(type) {
		case *cil.Instruction:
			assert.True(t, ownInstrs[op], "branch target of %s is not owned by the cloned body", ins.OpCode)
		case *cil.Local:
			assert.False(t, origLocals[op], "local operand of %s belongs to the original body", ins.OpCode)
		}
	}

	// Field references inside the subgraph resolve to the cloned field.
	cloneCount := clone.Fields[0]
	for _, ins := range body.Instructions {
		if ins.OpCode == cil.OpLdsfld || ins.OpCode == cil.OpStsfld {
			assert.Same(t, cloneCount, ins.Operand, "%s should target the cloned field", ins.OpCode)
		}
	}
}

func TestTypeForwardBranchResolved(t *testing.T) {
	_, helper := buildHelper(t)
	target := cil.NewModule("target.dll")

	clone, err := Type(helper, target)
	require.NoError(t, err)

	body := clone.Methods[0].Body
	first := body.Instructions[0]
	last := body.Instructions[len(body.Instructions)-1]

	target0, ok := first.Operand.(*cil.Instruction)
	require.True(t, ok, "first instruction should branch")
	assert.Same(t, last, target0)
}

func TestTypeShortBranchNormalized(t *testing.T) {
	_, helper := buildHelper(t)
	target := cil.NewModule("target.dll")

	clone, err := Type(helper, target)
	require.NoError(t, err)

	// The original uses br.s; the clone must carry the explicit long form.
	assert.Equal(t, cil.OpBrS, helper.Methods[0].Body.Instructions[0].OpCode)
	assert.Equal(t, cil.OpBr, clone.Methods[0].Body.Instructions[0].OpCode)
}

func TestTypeExternalReferencePreserved(t *testing.T) {
	origin := cil.NewModule("origin.dll")
	outside := origin.AddType(&cil.TypeDef{Name: "Outside", Namespace: "Lib"})
	outside.BaseType = systemObject(origin)

	subject := origin.AddType(&cil.TypeDef{Name: "Subject", Namespace: "Lib"})
	subject.BaseType = systemObject(origin)
	m := subject.AddMethod(&cil.MethodDef{
		Name:      "Make",
		Signature: &cil.MethodSig{Return: &cil.ClassSig{Type: outside}},
	})
	m.RecomputeParams()
	body := &cil.MethodBody{MaxStack: 1}
	body.Add(cil.NewInstrOperand(cil.OpIsinst, outside))
	body.Add(cil.NewInstr(cil.OpRet))
	m.Body = body

	targetMod := cil.NewModule("target.dll")
	clone, err := Type(subject, targetMod)
	require.NoError(t, err)

	// Outside is not part of the injected subgraph: it must become a
	// cross-module reference back at the origin, not a duplicate clone.
	op := clone.Methods[0].Body.Instructions[0].Operand
	ref, ok := op.(*cil.TypeRef)
	require.True(t, ok, "expected a cross-module reference, got %T", op)
	assert.Equal(t, "Lib.Outside", ref.FullName())
	require.NotNil(t, ref.Scope)
	assert.Equal(t, "origin.dll", ref.Scope.Name)

	ret, ok := clone.Methods[0].Signature.Return.(*cil.ClassSig)
	require.True(t, ok)
	assert.Same(t, ref, ret.Type, "importer cache should reuse the same reference object")
}

func TestTypeSwitchTableFidelity(t *testing.T) {
	origin := cil.NewModule("origin.dll")
	typ := origin.AddType(&cil.TypeDef{Name: "Jump", Namespace: "Lib"})
	typ.BaseType = systemObject(origin)

	m := typ.AddMethod(&cil.MethodDef{
		Name:      "Pick",
		Signature: &cil.MethodSig{Return: int32Sig(), Params: []cil.TypeSig{int32Sig()}},
	})
	m.RecomputeParams()

	body := &cil.MethodBody{MaxStack: 1}
	caseA := cil.NewInstrOperand(cil.OpLdcI4, int32(10))
	caseB := cil.NewInstrOperand(cil.OpLdcI4, int32(20))
	caseC := cil.NewInstrOperand(cil.OpLdcI4, int32(30))
	body.Add(cil.NewInstrOperand(cil.OpLdarg, m.Params[0]))
	body.Add(cil.NewInstrOperand(cil.OpSwitch, []*cil.Instruction{caseA, caseB, caseC}))
	body.Add(caseA)
	body.Add(cil.NewInstr(cil.OpRet))
	body.Add(caseB)
	body.Add(cil.NewInstr(cil.OpRet))
	body.Add(caseC)
	body.Add(cil.NewInstr(cil.OpRet))
	m.Body = body

	targetMod := cil.NewModule("target.dll")
	clone, err := Type(typ, targetMod)
	require.NoError(t, err)

	cb := clone.Methods[0].Body
	table, ok := cb.Instructions[1].Operand.([]*cil.Instruction)
	require.True(t, ok, "switch operand should stay a branch table")
	require.Len(t, table, 3)
	assert.Same(t, cb.Instructions[2], table[0])
	assert.Same(t, cb.Instructions[4], table[1])
	assert.Same(t, cb.Instructions[6], table[2])

	// ldarg now targets the clone's own parameter cache.
	assert.Same(t, clone.Methods[0].Params[0], cb.Instructions[0].Operand)
}

func TestTypeExceptionRegionFidelity(t *testing.T) {
	origin := cil.NewModule("origin.dll")
	typ := origin.AddType(&cil.TypeDef{Name: "Guarded", Namespace: "Lib"})
	typ.BaseType = systemObject(origin)

	m := typ.AddMethod(&cil.MethodDef{
		Name:      "Run",
		Signature: &cil.MethodSig{Return: &cil.PrimSig{Kind: cil.PrimVoid}},
	})
	m.RecomputeParams()

	body := &cil.MethodBody{MaxStack: 1, InitLocals: true}
	tryStart := body.Add(cil.NewInstr(cil.OpNop))
	body.Add(cil.NewInstrOperand(cil.OpLeaveS, nil))
	catchStart := body.Add(cil.NewInstr(cil.OpPop))
	body.Add(cil.NewInstrOperand(cil.OpLeave, nil))
	finallyStart := body.Add(cil.NewInstr(cil.OpNop))
	body.Add(cil.NewInstr(cil.OpEndfinally))
	end := body.Add(cil.NewInstr(cil.OpRet))
	body.Instructions[1].Operand = end
	body.Instructions[3].Operand = end

	exceptionRef := &cil.TypeRef{Name: "Exception", Namespace: "System", Scope: origin.ModuleRef("mscorlib")}
	body.ExceptionHandlers = append(body.ExceptionHandlers,
		&cil.ExceptionHandler{
			Kind:         cil.HandlerCatch,
			TryStart:     tryStart,
			TryEnd:       catchStart,
			HandlerStart: catchStart,
			HandlerEnd:   finallyStart,
			CatchType:    exceptionRef,
		},
		&cil.ExceptionHandler{
			Kind:         cil.HandlerFinally,
			TryStart:     tryStart,
			TryEnd:       finallyStart,
			HandlerStart: finallyStart,
			HandlerEnd:   end,
		},
	)
	m.Body = body

	targetMod := cil.NewModule("target.dll")
	clone, err := Type(typ, targetMod)
	require.NoError(t, err)

	cb := clone.Methods[0].Body
	require.Len(t, cb.ExceptionHandlers, 2)

	catch := cb.ExceptionHandlers[0]
	assert.Equal(t, cil.HandlerCatch, catch.Kind)
	assert.Same(t, cb.Instructions[0], catch.TryStart)
	assert.Same(t, cb.Instructions[2], catch.TryEnd)
	assert.Same(t, cb.Instructions[2], catch.HandlerStart)
	assert.Same(t, cb.Instructions[4], catch.HandlerEnd)
	ctype, ok := catch.CatchType.(*cil.TypeRef)
	require.True(t, ok)
	assert.Equal(t, "System.Exception", ctype.FullName())
	assert.Same(t, targetMod.ModuleRef("mscorlib"), ctype.Scope)

	fin := cb.ExceptionHandlers[1]
	assert.Equal(t, cil.HandlerFinally, fin.Kind)
	assert.Same(t, cb.Instructions[4], fin.HandlerStart)
	assert.Same(t, cb.Instructions[6], fin.HandlerEnd)
	assert.Nil(t, fin.CatchType)
}

func TestMethodSingleInjection(t *testing.T) {
	_, helper := buildHelper(t)
	targetMod := cil.NewModule("target.dll")

	clone, err := Method(helper.Methods[0], targetMod)
	require.NoError(t, err)
	require.NotNil(t, clone)

	// Detached: no owning type was created or attached.
	assert.Nil(t, clone.DeclaringType)
	assert.Equal(t, "Increment", clone.Name)
	require.NotNil(t, clone.Body)
	assert.Len(t, clone.Body.Instructions, len(helper.Methods[0].Body.Instructions))

	// The referenced field lies outside the injected subgraph here, so it
	// becomes a member reference into the origin module.
	op := clone.Body.Instructions[1].Operand
	ref, ok := op.(*cil.MemberRef)
	require.True(t, ok, "expected a member reference, got %T", op)
	assert.Equal(t, "count", ref.Name)
	assert.True(t, ref.IsField())
}

func TestMembersMergeExclusion(t *testing.T) {
	_, helper := buildHelper(t)
	targetMod := cil.NewModule("target.dll")

	existing := targetMod.AddType(&cil.TypeDef{Name: "Host", Namespace: "App"})
	existingBase := systemObject(targetMod)
	existing.BaseType = existingBase
	existingAttrs := existing.Attributes

	members, err := Members(helper, existing, targetMod)
	require.NoError(t, err)

	// Returned set: Increment, count, Inner, and Inner's Get - never the
	// caller-supplied root.
	require.Len(t, members, 4)
	for _, def := range members {
		require.NotSame(t, cil.Definition(existing), def)
	}

	// Members were attached to the existing type.
	require.Len(t, existing.Methods, 1)
	require.Len(t, existing.Fields, 1)
	require.Len(t, existing.NestedTypes, 1)
	assert.Equal(t, "Increment", existing.Methods[0].Name)
	assert.Equal(t, "Inner", existing.NestedTypes[0].Name)
	assert.Same(t, existing, existing.Methods[0].DeclaringType)

	// The root's own type-level facts are untouched.
	assert.Same(t, cil.TypeDefOrRef(existingBase), existing.BaseType)
	assert.Equal(t, existingAttrs, existing.Attributes)

	// The nested type still had its own facts rewritten.
	inner := existing.NestedTypes[0]
	require.NotNil(t, inner.BaseType)
	ref, ok := inner.BaseType.(*cil.TypeRef)
	require.True(t, ok)
	assert.Same(t, targetMod.ModuleRef("mscorlib"), ref.Scope)
}

func TestIndependentInjections(t *testing.T) {
	_, helper := buildHelper(t)
	targetA := cil.NewModule("a.dll")
	targetB := cil.NewModule("b.dll")

	cloneA, err := Type(helper, targetA)
	require.NoError(t, err)
	cloneB, err := Type(helper, targetB)
	require.NoError(t, err)

	require.NotSame(t, cloneA, cloneB)
	require.NotSame(t, cloneA.Methods[0], cloneB.Methods[0])
	require.NotSame(t, cloneA.Fields[0], cloneB.Fields[0])

	// No mapping leakage: each clone's body references its own field clone.
	for _, ins := range cloneA.Methods[0].Body.Instructions {
		if ins.OpCode == cil.OpLdsfld {
			assert.Same(t, cloneA.Fields[0], ins.Operand)
		}
	}
	for _, ins := range cloneB.Methods[0].Body.Instructions {
		if ins.OpCode == cil.OpLdsfld {
			assert.Same(t, cloneB.Fields[0], ins.Operand)
		}
	}
}

func TestMalformedBodyFailsFast(t *testing.T) {
	origin := cil.NewModule("origin.dll")
	typ := origin.AddType(&cil.TypeDef{Name: "Broken", Namespace: "Lib"})
	typ.BaseType = systemObject(origin)

	m := typ.AddMethod(&cil.MethodDef{
		Name:      "Bad",
		Signature: &cil.MethodSig{Return: &cil.PrimSig{Kind: cil.PrimVoid}},
	})
	m.RecomputeParams()

	foreign := cil.NewInstr(cil.OpRet) // never added to the body
	body := &cil.MethodBody{MaxStack: 1}
	body.Add(cil.NewInstrOperand(cil.OpBr, foreign))
	body.Add(cil.NewInstr(cil.OpRet))
	m.Body = body

	_, err := Type(typ, cil.NewModule("target.dll"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedBody), "got: %v", err)
}

func TestMalformedHandlerBoundaryFailsFast(t *testing.T) {
	origin := cil.NewModule("origin.dll")
	typ := origin.AddType(&cil.TypeDef{Name: "Broken", Namespace: "Lib"})

	m := typ.AddMethod(&cil.MethodDef{
		Name:      "Bad",
		Signature: &cil.MethodSig{Return: &cil.PrimSig{Kind: cil.PrimVoid}},
	})
	m.RecomputeParams()

	body := &cil.MethodBody{MaxStack: 1}
	start := body.Add(cil.NewInstr(cil.OpNop))
	body.Add(cil.NewInstr(cil.OpRet))
	body.ExceptionHandlers = append(body.ExceptionHandlers, &cil.ExceptionHandler{
		Kind:         cil.HandlerFinally,
		TryStart:     start,
		HandlerStart: cil.NewInstr(cil.OpNop), // not part of the body
	})
	m.Body = body

	_, err := Type(typ, cil.NewModule("target.dll"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedBody), "got: %v", err)
}

func TestNilDefinitionsAreNoOps(t *testing.T) {
	targetMod := cil.NewModule("target.dll")

	clone, err := Type(nil, targetMod)
	require.NoError(t, err)
	assert.Nil(t, clone)

	mclone, err := Method(nil, targetMod)
	require.NoError(t, err)
	assert.Nil(t, mclone)

	members, err := Members(nil, nil, targetMod)
	require.NoError(t, err)
	assert.Nil(t, members)
}

func TestPInvokeRecreatedAgainstTarget(t *testing.T) {
	origin := cil.NewModule("origin.dll")
	typ := origin.AddType(&cil.TypeDef{Name: "Native", Namespace: "Lib"})

	m := typ.AddMethod(&cil.MethodDef{
		Name:       "Beep",
		Attributes: cil.MethodStatic | cil.MethodPInvokeImpl,
		Signature:  &cil.MethodSig{Return: &cil.PrimSig{Kind: cil.PrimBool}},
		PInvoke: &cil.PInvokeInfo{
			Module:     origin.ModuleRef("kernel32.dll"),
			EntryPoint: "Beep",
			Attributes: cil.PInvokeCallConvStdcall,
		},
	})
	m.RecomputeParams()

	targetMod := cil.NewModule("target.dll")
	clone, err := Type(typ, targetMod)
	require.NoError(t, err)

	pinvoke := clone.Methods[0].PInvoke
	require.NotNil(t, pinvoke)
	assert.Equal(t, "Beep", pinvoke.EntryPoint)
	assert.Equal(t, cil.PInvokeCallConvStdcall, pinvoke.Attributes)
	// Bound to a module reference owned by the target, same name as before.
	assert.Same(t, targetMod.ModuleRef("kernel32.dll"), pinvoke.Module)
	assert.NotSame(t, origin.ModuleRef("kernel32.dll"), pinvoke.Module)
	assert.Nil(t, clone.Methods[0].Body)
}

func TestCustomAttributeBlobCopiedVerbatim(t *testing.T) {
	origin := cil.NewModule("origin.dll")
	typ := origin.AddType(&cil.TypeDef{Name: "Marked", Namespace: "Lib"})

	ctor := &cil.MemberRef{
		Name: ".ctor",
		Class: &cil.TypeRef{
			Name: "ObsoleteAttribute", Namespace: "System",
			Scope: origin.ModuleRef("mscorlib"),
		},
		Method: &cil.MethodSig{HasThis: true, Return: &cil.PrimSig{Kind: cil.PrimVoid}},
	}
	blob := []byte{0x01, 0x00, 0x00, 0x00}
	typ.CustomAttributes = append(typ.CustomAttributes, &cil.CustomAttribute{Ctor: ctor, Blob: blob})

	targetMod := cil.NewModule("target.dll")
	clone, err := Type(typ, targetMod)
	require.NoError(t, err)

	require.Len(t, clone.CustomAttributes, 1)
	ca := clone.CustomAttributes[0]
	assert.Equal(t, blob, ca.Blob)
	require.NotSame(t, &blob[0], &ca.Blob[0], "blob must be copied, not shared")

	newCtor, ok := ca.Ctor.(*cil.MemberRef)
	require.True(t, ok)
	assert.Equal(t, ".ctor", newCtor.Name)
	ref, ok := newCtor.Class.(*cil.TypeRef)
	require.True(t, ok)
	assert.Same(t, targetMod.ModuleRef("mscorlib"), ref.Scope)
}

func TestGenericParamsClonedAsPlaceholders(t *testing.T) {
	origin := cil.NewModule("origin.dll")
	typ := origin.AddType(&cil.TypeDef{Name: "Box`1", Namespace: "Lib"})
	typ.GenericParams = []*cil.GenericParam{
		{Number: 0, Flags: cil.GenericParamReferenceTypeConstraint, Name: "TValue"},
	}

	m := typ.AddMethod(&cil.MethodDef{
		Name:      "Unwrap",
		Signature: &cil.MethodSig{HasThis: true, Return: &cil.GenericVarSig{Number: 0}},
	})
	m.RecomputeParams()

	clone, err := Type(typ, cil.NewModule("target.dll"))
	require.NoError(t, err)

	require.Len(t, clone.GenericParams, 1)
	gp := clone.GenericParams[0]
	assert.Equal(t, 0, gp.Number)
	assert.Equal(t, cil.GenericParamReferenceTypeConstraint, gp.Flags)
	assert.NotEqual(t, "TValue", gp.Name, "placeholder name expected")

	ret, ok := clone.Methods[0].Signature.Return.(*cil.GenericVarSig)
	require.True(t, ok)
	assert.Equal(t, 0, ret.Number)
}

func TestBaseTypeInsideSubgraphLoopsBack(t *testing.T) {
	origin := cil.NewModule("origin.dll")
	outer := origin.AddType(&cil.TypeDef{Name: "Outer", Namespace: "Lib"})
	outer.BaseType = systemObject(origin)
	derived := outer.AddNestedType(&cil.TypeDef{Name: "Derived", Attributes: cil.TypeNestedPublic})
	// The nested type derives from its own enclosing type, which is part of
	// the injected subgraph.
	derived.BaseType = outer

	clone, err := Type(outer, cil.NewModule("target.dll"))
	require.NoError(t, err)

	require.Len(t, clone.NestedTypes, 1)
	assert.Same(t, cil.TypeDefOrRef(clone), clone.NestedTypes[0].BaseType,
		"in-subgraph base type must resolve through the clone mapping")
}
