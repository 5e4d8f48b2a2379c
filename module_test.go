package cil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTypeNested(t *testing.T) {
	m := NewModule("lib.dll")
	outer := m.AddType(&TypeDef{Name: "Outer", Namespace: "Lib"})
	inner := outer.AddNestedType(&TypeDef{Name: "Inner"})
	deep := inner.AddNestedType(&TypeDef{Name: "Deep"})

	assert.Same(t, outer, m.FindType("Lib.Outer"))
	assert.Same(t, inner, m.FindType("Lib.Outer/Inner"))
	assert.Same(t, deep, m.FindType("Lib.Outer/Inner/Deep"))
	assert.Nil(t, m.FindType("Lib.Missing"))
	assert.Nil(t, m.FindType("Lib.Outer/Missing"))
}

func TestAddTypeRehomesSubtree(t *testing.T) {
	outer := &TypeDef{Name: "Outer", Namespace: "Lib"}
	inner := outer.AddNestedType(&TypeDef{Name: "Inner"})

	m := NewModule("lib.dll")
	m.AddType(outer)

	assert.Same(t, m, outer.Module)
	assert.Same(t, m, inner.Module)
	assert.Same(t, outer, inner.DeclaringType)
}

func TestModuleRefCached(t *testing.T) {
	m := NewModule("lib.dll")
	a := m.ModuleRef("mscorlib")
	b := m.ModuleRef("mscorlib")
	c := m.ModuleRef("kernel32.dll")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "[mscorlib]", a.String())
}

func TestFullNames(t *testing.T) {
	m := NewModule("lib.dll")
	outer := m.AddType(&TypeDef{Name: "Outer", Namespace: "Lib"})
	inner := outer.AddNestedType(&TypeDef{Name: "Inner"})
	method := inner.AddMethod(&MethodDef{Name: "Run"})
	field := outer.AddField(&FieldDef{Name: "count"})

	assert.Equal(t, "Lib.Outer", outer.FullName())
	assert.Equal(t, "Lib.Outer/Inner", inner.FullName())
	assert.Equal(t, "Lib.Outer/Inner::Run", method.FullName())
	assert.Equal(t, "Lib.Outer::count", field.FullName())
	assert.Same(t, m, method.Module())
}

func TestRecomputeParamsPreservesNames(t *testing.T) {
	m := &MethodDef{
		Name: "Add",
		Signature: &MethodSig{
			Return: &PrimSig{Kind: PrimI4},
			Params: []TypeSig{&PrimSig{Kind: PrimI4}, &PrimSig{Kind: PrimI4}},
		},
	}
	m.RecomputeParams()
	require.Len(t, m.Params, 2)
	m.Params[0].Name = "a"
	m.Params[1].Name = "b"

	// Replace the signature and recompute: names carry over positionally.
	m.Signature = &MethodSig{
		Return: &PrimSig{Kind: PrimI4},
		Params: []TypeSig{&PrimSig{Kind: PrimI8}, &PrimSig{Kind: PrimI8}},
	}
	m.RecomputeParams()
	require.Len(t, m.Params, 2)
	assert.Equal(t, "a", m.Params[0].Name)
	assert.Equal(t, "int64", m.Params[0].Type.SigString())
	assert.Equal(t, 1, m.Params[1].Index)

	m.Signature = nil
	m.RecomputeParams()
	assert.Nil(t, m.Params)
}

func TestExpandShortBranches(t *testing.T) {
	body := &MethodBody{}
	ret := NewInstr(OpRet)
	body.Add(NewInstrOperand(OpBrS, ret))
	body.Add(NewInstrOperand(OpLeaveS, ret))
	body.Add(NewInstr(OpNop))
	body.Add(ret)

	body.ExpandShortBranches()

	assert.Equal(t, OpBr, body.Instructions[0].OpCode)
	assert.Equal(t, OpLeave, body.Instructions[1].OpCode)
	assert.Equal(t, OpNop, body.Instructions[2].OpCode)
	// Operands are untouched by normalization.
	assert.Same(t, ret, body.Instructions[0].Operand)
}

func TestOpCodeNames(t *testing.T) {
	assert.Equal(t, "ldc.i4", OpLdcI4.String())
	assert.Equal(t, "bne.un.s", OpBneUnS.String())

	op, ok := OpCodeByName("callvirt")
	require.True(t, ok)
	assert.Equal(t, OpCallvirt, op)

	_, ok = OpCodeByName("no-such-op")
	assert.False(t, ok)

	long, ok := OpBeqS.Expand()
	require.True(t, ok)
	assert.Equal(t, OpBeq, long)
	_, ok = OpBeq.Expand()
	assert.False(t, ok)
}
