package cil

import "strconv"

// OpCode identifies one bytecode operation.
type OpCode int

const (
	OpNop OpCode = iota
	OpBreak
	OpLdarg
	OpStarg
	OpLdloc
	OpStloc
	OpLdnull
	OpLdcI4
	OpLdcI8
	OpLdcR4
	OpLdcR8
	OpLdstr
	OpDup
	OpPop
	OpCall
	OpCallvirt
	OpNewobj
	OpRet
	OpBr
	OpBrS
	OpBrfalse
	OpBrfalseS
	OpBrtrue
	OpBrtrueS
	OpBeq
	OpBeqS
	OpBneUn
	OpBneUnS
	OpBlt
	OpBltS
	OpBge
	OpBgeS
	OpSwitch
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpNeg
	OpCeq
	OpClt
	OpCgt
	OpLdfld
	OpStfld
	OpLdsfld
	OpStsfld
	OpLdflda
	OpLdelem
	OpStelem
	OpLdlen
	OpNewarr
	OpBox
	OpUnboxAny
	OpCastclass
	OpIsinst
	OpLdtoken
	OpConvI4
	OpConvI8
	OpConvR8
	OpThrow
	OpRethrow
	OpLeave
	OpLeaveS
	OpEndfinally
	OpEndfilter
)

var opcodeNames = map[OpCode]string{
	OpNop:        "nop",
	OpBreak:      "break",
	OpLdarg:      "ldarg",
	OpStarg:      "starg",
	OpLdloc:      "ldloc",
	OpStloc:      "stloc",
	OpLdnull:     "ldnull",
	OpLdcI4:      "ldc.i4",
	OpLdcI8:      "ldc.i8",
	OpLdcR4:      "ldc.r4",
	OpLdcR8:      "ldc.r8",
	OpLdstr:      "ldstr",
	OpDup:        "dup",
	OpPop:        "pop",
	OpCall:       "call",
	OpCallvirt:   "callvirt",
	OpNewobj:     "newobj",
	OpRet:        "ret",
	OpBr:         "br",
	OpBrS:        "br.s",
	OpBrfalse:    "brfalse",
	OpBrfalseS:   "brfalse.s",
	OpBrtrue:     "brtrue",
	OpBrtrueS:    "brtrue.s",
	OpBeq:        "beq",
	OpBeqS:       "beq.s",
	OpBneUn:      "bne.un",
	OpBneUnS:     "bne.un.s",
	OpBlt:        "blt",
	OpBltS:       "blt.s",
	OpBge:        "bge",
	OpBgeS:       "bge.s",
	OpSwitch:     "switch",
	OpAdd:        "add",
	OpSub:        "sub",
	OpMul:        "mul",
	OpDiv:        "div",
	OpRem:        "rem",
	OpNeg:        "neg",
	OpCeq:        "ceq",
	OpClt:        "clt",
	OpCgt:        "cgt",
	OpLdfld:      "ldfld",
	OpStfld:      "stfld",
	OpLdsfld:     "ldsfld",
	OpStsfld:     "stsfld",
	OpLdflda:     "ldflda",
	OpLdelem:     "ldelem",
	OpStelem:     "stelem",
	OpLdlen:      "ldlen",
	OpNewarr:     "newarr",
	OpBox:        "box",
	OpUnboxAny:   "unbox.any",
	OpCastclass:  "castclass",
	OpIsinst:     "isinst",
	OpLdtoken:    "ldtoken",
	OpConvI4:     "conv.i4",
	OpConvI8:     "conv.i8",
	OpConvR8:     "conv.r8",
	OpThrow:      "throw",
	OpRethrow:    "rethrow",
	OpLeave:      "leave",
	OpLeaveS:     "leave.s",
	OpEndfinally: "endfinally",
	OpEndfilter:  "endfilter",
}

var opcodeByName = func() map[string]OpCode {
	byName := make(map[string]OpCode, len(opcodeNames))
	for op, name := range opcodeNames {
		byName[name] = op
	}
	return byName
}()

// shortForms maps short-form encodings to their canonical long form.
var shortForms = map[OpCode]OpCode{
	OpBrS:      OpBr,
	OpBrfalseS: OpBrfalse,
	OpBrtrueS:  OpBrtrue,
	OpBeqS:     OpBeq,
	OpBneUnS:   OpBneUn,
	OpBltS:     OpBlt,
	OpBgeS:     OpBge,
	OpLeaveS:   OpLeave,
}

// String returns the mnemonic for the opcode.
func (op OpCode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "op(" + strconv.Itoa(int(op)) + ")"
}

// Expand returns the canonical long form of a short-form opcode. The second
// result is false when the opcode has no short form.
func (op OpCode) Expand() (OpCode, bool) {
	long, ok := shortForms[op]
	return long, ok
}

// OpCodeByName resolves a mnemonic back to its opcode.
func OpCodeByName(name string) (OpCode, bool) {
	op, ok := opcodeByName[name]
	return op, ok
}

// Instruction is one bytecode operation. Operand is nil for operand-less
// opcodes; otherwise it holds one of:
//
//   - a literal (int32, int64, float32, float64, string)
//   - a TypeDefOrRef, MethodDefOrRef, or FieldDefOrRef
//   - a *Instruction branch target
//   - a []*Instruction multi-way branch table
//   - a *Local or *Parameter
type Instruction struct {
	OpCode  OpCode
	Operand any
}

// NewInstr creates an instruction with the given opcode and no operand.
func NewInstr(op OpCode) *Instruction {
	return &Instruction{OpCode: op}
}

// NewInstrOperand creates an instruction with the given opcode and operand.
func NewInstrOperand(op OpCode, operand any) *Instruction {
	return &Instruction{OpCode: op, Operand: operand}
}
