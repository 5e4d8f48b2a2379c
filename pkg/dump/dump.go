// Package dump renders a cil module as a readable IL-style listing. The
// output is for humans inspecting graft results; it is not a serialization
// format.
package dump

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ilkit/cil"
)

const mnemonicWidth = 12

// Module writes a listing of every top-level type in m.
func Module(w io.Writer, m *cil.ModuleDef) {
	fmt.Fprintf(w, ".module %s\n", m.Name)
	for _, t := range m.Types {
		fmt.Fprintln(w)
		Type(w, t, 0)
	}
}

// Type writes a listing of t and its members, indented by depth levels.
func Type(w io.Writer, t *cil.TypeDef, depth int) {
	pad := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s.class %s", pad, t.FullName())
	if t.BaseType != nil {
		fmt.Fprintf(w, " extends %s", typeOrRefString(t.BaseType))
	}
	fmt.Fprintln(w)
	for _, iface := range t.Interfaces {
		fmt.Fprintf(w, "%s  implements %s\n", pad, typeOrRefString(iface))
	}
	for _, f := range t.Fields {
		fmt.Fprintf(w, "%s  .field %s %s\n", pad, f.Signature.SigString(), f.Name)
	}
	for _, m := range t.Methods {
		method(w, m, depth+1)
	}
	for _, nested := range t.NestedTypes {
		Type(w, nested, depth+1)
	}
}

func method(w io.Writer, m *cil.MethodDef, depth int) {
	pad := strings.Repeat("  ", depth)
	sig := "<no signature>"
	if m.Signature != nil {
		sig = m.Signature.SigString()
	}
	fmt.Fprintf(w, "%s.method %s : %s\n", pad, m.Name, sig)
	if m.PInvoke != nil {
		fmt.Fprintf(w, "%s  pinvokeimpl %s::%s\n", pad, m.PInvoke.Module, m.PInvoke.EntryPoint)
	}
	if m.Body == nil {
		return
	}
	Body(w, m.Body, depth+1)
}

// Body writes the instruction stream, locals, and handler regions of a
// method body.
func Body(w io.Writer, b *cil.MethodBody, depth int) {
	pad := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s.maxstack %d\n", pad, b.MaxStack)
	for _, l := range b.Locals {
		name := l.Name
		if name == "" {
			name = fmt.Sprintf("V_%d", l.Index)
		}
		fmt.Fprintf(w, "%s.local [%d] %s %s\n", pad, l.Index, l.Type.SigString(), name)
	}

	index := make(map[*cil.Instruction]int, len(b.Instructions))
	for i, ins := range b.Instructions {
		index[ins] = i
	}
	for i, ins := range b.Instructions {
		line := runewidth.FillRight(ins.OpCode.String(), mnemonicWidth)
		if operand := operandString(ins.Operand, index); operand != "" {
			line += " " + operand
		}
		fmt.Fprintf(w, "%sIL_%04d: %s\n", pad, i, strings.TrimRight(line, " "))
	}

	for _, h := range b.ExceptionHandlers {
		fmt.Fprintf(w, "%s.try %s..%s %s", pad, label(h.TryStart, index), label(h.TryEnd, index), h.Kind)
		if h.CatchType != nil {
			fmt.Fprintf(w, " %s", typeOrRefString(h.CatchType))
		}
		if h.FilterStart != nil {
			fmt.Fprintf(w, " filter %s", label(h.FilterStart, index))
		}
		fmt.Fprintf(w, " handler %s..%s\n", label(h.HandlerStart, index), label(h.HandlerEnd, index))
	}
}

func label(ins *cil.Instruction, index map[*cil.Instruction]int) string {
	if ins == nil {
		return "end"
	}
	if i, ok := index[ins]; ok {
		return fmt.Sprintf("IL_%04d", i)
	}
	return "IL_????"
}

func operandString(operand any, index map[*cil.Instruction]int) string {
	switch op := operand.(type) {
	case nil:
		return ""
	case string:
		return fmt.Sprintf("%q", op)
	case *cil.Instruction:
		return label(op, index)
	case []*cil.Instruction:
		labels := make([]string, len(op))
		for i, target := range op {
			labels[i] = label(target, index)
		}
		return "(" + strings.Join(labels, ", ") + ")"
	case *cil.Local:
		if op.Name != "" {
			return op.Name
		}
		return fmt.Sprintf("V_%d", op.Index)
	case *cil.Parameter:
		if op.Name != "" {
			return op.Name
		}
		return fmt.Sprintf("A_%d", op.Index)
	case cil.TypeDefOrRef:
		return typeOrRefString(op)
	case *cil.MethodDef:
		return op.FullName()
	case *cil.FieldDef:
		return op.FullName()
	case *cil.MemberRef:
		return op.FullName()
	default:
		return fmt.Sprint(op)
	}
}

// typeOrRefString renders definitions by full name and references with their
// module scope.
func typeOrRefString(t cil.TypeDefOrRef) string {
	if ref, ok := t.(*cil.TypeRef); ok {
		root := ref
		for root.Parent != nil {
			root = root.Parent
		}
		if root.Scope != nil {
			return root.Scope.String() + ref.FullName()
		}
	}
	return t.FullName()
}
