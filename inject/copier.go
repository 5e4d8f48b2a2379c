package inject

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/ilkit/cil"
)

// copyType is the second pass: it fills in everything the skeleton omitted.
// When includeSelf is set the type-level facts of the clone (base type,
// implemented interfaces, custom attributes) are rewritten; member bodies and
// signatures are copied either way. Nested types always rewrite their own
// type-level facts, even when the caller only wanted the root's members.
func (c *context) copyType(t *cil.TypeDef, includeSelf bool) error {
	if t == nil {
		return nil
	}
	clone, ok := c.typeClone(t)
	if !ok {
		return fmt.Errorf("inject: type %s was never registered", t.FullName())
	}

	if includeSelf {
		base, err := c.importer.ImportType(t.BaseType)
		if err != nil {
			return err
		}
		clone.BaseType = base
		for _, iface := range t.Interfaces {
			imported, err := c.importer.ImportType(iface)
			if err != nil {
				return err
			}
			clone.Interfaces = append(clone.Interfaces, imported)
		}
		attrs, err := c.copyCustomAttributes(t.CustomAttributes)
		if err != nil {
			return err
		}
		clone.CustomAttributes = attrs
	}

	for _, nested := range t.NestedTypes {
		if err := c.copyType(nested, true); err != nil {
			return err
		}
	}
	for _, m := range t.Methods {
		if err := c.copyMethod(m); err != nil {
			return err
		}
	}
	for _, f := range t.Fields {
		if err := c.copyField(f); err != nil {
			return err
		}
	}
	return nil
}

// copyMethod fills in the signature, attributes, native-call binding, and
// body of a previously registered method clone.
func (c *context) copyMethod(m *cil.MethodDef) error {
	if m == nil {
		return nil
	}
	clone, ok := c.clones[m].(*cil.MethodDef)
	if !ok {
		return fmt.Errorf("inject: method %s was never registered", m.FullName())
	}

	sig, err := c.importer.ImportMethodSig(m.Signature)
	if err != nil {
		return err
	}
	clone.Signature = sig
	clone.RecomputeParams()

	if m.PInvoke != nil {
		clone.PInvoke = &cil.PInvokeInfo{
			Module:     c.target.ModuleRef(m.PInvoke.Module.Name),
			EntryPoint: m.PInvoke.EntryPoint,
			Attributes: m.PInvoke.Attributes,
		}
	}

	attrs, err := c.copyCustomAttributes(m.CustomAttributes)
	if err != nil {
		return err
	}
	clone.CustomAttributes = attrs

	if m.Body == nil {
		return nil
	}
	body, err := c.copyBody(m)
	if err != nil {
		return err
	}
	clone.Body = body
	c.log.Debug("method copied",
		zap.String("method", m.FullName()),
		zap.Int("instructions", len(body.Instructions)))
	return nil
}

// copyBody clones a method body. Instructions are copied in two passes:
// the first pass creates every new instruction and imports type/method/field
// operands, the second resolves branch targets, switch tables, locals, and
// parameters through the body-local maps. A branch may target an instruction
// that appears later in the stream, so operand resolution cannot happen
// while the new list is still growing.
func (c *context) copyBody(m *cil.MethodDef) (*cil.MethodBody, error) {
	orig := m.Body
	clone := c.clones[m].(*cil.MethodDef)
	body := &cil.MethodBody{
		MaxStack:   orig.MaxStack,
		InitLocals: orig.InitLocals,
	}

	localMap := make(map[*cil.Local]*cil.Local, len(orig.Locals))
	for _, l := range orig.Locals {
		typ, err := c.importer.ImportTypeSig(l.Type)
		if err != nil {
			return nil, err
		}
		localMap[l] = body.AddLocal(typ, l.Name)
	}

	instrMap := make(map[*cil.Instruction]*cil.Instruction, len(orig.Instructions))
	for _, ins := range orig.Instructions {
		ni := cil.NewInstr(ins.OpCode)
		switch op := ins.Operand.(type) {
		case nil:
		case *cil.TypeDef:
			imported, err := c.importer.ImportType(op)
			if err != nil {
				return nil, err
			}
			ni.Operand = imported
		case *cil.TypeRef:
			imported, err := c.importer.ImportType(op)
			if err != nil {
				return nil, err
			}
			ni.Operand = imported
		case *cil.MethodDef:
			imported, err := c.importer.ImportMethod(op)
			if err != nil {
				return nil, err
			}
			ni.Operand = imported
		case *cil.FieldDef:
			imported, err := c.importer.ImportField(op)
			if err != nil {
				return nil, err
			}
			ni.Operand = imported
		case *cil.MemberRef:
			if op.IsField() {
				imported, err := c.importer.ImportField(op)
				if err != nil {
					return nil, err
				}
				ni.Operand = imported
			} else {
				imported, err := c.importer.ImportMethod(op)
				if err != nil {
					return nil, err
				}
				ni.Operand = imported
			}
		default:
			// Literals pass through; instruction, local, and parameter
			// operands are resolved in the second pass below.
			ni.Operand = ins.Operand
		}
		instrMap[ins] = ni
		body.Add(ni)
	}

	for i, ins := range orig.Instructions {
		ni := body.Instructions[i]
		switch op := ins.Operand.(type) {
		case *cil.Instruction:
			target, ok := instrMap[op]
			if !ok {
				return nil, fmt.Errorf("%w: branch target of %s in %s is not part of the body",
					ErrMalformedBody, ins.OpCode, m.FullName())
			}
			ni.Operand = target
		case []*cil.Instruction:
			targets := make([]*cil.Instruction, len(op))
			for j, t := range op {
				target, ok := instrMap[t]
				if !ok {
					return nil, fmt.Errorf("%w: switch target %d of %s in %s is not part of the body",
						ErrMalformedBody, j, ins.OpCode, m.FullName())
				}
				targets[j] = target
			}
			ni.Operand = targets
		case *cil.Local:
			local, ok := localMap[op]
			if !ok {
				return nil, fmt.Errorf("%w: local operand of %s in %s is not declared by the body",
					ErrMalformedBody, ins.OpCode, m.FullName())
			}
			ni.Operand = local
		case *cil.Parameter:
			if op.Index < 0 || op.Index >= len(clone.Params) {
				return nil, fmt.Errorf("%w: parameter operand %d of %s in %s is out of range",
					ErrMalformedBody, op.Index, ins.OpCode, m.FullName())
			}
			ni.Operand = clone.Params[op.Index]
		}
	}

	for _, eh := range orig.ExceptionHandlers {
		ne, err := c.copyHandler(m, eh, instrMap)
		if err != nil {
			return nil, err
		}
		body.ExceptionHandlers = append(body.ExceptionHandlers, ne)
	}

	// Normalize after every operand points at its new counterpart, so later
	// mutation of the clone cannot push a short branch out of range.
	body.ExpandShortBranches()
	return body, nil
}

func (c *context) copyHandler(m *cil.MethodDef, eh *cil.ExceptionHandler, instrMap map[*cil.Instruction]*cil.Instruction) (*cil.ExceptionHandler, error) {
	bound := func(label string, ins *cil.Instruction) (*cil.Instruction, error) {
		if ins == nil {
			return nil, nil
		}
		target, ok := instrMap[ins]
		if !ok {
			return nil, fmt.Errorf("%w: handler %s of %s in %s is not part of the body",
				ErrMalformedBody, label, eh.Kind, m.FullName())
		}
		return target, nil
	}

	ne := &cil.ExceptionHandler{Kind: eh.Kind}
	var err error
	if ne.TryStart, err = bound("try-start", eh.TryStart); err != nil {
		return nil, err
	}
	if ne.TryEnd, err = bound("try-end", eh.TryEnd); err != nil {
		return nil, err
	}
	if ne.HandlerStart, err = bound("handler-start", eh.HandlerStart); err != nil {
		return nil, err
	}
	if ne.HandlerEnd, err = bound("handler-end", eh.HandlerEnd); err != nil {
		return nil, err
	}
	if ne.FilterStart, err = bound("filter-start", eh.FilterStart); err != nil {
		return nil, err
	}
	if ne.CatchType, err = c.importer.ImportType(eh.CatchType); err != nil {
		return nil, err
	}
	return ne, nil
}

// copyField fills in the signature of a previously registered field clone.
func (c *context) copyField(f *cil.FieldDef) error {
	if f == nil {
		return nil
	}
	clone, ok := c.clones[f].(*cil.FieldDef)
	if !ok {
		return fmt.Errorf("inject: field %s was never registered", f.FullName())
	}
	sig, err := cil.RewriteFieldSig(c.importer, f.Signature)
	if err != nil {
		return err
	}
	clone.Signature = sig
	return nil
}

// copyCustomAttributes re-resolves each attribute's constructor and copies
// the argument blob verbatim.
func (c *context) copyCustomAttributes(attrs []*cil.CustomAttribute) ([]*cil.CustomAttribute, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	out := make([]*cil.CustomAttribute, len(attrs))
	for i, ca := range attrs {
		ctor, err := c.importer.ImportMethod(ca.Ctor)
		if err != nil {
			return nil, err
		}
		out[i] = &cil.CustomAttribute{Ctor: ctor, Blob: slices.Clone(ca.Blob)}
	}
	return out, nil
}
