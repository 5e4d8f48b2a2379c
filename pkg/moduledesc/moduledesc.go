// Package moduledesc builds cil modules from a YAML description. The format
// exists for fixtures and tooling: it describes types, fields, methods, and
// instruction streams by name and index, and resolves them into a fully
// linked object model.
package moduledesc

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ilkit/cil"
)

// Module is the root of a module description.
type Module struct {
	Name  string `yaml:"name"`
	Types []Type `yaml:"types"`
}

// Type describes one type definition.
type Type struct {
	Name       string   `yaml:"name"`
	Namespace  string   `yaml:"namespace"`
	Base       string   `yaml:"base"`
	Interfaces []string `yaml:"interfaces"`
	Public     bool     `yaml:"public"`
	Sealed     bool     `yaml:"sealed"`
	Abstract   bool     `yaml:"abstract"`
	Fields     []Field  `yaml:"fields"`
	Methods    []Method `yaml:"methods"`
	Nested     []Type   `yaml:"nested"`
}

// Field describes one field definition.
type Field struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Static bool   `yaml:"static"`
	Public bool   `yaml:"public"`
}

// Method describes one method definition with an optional body.
type Method struct {
	Name         string        `yaml:"name"`
	Static       bool          `yaml:"static"`
	Public       bool          `yaml:"public"`
	Abstract     bool          `yaml:"abstract"`
	Returns      string        `yaml:"returns"`
	Params       []string      `yaml:"params"`
	MaxStack     int           `yaml:"maxstack"`
	InitLocals   bool          `yaml:"initlocals"`
	Locals       []Local       `yaml:"locals"`
	Instructions []Instruction `yaml:"instructions"`
	Handlers     []Handler     `yaml:"handlers"`
}

// Local describes one local variable slot.
type Local struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Instruction describes one instruction. Exactly one operand field should be
// set; branch targets are instruction indexes within the same body, and
// type/field/method operands are names resolved against the module.
type Instruction struct {
	Op      string   `yaml:"op"`
	Int     *int32   `yaml:"int"`
	Long    *int64   `yaml:"long"`
	Float   *float64 `yaml:"float"`
	Str     *string  `yaml:"str"`
	Target  *int     `yaml:"target"`
	Targets []int    `yaml:"targets"`
	Local   *int     `yaml:"local"`
	Param   *int     `yaml:"param"`
	Type    string   `yaml:"type"`
	Field   string   `yaml:"field"`
	Method  string   `yaml:"method"`
}

// Handler describes one exception-handler region by instruction indexes.
// Try and HandlerRange are [start, end) pairs.
type Handler struct {
	Kind    string `yaml:"kind"`
	Try     []int  `yaml:"try"`
	Handler []int  `yaml:"handler"`
	Filter  *int   `yaml:"filter"`
	Catch   string `yaml:"catch"`
}

// Parse decodes a module description from YAML.
func Parse(r io.Reader) (*Module, error) {
	var desc Module
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		return nil, fmt.Errorf("moduledesc: decode: %w", err)
	}
	if desc.Name == "" {
		return nil, fmt.Errorf("moduledesc: module name is required")
	}
	return &desc, nil
}

// Load reads, parses, and builds a module from a YAML file.
func Load(path string) (*cil.ModuleDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	desc, err := Parse(f)
	if err != nil {
		return nil, err
	}
	return desc.Build()
}

// Build resolves the description into a linked module. Construction is
// two-phase: every type, field, and method definition is created first, then
// signatures, bodies, and handler regions are resolved, so descriptions may
// reference definitions in any order.
func (d *Module) Build() (*cil.ModuleDef, error) {
	b := &builder{
		module: cil.NewModule(d.Name),
		types:  make(map[*Type]*cil.TypeDef),
	}
	for i := range d.Types {
		b.module.AddType(b.declareType(&d.Types[i]))
	}
	for desc, def := range b.types {
		if err := b.resolveType(desc, def); err != nil {
			return nil, err
		}
	}
	return b.module, nil
}

type builder struct {
	module *cil.ModuleDef
	types  map[*Type]*cil.TypeDef
}

func (b *builder) declareType(desc *Type) *cil.TypeDef {
	def := &cil.TypeDef{Name: desc.Name, Namespace: desc.Namespace}
	if desc.Public {
		def.Attributes |= cil.TypePublic
	}
	if desc.Sealed {
		def.Attributes |= cil.TypeSealed
	}
	if desc.Abstract {
		def.Attributes |= cil.TypeAbstract
	}
	b.types[desc] = def

	for i := range desc.Fields {
		fd := &desc.Fields[i]
		field := &cil.FieldDef{Name: fd.Name}
		if fd.Static {
			field.Attributes |= cil.FieldStatic
		}
		if fd.Public {
			field.Attributes |= cil.FieldPublic
		}
		def.AddField(field)
	}
	for i := range desc.Methods {
		md := &desc.Methods[i]
		method := &cil.MethodDef{Name: md.Name}
		if md.Static {
			method.Attributes |= cil.MethodStatic
		}
		if md.Public {
			method.Attributes |= cil.MethodPublic
		}
		if md.Abstract {
			method.Attributes |= cil.MethodAbstract
		}
		def.AddMethod(method)
	}
	for i := range desc.Nested {
		def.AddNestedType(b.declareType(&desc.Nested[i]))
	}
	return def
}

func (b *builder) resolveType(desc *Type, def *cil.TypeDef) error {
	if desc.Base != "" {
		base, err := b.typeOrRef(desc.Base)
		if err != nil {
			return fmt.Errorf("moduledesc: type %s: base: %w", def.FullName(), err)
		}
		def.BaseType = base
	}
	for _, name := range desc.Interfaces {
		iface, err := b.typeOrRef(name)
		if err != nil {
			return fmt.Errorf("moduledesc: type %s: interface: %w", def.FullName(), err)
		}
		def.Interfaces = append(def.Interfaces, iface)
	}
	for i := range desc.Fields {
		sig, err := b.typeSig(desc.Fields[i].Type)
		if err != nil {
			return fmt.Errorf("moduledesc: field %s: %w", def.Fields[i].FullName(), err)
		}
		def.Fields[i].Signature = &cil.FieldSig{Type: sig}
	}
	for i := range desc.Methods {
		if err := b.resolveMethod(&desc.Methods[i], def.Methods[i]); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) resolveMethod(desc *Method, def *cil.MethodDef) error {
	sig := &cil.MethodSig{HasThis: !desc.Static}
	ret := desc.Returns
	if ret == "" {
		ret = "void"
	}
	retSig, err := b.typeSig(ret)
	if err != nil {
		return fmt.Errorf("moduledesc: method %s: return: %w", def.FullName(), err)
	}
	sig.Return = retSig
	for _, p := range desc.Params {
		psig, err := b.typeSig(p)
		if err != nil {
			return fmt.Errorf("moduledesc: method %s: param: %w", def.FullName(), err)
		}
		sig.Params = append(sig.Params, psig)
	}
	def.Signature = sig
	def.RecomputeParams()

	if len(desc.Instructions) == 0 {
		return nil
	}
	body, err := b.buildBody(desc, def)
	if err != nil {
		return fmt.Errorf("moduledesc: method %s: %w", def.FullName(), err)
	}
	def.Body = body
	return nil
}

func (b *builder) buildBody(desc *Method, def *cil.MethodDef) (*cil.MethodBody, error) {
	body := &cil.MethodBody{MaxStack: desc.MaxStack, InitLocals: desc.InitLocals}
	for _, l := range desc.Locals {
		sig, err := b.typeSig(l.Type)
		if err != nil {
			return nil, fmt.Errorf("local %q: %w", l.Name, err)
		}
		body.AddLocal(sig, l.Name)
	}

	// Instructions first, operands second, so branch targets can point
	// forward by index.
	for i := range desc.Instructions {
		op, ok := cil.OpCodeByName(desc.Instructions[i].Op)
		if !ok {
			return nil, fmt.Errorf("instruction %d: unknown opcode %q", i, desc.Instructions[i].Op)
		}
		body.Add(cil.NewInstr(op))
	}
	for i := range desc.Instructions {
		operand, err := b.operand(&desc.Instructions[i], def, body)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		body.Instructions[i].Operand = operand
	}

	for i, h := range desc.Handlers {
		handler, err := b.handler(&h, body)
		if err != nil {
			return nil, fmt.Errorf("handler %d: %w", i, err)
		}
		body.ExceptionHandlers = append(body.ExceptionHandlers, handler)
	}
	return body, nil
}

func (b *builder) operand(desc *Instruction, def *cil.MethodDef, body *cil.MethodBody) (any, error) {
	at := func(idx int) (*cil.Instruction, error) {
		if idx < 0 || idx >= len(body.Instructions) {
			return nil, fmt.Errorf("target %d out of range", idx)
		}
		return body.Instructions[idx], nil
	}
	switch {
	case desc.Int != nil:
		return *desc.Int, nil
	case desc.Long != nil:
		return *desc.Long, nil
	case desc.Float != nil:
		return *desc.Float, nil
	case desc.Str != nil:
		return *desc.Str, nil
	case desc.Target != nil:
		return at(*desc.Target)
	case len(desc.Targets) > 0:
		targets := make([]*cil.Instruction, len(desc.Targets))
		for i, idx := range desc.Targets {
			ins, err := at(idx)
			if err != nil {
				return nil, err
			}
			targets[i] = ins
		}
		return targets, nil
	case desc.Local != nil:
		if *desc.Local < 0 || *desc.Local >= len(body.Locals) {
			return nil, fmt.Errorf("local %d out of range", *desc.Local)
		}
		return body.Locals[*desc.Local], nil
	case desc.Param != nil:
		if *desc.Param < 0 || *desc.Param >= len(def.Params) {
			return nil, fmt.Errorf("param %d out of range", *desc.Param)
		}
		return def.Params[*desc.Param], nil
	case desc.Type != "":
		return b.typeOrRef(desc.Type)
	case desc.Field != "":
		return b.fieldRef(desc.Field)
	case desc.Method != "":
		return b.methodRef(desc.Method)
	default:
		return nil, nil
	}
}

func (b *builder) handler(desc *Handler, body *cil.MethodBody) (*cil.ExceptionHandler, error) {
	kind, err := handlerKind(desc.Kind)
	if err != nil {
		return nil, err
	}
	at := func(idx int) (*cil.Instruction, error) {
		if idx < 0 || idx >= len(body.Instructions) {
			return nil, fmt.Errorf("boundary %d out of range", idx)
		}
		return body.Instructions[idx], nil
	}
	pair := func(name string, idxs []int) (*cil.Instruction, *cil.Instruction, error) {
		if len(idxs) != 2 {
			return nil, nil, fmt.Errorf("%s must be a [start, end] pair", name)
		}
		start, err := at(idxs[0])
		if err != nil {
			return nil, nil, err
		}
		end, err := at(idxs[1])
		if err != nil {
			return nil, nil, err
		}
		return start, end, nil
	}

	h := &cil.ExceptionHandler{Kind: kind}
	if h.TryStart, h.TryEnd, err = pair("try", desc.Try); err != nil {
		return nil, err
	}
	if h.HandlerStart, h.HandlerEnd, err = pair("handler", desc.Handler); err != nil {
		return nil, err
	}
	if desc.Filter != nil {
		if h.FilterStart, err = at(*desc.Filter); err != nil {
			return nil, err
		}
	}
	if desc.Catch != "" {
		if h.CatchType, err = b.typeOrRef(desc.Catch); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func handlerKind(s string) (cil.HandlerKind, error) {
	switch s {
	case "catch":
		return cil.HandlerCatch, nil
	case "filter":
		return cil.HandlerFilter, nil
	case "finally":
		return cil.HandlerFinally, nil
	case "fault":
		return cil.HandlerFault, nil
	default:
		return 0, fmt.Errorf("unknown handler kind %q", s)
	}
}

var primSigs = map[string]cil.PrimKind{
	"void":    cil.PrimVoid,
	"bool":    cil.PrimBool,
	"char":    cil.PrimChar,
	"int32":   cil.PrimI4,
	"int64":   cil.PrimI8,
	"float32": cil.PrimR4,
	"float64": cil.PrimR8,
	"string":  cil.PrimString,
	"object":  cil.PrimObject,
}

// typeSig resolves a type name into a signature. Names support a "[]" array
// suffix and an "&" by-ref suffix; "[module]Ns.Name" is a cross-module
// reference, anything else resolves against the module under construction.
func (b *builder) typeSig(name string) (cil.TypeSig, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty type name")
	}
	if elem, ok := strings.CutSuffix(name, "[]"); ok {
		inner, err := b.typeSig(elem)
		if err != nil {
			return nil, err
		}
		return &cil.SZArraySig{Elem: inner}, nil
	}
	if elem, ok := strings.CutSuffix(name, "&"); ok {
		inner, err := b.typeSig(elem)
		if err != nil {
			return nil, err
		}
		return &cil.ByRefSig{Elem: inner}, nil
	}
	if kind, ok := primSigs[name]; ok {
		return &cil.PrimSig{Kind: kind}, nil
	}
	ref, err := b.typeOrRef(name)
	if err != nil {
		return nil, err
	}
	return &cil.ClassSig{Type: ref}, nil
}

// typeOrRef resolves a plain type name: "[module]Ns.Name" becomes a
// cross-module reference, anything else must name a type declared by the
// description itself.
func (b *builder) typeOrRef(name string) (cil.TypeDefOrRef, error) {
	name = strings.TrimSpace(name)
	if rest, ok := strings.CutPrefix(name, "["); ok {
		scope, qualified, found := strings.Cut(rest, "]")
		if !found || scope == "" || qualified == "" {
			return nil, fmt.Errorf("malformed external reference %q", name)
		}
		ns, simple := splitTypeName(qualified)
		return &cil.TypeRef{Name: simple, Namespace: ns, Scope: b.module.ModuleRef(scope)}, nil
	}
	if def := b.module.FindType(name); def != nil {
		return def, nil
	}
	return nil, fmt.Errorf("unknown type %q", name)
}

func (b *builder) fieldRef(name string) (cil.FieldDefOrRef, error) {
	typ, member, err := b.memberParts(name)
	if err != nil {
		return nil, err
	}
	for _, f := range typ.Fields {
		if f.Name == member {
			return f, nil
		}
	}
	return nil, fmt.Errorf("type %s has no field %q", typ.FullName(), member)
}

func (b *builder) methodRef(name string) (cil.MethodDefOrRef, error) {
	typ, member, err := b.memberParts(name)
	if err != nil {
		return nil, err
	}
	for _, m := range typ.Methods {
		if m.Name == member {
			return m, nil
		}
	}
	return nil, fmt.Errorf("type %s has no method %q", typ.FullName(), member)
}

// memberParts splits "Ns.Type::member" and resolves the type locally.
func (b *builder) memberParts(name string) (*cil.TypeDef, string, error) {
	typeName, member, found := strings.Cut(name, "::")
	if !found || member == "" {
		return nil, "", fmt.Errorf("malformed member reference %q", name)
	}
	def := b.module.FindType(typeName)
	if def == nil {
		return nil, "", fmt.Errorf("unknown type %q in member reference", typeName)
	}
	return def, member, nil
}

func splitTypeName(qualified string) (ns, name string) {
	if idx := strings.LastIndex(qualified, "."); idx >= 0 {
		return qualified[:idx], qualified[idx+1:]
	}
	return "", qualified
}
