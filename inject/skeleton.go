package inject

import (
	"go.uber.org/zap"

	"github.com/ilkit/cil"
)

// genericParamSentinel replaces generic parameter names on clones. Only the
// number and flags of a parameter matter to execution.
const genericParamSentinel = "T"

// buildSkeleton is the first pass: it walks t's nested-type/method/field
// tree and creates an empty clone for every definition, registering each in
// the clone mapping before recursing further. No reference is resolved here;
// resolution must wait until every sibling clone exists.
func (c *context) buildSkeleton(t *cil.TypeDef) *cil.TypeDef {
	if t == nil {
		return nil
	}
	clone, ok := c.typeClone(t)
	if !ok {
		clone = &cil.TypeDef{
			Name:       t.Name,
			Namespace:  t.Namespace,
			Attributes: t.Attributes,
		}
		if t.Layout != nil {
			layout := *t.Layout
			clone.Layout = &layout
		}
		clone.GenericParams = cloneGenericParams(t.GenericParams)
		c.register(t, clone)
	}

	for _, nested := range t.NestedTypes {
		clone.AddNestedType(c.buildSkeleton(nested))
	}
	// Method and field lists are traversed exactly once per injection, so
	// their clones are never looked up in the mapping here.
	for _, m := range t.Methods {
		clone.AddMethod(c.methodSkeleton(m))
	}
	for _, f := range t.Fields {
		clone.AddField(c.fieldSkeleton(f))
	}

	c.log.Debug("skeleton built",
		zap.String("type", t.FullName()),
		zap.Int("definitions", len(c.clones)))
	return clone
}

// methodSkeleton creates and registers a signature-less, body-less clone.
func (c *context) methodSkeleton(m *cil.MethodDef) *cil.MethodDef {
	clone := &cil.MethodDef{
		Name:           m.Name,
		Attributes:     m.Attributes,
		ImplAttributes: m.ImplAttributes,
	}
	clone.GenericParams = cloneGenericParams(m.GenericParams)
	c.register(m, clone)
	return clone
}

// fieldSkeleton creates and registers an empty field clone.
func (c *context) fieldSkeleton(f *cil.FieldDef) *cil.FieldDef {
	clone := &cil.FieldDef{
		Name:       f.Name,
		Attributes: f.Attributes,
	}
	c.register(f, clone)
	return clone
}

// cloneGenericParams creates one placeholder per original parameter,
// preserving number and flags. Constraint lists are not carried over.
func cloneGenericParams(params []*cil.GenericParam) []*cil.GenericParam {
	if len(params) == 0 {
		return nil
	}
	out := make([]*cil.GenericParam, len(params))
	for i, gp := range params {
		out[i] = &cil.GenericParam{
			Number: gp.Number,
			Flags:  gp.Flags,
			Name:   genericParamSentinel,
		}
	}
	return out
}
