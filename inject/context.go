package inject

import (
	"go.uber.org/zap"

	"github.com/ilkit/cil"
)

// context carries the state of one injection call: the origin and target
// modules, the reference importer bound to the target, and the clone
// mapping. A context is used by exactly one call stack and is discarded when
// the call returns; nothing in it is shared across injections.
type context struct {
	origin *cil.ModuleDef
	target *cil.ModuleDef

	importer cil.Importer

	// clones maps each original definition in the requested subgraph to its
	// freshly created counterpart. Keyed by identity.
	clones map[cil.Definition]cil.Definition

	// created records registration order, so callers get deterministic
	// member sets back.
	created []cil.Definition

	log *zap.Logger
}

func newContext(origin, target *cil.ModuleDef, opt Options) *context {
	imp := opt.Importer
	if imp == nil {
		imp = cil.NewImporter(target, cil.ImportOptions{PreferLocalDefs: true})
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ctx := &context{
		origin: origin,
		target: target,
		clones: make(map[cil.Definition]cil.Definition),
		log:    log,
	}
	// Route every import through the clone mapping first, so references into
	// the subgraph being injected resolve to the new definitions instead of
	// cross-module references back at the origin.
	ctx.importer = &mappedImporter{ctx: ctx, inner: imp}
	return ctx
}

// register records the original -> clone association and the creation order.
func (c *context) register(original, clone cil.Definition) {
	c.clones[original] = clone
	c.created = append(c.created, clone)
}

func (c *context) typeClone(t *cil.TypeDef) (*cil.TypeDef, bool) {
	clone, ok := c.clones[t].(*cil.TypeDef)
	return clone, ok
}

// mappedImporter resolves definitions inside the injected subgraph via the
// clone mapping and delegates everything else to the caller's importer.
type mappedImporter struct {
	ctx   *context
	inner cil.Importer
}

func (m *mappedImporter) ImportType(t cil.TypeDefOrRef) (cil.TypeDefOrRef, error) {
	if td, ok := t.(*cil.TypeDef); ok {
		if clone, ok := m.ctx.clones[td].(*cil.TypeDef); ok {
			return clone, nil
		}
	}
	return m.inner.ImportType(t)
}

func (m *mappedImporter) ImportMethod(md cil.MethodDefOrRef) (cil.MethodDefOrRef, error) {
	if def, ok := md.(*cil.MethodDef); ok {
		if clone, ok := m.ctx.clones[def].(*cil.MethodDef); ok {
			return clone, nil
		}
	}
	return m.inner.ImportMethod(md)
}

func (m *mappedImporter) ImportField(fd cil.FieldDefOrRef) (cil.FieldDefOrRef, error) {
	if def, ok := fd.(*cil.FieldDef); ok {
		if clone, ok := m.ctx.clones[def].(*cil.FieldDef); ok {
			return clone, nil
		}
	}
	return m.inner.ImportField(fd)
}

func (m *mappedImporter) ImportTypeSig(sig cil.TypeSig) (cil.TypeSig, error) {
	return cil.RewriteTypeSig(m, sig)
}

func (m *mappedImporter) ImportMethodSig(sig *cil.MethodSig) (*cil.MethodSig, error) {
	return cil.RewriteMethodSig(m, sig)
}
