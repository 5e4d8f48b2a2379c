// Package inject copies a definition subgraph out of one parsed module and
// re-creates it inside another, so that the copy is fully resolvable in its
// new home.
//
// Cloning is a two-phase graph transformation. A skeleton pass first walks
// the requested type's nested-type/method/field tree and creates an empty
// clone for every definition, registering each in a per-call clone mapping.
// A copy pass then fills in signatures, attributes, native-call bindings,
// and method bodies, translating every cross-reference through a reference
// importer; references into the cloned subgraph short-circuit through the
// mapping, everything else stays an external reference into its original
// module. Creating every skeleton before resolving any reference is what
// makes forward references between siblings safe regardless of traversal
// order.
//
// The origin module is never mutated. The target module only ever gains new
// references; the caller decides where the returned clones are attached.
package inject

import (
	"go.uber.org/zap"

	"github.com/ilkit/cil"
)

// Options configures one injection call.
type Options struct {
	// Importer translates references that leave the injected subgraph. When
	// nil, a cil.NewImporter bound to the target module with PreferLocalDefs
	// is used.
	Importer cil.Importer

	// Logger receives debug-level tracing of the skeleton and copy passes.
	// When nil, logging is disabled.
	Logger *zap.Logger
}

func pickOptions(opts []Options) Options {
	if len(opts) > 0 {
		return opts[0]
	}
	return Options{}
}

// Type clones t and its entire subtree into target and returns the cloned
// root type. The clone is complete and self-consistent but is not inserted
// into target's top-level type list; attaching it is the caller's
// responsibility.
func Type(t *cil.TypeDef, target *cil.ModuleDef, opts ...Options) (*cil.TypeDef, error) {
	if t == nil {
		return nil, nil
	}
	ctx := newContext(t.Module, target, pickOptions(opts))
	clone := ctx.buildSkeleton(t)
	if err := ctx.copyType(t, true); err != nil {
		return nil, err
	}
	return clone, nil
}

// Method clones a single method into target, with no owning type created or
// attached. The returned clone is detached; the caller attaches it wherever
// it belongs.
func Method(m *cil.MethodDef, target *cil.ModuleDef, opts ...Options) (*cil.MethodDef, error) {
	if m == nil {
		return nil, nil
	}
	ctx := newContext(m.Module(), target, pickOptions(opts))
	clone := ctx.methodSkeleton(m)
	if err := ctx.copyMethod(m); err != nil {
		return nil, err
	}
	return clone, nil
}

// Members merges t's nested types, methods, and fields into the existing
// type into, which is left untouched at the type level: its base type,
// interfaces, and attributes are never rewritten. The returned slice holds
// every newly created definition, in creation order, excluding into itself,
// so the caller can register the new members with whatever collections it
// manages.
func Members(t *cil.TypeDef, into *cil.TypeDef, target *cil.ModuleDef, opts ...Options) ([]cil.Definition, error) {
	if t == nil {
		return nil, nil
	}
	ctx := newContext(t.Module, target, pickOptions(opts))
	// Seed the mapping so the skeleton pass attaches t's members directly to
	// the caller-supplied type instead of creating a fresh root.
	ctx.clones[t] = into
	ctx.buildSkeleton(t)
	if err := ctx.copyType(t, false); err != nil {
		return nil, err
	}
	return ctx.created, nil
}
