// Package elabctx implements the local elaboration context: the
// bundle of evaluation-time state (primitive table, bound values,
// bound types, binder names, name resolution, and the set of levels a
// fresh metavariable spine should close over) threaded through
// bidirectional checking. Its value and type environments only ever
// grow at the tail, and extending one copies it first, so a clone
// taken before the extension never sees the new binding.
package elabctx

import (
	"fmt"
	"strings"

	"github.com/example/mltt-elab/internal/core"
	"github.com/example/mltt-elab/internal/dbvar"
	"github.com/example/mltt-elab/internal/domain"
	"github.com/example/mltt-elab/internal/meta"
	"github.com/example/mltt-elab/internal/nbe"
	"github.com/example/mltt-elab/internal/prim"
	"github.com/example/mltt-elab/internal/tracelog"
	"github.com/example/mltt-elab/internal/unify"
)

// Context is the local elaboration context threaded through checking.
// Its value and type environments are append-only slices that are
// copied on extension, so copying a Context (e.g. before descending
// into a subterm that shouldn't see that subterm's own binders) shares
// them by slice header; see Clone for what is copied.
type Context struct {
	Metas *meta.Store

	prims         []prim.Entry
	values        domain.Env
	types         domain.Env
	names         []string
	namesToLevels map[string]dbvar.Level
	boundLevels   []dbvar.Level
}

// Empty returns a context with no primitives and no bindings,
// sharing metas with the given store.
func Empty(metas *meta.Store) *Context {
	return &Context{
		Metas:         metas,
		namesToLevels: map[string]dbvar.Level{},
	}
}

// New returns a context seeded with the default primitive environment
// (spec.md section 6.1: String, Char, Bool, true, false, the sized
// numerics), each bound as a definition under its own name, plus a
// fresh metavariable store.
func New() *Context {
	ctx := Empty(meta.New())
	ctx.prims = prim.Default().Entries()
	for _, e := range ctx.prims {
		ctx.AddDefn(e.Name, e.Value, e.Type)
	}
	return ctx
}

// NewWithPrims is like New but loads its primitive environment from
// env instead of the built-in default, for callers that want a
// reduced or extended primitive table (see internal/prim.Load).
func NewWithPrims(env prim.Env) *Context {
	ctx := Empty(meta.New())
	ctx.prims = env.Entries()
	for _, e := range ctx.prims {
		ctx.AddDefn(e.Name, e.Value, e.Type)
	}
	return ctx
}

// Clone returns an independent copy of the context: extending the
// clone (adding a binder, a definition, a name) never affects the
// receiver or any other clone taken from it. The value and type
// environments are shared by slice header, since extending them copies
// first; the names slice, the bound-levels slice and the name-to-level
// map are copied, since appends and map writes would otherwise alias
// across clones. Mirrors
// the reference elaborator's reliance on a cheaply cloneable,
// persistent context for each new lexical scope entered while
// checking a binder's body.
func (c *Context) Clone() *Context {
	namesToLevels := make(map[string]dbvar.Level, len(c.namesToLevels))
	for k, v := range c.namesToLevels {
		namesToLevels[k] = v
	}
	return &Context{
		Metas:         c.Metas,
		prims:         c.prims,
		values:        c.values,
		types:         c.types,
		names:         append([]string(nil), c.names...),
		namesToLevels: namesToLevels,
		boundLevels:   append([]dbvar.Level(nil), c.boundLevels...),
	}
}

// nbeCtx builds the nbe.Ctx view of this context's primitive table,
// keyed by name as internal/nbe.Eval expects for core.Prim terms.
func (c *Context) nbeCtx() *nbe.Ctx {
	prims := make(map[string]domain.Value, len(c.prims))
	for _, e := range c.prims {
		prims[e.Name] = e.Value
	}
	return &nbe.Ctx{Prims: prims, Metas: c.Metas}
}

// Size returns the number of values currently bound.
func (c *Context) Size() dbvar.Size { return c.values.Size() }

// AddName records a name-to-level substitution without touching the
// value or type environments. AddDefn and AddParam call it for the
// named binder they add.
func (c *Context) AddName(name string, level dbvar.Level) {
	c.names = append(c.names, name)
	c.namesToLevels[name] = level
}

// AddFreshDefn extends the values and types environments with an
// unnamed let-binding. Does not extend boundLevels: a fresh meta's
// spine should never close over a let-bound value, since let-bindings
// always inline during evaluation (see internal/nbe) and so carry no
// stable level of their own to the unifier.
func (c *Context) AddFreshDefn(value, ty domain.Value) {
	tracelog.Trace("add fresh definition")
	c.values = c.values.Extend(value)
	c.types = c.types.Extend(ty)
}

// AddDefn extends the context with a named let-binding.
func (c *Context) AddDefn(name string, value, ty domain.Value) {
	tracelog.Trace("add definition", "name", name)
	level := c.values.Size().NextLevel()
	c.AddName(name, level)
	c.values = c.values.Extend(value)
	c.types = c.types.Extend(ty)
}

// AddFreshParam extends the context with an unnamed lambda/Pi binder,
// returning the fresh variable value for the new slot. Unlike
// AddFreshDefn, this appends the new level to boundLevels, since
// parameters (unlike let-bindings) are real binders a fresh meta's
// spine must be able to depend on.
func (c *Context) AddFreshParam(ty domain.Value) domain.Value {
	tracelog.Trace("add fresh parameter")
	level := c.values.Size().NextLevel()
	value := domain.Var(level)
	c.values = c.values.Extend(value)
	c.types = c.types.Extend(ty)
	c.boundLevels = append(c.boundLevels, level)
	return value
}

// AddParam extends the context with a named lambda/Pi binder,
// returning the fresh variable value for the new slot.
func (c *Context) AddParam(name string, ty domain.Value) domain.Value {
	tracelog.Trace("add parameter", "name", name)
	level := c.values.Size().NextLevel()
	c.AddName(name, level)
	value := domain.Var(level)
	c.values = c.values.Extend(value)
	c.types = c.types.Extend(ty)
	c.boundLevels = append(c.boundLevels, level)
	return value
}

// NewMeta inserts a fresh unsolved meta of the given expected type and
// returns it applied, as an explicit FunElim spine, to every level
// currently in boundLevels - the spine the unifier later expects to
// find when solving this meta (spec.md section 4.G).
func (c *Context) NewMeta(origin meta.Span, ty domain.Value) core.Term {
	index := c.Metas.AddUnsolved(origin, ty)
	var term core.Term = core.Meta{Index: index}
	size := c.values.Size()
	for _, level := range c.boundLevels {
		term = core.FunElim{Fun: term, Mode: core.Explicit, Arg: core.Var{Index: size.Index(level)}}
	}
	return term
}

// LookupBinder resolves a user-defined name to the de Bruijn index and
// type it currently has in scope.
func (c *Context) LookupBinder(name string) (dbvar.Index, domain.Value, bool) {
	level, ok := c.namesToLevels[name]
	if !ok {
		return 0, nil, false
	}
	index := c.values.Size().Index(level)
	ty, ok := c.types.Lookup(index)
	if !ok {
		return 0, nil, false
	}
	tracelog.Trace("lookup binder", "name", name, "index", index)
	return index, ty, true
}

// AppClosure applies a closure to an argument.
func (c *Context) AppClosure(closure domain.Closure, arg domain.Value) (domain.Value, error) {
	return nbe.AppClosure(c.nbeCtx(), closure, arg)
}

// EvalTerm evaluates term in the context's current value environment.
func (c *Context) EvalTerm(term core.Term) (domain.Value, error) {
	return nbe.Eval(c.nbeCtx(), term, c.values)
}

// ReadBackValue reads value back into core syntax at the context's
// current size.
func (c *Context) ReadBackValue(value domain.Value) (core.Term, error) {
	return nbe.ReadBack(c.nbeCtx(), c.values.Size(), value)
}

// NormalizeTerm fully normalizes term: evaluate, then read back.
func (c *Context) NormalizeTerm(term core.Term) (core.Term, error) {
	return nbe.Normalize(c.nbeCtx(), term, c.values)
}

// ForceValue drives value further if metavariable solutions recorded
// since it was produced now make that possible.
func (c *Context) ForceValue(value domain.Value) (domain.Value, error) {
	return nbe.Force(c.nbeCtx(), value)
}

// UnifyValues expects that value1 is definitionally equal to, or a
// cumulative subtype of, value2 in the current context.
func (c *Context) UnifyValues(value1, value2 domain.Value) error {
	return unify.Values(c.nbeCtx(), c.values.Size(), value1, value2)
}

// Describe renders value as a human-readable string by reading it
// back to core syntax and formatting that term, substituting bound
// names back in where the context has one recorded. Errors reading
// back (which should not happen for well-typed values) degrade to a
// fixed placeholder rather than propagating, since Describe exists
// only for diagnostics and must never itself be the reason an
// elaboration fails.
func (c *Context) Describe(value domain.Value) string {
	term, err := c.ReadBackValue(value)
	if err != nil {
		return "<error pretty printing>"
	}
	return c.describeTerm(term, 0)
}

// describeTerm renders term, substituting a recorded binder name for
// a Var index where one is known; otherwise it falls back to the
// term's own positional notation. depth is the number of binders
// crossed inside the described term; indices below it refer to those
// binders, which have no recorded name.
func (c *Context) describeTerm(term core.Term, depth uint32) string {
	switch t := term.(type) {
	case core.Var:
		if uint32(t.Index) >= depth && uint32(t.Index)-depth < uint32(c.values.Size()) {
			level := c.values.Size().Level(dbvar.Index(uint32(t.Index) - depth))
			for name, l := range c.namesToLevels {
				if l == level {
					return name
				}
			}
		}
		return t.String()
	case core.FunType:
		return fmt.Sprintf("(%s_ : %s) -> %s", t.Mode, c.describeTerm(t.ParamTy, depth), c.describeTerm(t.BodyTy, depth+1))
	case core.FunIntro:
		return fmt.Sprintf("\\%s. %s", t.Mode, c.describeTerm(t.Body, depth+1))
	case core.FunElim:
		return fmt.Sprintf("%s %s%s", c.describeTerm(t.Fun, depth), t.Mode, c.describeTerm(t.Arg, depth))
	case core.RecordType:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = fmt.Sprintf("%s : %s", f.Label, c.describeTerm(f.Type, depth+uint32(i)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case core.RecordIntro:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = fmt.Sprintf("%s = %s", f.Label, c.describeTerm(f.Term, depth))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case core.RecordElim:
		return fmt.Sprintf("%s.%s", c.describeTerm(t.Record, depth), t.Label)
	default:
		return term.String()
	}
}
