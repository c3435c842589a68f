package unify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/mltt-elab/internal/core"
	"github.com/example/mltt-elab/internal/dbvar"
	"github.com/example/mltt-elab/internal/domain"
	"github.com/example/mltt-elab/internal/errors"
	"github.com/example/mltt-elab/internal/literal"
	"github.com/example/mltt-elab/internal/meta"
	"github.com/example/mltt-elab/internal/nbe"
)

func newCtx() *nbe.Ctx {
	return &nbe.Ctx{Prims: map[string]domain.Value{}, Metas: meta.New()}
}

func boolVal(b bool) domain.Value {
	return domain.LiteralIntro{Value: literal.Intro{Kind: literal.Bool, Value: b}}
}

// Function eta: (\x. f x) unifies with f.
func TestFunctionEta(t *testing.T) {
	ctx := newCtx()
	f := domain.Var(0) // a free variable standing in for "f"
	etaExpanded := domain.FunIntro{
		Mode: core.Explicit,
		Body: domain.Closure{Body: core.FunElim{Fun: core.Var{Index: 1}, Mode: core.Explicit, Arg: core.Var{Index: 0}}},
	}

	env0 := domain.Env{}.Extend(f) // level 0 bound to f, so index 0 inside body (size 2) sees level 1... see below
	etaExpanded.Body.Env = env0

	require.NoError(t, Values(ctx, dbvar.Size(1), etaExpanded, f), "expected function eta to unify")
}

// Occurs check: solving ?m ≡ (\x. ?m x) fails, since the candidate
// solution would have to mention its own metavariable.
func TestOccursCheckFails(t *testing.T) {
	ctx := newCtx()
	idx := ctx.Metas.AddUnsolved(nil, domain.Universe{Level: 0})
	m := domain.MetaValue(idx)

	rhs := domain.FunIntro{Mode: core.Explicit, Body: domain.Closure{Body: core.FunElim{
		Fun: core.Meta{Index: idx}, Mode: core.Explicit, Arg: core.Var{Index: 0},
	}}}

	err := Values(ctx, dbvar.Size(0), m, rhs)
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	require.Equal(t, errors.UNI004, rep.Code)
}

// Scope check: solving ?m (bound at size 0) against a value
// mentioning a variable outside the meta's declared scope fails.
func TestScopeCheckFails(t *testing.T) {
	ctx := newCtx()
	idx := ctx.Metas.AddUnsolved(nil, domain.Universe{Level: 0})
	m := domain.Neutral{Head: domain.MetaHead(idx)} // empty spine: no captured levels

	outOfScope := domain.Var(0) // a variable the empty-spine meta cannot see

	err := Values(ctx, dbvar.Size(1), m, outOfScope)
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	require.Equal(t, errors.UNI003, rep.Code)
}

// Universe(0) is a subtype of Universe(1), but not the reverse.
func TestUniverseCumulativity(t *testing.T) {
	ctx := newCtx()
	require.NoError(t, Values(ctx, 0, domain.Universe{Level: 0}, domain.Universe{Level: 1}), "expected Universe(0) <= Universe(1)")
	require.Error(t, Values(ctx, 0, domain.Universe{Level: 1}, domain.Universe{Level: 0}), "expected Universe(1) <= Universe(0) to fail")
}

// Solving ?m true ≡ true: the spine argument true is a literal, not a
// bound variable, so the spine is not a pattern and solving fails with
// UNI002 instead of producing a constant function.
func TestSolveLiteralSpine(t *testing.T) {
	ctx := newCtx()
	idx := ctx.Metas.AddUnsolved(nil, domain.FunType{
		Mode:    core.Explicit,
		ParamTy: domain.LiteralType{Type: literal.Bool},
		BodyTy:  domain.Closure{Body: core.LiteralType{Type: literal.Bool}},
	})
	m := domain.Neutral{Head: domain.MetaHead(idx)}

	spineApplied, err := nbe.EvalFunElim(ctx, m, core.Explicit, boolVal(true))
	require.NoError(t, err)

	err = Values(ctx, dbvar.Size(0), spineApplied, boolVal(true))
	require.Error(t, err, "expected a non-pattern error: the spine argument `true` is not a bound variable")
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	require.Equal(t, errors.UNI002, rep.Code)
}

// Solving ?m x ≡ x, where x is a genuine bound-variable spine entry,
// succeeds and produces the identity function as the solution.
func TestSolvePatternSpine(t *testing.T) {
	ctx := newCtx()
	idx := ctx.Metas.AddUnsolved(nil, domain.FunType{
		Mode:    core.Explicit,
		ParamTy: domain.LiteralType{Type: literal.Bool},
		BodyTy:  domain.Closure{Body: core.LiteralType{Type: literal.Bool}},
	})
	m := domain.Neutral{Head: domain.MetaHead(idx)}

	x := domain.Var(0)
	spineApplied, err := nbe.EvalFunElim(ctx, m, core.Explicit, x)
	require.NoError(t, err)

	require.NoError(t, Values(ctx, dbvar.Size(1), spineApplied, x), "expected pattern solving to succeed")

	entry := ctx.Metas.Lookup(idx)
	require.True(t, entry.Solved, "expected meta to be solved")
	applied, err := nbe.EvalFunElim(ctx, entry.Value, core.Explicit, boolVal(true))
	require.NoError(t, err)
	lit, ok := applied.(domain.LiteralIntro)
	require.True(t, ok, "expected identity solution to return its argument, got %v", applied)
	require.Equal(t, true, lit.Value.Value)
}
