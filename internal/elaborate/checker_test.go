package elaborate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/example/mltt-elab/internal/core"
	"github.com/example/mltt-elab/internal/domain"
	"github.com/example/mltt-elab/internal/elabctx"
	"github.com/example/mltt-elab/internal/errors"
	"github.com/example/mltt-elab/internal/literal"
	"github.com/example/mltt-elab/internal/raw"
)

func rvar(name string) raw.Term   { return raw.NewVar(nil, name) }
func runiv(level uint32) raw.Term { return raw.NewUniverse(nil, level) }

func polyIdTypeRaw() raw.Term {
	return raw.NewFunType(nil, "A", runiv(0), raw.NewFunType(nil, "x", rvar("A"), rvar("A")))
}

func polyIdRaw() raw.Term {
	return raw.NewFunIntro(nil, "A", raw.NewFunIntro(nil, "x", rvar("x")))
}

// The polymorphic identity function, (A : Type) -> (x : A) -> A,
// checks against its own type.
func TestIdentityFunctionChecks(t *testing.T) {
	ctx := elabctx.New()

	idTy, err := CheckTy(ctx, polyIdTypeRaw())
	require.NoError(t, err)
	idTyValue, err := ctx.EvalTerm(idTy)
	require.NoError(t, err)

	_, err = Check(ctx, polyIdRaw(), idTyValue)
	require.NoError(t, err)
	require.NoError(t, CheckUnsolvedMetas(ctx))
}

// `let id = (\A. \x. x : id type) in id Bool true` synthesizes Bool,
// and the underlying application normalizes to true.
func TestLetAndApplicationNormalizeToTrue(t *testing.T) {
	ctx := elabctx.New()

	program := raw.NewLet(nil, "id",
		raw.NewAnn(nil, polyIdRaw(), polyIdTypeRaw()),
		raw.NewFunApp(nil, raw.NewFunApp(nil, rvar("id"), rvar("Bool")), rvar("true")),
	)

	term, ty, err := Synth(ctx, program)
	require.NoError(t, err)

	wantTy := domain.LiteralType{Type: literal.Bool}
	require.NoError(t, ctx.UnifyValues(ty, wantTy), "expected synthesized type to be Bool")

	normalized, err := ctx.NormalizeTerm(term)
	require.NoError(t, err)
	want := core.LiteralIntro{Value: literal.Intro{Kind: literal.Bool, Value: true}}
	if diff := cmp.Diff(want, normalized); diff != "" {
		t.Fatalf("normalized term mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, CheckUnsolvedMetas(ctx))
}

// Checking a lambda against a non-function expected type fails with
// ExpectedFunType (ELB002).
func TestFunIntroAgainstNonFunTypeFails(t *testing.T) {
	ctx := elabctx.New()
	_, err := Check(ctx, raw.NewFunIntro(nil, "x", rvar("x")), domain.Universe{Level: 0})
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	require.Equal(t, errors.ELB002, rep.Code)
}

// An unbound variable fails with UnboundVariable (ELB001).
func TestUnboundVariableFails(t *testing.T) {
	ctx := elabctx.New()
	_, _, err := Synth(ctx, rvar("nonexistent"))
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	require.Equal(t, errors.ELB001, rep.Code)
}

// A pair type checks, and projecting its first component out of an
// introduced pair synthesizes the first field's type.
func TestPairTypeAndProjection(t *testing.T) {
	ctx := elabctx.New()

	pairTyRaw := raw.NewPairType(nil, "fst", runiv(0), runiv(0))
	pairTy, err := CheckTy(ctx, pairTyRaw)
	require.NoError(t, err)
	pairTyValue, err := ctx.EvalTerm(pairTy)
	require.NoError(t, err)

	boolTyRaw := rvar("Bool")
	pairRaw := raw.NewAnn(nil, raw.NewPairIntro(nil, boolTyRaw, boolTyRaw), pairTyRaw)
	_, pairElabTy, err := Synth(ctx, pairRaw)
	require.NoError(t, err)
	require.NoError(t, ctx.UnifyValues(pairElabTy, pairTyValue), "pair type mismatch")

	fstRaw := raw.NewPairFst(nil, raw.NewAnn(nil, raw.NewPairIntro(nil, boolTyRaw, boolTyRaw), pairTyRaw))
	_, fstTy, err := Synth(ctx, fstRaw)
	require.NoError(t, err)
	_, ok := fstTy.(domain.Universe)
	require.True(t, ok, "expected fst's type to be a universe, got %T", fstTy)
}

// A Pi type reached in checking position (via an Ann node) elaborates
// instead of falling through to Synth's AmbiguousTerm: checking
// `(A : Type0) -> A -> A` against `Type1` must succeed.
func TestFunTypeChecksAgainstUniverse(t *testing.T) {
	ctx := elabctx.New()

	term, ty, err := Synth(ctx, raw.NewAnn(nil, polyIdTypeRaw(), runiv(1)))
	require.NoError(t, err)
	require.IsType(t, core.FunType{}, term)
	require.Equal(t, domain.Universe{Level: 1}, ty)
}

// A Sigma type reached in checking position elaborates the same way.
func TestPairTypeChecksAgainstUniverse(t *testing.T) {
	ctx := elabctx.New()

	pairTyRaw := raw.NewPairType(nil, "fst", runiv(0), runiv(0))
	term, ty, err := Synth(ctx, raw.NewAnn(nil, pairTyRaw, runiv(1)))
	require.NoError(t, err)
	require.IsType(t, core.RecordType{}, term)
	require.Equal(t, domain.Universe{Level: 1}, ty)
}
