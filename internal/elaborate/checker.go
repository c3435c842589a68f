// Package elaborate implements the bidirectional checker: the three
// mutually recursive operations that turn a raw surface term into a
// core term, given an elaboration context. Pair forms are elaborated
// as two-field records (labeled "fst"/"snd") over the general record
// machinery in internal/core and internal/domain, rather than as a
// dedicated pair term - the checker's pair rules are still the
// reference elaborator's, just aimed at the richer record target.
package elaborate

import (
	"github.com/example/mltt-elab/internal/core"
	"github.com/example/mltt-elab/internal/domain"
	"github.com/example/mltt-elab/internal/elabctx"
	"github.com/example/mltt-elab/internal/errors"
	"github.com/example/mltt-elab/internal/raw"
)

const (
	fstLabel = "fst"
	sndLabel = "snd"
)

// asPairType recognizes a value as a two-field fst/snd record type,
// returning the first field's type. Pairs are represented as a
// two-link RecordTypeExtend chain, so the second field's type is not
// the Rest closure's own result (that result is the *tail record
// type*, a one-field RecordTypeExtend wrapping "snd") - sndTypeOf
// applies Rest and then unwraps that one extra layer to recover the
// snd field's actual type.
func asPairType(ctx *elabctx.Context, ty domain.Value) (fstTy domain.Value, sndTypeOf func(domain.Value) (domain.Value, error), ok bool) {
	outer, ok := ty.(domain.RecordTypeExtend)
	if !ok || outer.Label != fstLabel {
		return nil, nil, false
	}
	sndTypeOf = func(fstValue domain.Value) (domain.Value, error) {
		tail, err := ctx.AppClosure(outer.Rest, fstValue)
		if err != nil {
			return nil, err
		}
		tailExt, ok := tail.(domain.RecordTypeExtend)
		if !ok || tailExt.Label != sndLabel {
			return nil, errors.Bug(errors.ELB999, nil, "pair type's tail did not read back to a one-field snd record")
		}
		return tailExt.FieldTy, nil
	}
	return outer.FieldTy, sndTypeOf, true
}

// Check elaborates term against an already-known expected type,
// producing a core term of that type.
func Check(ctx *elabctx.Context, term raw.Term, expectedTy domain.Value) (core.Term, error) {
	switch t := term.(type) {
	case raw.Let:
		def, defTy, err := Synth(ctx, t.Def)
		if err != nil {
			return nil, err
		}
		defValue, err := ctx.EvalTerm(def)
		if err != nil {
			return nil, err
		}
		scope := ctx.Clone()
		scope.AddDefn(t.Name, defValue, defTy)
		body, err := Check(scope, t.Body, expectedTy)
		if err != nil {
			return nil, err
		}
		return core.Let{Def: def, Body: body}, nil

	// A Pi/Sigma type-former reached in checking position elaborates
	// exactly as it would under CheckTy, regardless of expectedTy - the
	// reference checker's own check arms for FunType/PairType do the
	// same (they re-run the check_ty rule rather than consulting the
	// expected type at all).
	case raw.FunType:
		return CheckTy(ctx, t)

	case raw.PairType:
		return CheckTy(ctx, t)

	case raw.FunIntro:
		funTy, ok := expectedTy.(domain.FunType)
		if !ok {
			return nil, errors.New(errors.ELB002, t.Loc(), "expected a function type", nil)
		}
		scope := ctx.Clone()
		param := scope.AddParam(t.Name, funTy.ParamTy)
		bodyTy, err := scope.AppClosure(funTy.BodyTy, param)
		if err != nil {
			return nil, err
		}
		body, err := Check(scope, t.Body, bodyTy)
		if err != nil {
			return nil, err
		}
		return core.FunIntro{Mode: funTy.Mode, Body: body}, nil

	case raw.PairIntro:
		fstTy, sndTypeOf, ok := asPairType(ctx, expectedTy)
		if !ok {
			return nil, errors.New(errors.ELB003, t.Loc(), "expected a pair type", nil)
		}
		fst, err := Check(ctx, t.Fst, fstTy)
		if err != nil {
			return nil, err
		}
		fstValue, err := ctx.EvalTerm(fst)
		if err != nil {
			return nil, err
		}
		sndTyValue, err := sndTypeOf(fstValue)
		if err != nil {
			return nil, err
		}
		snd, err := Check(ctx, t.Snd, sndTyValue)
		if err != nil {
			return nil, err
		}
		return core.RecordIntro{Fields: []core.RecordIntroField{
			{Label: fstLabel, Term: fst},
			{Label: sndLabel, Term: snd},
		}}, nil

	case raw.Universe:
		univ, ok := expectedTy.(domain.Universe)
		if !ok || t.Level >= univ.Level {
			return nil, errors.New(errors.ELB006, t.Loc(), "universe level is not below the expected universe's level", nil)
		}
		return core.Universe{Level: t.Level}, nil

	default:
		synthed, synthTy, err := Synth(ctx, term)
		if err != nil {
			return nil, err
		}
		if err := ctx.UnifyValues(synthTy, expectedTy); err != nil {
			return nil, err
		}
		return synthed, nil
	}
}

// Synth elaborates term in a mode that produces its own type,
// returning both the core term and the (semantic) type it inhabits.
func Synth(ctx *elabctx.Context, term raw.Term) (core.Term, domain.Value, error) {
	switch t := term.(type) {
	case raw.Var:
		index, ty, ok := ctx.LookupBinder(t.Name)
		if !ok {
			return nil, nil, errors.New(errors.ELB001, t.Loc(), "unbound variable: "+t.Name, map[string]any{"name": t.Name})
		}
		return core.Var{Index: index}, ty, nil

	case raw.Let:
		def, defTy, err := Synth(ctx, t.Def)
		if err != nil {
			return nil, nil, err
		}
		defValue, err := ctx.EvalTerm(def)
		if err != nil {
			return nil, nil, err
		}
		scope := ctx.Clone()
		scope.AddDefn(t.Name, defValue, defTy)
		body, bodyTy, err := Synth(scope, t.Body)
		if err != nil {
			return nil, nil, err
		}
		return core.Let{Def: def, Body: body}, bodyTy, nil

	case raw.Ann:
		annTerm, err := CheckTy(ctx, t.Type)
		if err != nil {
			return nil, nil, err
		}
		annValue, err := ctx.EvalTerm(annTerm)
		if err != nil {
			return nil, nil, err
		}
		checked, err := Check(ctx, t.Term, annValue)
		if err != nil {
			return nil, nil, err
		}
		return checked, annValue, nil

	case raw.FunApp:
		fun, funTy, err := Synth(ctx, t.Fun)
		if err != nil {
			return nil, nil, err
		}
		fnTy, ok := funTy.(domain.FunType)
		if !ok {
			return nil, nil, errors.New(errors.ELB002, t.Loc(), "expected a function type", nil)
		}
		arg, err := Check(ctx, t.Arg, fnTy.ParamTy)
		if err != nil {
			return nil, nil, err
		}
		argValue, err := ctx.EvalTerm(arg)
		if err != nil {
			return nil, nil, err
		}
		resultTy, err := ctx.AppClosure(fnTy.BodyTy, argValue)
		if err != nil {
			return nil, nil, err
		}
		return core.FunElim{Fun: fun, Mode: fnTy.Mode, Arg: arg}, resultTy, nil

	case raw.PairFst:
		pair, pairTy, err := Synth(ctx, t.Pair)
		if err != nil {
			return nil, nil, err
		}
		fstTy, _, ok := asPairType(ctx, pairTy)
		if !ok {
			return nil, nil, errors.New(errors.ELB003, t.Loc(), "expected a pair type", nil)
		}
		return core.RecordElim{Record: pair, Label: fstLabel}, fstTy, nil

	case raw.PairSnd:
		pair, pairTy, err := Synth(ctx, t.Pair)
		if err != nil {
			return nil, nil, err
		}
		_, sndTypeOf, ok := asPairType(ctx, pairTy)
		if !ok {
			return nil, nil, errors.New(errors.ELB003, t.Loc(), "expected a pair type", nil)
		}
		fst := core.RecordElim{Record: pair, Label: fstLabel}
		fstValue, err := ctx.EvalTerm(fst)
		if err != nil {
			return nil, nil, err
		}
		sndTyValue, err := sndTypeOf(fstValue)
		if err != nil {
			return nil, nil, err
		}
		return core.RecordElim{Record: pair, Label: sndLabel}, sndTyValue, nil

	case raw.LiteralIntro:
		return core.LiteralIntro{Value: t.Value}, domain.LiteralType{Type: t.Value.Kind}, nil

	default:
		return nil, nil, errors.New(errors.ELB007, term.Loc(), "term's type cannot be synthesized; an annotation is required here", nil)
	}
}

// CheckTy checks that term is a type (a term inhabiting some
// universe), returning the elaborated core term.
func CheckTy(ctx *elabctx.Context, term raw.Term) (core.Term, error) {
	switch t := term.(type) {
	case raw.Let:
		def, defTy, err := Synth(ctx, t.Def)
		if err != nil {
			return nil, err
		}
		defValue, err := ctx.EvalTerm(def)
		if err != nil {
			return nil, err
		}
		scope := ctx.Clone()
		scope.AddDefn(t.Name, defValue, defTy)
		body, err := CheckTy(scope, t.Body)
		if err != nil {
			return nil, err
		}
		return core.Let{Def: def, Body: body}, nil

	case raw.FunType:
		paramTy, err := CheckTy(ctx, t.ParamTy)
		if err != nil {
			return nil, err
		}
		paramTyValue, err := ctx.EvalTerm(paramTy)
		if err != nil {
			return nil, err
		}
		scope := ctx.Clone()
		scope.AddParam(t.Name, paramTyValue)
		bodyTy, err := CheckTy(scope, t.BodyTy)
		if err != nil {
			return nil, err
		}
		return core.FunType{Mode: core.Explicit, ParamTy: paramTy, BodyTy: bodyTy}, nil

	case raw.PairType:
		fstTy, err := CheckTy(ctx, t.FstTy)
		if err != nil {
			return nil, err
		}
		fstTyValue, err := ctx.EvalTerm(fstTy)
		if err != nil {
			return nil, err
		}
		scope := ctx.Clone()
		scope.AddParam(t.Name, fstTyValue)
		sndTy, err := CheckTy(scope, t.SndTy)
		if err != nil {
			return nil, err
		}
		return core.RecordType{Fields: []core.RecordTypeField{
			{Label: fstLabel, NameHint: t.Name, Type: fstTy},
			{Label: sndLabel, NameHint: "", Type: sndTy},
		}}, nil

	case raw.Universe:
		return core.Universe{Level: t.Level}, nil

	default:
		synthed, synthTy, err := Synth(ctx, term)
		if err != nil {
			return nil, err
		}
		if _, ok := synthTy.(domain.Universe); !ok {
			return nil, errors.New(errors.ELB005, term.Loc(), "expected a universe", nil)
		}
		return synthed, nil
	}
}

// CheckUnsolvedMetas is the post-elaboration pass (spec.md section
// 4.H): after a top-level term has been checked, every metavariable
// the checker inserted must have been solved.
func CheckUnsolvedMetas(ctx *elabctx.Context) error {
	for _, idx := range ctx.Metas.Unsolved() {
		return errors.New(errors.UNI005, nil, "unsolved metavariable remained after elaboration", map[string]any{"meta": idx})
	}
	return nil
}
