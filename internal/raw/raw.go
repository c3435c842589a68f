// Package raw defines the surface input contract the bidirectional
// checker consumes: a tagged sum of terms carrying user-chosen names
// and a source span, prior to any de Bruijn resolution. Resolving
// names to indices, and deciding which mode (check/synth/check_ty)
// each subterm runs in, is internal/elaborate's job.
package raw

import "github.com/example/mltt-elab/internal/literal"

// Span is an opaque source-location token, passed through to error
// reports unexamined (source-location rendering is out of scope for
// this module).
type Span interface{}

// Term is the interface implemented by every raw term variant.
type Term interface {
	rawTerm()
	Loc() Span
}

type base struct{ Span Span }

func (b base) Loc() Span { return b.Span }

// Var is a reference to a binder by its user-chosen name.
type Var struct {
	base
	Name string
}

func (Var) rawTerm() {}

// NewVar builds a Var at span.
func NewVar(span Span, name string) Var { return Var{base{span}, name} }

// Let is a non-recursive let-binding: def's synthesized value is
// bound to name while elaborating body.
type Let struct {
	base
	Name string
	Def  Term
	Body Term
}

func (Let) rawTerm() {}

func NewLet(span Span, name string, def, body Term) Let {
	return Let{base{span}, name, def, body}
}

// Ann is an explicitly type-annotated term.
type Ann struct {
	base
	Term Term
	Type Term
}

func (Ann) rawTerm() {}

func NewAnn(span Span, term, ty Term) Ann { return Ann{base{span}, term, ty} }

// FunType is a dependent function (Pi) type; Name names the bound
// parameter for use inside BodyTy (empty if unused).
type FunType struct {
	base
	Name    string
	ParamTy Term
	BodyTy  Term
}

func (FunType) rawTerm() {}

func NewFunType(span Span, name string, paramTy, bodyTy Term) FunType {
	return FunType{base{span}, name, paramTy, bodyTy}
}

// FunIntro is a lambda abstraction; its parameter type is recovered
// from the expected type during checking, never written explicitly.
type FunIntro struct {
	base
	Name string
	Body Term
}

func (FunIntro) rawTerm() {}

func NewFunIntro(span Span, name string, body Term) FunIntro {
	return FunIntro{base{span}, name, body}
}

// FunApp is function application.
type FunApp struct {
	base
	Fun Term
	Arg Term
}

func (FunApp) rawTerm() {}

func NewFunApp(span Span, fun, arg Term) FunApp { return FunApp{base{span}, fun, arg} }

// PairType is a dependent pair (Sigma) type; Name names the bound
// first projection for use inside SndTy (empty if unused).
type PairType struct {
	base
	Name  string
	FstTy Term
	SndTy Term
}

func (PairType) rawTerm() {}

func NewPairType(span Span, name string, fstTy, sndTy Term) PairType {
	return PairType{base{span}, name, fstTy, sndTy}
}

// PairIntro introduces a pair value.
type PairIntro struct {
	base
	Fst Term
	Snd Term
}

func (PairIntro) rawTerm() {}

func NewPairIntro(span Span, fst, snd Term) PairIntro { return PairIntro{base{span}, fst, snd} }

// PairFst projects the first component of a pair.
type PairFst struct {
	base
	Pair Term
}

func (PairFst) rawTerm() {}

func NewPairFst(span Span, pair Term) PairFst { return PairFst{base{span}, pair} }

// PairSnd projects the second component of a pair.
type PairSnd struct {
	base
	Pair Term
}

func (PairSnd) rawTerm() {}

func NewPairSnd(span Span, pair Term) PairSnd { return PairSnd{base{span}, pair} }

// Universe is a universe at the given literal level.
type Universe struct {
	base
	Level uint32
}

func (Universe) rawTerm() {}

func NewUniverse(span Span, level uint32) Universe { return Universe{base{span}, level} }

// LiteralType references one of the built-in scalar types directly
// (as opposed to looking it up by name through Var - used when a
// surface parser wants to bypass name resolution for built-ins).
type LiteralType struct {
	base
	Type literal.Type
}

func (LiteralType) rawTerm() {}

func NewLiteralType(span Span, ty literal.Type) LiteralType { return LiteralType{base{span}, ty} }

// LiteralIntro introduces a literal value.
type LiteralIntro struct {
	base
	Value literal.Intro
}

func (LiteralIntro) rawTerm() {}

func NewLiteralIntro(span Span, value literal.Intro) LiteralIntro {
	return LiteralIntro{base{span}, value}
}
