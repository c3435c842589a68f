// Package core defines the core term representation produced by
// elaboration: a tagged sum of explicit, context-independent terms
// addressed by de Bruijn index. Terms are structurally immutable;
// nothing in this package mutates a constructed term.
package core

import (
	"fmt"
	"strings"

	"github.com/example/mltt-elab/internal/dbvar"
	"github.com/example/mltt-elab/internal/literal"
)

// AppMode distinguishes explicit function arguments from implicit
// ones. Two modes are equal iff the variant and, for Implicit, the
// name match.
type AppMode struct {
	Implicit bool
	Name     string // only meaningful when Implicit
}

// Explicit is the AppMode for ordinary, explicit arguments.
var Explicit = AppMode{}

// Implicit builds the AppMode for an implicit argument bound to name.
func Implicit(name string) AppMode {
	return AppMode{Implicit: true, Name: name}
}

func (m AppMode) Equal(other AppMode) bool {
	return m.Implicit == other.Implicit && (!m.Implicit || m.Name == other.Name)
}

func (m AppMode) String() string {
	if m.Implicit {
		return fmt.Sprintf("{%s}", m.Name)
	}
	return ""
}

// Term is the interface implemented by every core term variant. The
// unexported marker method closes the sum: every consumer must branch
// on every variant, and the compiler enforces that a new variant
// can't be added without also implementing the marker here.
type Term interface {
	fmt.Stringer
	coreTerm()
}

// MetaIndex identifies an entry in the metavariable store.
type MetaIndex uint32

// Var is a reference to a bound variable, by index.
type Var struct{ Index dbvar.Index }

func (Var) coreTerm()         {}
func (v Var) String() string { return fmt.Sprintf("#%d", v.Index) }

// Meta is a reference to an unresolved hole, solved lazily through
// the metavariable store.
type Meta struct{ Index MetaIndex }

func (Meta) coreTerm()         {}
func (m Meta) String() string { return fmt.Sprintf("?%d", m.Index) }

// Prim is a reference to a named primitive.
type Prim struct{ Name string }

func (Prim) coreTerm()         {}
func (p Prim) String() string { return p.Name }

// Ann is a type-annotated term. Erasable once checking has succeeded.
type Ann struct {
	Term Term
	Type Term
}

func (Ann) coreTerm()         {}
func (a Ann) String() string { return fmt.Sprintf("(%s : %s)", a.Term, a.Type) }

// Let is a non-recursive let-binding; Body is evaluated in a scope
// extended by Def.
type Let struct {
	Def  Term
	Body Term
}

func (Let) coreTerm()         {}
func (l Let) String() string { return fmt.Sprintf("let %s in %s", l.Def, l.Body) }

// LiteralType is a reference to one of the built-in scalar types.
type LiteralType struct{ Type literal.Type }

func (LiteralType) coreTerm()         {}
func (l LiteralType) String() string { return l.Type.String() }

// LiteralIntro introduces a literal value.
type LiteralIntro struct{ Value literal.Intro }

func (LiteralIntro) coreTerm()         {}
func (l LiteralIntro) String() string { return l.Value.String() }

// LiteralClause pairs a matched literal value with the body to run
// when the scrutinee equals it.
type LiteralClause struct {
	Value literal.Intro
	Body  Term
}

// LiteralElim pattern-matches a scrutinee against a list of literal
// value clauses, falling through to Default if none match. Matching a
// literal binds no new variable, so Default (like each clause body)
// is just a term evaluated in the same scope as the elimination
// itself.
type LiteralElim struct {
	Scrutinee Term
	Clauses   []LiteralClause
	Default   Term
}

func (LiteralElim) coreTerm() {}
func (l LiteralElim) String() string {
	parts := make([]string, len(l.Clauses))
	for i, c := range l.Clauses {
		parts[i] = fmt.Sprintf("%s => %s", c.Value, c.Body)
	}
	return fmt.Sprintf("case %s { %s, _ => %s }", l.Scrutinee, strings.Join(parts, "; "), l.Default)
}

// FunType is a dependent function (Pi) type.
type FunType struct {
	Mode    AppMode
	ParamTy Term
	BodyTy  Term // scope extended by one binder of type ParamTy
}

func (FunType) coreTerm() {}
func (f FunType) String() string {
	return fmt.Sprintf("(%s_ : %s) -> %s", f.Mode, f.ParamTy, f.BodyTy)
}

// FunIntro is a lambda abstraction.
type FunIntro struct {
	Mode AppMode
	Body Term // scope extended by one binder
}

func (FunIntro) coreTerm()         {}
func (f FunIntro) String() string { return fmt.Sprintf("\\%s. %s", f.Mode, f.Body) }

// FunElim is function application.
type FunElim struct {
	Fun  Term
	Mode AppMode
	Arg  Term
}

func (FunElim) coreTerm()         {}
func (f FunElim) String() string { return fmt.Sprintf("%s %s%s", f.Fun, f.Mode, f.Arg) }

// RecordTypeField is one field of a RecordType: its label (used for
// projection and unification), an optional display-name hint, and the
// field's type (scope extended by the preceding fields, in order).
type RecordTypeField struct {
	Label    string
	NameHint string
	Type     Term
}

// RecordType is an ordered, dependent record type.
type RecordType struct{ Fields []RecordTypeField }

func (RecordType) coreTerm() {}
func (r RecordType) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s : %s", f.Label, f.Type)
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// RecordIntroField is one field of a record value.
type RecordIntroField struct {
	Label string
	Term  Term
}

// RecordIntro constructs a record value, fields in declaration order.
type RecordIntro struct{ Fields []RecordIntroField }

func (RecordIntro) coreTerm() {}
func (r RecordIntro) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s = %s", f.Label, f.Term)
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// RecordElim projects a labeled field out of a record.
type RecordElim struct {
	Record Term
	Label  string
}

func (RecordElim) coreTerm()         {}
func (r RecordElim) String() string { return fmt.Sprintf("%s.%s", r.Record, r.Label) }

// Universe is the type of types at a given cumulative level.
type Universe struct{ Level uint32 }

func (Universe) coreTerm()         {}
func (u Universe) String() string { return fmt.Sprintf("Type%d", u.Level) }

// AppExplicit builds an explicit FunElim, the common case.
func AppExplicit(fun, arg Term) Term {
	return FunElim{Fun: fun, Mode: Explicit, Arg: arg}
}

// LamExplicit builds an explicit, one-argument FunIntro.
func LamExplicit(body Term) Term {
	return FunIntro{Mode: Explicit, Body: body}
}
