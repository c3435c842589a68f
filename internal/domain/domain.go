// Package domain defines the semantic values produced by evaluating
// core terms: neutrals stuck on a free variable or metavariable,
// literal values and types, function and record values, and
// universes. Closures capture their defining environment by sharing,
// never by copy, so cloning a context for a scoped check stays cheap.
package domain

import (
	"fmt"
	"strings"

	"github.com/example/mltt-elab/internal/core"
	"github.com/example/mltt-elab/internal/dbvar"
	"github.com/example/mltt-elab/internal/literal"
)

// Value is the interface implemented by every semantic value variant.
type Value interface {
	fmt.Stringer
	domainValue()
}

// HeadKind distinguishes the two things a neutral can be stuck on.
type HeadKind int

const (
	HeadVar HeadKind = iota
	HeadMeta
)

// Head is the stuck head of a neutral value.
type Head struct {
	Kind  HeadKind
	Level dbvar.Level  // meaningful when Kind == HeadVar
	Meta  core.MetaIndex // meaningful when Kind == HeadMeta
}

func VarHead(level dbvar.Level) Head   { return Head{Kind: HeadVar, Level: level} }
func MetaHead(index core.MetaIndex) Head { return Head{Kind: HeadMeta, Meta: index} }

func (h Head) Equal(other Head) bool {
	if h.Kind != other.Kind {
		return false
	}
	if h.Kind == HeadVar {
		return h.Level == other.Level
	}
	return h.Meta == other.Meta
}

func (h Head) String() string {
	if h.Kind == HeadVar {
		return fmt.Sprintf("var@%d", h.Level)
	}
	return fmt.Sprintf("?%d", h.Meta)
}

// ElimKind distinguishes the shapes of eliminations that can appear in
// a neutral spine.
type ElimKind int

const (
	ElimFun ElimKind = iota
	ElimRecord
	ElimLiteral
)

// LiteralClause pairs a matched literal value with the already
// evaluated body value to use when the scrutinee equals it. Unlike
// the core-syntax LiteralClause, bodies here are values, not terms:
// literal matching binds no new variable, so a clause's body can be
// evaluated eagerly the moment the elimination is built, with no
// closure required.
type LiteralClause struct {
	Value   literal.Intro
	Body    Value
}

// Elim is one entry of a neutral's spine.
type Elim struct {
	Kind    ElimKind
	Mode    core.AppMode    // ElimFun
	Arg     Value           // ElimFun
	Label   string          // ElimRecord
	Clauses []LiteralClause // ElimLiteral: match arms
	Default Value           // ElimLiteral: fallback
}

// Spine is an ordered list of eliminations pending on a neutral head.
type Spine []Elim

// Neutral is a stuck computation: a head plus the eliminations applied
// to it so far, in application order.
type Neutral struct {
	Head  Head
	Spine Spine
}

func (Neutral) domainValue() {}
func (n Neutral) String() string {
	var b strings.Builder
	b.WriteString(n.Head.String())
	for _, e := range n.Spine {
		switch e.Kind {
		case ElimFun:
			fmt.Fprintf(&b, " %s%s", e.Mode, e.Arg)
		case ElimRecord:
			fmt.Fprintf(&b, ".%s", e.Label)
		case ElimLiteral:
			b.WriteString(" <case>")
		}
	}
	return b.String()
}

// Var builds the neutral value for a free variable at the given
// level: Neutral(Var(level), empty spine).
func Var(level dbvar.Level) Value {
	return Neutral{Head: VarHead(level)}
}

// MetaValue builds the neutral value for an unsolved meta applied to
// no arguments yet.
func MetaValue(index core.MetaIndex) Value {
	return Neutral{Head: MetaHead(index)}
}

// LiteralType is the value form of a built-in scalar type.
type LiteralType struct{ Type literal.Type }

func (LiteralType) domainValue()       {}
func (l LiteralType) String() string { return l.Type.String() }

// LiteralIntro is the value form of an introduced literal.
type LiteralIntro struct{ Value literal.Intro }

func (LiteralIntro) domainValue()       {}
func (l LiteralIntro) String() string { return l.Value.String() }

// Env is a level-indexed list of bound values, grown only at the
// tail: environments only ever extend, so sharing a prefix between
// closures can never create a cycle.
type Env []Value

// Size is the number of entries currently bound in the environment.
func (e Env) Size() dbvar.Size { return dbvar.Size(len(e)) }

// Extend returns a new environment with value appended, without
// mutating the receiver (closures sharing e must keep seeing its old
// length).
func (e Env) Extend(value Value) Env {
	out := make(Env, len(e), len(e)+1)
	copy(out, e)
	return append(out, value)
}

// Lookup returns the value at the given index, counting from the
// innermost (most recently added) entry.
func (e Env) Lookup(index dbvar.Index) (Value, bool) {
	if uint32(index) >= uint32(len(e)) {
		return nil, false
	}
	return e[uint32(len(e))-uint32(index)-1], true
}

// Closure captures an environment and an unevaluated core subterm.
// Applying it extends the environment with the argument and evaluates
// the body in the extended environment (see package nbe).
type Closure struct {
	Env  Env
	Body core.Term
}

// FunType is the value form of a dependent function type.
type FunType struct {
	Mode    core.AppMode
	ParamTy Value
	BodyTy  Closure
}

func (FunType) domainValue() {}
func (f FunType) String() string {
	return fmt.Sprintf("(%s_ : %s) -> <closure>", f.Mode, f.ParamTy)
}

// FunIntro is the value form of a lambda abstraction.
type FunIntro struct {
	Mode core.AppMode
	Body Closure
}

func (FunIntro) domainValue()       {}
func (f FunIntro) String() string { return fmt.Sprintf("\\%s. <closure>", f.Mode) }

// RecordTypeExtend is one link of a dependent record type: a field
// with an optional name hint, its type, and the closure computing the
// rest of the type given a value for this field.
type RecordTypeExtend struct {
	NameHint string
	Label    string
	FieldTy  Value
	Rest     Closure
}

func (RecordTypeExtend) domainValue()       {}
func (r RecordTypeExtend) String() string { return fmt.Sprintf("{%s : %s, ...}", r.Label, r.FieldTy) }

// RecordTypeEmpty is the empty record type.
type RecordTypeEmpty struct{}

func (RecordTypeEmpty) domainValue()       {}
func (RecordTypeEmpty) String() string { return "{}" }

// RecordIntroField is one field of a record value.
type RecordIntroField struct {
	Label string
	Value Value
}

// RecordIntro is a record value, fields in declaration order.
type RecordIntro struct{ Fields []RecordIntroField }

func (RecordIntro) domainValue() {}
func (r RecordIntro) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s = %s", f.Label, f.Value)
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// Universe is the value form of a universe at a given cumulative
// level.
type Universe struct{ Level uint32 }

func (Universe) domainValue()       {}
func (u Universe) String() string { return fmt.Sprintf("Type%d", u.Level) }
