// Package literal holds the scalar primitive vocabulary shared by the
// core syntax and the semantic domain: literal types and literal
// introduction values. Kept separate from both so that neither has to
// import the other just to talk about literals.
package literal

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Type enumerates the built-in scalar types.
type Type int

const (
	String Type = iota
	Char
	Bool
	U8
	U16
	U32
	U64
	S8
	S16
	S32
	S64
	F32
	F64
)

func (t Type) String() string {
	switch t {
	case String:
		return "String"
	case Char:
		return "Char"
	case Bool:
		return "Bool"
	case U8:
		return "U8"
	case U16:
		return "U16"
	case U32:
		return "U32"
	case U64:
		return "U64"
	case S8:
		return "S8"
	case S16:
		return "S16"
	case S32:
		return "S32"
	case S64:
		return "S64"
	case F32:
		return "F32"
	case F64:
		return "F64"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Intro is an introduced literal value: a type tag plus a Go value of
// the matching comparable kind (string, rune, bool, or a sized
// numeric type). Two Intros are compared with AlphaEq rather than
// Go's ==, since string literals also go through Unicode
// normalization.
type Intro struct {
	Kind  Type
	Value interface{}
}

func (i Intro) String() string {
	return fmt.Sprintf("%v", i.Value)
}

// AlphaEq reports whether two literal introductions denote the same
// value. String literals are compared under NFC normalization so that
// two source texts differing only in combining-character order are
// treated as the same literal, matching how a surface lexer would
// have normalized them before they ever reached the elaborator.
func AlphaEq(a, b Intro) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == String {
		as, aok := a.Value.(string)
		bs, bok := b.Value.(string)
		if !aok || !bok {
			return false
		}
		return norm.NFC.String(as) == norm.NFC.String(bs)
	}
	return a.Value == b.Value
}

// TypeAlphaEq reports whether two literal types are the same.
func TypeAlphaEq(a, b Type) bool {
	return a == b
}
