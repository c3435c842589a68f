package core

import (
	"testing"

	"github.com/example/mltt-elab/internal/dbvar"
	"github.com/example/mltt-elab/internal/literal"
)

func TestAppModeEqual(t *testing.T) {
	if !Explicit.Equal(Explicit) {
		t.Fatal("Explicit should equal itself")
	}
	if Explicit.Equal(Implicit("x")) {
		t.Fatal("Explicit should not equal Implicit")
	}
	if !Implicit("x").Equal(Implicit("x")) {
		t.Fatal("same-named implicits should be equal")
	}
	if Implicit("x").Equal(Implicit("y")) {
		t.Fatal("differently-named implicits should not be equal")
	}
}

func TestTermStringersDontPanic(t *testing.T) {
	terms := []Term{
		Var{Index: 0},
		Meta{Index: 3},
		Prim{Name: "Bool"},
		Ann{Term: Var{Index: 0}, Type: Universe{Level: 0}},
		Let{Def: Var{Index: 0}, Body: Var{Index: 1}},
		LiteralType{Type: literal.Bool},
		LiteralIntro{Value: literal.Intro{Kind: literal.Bool, Value: true}},
		LiteralElim{
			Scrutinee: Var{Index: 0},
			Clauses: []LiteralClause{
				{Value: literal.Intro{Kind: literal.Bool, Value: true}, Body: Var{Index: 0}},
			},
			Default: Var{Index: 0},
		},
		FunType{Mode: Explicit, ParamTy: Universe{Level: 0}, BodyTy: Universe{Level: 0}},
		LamExplicit(Var{Index: 0}),
		AppExplicit(Var{Index: 0}, Var{Index: 1}),
		RecordType{Fields: []RecordTypeField{{Label: "x", Type: Universe{Level: 0}}}},
		RecordIntro{Fields: []RecordIntroField{{Label: "x", Term: Var{Index: 0}}}},
		RecordElim{Record: Var{Index: 0}, Label: "x"},
		Universe{Level: 2},
	}
	for _, term := range terms {
		if term.String() == "" {
			t.Fatalf("%T stringified to empty string", term)
		}
	}
}

func TestVarUsesIndexNotLevel(t *testing.T) {
	v := Var{Index: dbvar.Index(4)}
	if v.Index != 4 {
		t.Fatalf("unexpected index: %d", v.Index)
	}
}
