// Package unify implements unification of semantic values, including
// higher-order pattern metavariable solving. Unification is directed:
// unifying value1 against value2 establishes that value1 is
// definitionally equal to, or a cumulative subtype of, value2.
package unify

import (
	"github.com/example/mltt-elab/internal/core"
	"github.com/example/mltt-elab/internal/dbvar"
	"github.com/example/mltt-elab/internal/domain"
	"github.com/example/mltt-elab/internal/errors"
	"github.com/example/mltt-elab/internal/literal"
	"github.com/example/mltt-elab/internal/nbe"
	"github.com/example/mltt-elab/internal/tracelog"
)

// checkSpine verifies that every elimination in spine is a function
// application whose forced argument is a bare variable neutral (an
// empty-spine Neutral(Var(level))), with no level appearing twice, and
// returns the captured levels in spine order. This is the pattern-fragment restriction (spec section
// 4.F.1): it keeps meta solving decidable.
func checkSpine(ctx *nbe.Ctx, spine domain.Spine) ([]dbvar.Level, error) {
	levels := make([]dbvar.Level, 0, len(spine))
	for _, elim := range spine {
		if elim.Kind != domain.ElimFun {
			return nil, errors.New(errors.UNI002, nil, "metavariable spine is not a pattern: non-application elimination", nil)
		}
		arg, err := nbe.Force(ctx, elim.Arg)
		if err != nil {
			return nil, err
		}
		n, ok := arg.(domain.Neutral)
		if !ok || n.Head.Kind != domain.HeadVar || len(n.Spine) != 0 {
			return nil, errors.New(errors.UNI002, nil, "metavariable spine is not a pattern: argument is not a bare bound variable", nil)
		}
		for _, l := range levels {
			if l == n.Head.Level {
				return nil, errors.New(errors.UNI002, nil, "metavariable spine is not a pattern: bound variable appears more than once", nil)
			}
		}
		levels = append(levels, n.Head.Level)
	}
	return levels, nil
}

// checkSolution scope- and occurs-checks a solution candidate: every
// free variable in rhs must resolve to one of boundLevels, and head
// must not occur in rhs. size is the environment size rhs is scoped
// under at this point in the recursion, growing by one for every
// binder crossed.
func checkSolution(size dbvar.Size, head core.MetaIndex, boundLevels []dbvar.Level, rhs core.Term) error {
	switch t := rhs.(type) {
	case core.Var:
		level := size.Level(t.Index)
		for _, l := range boundLevels {
			if l == level {
				return nil
			}
		}
		return errors.New(errors.UNI003, nil, "solution references a variable out of the metavariable's scope", nil)

	case core.Meta:
		if t.Index == head {
			return errors.New(errors.UNI004, nil, "solution refers to its own metavariable", nil)
		}
		return nil

	case core.Prim:
		return nil

	case core.Ann:
		if err := checkSolution(size, head, boundLevels, t.Term); err != nil {
			return err
		}
		return checkSolution(size, head, boundLevels, t.Type)

	case core.Let:
		return errors.Bug(errors.ELB999, nil, "attempted to unify a let expression")

	case core.LiteralType:
		return nil

	case core.LiteralIntro:
		return nil

	case core.LiteralElim:
		if err := checkSolution(size, head, boundLevels, t.Scrutinee); err != nil {
			return err
		}
		for _, c := range t.Clauses {
			if err := checkSolution(size, head, boundLevels, c.Body); err != nil {
				return err
			}
		}
		return checkSolution(size, head, boundLevels, t.Default)

	case core.FunType:
		if err := checkSolution(size, head, boundLevels, t.ParamTy); err != nil {
			return err
		}
		return checkSolution(size.Next(), head, boundLevels, t.BodyTy)

	case core.FunIntro:
		return checkSolution(size.Next(), head, boundLevels, t.Body)

	case core.FunElim:
		if err := checkSolution(size, head, boundLevels, t.Fun); err != nil {
			return err
		}
		return checkSolution(size, head, boundLevels, t.Arg)

	case core.RecordType:
		s := size
		for _, f := range t.Fields {
			if err := checkSolution(s, head, boundLevels, f.Type); err != nil {
				return err
			}
			s = s.Next()
		}
		return nil

	case core.RecordIntro:
		for _, f := range t.Fields {
			if err := checkSolution(size, head, boundLevels, f.Term); err != nil {
				return err
			}
		}
		return nil

	case core.RecordElim:
		return checkSolution(size, head, boundLevels, t.Record)

	case core.Universe:
		return nil
	}

	return errors.Bug(errors.ELB999, nil, "check_solution: unhandled term variant")
}

// solveNeutral solves Meta(head) @ spine ≡ rhs per spec section 4.F.1:
// check the spine is a pattern, read rhs back to a core term, scope-
// and occurs-check it, wrap it in k plain lambdas (one per captured
// level, positionally, not substituting the specific variable), and
// store the result evaluated in an empty environment as the meta's
// solution.
func solveNeutral(ctx *nbe.Ctx, size dbvar.Size, head core.MetaIndex, spine domain.Spine, rhs domain.Value) error {
	boundLevels, err := checkSpine(ctx, spine)
	if err != nil {
		return err
	}

	rhsTerm, err := nbe.ReadBack(ctx, size, rhs)
	if err != nil {
		return err
	}

	if err := checkSolution(size, head, boundLevels, rhsTerm); err != nil {
		return err
	}

	solution := rhsTerm
	for range boundLevels {
		solution = core.LamExplicit(solution)
	}

	solutionValue, err := nbe.Eval(ctx, solution, domain.Env{})
	if err != nil {
		return err
	}

	ctx.Metas.AddSolved(head, solutionValue)
	return nil
}

// instantiate extends size by one level and returns the fresh
// variable value for it, mirroring the teacher's pattern of
// manufacturing a probe argument before descending under a binder.
func instantiate(size dbvar.Size) (domain.Value, dbvar.Size) {
	return domain.Var(size.NextLevel()), size.Next()
}

func unifyError(_ domain.Value, _ domain.Value) error {
	return errors.New(errors.UNI001, nil, "values are not equal", nil)
}

// Values unifies value1 against value2 under the environment size
// size, extending ctx's metavariable store with any solutions found
// along the way. A nil return means value1 is definitionally equal
// to, or a cumulative subtype of, value2.
func Values(ctx *nbe.Ctx, size dbvar.Size, value1, value2 domain.Value) error {
	tracelog.Trace("unifying values")

	v1, err := nbe.Force(ctx, value1)
	if err != nil {
		return err
	}
	v2, err := nbe.Force(ctx, value2)
	if err != nil {
		return err
	}

	n1, n1ok := v1.(domain.Neutral)
	n2, n2ok := v2.(domain.Neutral)

	switch {
	case n1ok && n2ok && n1.Head.Equal(n2.Head) && len(n1.Spine) == len(n2.Spine):
		for i := range n1.Spine {
			e1, e2 := n1.Spine[i], n2.Spine[i]
			switch {
			case e1.Kind == domain.ElimFun && e2.Kind == domain.ElimFun && e1.Mode.Equal(e2.Mode):
				if err := Values(ctx, size, e1.Arg, e2.Arg); err != nil {
					return err
				}
			case e1.Kind == domain.ElimRecord && e2.Kind == domain.ElimRecord && e1.Label == e2.Label:
				// equal by construction
			case e1.Kind == domain.ElimLiteral && e2.Kind == domain.ElimLiteral:
				probe, nextSize := instantiate(size)
				val1, err := nbe.EvalLiteralElim(ctx, probe, e1.Clauses, e1.Default)
				if err != nil {
					return err
				}
				val2, err := nbe.EvalLiteralElim(ctx, probe, e2.Clauses, e2.Default)
				if err != nil {
					return err
				}
				if err := Values(ctx, nextSize, val1, val2); err != nil {
					return err
				}
			default:
				return unifyError(v1, v2)
			}
		}
		return nil

	case n1ok && n1.Head.Kind == domain.HeadMeta:
		return solveNeutral(ctx, size, n1.Head.Meta, n1.Spine, v2)

	case n2ok && n2.Head.Kind == domain.HeadMeta:
		return solveNeutral(ctx, size, n2.Head.Meta, n2.Spine, v1)
	}

	switch a := v1.(type) {
	case domain.LiteralIntro:
		b, ok := v2.(domain.LiteralIntro)
		if ok && literal.AlphaEq(a.Value, b.Value) {
			return nil
		}
		return unifyError(v1, v2)

	case domain.LiteralType:
		b, ok := v2.(domain.LiteralType)
		if ok && literal.TypeAlphaEq(a.Type, b.Type) {
			return nil
		}
		return unifyError(v1, v2)

	case domain.FunType:
		b, ok := v2.(domain.FunType)
		if !ok || !a.Mode.Equal(b.Mode) {
			break
		}
		if err := Values(ctx, size, a.ParamTy, b.ParamTy); err != nil {
			return err
		}
		param, nextSize := instantiate(size)
		bodyTy1, err := nbe.AppClosure(ctx, a.BodyTy, param)
		if err != nil {
			return err
		}
		bodyTy2, err := nbe.AppClosure(ctx, b.BodyTy, param)
		if err != nil {
			return err
		}
		return Values(ctx, nextSize, bodyTy1, bodyTy2)

	case domain.FunIntro:
		if b, ok := v2.(domain.FunIntro); ok && a.Mode.Equal(b.Mode) {
			param, nextSize := instantiate(size)
			body1, err := nbe.AppClosure(ctx, a.Body, param)
			if err != nil {
				return err
			}
			body2, err := nbe.AppClosure(ctx, b.Body, param)
			if err != nil {
				return err
			}
			return Values(ctx, nextSize, body1, body2)
		}
		// function eta: (\x. f x) == f
		param, nextSize := instantiate(size)
		body1, err := nbe.AppClosure(ctx, a.Body, param)
		if err != nil {
			return err
		}
		body2, err := nbe.EvalFunElim(ctx, v2, a.Mode, param)
		if err != nil {
			return err
		}
		return Values(ctx, nextSize, body1, body2)

	case domain.RecordTypeExtend:
		b, ok := v2.(domain.RecordTypeExtend)
		if !ok || a.Label != b.Label {
			break
		}
		if err := Values(ctx, size, a.FieldTy, b.FieldTy); err != nil {
			return err
		}
		val, nextSize := instantiate(size)
		rest1, err := nbe.AppClosure(ctx, a.Rest, val)
		if err != nil {
			return err
		}
		rest2, err := nbe.AppClosure(ctx, b.Rest, val)
		if err != nil {
			return err
		}
		return Values(ctx, nextSize, rest1, rest2)

	case domain.RecordTypeEmpty:
		if _, ok := v2.(domain.RecordTypeEmpty); ok {
			return nil
		}

	case domain.RecordIntro:
		b, ok := v2.(domain.RecordIntro)
		if !ok || len(a.Fields) != len(b.Fields) {
			break
		}
		for i := range a.Fields {
			if a.Fields[i].Label != b.Fields[i].Label {
				return unifyError(v1, v2)
			}
			if err := Values(ctx, size, a.Fields[i].Value, b.Fields[i].Value); err != nil {
				return err
			}
		}
		return nil

	case domain.Universe:
		if b, ok := v2.(domain.Universe); ok && a.Level <= b.Level {
			return nil
		}
		return errors.New(errors.UNI006, nil, "universe is not a subtype", nil)
	}

	// v1 was not a FunIntro (handled above), but v2 may still be one:
	// function eta with the abstraction on the right.
	if fi, ok := v2.(domain.FunIntro); ok {
		param, nextSize := instantiate(size)
		body2, err := nbe.AppClosure(ctx, fi.Body, param)
		if err != nil {
			return err
		}
		body1, err := nbe.EvalFunElim(ctx, v1, fi.Mode, param)
		if err != nil {
			return err
		}
		return Values(ctx, nextSize, body1, body2)
	}

	if _, ok := v1.(domain.RecordIntro); ok {
		return errors.New(errors.UNI007, nil, "left eta conversion for records is not yet supported", nil)
	}
	if _, ok := v2.(domain.RecordIntro); ok {
		return errors.New(errors.UNI008, nil, "right eta conversion for records is not yet supported", nil)
	}

	return unifyError(v1, v2)
}
