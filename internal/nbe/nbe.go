// Package nbe implements normalization by evaluation: eval drives a
// core term down to a semantic value, read_back drives a value back
// up to a core term, and force drives a value to its most-evaluated
// form given the current state of the metavariable store. Evaluation
// is total over well-typed input; on well-typed input no Let ever
// escapes into a resulting value (it is always inlined) and
// annotations are erased.
package nbe

import (
	"github.com/example/mltt-elab/internal/core"
	"github.com/example/mltt-elab/internal/dbvar"
	"github.com/example/mltt-elab/internal/domain"
	"github.com/example/mltt-elab/internal/errors"
	"github.com/example/mltt-elab/internal/literal"
	"github.com/example/mltt-elab/internal/meta"
)

// Ctx bundles the two pieces of read-only context every NbE operation
// needs: the primitive environment (name -> value) and the
// metavariable store (consulted, never mutated, by force).
type Ctx struct {
	Prims map[string]domain.Value
	Metas *meta.Store
}

// Eval evaluates a closed or open core term in the given environment.
// Closed terms evaluate to ground values; open terms produce neutrals
// headed by free variables or unsolved metas.
func Eval(ctx *Ctx, term core.Term, env domain.Env) (domain.Value, error) {
	switch t := term.(type) {
	case core.Var:
		v, ok := env.Lookup(t.Index)
		if !ok {
			return nil, errors.Bug(errors.NBE001, nil, "variable index out of range during eval")
		}
		return v, nil

	case core.Meta:
		return domain.MetaValue(t.Index), nil

	case core.Prim:
		v, ok := ctx.Prims[t.Name]
		if !ok {
			return nil, errors.Bug(errors.NBE001, nil, "reference to unknown primitive "+t.Name)
		}
		return v, nil

	case core.Ann:
		return Eval(ctx, t.Term, env)

	case core.Let:
		defVal, err := Eval(ctx, t.Def, env)
		if err != nil {
			return nil, err
		}
		return Eval(ctx, t.Body, env.Extend(defVal))

	case core.LiteralType:
		return domain.LiteralType{Type: t.Type}, nil

	case core.LiteralIntro:
		return domain.LiteralIntro{Value: t.Value}, nil

	case core.LiteralElim:
		scrutinee, err := Eval(ctx, t.Scrutinee, env)
		if err != nil {
			return nil, err
		}
		clauses := make([]domain.LiteralClause, len(t.Clauses))
		for i, c := range t.Clauses {
			body, err := Eval(ctx, c.Body, env)
			if err != nil {
				return nil, err
			}
			clauses[i] = domain.LiteralClause{Value: c.Value, Body: body}
		}
		def, err := Eval(ctx, t.Default, env)
		if err != nil {
			return nil, err
		}
		return EvalLiteralElim(ctx, scrutinee, clauses, def)

	case core.FunType:
		paramTy, err := Eval(ctx, t.ParamTy, env)
		if err != nil {
			return nil, err
		}
		return domain.FunType{Mode: t.Mode, ParamTy: paramTy, BodyTy: domain.Closure{Env: env, Body: t.BodyTy}}, nil

	case core.FunIntro:
		return domain.FunIntro{Mode: t.Mode, Body: domain.Closure{Env: env, Body: t.Body}}, nil

	case core.FunElim:
		fun, err := Eval(ctx, t.Fun, env)
		if err != nil {
			return nil, err
		}
		arg, err := Eval(ctx, t.Arg, env)
		if err != nil {
			return nil, err
		}
		return EvalFunElim(ctx, fun, t.Mode, arg)

	case core.RecordType:
		if len(t.Fields) == 0 {
			return domain.RecordTypeEmpty{}, nil
		}
		field := t.Fields[0]
		fieldTy, err := Eval(ctx, field.Type, env)
		if err != nil {
			return nil, err
		}
		rest := core.RecordType{Fields: t.Fields[1:]}
		return domain.RecordTypeExtend{
			NameHint: field.NameHint,
			Label:    field.Label,
			FieldTy:  fieldTy,
			Rest:     domain.Closure{Env: env, Body: rest},
		}, nil

	case core.RecordIntro:
		fields := make([]domain.RecordIntroField, len(t.Fields))
		for i, f := range t.Fields {
			v, err := Eval(ctx, f.Term, env)
			if err != nil {
				return nil, err
			}
			fields[i] = domain.RecordIntroField{Label: f.Label, Value: v}
		}
		return domain.RecordIntro{Fields: fields}, nil

	case core.RecordElim:
		rec, err := Eval(ctx, t.Record, env)
		if err != nil {
			return nil, err
		}
		return EvalRecordElim(ctx, rec, t.Label)

	case core.Universe:
		return domain.Universe{Level: t.Level}, nil
	}

	return nil, errors.Bug(errors.NBE001, nil, "eval: unhandled term variant")
}

// AppClosure extends a closure's captured environment with arg and
// evaluates its body in the extended environment.
func AppClosure(ctx *Ctx, closure domain.Closure, arg domain.Value) (domain.Value, error) {
	return Eval(ctx, closure.Body, closure.Env.Extend(arg))
}

// EvalFunElim applies fun to arg under mode: beta-reducing through a
// FunIntro, extending a Neutral's spine, or failing on any other
// (ill-formed, since well-typed input never reaches here) shape.
func EvalFunElim(ctx *Ctx, fun domain.Value, mode core.AppMode, arg domain.Value) (domain.Value, error) {
	switch f := fun.(type) {
	case domain.FunIntro:
		if !f.Mode.Equal(mode) {
			return nil, errors.Bug(errors.NBE001, nil, "function applied under mismatched application mode")
		}
		return AppClosure(ctx, f.Body, arg)
	case domain.Neutral:
		return domain.Neutral{Head: f.Head, Spine: extendSpine(f.Spine, domain.Elim{Kind: domain.ElimFun, Mode: mode, Arg: arg})}, nil
	default:
		return nil, errors.Bug(errors.NBE001, nil, "eval_fun_elim applied to a non-function value")
	}
}

// EvalRecordElim projects label out of record, stuck-extending a
// neutral spine if record hasn't reduced to a RecordIntro yet.
func EvalRecordElim(ctx *Ctx, record domain.Value, label string) (domain.Value, error) {
	switch r := record.(type) {
	case domain.RecordIntro:
		for _, f := range r.Fields {
			if f.Label == label {
				return f.Value, nil
			}
		}
		return nil, errors.Bug(errors.NBE002, nil, "record has no field labeled "+label)
	case domain.Neutral:
		return domain.Neutral{Head: r.Head, Spine: extendSpine(r.Spine, domain.Elim{Kind: domain.ElimRecord, Label: label})}, nil
	default:
		return nil, errors.Bug(errors.NBE002, nil, "eval_record_elim applied to a non-record value")
	}
}

// EvalLiteralElim matches scrutinee against clauses, falling back to
// def, or stuck-extending a neutral spine if scrutinee is still
// stuck.
func EvalLiteralElim(ctx *Ctx, scrutinee domain.Value, clauses []domain.LiteralClause, def domain.Value) (domain.Value, error) {
	switch s := scrutinee.(type) {
	case domain.LiteralIntro:
		for _, c := range clauses {
			if literalAlphaEq(c.Value, s.Value) {
				return c.Body, nil
			}
		}
		return def, nil
	case domain.Neutral:
		return domain.Neutral{Head: s.Head, Spine: extendSpine(s.Spine, domain.Elim{Kind: domain.ElimLiteral, Clauses: clauses, Default: def})}, nil
	default:
		return nil, errors.Bug(errors.NBE003, nil, "eval_literal_elim applied to a non-literal value")
	}
}

func extendSpine(spine domain.Spine, elim domain.Elim) domain.Spine {
	out := make(domain.Spine, len(spine), len(spine)+1)
	copy(out, spine)
	return append(out, elim)
}

// Force drives value to its most-evaluated form given the current
// meta store: if value is a neutral headed by a solved meta, its
// spine is replayed against the solution (each replay step possibly
// triggering further forcing); otherwise value is returned unchanged.
// Force is idempotent.
func Force(ctx *Ctx, value domain.Value) (domain.Value, error) {
	n, ok := value.(domain.Neutral)
	if !ok || n.Head.Kind != domain.HeadMeta {
		return value, nil
	}
	entry := ctx.Metas.Lookup(n.Head.Meta)
	if !entry.Solved {
		return value, nil
	}
	cur := entry.Value
	for _, elim := range n.Spine {
		var err error
		switch elim.Kind {
		case domain.ElimFun:
			cur, err = EvalFunElim(ctx, cur, elim.Mode, elim.Arg)
		case domain.ElimRecord:
			cur, err = EvalRecordElim(ctx, cur, elim.Label)
		case domain.ElimLiteral:
			cur, err = EvalLiteralElim(ctx, cur, elim.Clauses, elim.Default)
		}
		if err != nil {
			return nil, err
		}
		cur, err = Force(ctx, cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// ReadBack drives a value back up to a core term at the given size,
// forcing it first so that any solved meta is unfolded before
// inspection. The resulting term is well-scoped under an environment
// of exactly size entries.
func ReadBack(ctx *Ctx, size dbvar.Size, value domain.Value) (core.Term, error) {
	value, err := Force(ctx, value)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case domain.Neutral:
		var head core.Term
		switch v.Head.Kind {
		case domain.HeadVar:
			head = core.Var{Index: size.Index(v.Head.Level)}
		case domain.HeadMeta:
			head = core.Meta{Index: v.Head.Meta}
		}
		for _, elim := range v.Spine {
			switch elim.Kind {
			case domain.ElimFun:
				arg, err := ReadBack(ctx, size, elim.Arg)
				if err != nil {
					return nil, err
				}
				head = core.FunElim{Fun: head, Mode: elim.Mode, Arg: arg}
			case domain.ElimRecord:
				head = core.RecordElim{Record: head, Label: elim.Label}
			case domain.ElimLiteral:
				clauses := make([]core.LiteralClause, len(elim.Clauses))
				for i, c := range elim.Clauses {
					body, err := ReadBack(ctx, size, c.Body)
					if err != nil {
						return nil, err
					}
					clauses[i] = core.LiteralClause{Value: c.Value, Body: body}
				}
				def, err := ReadBack(ctx, size, elim.Default)
				if err != nil {
					return nil, err
				}
				head = core.LiteralElim{Scrutinee: head, Clauses: clauses, Default: def}
			}
		}
		return head, nil

	case domain.LiteralType:
		return core.LiteralType{Type: v.Type}, nil

	case domain.LiteralIntro:
		return core.LiteralIntro{Value: v.Value}, nil

	case domain.FunType:
		paramTy, err := ReadBack(ctx, size, v.ParamTy)
		if err != nil {
			return nil, err
		}
		probe := domain.Var(size.NextLevel())
		bodyVal, err := AppClosure(ctx, v.BodyTy, probe)
		if err != nil {
			return nil, err
		}
		bodyTy, err := ReadBack(ctx, size.Next(), bodyVal)
		if err != nil {
			return nil, err
		}
		return core.FunType{Mode: v.Mode, ParamTy: paramTy, BodyTy: bodyTy}, nil

	case domain.FunIntro:
		probe := domain.Var(size.NextLevel())
		bodyVal, err := AppClosure(ctx, v.Body, probe)
		if err != nil {
			return nil, err
		}
		body, err := ReadBack(ctx, size.Next(), bodyVal)
		if err != nil {
			return nil, err
		}
		return core.FunIntro{Mode: v.Mode, Body: body}, nil

	case domain.RecordTypeExtend:
		fieldTy, err := ReadBack(ctx, size, v.FieldTy)
		if err != nil {
			return nil, err
		}
		probe := domain.Var(size.NextLevel())
		restVal, err := AppClosure(ctx, v.Rest, probe)
		if err != nil {
			return nil, err
		}
		restTerm, err := ReadBack(ctx, size.Next(), restVal)
		if err != nil {
			return nil, err
		}
		restRecord, ok := restTerm.(core.RecordType)
		if !ok {
			return nil, errors.Bug(errors.NBE002, nil, "read_back: record type tail did not read back to a record type")
		}
		fields := make([]core.RecordTypeField, 0, len(restRecord.Fields)+1)
		fields = append(fields, core.RecordTypeField{Label: v.Label, NameHint: v.NameHint, Type: fieldTy})
		fields = append(fields, restRecord.Fields...)
		return core.RecordType{Fields: fields}, nil

	case domain.RecordTypeEmpty:
		return core.RecordType{}, nil

	case domain.RecordIntro:
		fields := make([]core.RecordIntroField, len(v.Fields))
		for i, f := range v.Fields {
			term, err := ReadBack(ctx, size, f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = core.RecordIntroField{Label: f.Label, Term: term}
		}
		return core.RecordIntro{Fields: fields}, nil

	case domain.Universe:
		return core.Universe{Level: v.Level}, nil
	}

	return nil, errors.Bug(errors.NBE001, nil, "read_back: unhandled value variant")
}

// Normalize evaluates term in env and reads the result back at env's
// size, producing term's beta-normal form.
func Normalize(ctx *Ctx, term core.Term, env domain.Env) (core.Term, error) {
	v, err := Eval(ctx, term, env)
	if err != nil {
		return nil, err
	}
	return ReadBack(ctx, env.Size(), v)
}

func literalAlphaEq(a, b literal.Intro) bool { return literal.AlphaEq(a, b) }
