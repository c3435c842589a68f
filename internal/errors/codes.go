// Package errors provides the elaborator's structured error taxonomy.
// Every error kind from spec.md section 7 maps to a stable code here,
// in the same (code -> phase/category/title) registry shape the wider
// retrieval pack's language implementations use for diagnostics.
package errors

// Error code constants, grouped by the component that raises them.
const (
	// ============================================================
	// Bidirectional checker errors (ELB###) - component H
	// ============================================================

	// ELB001 indicates the checker could not resolve a variable name.
	ELB001 = "ELB001"

	// ELB002 indicates a form required a function type but the
	// expected type elaborated to something else.
	ELB002 = "ELB002"

	// ELB003 indicates a form required a pair/sigma type but the
	// expected type elaborated to something else.
	ELB003 = "ELB003"

	// ELB004 indicates a form required a record type but the
	// expected type elaborated to something else.
	ELB004 = "ELB004"

	// ELB005 indicates checking a type-former yielded a non-universe.
	ELB005 = "ELB005"

	// ELB006 indicates a universe level constraint (< or <=) was
	// violated.
	ELB006 = "ELB006"

	// ELB007 indicates synth was required but the term has no
	// synthesizing rule.
	ELB007 = "ELB007"

	// ELB900 indicates both a declaration and its definition carried
	// doc comments (section 6.3).
	ELB900 = "ELB900"

	// ELB999 indicates a checker-internal invariant was violated,
	// e.g. a Let term reaching the unifier.
	ELB999 = "ELB999"

	// ============================================================
	// Unifier errors (UNI###) - component F
	// ============================================================

	// UNI001 indicates two values could not be unified.
	UNI001 = "UNI001"

	// UNI002 indicates a metavariable spine was not a pattern (not
	// every argument was a distinct bound variable).
	UNI002 = "UNI002"

	// UNI003 indicates a solution candidate referenced a variable
	// out of the meta's scope.
	UNI003 = "UNI003"

	// UNI004 indicates a solution candidate referenced its own meta
	// (the occurs check).
	UNI004 = "UNI004"

	// UNI005 indicates an UnsolvedMeta remained after elaboration.
	UNI005 = "UNI005"

	// UNI006 indicates a universe subtyping constraint was violated
	// during unification specifically (as opposed to ELB006, raised
	// directly by the checker for a Universe(l) : Universe(l') form).
	UNI006 = "UNI006"

	// UNI007 indicates left eta-conversion for records was needed but
	// is not supported.
	UNI007 = "UNI007"

	// UNI008 indicates right eta-conversion for records was needed
	// but is not supported.
	UNI008 = "UNI008"

	// ============================================================
	// NbE engine bugs (NBE###) - component E, always internal
	// ============================================================

	// NBE001 indicates eval_fun_elim was applied to a value that was
	// neither a FunIntro nor a Neutral - a runtime ill-formed value. It
	// is also raised for the other evaluator invariant violations: an
	// out-of-range variable, an unknown primitive, a mismatched
	// application mode, or an unhandled term or value variant.
	NBE001 = "NBE001"

	// NBE002 indicates eval_record_elim was applied to a value that
	// was neither a RecordIntro nor a Neutral.
	NBE002 = "NBE002"

	// NBE003 indicates eval_literal_elim was applied to a value that
	// was neither a LiteralIntro nor a Neutral.
	NBE003 = "NBE003"
)

// Entry describes one error code's fixed metadata.
type Entry struct {
	Code     string
	Phase    string
	Category string
	Title    string
}

// registry is the canonical (code -> metadata) table, mirroring the
// structure of AILANG's errors/codes.go registry.
var registry = map[string]Entry{
	ELB001: {ELB001, "elaborate", "scope", "Unbound variable"},
	ELB002: {ELB002, "elaborate", "shape", "Expected a function type"},
	ELB003: {ELB003, "elaborate", "shape", "Expected a pair type"},
	ELB004: {ELB004, "elaborate", "shape", "Expected a record type"},
	ELB005: {ELB005, "elaborate", "universe", "Expected a universe"},
	ELB006: {ELB006, "elaborate", "universe", "Universe level mismatch"},
	ELB007: {ELB007, "elaborate", "ambiguous", "Ambiguous term"},
	ELB900: {ELB900, "elaborate", "docs", "Already documented"},
	ELB999: {ELB999, "elaborate", "bug", "Internal invariant violated"},

	UNI001: {UNI001, "unify", "equality", "Values are not equal"},
	UNI002: {UNI002, "unify", "pattern", "Meta spine is not a pattern"},
	UNI003: {UNI003, "unify", "scope", "Solution out of scope"},
	UNI004: {UNI004, "unify", "occurs", "Occurs check failed"},
	UNI005: {UNI005, "unify", "unsolved", "Unsolved metavariable"},
	UNI006: {UNI006, "unify", "universe", "Universe is not a subtype"},
	UNI007: {UNI007, "unify", "eta", "Left record eta not supported"},
	UNI008: {UNI008, "unify", "eta", "Right record eta not supported"},

	NBE001: {NBE001, "nbe", "bug", "Ill-formed function elimination"},
	NBE002: {NBE002, "nbe", "bug", "Ill-formed record elimination"},
	NBE003: {NBE003, "nbe", "bug", "Ill-formed literal elimination"},
}

// Lookup returns the fixed metadata for a code.
func Lookup(code string) (Entry, bool) {
	e, ok := registry[code]
	return e, ok
}
