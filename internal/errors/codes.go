// Package errors provides the kernel's centralized, phase-prefixed
// error code taxonomy, in the style of the reference compiler this
// kernel's component layout was grounded on.
package errors

// Error codes, grouped by the component that raises them. All of these
// are User Error or Invariant Violation family codes (spec.md §7);
// logical outcomes (Disproved/Unknown/Contradiction) and resource
// exhaustion are carried as Proof Object values, not error codes.
const (
	// ========================================================================
	// Parser errors (PAR###)
	// ========================================================================
	PAR001 = "PAR001" // unexpected token
	PAR002 = "PAR002" // missing closing delimiter
	PAR003 = "PAR003" // invalid quantifier binder syntax
	PAR004 = "PAR004" // invalid modal operator syntax
	PAR005 = "PAR005" // invalid lambda syntax
	PAR006 = "PAR006" // invalid definition syntax
	PAR007 = "PAR007" // invalid type annotation syntax

	// ========================================================================
	// Type system errors (TYP###)
	// ========================================================================
	TYP001 = "TYP001" // undefined symbol
	TYP002 = "TYP002" // arity mismatch
	TYP003 = "TYP003" // type mismatch
	TYP004 = "TYP004" // occurs check failed (type-level)
	TYP005 = "TYP005" // cyclic subtype edge rejected

	// ========================================================================
	// AST / hash-consing errors (AST###)
	// ========================================================================
	AST001 = "AST001" // ill-typed node rejected before normalization
	AST002 = "AST002" // shadowed name escapes its binder
	AST003 = "AST003" // broken hash-cons invariant (invariant violation)

	// ========================================================================
	// Unification errors (UNI###)
	// ========================================================================
	UNI001 = "UNI001" // occurs check failed (term-level)
	UNI002 = "UNI002" // arity mismatch
	UNI003 = "UNI003" // symbol clash
	UNI004 = "UNI004" // not a Miller pattern
	UNI005 = "UNI005" // search depth exceeded

	// ========================================================================
	// Knowledge store errors (KR###)
	// ========================================================================
	KR001 = "KR001" // unknown context
	KR002 = "KR002" // type error on add
	KR003 = "KR003" // append to frozen/consistent-only context violated
	KR004 = "KR004" // invariant violation: append to frozen context

	// ========================================================================
	// Coordinator / resource errors (RES###)
	// ========================================================================
	RES001 = "RES001" // ill-typed goal (precondition violation)
	RES002 = "RES002" // unknown context referenced by a goal

	// ========================================================================
	// Snapshot/serialization errors (SNP###)
	// ========================================================================
	SNP001 = "SNP001" // malformed frame (user error: truncated/corrupt input)
	SNP002 = "SNP002" // magic/version mismatch (invariant violation)
)

// ErrorInfo describes one error code for structured reporting.
type ErrorInfo struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// Registry maps every code above to its descriptive metadata.
var Registry = map[string]ErrorInfo{
	PAR001: {PAR001, "parser", "syntax", "Unexpected token"},
	PAR002: {PAR002, "parser", "syntax", "Missing closing delimiter"},
	PAR003: {PAR003, "parser", "syntax", "Invalid quantifier binder"},
	PAR004: {PAR004, "parser", "syntax", "Invalid modal operator"},
	PAR005: {PAR005, "parser", "syntax", "Invalid lambda"},
	PAR006: {PAR006, "parser", "syntax", "Invalid definition"},
	PAR007: {PAR007, "parser", "syntax", "Invalid type annotation"},

	TYP001: {TYP001, "types", "scope", "Undefined symbol"},
	TYP002: {TYP002, "types", "arity", "Arity mismatch"},
	TYP003: {TYP003, "types", "type", "Type mismatch"},
	TYP004: {TYP004, "types", "unification", "Occurs check failed"},
	TYP005: {TYP005, "types", "subtype", "Cyclic subtype edge rejected"},

	AST001: {AST001, "ast", "normalize", "Ill-typed term rejected before normalization"},
	AST002: {AST002, "ast", "scope", "Shadowed name escapes its binder"},
	AST003: {AST003, "ast", "invariant", "Broken hash-cons invariant"},

	UNI001: {UNI001, "unify", "occurs", "Occurs check failed"},
	UNI002: {UNI002, "unify", "arity", "Arity mismatch"},
	UNI003: {UNI003, "unify", "clash", "Symbol clash"},
	UNI004: {UNI004, "unify", "pattern", "Not a Miller pattern"},
	UNI005: {UNI005, "unify", "resource", "Search depth exceeded"},

	KR001: {KR001, "store", "scope", "Unknown context"},
	KR002: {KR002, "store", "type", "Type error on add"},
	KR003: {KR003, "store", "consistency", "Contradiction in consistent-only context"},
	KR004: {KR004, "store", "invariant", "Append to frozen context"},

	RES001: {RES001, "coordinator", "precondition", "Ill-typed goal"},
	RES002: {RES002, "coordinator", "precondition", "Unknown context"},

	SNP001: {SNP001, "snapshot", "format", "Malformed snapshot frame"},
	SNP002: {SNP002, "snapshot", "invariant", "Magic or version mismatch"},
}

// Family classifies a code into the four disjoint error families of
// spec.md §7.
type Family int

const (
	FamilyUser Family = iota
	FamilyLogical
	FamilyResource
	FamilyInvariant
)

var invariantCodes = map[string]bool{
	AST003: true,
	KR004:  true,
	SNP002: true,
}

// ClassifyFamily returns the error family a code belongs to.
func ClassifyFamily(code string) Family {
	if invariantCodes[code] {
		return FamilyInvariant
	}
	return FamilyUser
}
