package paramtype

import "fmt"

// Rule codes carried by validation issues. They are part of the wire
// surface consumed by the interpreter and the canon-check report generator,
// so they are stable identifiers rather than prose.
const (
	RuleSchemaExists         = "schema-exists"
	RuleType                 = "type-mismatch"
	RuleStringMinLength      = "string-min-length"
	RuleStringMaxLength      = "string-max-length"
	RuleStringPattern        = "string-pattern"
	RuleStringFormat         = "string-format"
	RuleNumberMin            = "number-min"
	RuleNumberMax            = "number-max"
	RuleNumberInteger        = "number-integer"
	RuleNumberMultipleOf     = "number-multiple-of"
	RuleEnumValue            = "enum-value"
	RuleObjectRequired       = "object-required"
	RuleObjectUnknownKey     = "object-unknown-key"
	RuleArrayMinItems        = "array-min-items"
	RuleArrayMaxItems        = "array-max-items"
	RuleArrayUniqueItems     = "array-unique-items"
	RuleUnionNoMatch         = "union-no-match"
	RuleReferenceKind        = "reference-kind"
	RuleUnknownKind          = "unknown-kind"
)

// Issue is one validation finding at a specific path.
type Issue struct {
	Path    string `json:"path"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// String renders the issue for logs and CLI output.
func (i Issue) String() string {
	return fmt.Sprintf("%s [%s]: %s", i.Path, i.Rule, i.Message)
}

// Result is the outcome of validating a value against a type tree. It is
// always returned, never thrown: callers branch on Valid and render the
// issues however they need to.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// OK returns a passing result.
func OK() Result {
	return Result{Valid: true}
}

// Fail returns a failing result carrying the given issues.
func Fail(issues ...Issue) Result {
	return Result{Valid: false, Errors: issues}
}

// Merge folds other into r, combining issue lists and AND-ing validity.
func (r Result) Merge(other Result) Result {
	r.Valid = r.Valid && other.Valid
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	return r
}

// collector accumulates issues while a validation walks the tree.
type collector struct {
	errors   []Issue
	warnings []Issue
}

func (c *collector) errorf(path, rule, format string, args ...any) {
	c.errors = append(c.errors, Issue{Path: path, Rule: rule, Message: fmt.Sprintf(format, args...)})
}

func (c *collector) warnf(path, rule, format string, args ...any) {
	c.warnings = append(c.warnings, Issue{Path: path, Rule: rule, Message: fmt.Sprintf(format, args...)})
}

func (c *collector) result() Result {
	return Result{Valid: len(c.errors) == 0, Errors: c.errors, Warnings: c.warnings}
}
