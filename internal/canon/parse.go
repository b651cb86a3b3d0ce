package canon

import (
	"fmt"
	"strings"
)

// IDType distinguishes builtin from namespaced identifiers.
type IDType string

const (
	IDTypeBuiltin    IDType = "builtin"
	IDTypeNamespaced IDType = "namespaced"
)

// ParseResult is the structured outcome of parsing one identifier. Parse
// failures are reported through Valid and Errors, never returned as Go
// errors, so a batch checker can fold many results into one report.
type ParseResult struct {
	Raw         string
	Valid       bool
	IDType      IDType
	Category    Category
	Namespace   string
	Subcategory string
	BaseName    string
	Errors      []string
}

// addError records a problem and marks the result invalid.
func (r *ParseResult) addError(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// ParseID splits raw on the separator and classifies it. The first segment
// decides the form: a known category token means builtin, anything else is
// treated as a namespace (constraint types, which omit their category
// segment, fall out of the same rule). Namespace segments are re-validated
// against the grammar and the reserved set so imported text cannot smuggle
// in an identifier the factories would have refused.
func ParseID(raw string) ParseResult {
	res := ParseResult{Raw: raw, Valid: true}

	if raw == "" {
		res.addError("empty identifier")
		return res
	}
	if strings.TrimSpace(raw) != raw {
		res.addError("identifier has surrounding whitespace")
		return res
	}

	segs := strings.Split(raw, Separator)
	for i, s := range segs {
		if s == "" {
			res.addError("empty segment at position %d", i)
			return res
		}
	}

	switch len(segs) {
	case 1:
		// Bare name: the builtin constraint-type form.
		res.IDType = IDTypeBuiltin
		res.Category = CategoryConstraintType
		res.BaseName = segs[0]

	case 2:
		if IsCategory(segs[0]) {
			if Category(segs[0]) == CategoryConstraintType {
				// Constraint types never write a category segment, so
				// "constraint-type:x" is not a valid spelling.
				res.addError("constraint-type IDs omit the category segment")
				return res
			}
			res.IDType = IDTypeBuiltin
			res.Category = Category(segs[0])
			res.BaseName = segs[1]
		} else {
			// Namespaced constraint type: "namespace:name".
			res.IDType = IDTypeNamespaced
			res.Category = CategoryConstraintType
			res.Namespace = segs[0]
			res.BaseName = segs[1]
			res.checkNamespaceSegment()
		}

	case 3:
		switch {
		case Category(segs[0]) == CategoryLexeme && IsPartOfSpeech(segs[1]):
			res.IDType = IDTypeBuiltin
			res.Category = CategoryLexeme
			res.Subcategory = segs[1]
			res.BaseName = segs[2]
		case IsCategory(segs[0]):
			res.IDType = IDTypeNamespaced
			res.Category = Category(segs[0])
			res.Namespace = segs[1]
			res.BaseName = segs[2]
			res.checkNamespaceSegment()
		default:
			res.addError("unknown category %q", segs[0])
		}

	case 4:
		// Only lexemes have four segments: lexeme:namespace:part:name.
		if Category(segs[0]) != CategoryLexeme {
			res.addError("unexpected segment count %d for category %q", len(segs), segs[0])
			return res
		}
		res.IDType = IDTypeNamespaced
		res.Category = CategoryLexeme
		res.Namespace = segs[1]
		res.Subcategory = segs[2]
		res.BaseName = segs[3]
		res.checkNamespaceSegment()
		if !IsPartOfSpeech(segs[2]) {
			res.addError("unknown part of speech %q", segs[2])
		}

	default:
		res.addError("too many segments (%d)", len(segs))
	}

	return res
}

// checkNamespaceSegment validates the parsed namespace and records any
// violation on the result.
func (r *ParseResult) checkNamespaceSegment() {
	if err := CheckNamespace(r.Namespace); err != nil {
		r.addError("%v: %q", err, r.Namespace)
	}
}

// BuildID reassembles the text form from parts. It is the inverse of
// ParseID for every valid identifier: BuildID over a valid ParseResult's
// fields reproduces the input exactly.
func BuildID(category Category, namespace, subcategory, name string) (ID, error) {
	if _, ok := categorySet[category]; !ok {
		return "", fmt.Errorf("unknown category %q", category)
	}
	if subcategory != "" && category != CategoryLexeme {
		return "", fmt.Errorf("subcategory is only valid for lexemes, got category %q", category)
	}
	if subcategory != "" && !IsPartOfSpeech(subcategory) {
		return "", fmt.Errorf("unknown part of speech %q", subcategory)
	}
	return newID(category, namespace, subcategory, name)
}

// ID rebuilds the identifier text from a valid parse result. Calling it on
// an invalid result returns the empty ID.
func (r ParseResult) ID() ID {
	if !r.Valid {
		return ""
	}
	id, err := BuildID(r.Category, r.Namespace, r.Subcategory, r.BaseName)
	if err != nil {
		return ""
	}
	return id
}
