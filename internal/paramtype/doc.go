// Package paramtype defines the parametric type trees that extension
// schemas and constraint declarations are written in, and a total validator
// over them.
//
// The tree is a closed sum: string, number, boolean, enum, object, array,
// union, and reference. Validation never panics and never stops at the
// first problem; every violation is accumulated into a Result whose issues
// carry a dotted/bracketed path ("$.prop[2].sub"), a stable rule code, and
// a human-readable message, so a caller can point at the exact offending
// field without re-deriving anything.
package paramtype
