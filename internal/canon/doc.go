// Package canon implements the namespaced identifier scheme for canon
// entities: axes, lexemes, opcodes, constraint types, rules, units, section
// types, and layer types.
//
// Identifiers come in two forms. Builtin IDs carry no namespace and are
// reserved for core vocabulary ("axis:grit"). Namespaced IDs carry exactly
// one namespace segment contributed by an extension ("axis:my-pack:grit").
// Constraint types are the historical exception: their builtin form is a
// bare name with no category prefix, and their namespaced form is
// "namespace:name".
//
// Construction goes through the per-category factories, which reject
// reserved and malformed namespaces outright. Parsing never fails hard:
// ParseID returns a ParseResult that collects every problem it finds, so
// batch canon-check tooling can report many errors in one pass.
package canon
