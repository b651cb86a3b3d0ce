// Package compat reports whether a consumer's installed extension set can
// interpret an extension node. The check is advisory by design: a missing
// extension is the only incompatibility, while a version mismatch produces
// a warning so callers can attempt interpretation anyway.
package compat
