// Package schema implements the versioned extension-schema registry.
//
// Schemas are keyed by (id, version) and immutable once registered: the
// registry rejects duplicate keys instead of overwriting, so a published
// contract can never change out from under a consumer. Evolution happens by
// registering a new version together with migration descriptors, which form
// a version graph the registry composes into full migration paths.
//
// Payload validation walks the schema's parametric type tree and always
// returns a result value; schema-not-found is an ordinary validation error
// with rule "schema-exists", not a Go error, so batch tooling can fold it
// into the same report as payload issues.
package schema
