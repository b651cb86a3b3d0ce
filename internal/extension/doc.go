// Package extension defines the semantic node contributed by extension
// packs and its wire codec.
//
// A Node is tagged with the schema it claims to conform to and carries full
// provenance: which extension and module produced it, and from which source
// lexemes. Nodes are values; validation and migration never mutate one in
// place.
//
// The codec is the process/storage boundary. Serialized nodes carry a
// literal "__extensionNode" discriminator so that a consumer scanning mixed
// content can recognize them without guessing; anything malformed or
// undiscriminated deserializes to (nil, false) rather than an error, since
// "not an extension node" is an ordinary answer, not a failure.
package extension
