package tracing

// Span attribute keys used across canon operations.
const (
	// Schema attributes
	AttrSchemaID      = "schema.id"
	AttrSchemaVersion = "schema.version"
	AttrTargetVersion = "schema.target_version"

	// Node attributes
	AttrNodeType      = "node.type"
	AttrNodeNamespace = "node.namespace"

	// Policy attributes
	AttrPolicyBehavior = "policy.behavior"
	AttrOutcome        = "policy.outcome"

	// Error attributes
	AttrErrorMessage = "error.message"
	AttrErrorType    = "error.type"
)

// Span name prefixes for consistent naming.
const (
	SpanPrefixCheck = "check."
)
