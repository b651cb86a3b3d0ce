package testutil

import (
	"github.com/cardplay/canon/internal/extension"
	"github.com/cardplay/canon/internal/paramtype"
	"github.com/cardplay/canon/internal/schema"
)

// SchemaOption configures a schema under construction.
type SchemaOption func(*schema.Schema)

// defaultSchema returns a schema accepting any object payload.
func defaultSchema(id, version string) *schema.Schema {
	return &schema.Schema{
		ID:       id,
		Version:  version,
		NodeType: id,
		Payload:  paramtype.Object(nil).WithAdditionalProperties(),
	}
}

// NodeType overrides the node type the schema binds to.
func NodeType(nodeType string) SchemaOption {
	return func(s *schema.Schema) { s.NodeType = nodeType }
}

// Description sets the schema description.
func Description(desc string) SchemaOption {
	return func(s *schema.Schema) { s.Description = desc }
}

// Payload sets the payload type tree.
func Payload(t *paramtype.Type) SchemaOption {
	return func(s *schema.Schema) { s.Payload = t }
}

// Example appends a payload example.
func Example(payload map[string]any) SchemaOption {
	return func(s *schema.Schema) { s.Examples = append(s.Examples, payload) }
}

// MigrationEdge declares a migration edge on the schema.
func MigrationEdge(from, to, id string, transform schema.Transform) SchemaOption {
	return func(s *schema.Schema) {
		s.Migrations = append(s.Migrations, schema.Migration{
			FromVersion: from,
			ToVersion:   to,
			MigrationID: id,
			Transform:   transform,
		})
	}
}

// NodeOption configures an extension node under construction.
type NodeOption func(*extension.Node)

// Node creates a test node bound to the given schema version.
func Node(schemaID, schemaVersion string, opts ...NodeOption) extension.Node {
	n := extension.Node{
		Type:          schemaID,
		Namespace:     namespaceOf(schemaID),
		Version:       "1.0.0",
		SchemaID:      schemaID,
		SchemaVersion: schemaVersion,
		Payload:       map[string]any{},
		Provenance:    extension.NewProvenance(namespaceOf(schemaID), "test-module"),
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// NodePayload sets the node payload.
func NodePayload(payload map[string]any) NodeOption {
	return func(n *extension.Node) { n.Payload = payload }
}

// NodeVersion sets the node's declared extension version.
func NodeVersion(version string) NodeOption {
	return func(n *extension.Node) { n.Version = version }
}

// NodeNamespace overrides the namespace derived from the schema id.
func NodeNamespace(ns string) NodeOption {
	return func(n *extension.Node) { n.Namespace = ns }
}

func namespaceOf(schemaID string) string {
	for i := 0; i < len(schemaID); i++ {
		if schemaID[i] == ':' {
			return schemaID[:i]
		}
	}
	return schemaID
}
