package extension

import "time"

// Provenance records where a node came from. It is carried through
// serialization unchanged so diagnostics can always name the responsible
// extension and the source lexemes that produced the node.
type Provenance struct {
	ExtensionID  string   `json:"extensionId"`
	ModuleID     string   `json:"moduleId"`
	RegisteredAt int64    `json:"registeredAt"` // epoch milliseconds
	Lexemes      []string `json:"lexemes"`
}

// Node is one unit of extension-declared semantic data. Type is the node's
// semantic discriminator within its extension; SchemaID and SchemaVersion
// name the registered schema the payload claims to satisfy.
type Node struct {
	Type          string         `json:"type"`
	Namespace     string         `json:"namespace"`
	Version       string         `json:"version"`
	SchemaID      string         `json:"schemaId"`
	SchemaVersion string         `json:"schemaVersion"`
	Payload       map[string]any `json:"payload"`
	Provenance    Provenance     `json:"provenance"`
}

// WithSchemaVersion returns a copy of n tagged with the given schema
// version. Migration produces new node values; the receiver is never
// touched.
func (n Node) WithSchemaVersion(version string) Node {
	n.SchemaVersion = version
	return n
}

// WithPayload returns a copy of n carrying the given payload.
func (n Node) WithPayload(payload map[string]any) Node {
	n.Payload = payload
	return n
}

// NewProvenance builds a provenance record stamped with the current time.
func NewProvenance(extensionID, moduleID string, lexemes ...string) Provenance {
	return Provenance{
		ExtensionID:  extensionID,
		ModuleID:     moduleID,
		RegisteredAt: time.Now().UnixMilli(),
		Lexemes:      lexemes,
	}
}
