package extension

import "encoding/json"

// Discriminator is the literal field marking serialized extension nodes.
const Discriminator = "__extensionNode"

// wireNode is the serialized shape: the node plus the discriminator.
type wireNode struct {
	ExtensionNode bool           `json:"__extensionNode"`
	Type          string         `json:"type"`
	Namespace     string         `json:"namespace"`
	Version       string         `json:"version"`
	SchemaID      string         `json:"schemaId"`
	SchemaVersion string         `json:"schemaVersion"`
	Payload       map[string]any `json:"payload"`
	Provenance    Provenance     `json:"provenance"`
}

// Serialize encodes n as discriminator-tagged JSON. Every field, including
// full provenance, is written; nothing about the node is lossy on the wire.
func Serialize(n Node) (string, error) {
	data, err := json.Marshal(wireNode{
		ExtensionNode: true,
		Type:          n.Type,
		Namespace:     n.Namespace,
		Version:       n.Version,
		SchemaID:      n.SchemaID,
		SchemaVersion: n.SchemaVersion,
		Payload:       n.Payload,
		Provenance:    n.Provenance,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Deserialize decodes text produced by Serialize. It returns (nil, false)
// for malformed JSON and for well-formed JSON that lacks the discriminator;
// both are expected inputs when scanning mixed content, so neither is an
// error.
func Deserialize(text string) (*Node, bool) {
	var w wireNode
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return nil, false
	}
	if !w.ExtensionNode {
		return nil, false
	}
	return &Node{
		Type:          w.Type,
		Namespace:     w.Namespace,
		Version:       w.Version,
		SchemaID:      w.SchemaID,
		SchemaVersion: w.SchemaVersion,
		Payload:       w.Payload,
		Provenance:    w.Provenance,
	}, true
}
