package testutil

import (
	"github.com/cardplay/canon/internal/extension"
	"github.com/cardplay/canon/internal/paramtype"
	"github.com/cardplay/canon/internal/schema"
)

// WithGritAxisPack adds the standard test dataset: two versions of the
// my-pack:grit-axis schema connected by a key-renaming migration.
func (b *RegistryBuilder) WithGritAxisPack() *RegistryBuilder {
	return b.
		WithSchema("my-pack:grit-axis", "1.0.0",
			Description("Per-voice grit amount"),
			Payload(paramtype.Object(map[string]*paramtype.Type{
				"axisId": paramtype.String().WithMinLength(1),
				"amount": paramtype.Number().WithMin(0).WithMax(1),
			}).WithRequired("axisId", "amount")),
			Example(map[string]any{"axisId": "grit", "amount": 0.7})).
		WithSchema("my-pack:grit-axis", "1.1.0",
			Payload(paramtype.Object(map[string]*paramtype.Type{
				"axis":   paramtype.String().WithMinLength(1),
				"amount": paramtype.Number().WithMin(0).WithMax(1),
			}).WithRequired("axis", "amount")),
			MigrationEdge("1.0.0", "1.1.0", "rename-axis-key", RenameKey("axisId", "axis")))
}

// GritAxisNode returns a node for the standard dataset at the given
// schema version and amount.
func GritAxisNode(schemaVersion string, amount float64) extension.Node {
	key := "axisId"
	if schemaVersion != "1.0.0" {
		key = "axis"
	}
	return Node("my-pack:grit-axis", schemaVersion,
		NodePayload(map[string]any{key: "grit", "amount": amount}))
}

// RenameKey returns a transform moving a payload value to a new key.
func RenameKey(from, to string) schema.Transform {
	return func(payload map[string]any) (map[string]any, error) {
		out := make(map[string]any, len(payload))
		for k, v := range payload {
			if k == from {
				out[to] = v
				continue
			}
			out[k] = v
		}
		return out, nil
	}
}
