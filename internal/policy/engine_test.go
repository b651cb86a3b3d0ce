package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardplay/canon/internal/extension"
	"github.com/cardplay/canon/internal/paramtype"
	"github.com/cardplay/canon/internal/schema"
)

func gritAxisSchema(version string) *schema.Schema {
	return &schema.Schema{
		ID:       "my-pack:grit-axis",
		Version:  version,
		NodeType: "my-pack:grit-axis",
		Payload: paramtype.Object(map[string]*paramtype.Type{
			"axisId": paramtype.String().WithMinLength(1),
			"amount": paramtype.Number().WithMin(0).WithMax(1),
		}).WithRequired("axisId", "amount"),
	}
}

func gritAxisNode(schemaVersion string, amount float64) extension.Node {
	return extension.Node{
		Type:          "my-pack:grit-axis",
		Namespace:     "my-pack",
		Version:       "1.0.0",
		SchemaID:      "my-pack:grit-axis",
		SchemaVersion: schemaVersion,
		Payload:       map[string]any{"axisId": "grit", "amount": amount},
	}
}

func TestEngine_Handle_ValidNodePreserved(t *testing.T) {
	reg := schema.NewRegistry()
	require.NoError(t, reg.Register(gritAxisSchema("1.0.0")))
	engine := NewEngine(reg)

	// A valid node is preserved no matter how strict the policy is.
	for _, p := range []Policy{Strict(), Lenient(), {Behavior: BehaviorPreserve}} {
		res := engine.Handle(context.Background(), gritAxisNode("1.0.0", 0.7), p)
		assert.Equal(t, OutcomePreserved, res.Outcome)
		require.NotNil(t, res.Node)
		assert.Equal(t, "1.0.0", res.Node.SchemaVersion)
	}
}

func TestEngine_Handle_Reject(t *testing.T) {
	reg := schema.NewRegistry()
	require.NoError(t, reg.Register(gritAxisSchema("1.0.0")))
	engine := NewEngine(reg)

	node := gritAxisNode("1.0.0", 0.7)
	node.SchemaID = "my-pack:grit-axsi" // typo
	res := engine.Handle(context.Background(), node, Strict())

	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Nil(t, res.Node)
	assert.Contains(t, res.Message, "Unknown semantic node")
	require.NotEmpty(t, res.Suggestions)
	assert.Contains(t, res.Suggestions, "my-pack:grit-axis")
}

func TestEngine_Handle_RejectEmptyRegistryStillSuggests(t *testing.T) {
	engine := NewEngine(schema.NewRegistry())

	res := engine.Handle(context.Background(), gritAxisNode("1.0.0", 0.7), Strict())
	assert.Equal(t, OutcomeRejected, res.Outcome)
	require.NotEmpty(t, res.Suggestions)
	for _, s := range res.Suggestions {
		assert.NotEmpty(t, s)
	}
}

func TestEngine_Handle_Warn(t *testing.T) {
	reg := schema.NewRegistry()
	engine := NewEngine(reg)
	node := gritAxisNode("1.0.0", 0.7)

	t.Run("dropped without preserveInSerialization", func(t *testing.T) {
		res := engine.Handle(context.Background(), node, Policy{Behavior: BehaviorWarn})
		assert.Equal(t, OutcomeWarned, res.Outcome)
		assert.Nil(t, res.Node)
		assert.Contains(t, res.Message, "Warning:")
	})

	t.Run("retained with preserveInSerialization", func(t *testing.T) {
		res := engine.Handle(context.Background(), node, Policy{Behavior: BehaviorWarn, PreserveInSerialization: true})
		assert.Equal(t, OutcomeWarned, res.Outcome)
		require.NotNil(t, res.Node)
		assert.Equal(t, node, *res.Node)
	})
}

func TestEngine_Handle_PreserveUnconditional(t *testing.T) {
	engine := NewEngine(schema.NewRegistry())

	// Nothing registered, payload meaningless: preserve still keeps it.
	node := gritAxisNode("9.9.9", 42)
	res := engine.Handle(context.Background(), node, Policy{Behavior: BehaviorPreserve})

	assert.Equal(t, OutcomePreserved, res.Outcome)
	require.NotNil(t, res.Node)
	assert.Contains(t, res.Message, "Preserved")
}

func TestEngine_Handle_Migration(t *testing.T) {
	newRegistry := func(t *testing.T) *schema.Registry {
		t.Helper()
		reg := schema.NewRegistry()
		require.NoError(t, reg.Register(gritAxisSchema("1.0.0")))

		v2 := gritAxisSchema("1.1.0")
		v2.Migrations = []schema.Migration{{
			FromVersion: "1.0.0",
			ToVersion:   "1.1.0",
			MigrationID: "clamp-amount",
			Transform: func(payload map[string]any) (map[string]any, error) {
				out := make(map[string]any, len(payload))
				for k, v := range payload {
					out[k] = v
				}
				if amount, ok := out["amount"].(float64); ok && amount > 1 {
					out["amount"] = 1.0
				}
				return out, nil
			},
		}}
		require.NoError(t, reg.Register(v2))
		return reg
	}

	t.Run("invalid node migrates to latest", func(t *testing.T) {
		engine := NewEngine(newRegistry(t))
		res := engine.Handle(context.Background(), gritAxisNode("1.0.0", 1.5), Lenient())

		assert.Equal(t, OutcomeMigrated, res.Outcome)
		require.NotNil(t, res.Node)
		assert.Equal(t, "1.1.0", res.Node.SchemaVersion)
		assert.Equal(t, 1.0, res.Node.Payload["amount"])
	})

	t.Run("no path falls through to behavior", func(t *testing.T) {
		reg := schema.NewRegistry()
		require.NoError(t, reg.Register(gritAxisSchema("1.0.0")))
		v2 := gritAxisSchema("2.0.0") // no migration edge declared
		require.NoError(t, reg.Register(v2))
		engine := NewEngine(reg)

		res := engine.Handle(context.Background(), gritAxisNode("1.0.0", 1.5),
			Policy{Behavior: BehaviorWarn, AttemptMigration: true})
		assert.Equal(t, OutcomeWarned, res.Outcome)
	})

	t.Run("attemptMigration off goes straight to behavior", func(t *testing.T) {
		engine := NewEngine(newRegistry(t))
		res := engine.Handle(context.Background(), gritAxisNode("1.0.0", 1.5), Strict())
		assert.Equal(t, OutcomeRejected, res.Outcome)
	})
}
