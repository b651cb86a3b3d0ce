package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardplay/canon/internal/paramtype"
	"github.com/cardplay/canon/internal/schema"
)

func newTestStore(t *testing.T) *SchemaStore {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "canon.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.SchemaStore()
}

func storedSchema(version string) *schema.Schema {
	return &schema.Schema{
		ID:          "my-pack:grit-axis",
		Version:     version,
		NodeType:    "my-pack:grit-axis",
		Description: "Per-voice grit amount",
		Payload: paramtype.Object(map[string]*paramtype.Type{
			"axisId": paramtype.String().WithMinLength(1),
			"amount": paramtype.Number().WithMin(0).WithMax(1),
		}).WithRequired("axisId", "amount"),
		Examples: []map[string]any{
			{"axisId": "grit", "amount": 0.7},
		},
	}
}

func TestSchemaStore_SaveAndLoadAll(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(storedSchema("1.0.0")))
	require.NoError(t, store.Save(storedSchema("1.1.0")))

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	first := loaded[0]
	assert.Equal(t, "my-pack:grit-axis@1.0.0", first.Key())
	assert.Equal(t, "Per-voice grit amount", first.Description)
	require.NotNil(t, first.Payload)
	require.Contains(t, first.Payload.Properties, "amount")
	require.NotNil(t, first.Payload.Properties["amount"].Max)
	assert.Equal(t, 1.0, *first.Payload.Properties["amount"].Max)
	require.Len(t, first.Examples, 1)
	assert.Equal(t, "grit", first.Examples[0]["axisId"])
}

func TestSchemaStore_DuplicateVersionRejected(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(storedSchema("1.0.0")))
	err := store.Save(storedSchema("1.0.0"))
	require.ErrorIs(t, err, schema.ErrSchemaExists)

	// The original row survives.
	loaded, err := store.LoadAll()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestSchemaStore_MigrationsRoundTrip(t *testing.T) {
	store := newTestStore(t)

	s := storedSchema("1.1.0")
	s.Migrations = []schema.Migration{{
		FromVersion: "1.0.0",
		ToVersion:   "1.1.0",
		MigrationID: "relax-amount",
		Changes:     []string{"amount is no longer required"},
		Transform: func(p map[string]any) (map[string]any, error) {
			return p, nil
		},
	}}
	require.NoError(t, store.Save(s))

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Len(t, loaded[0].Migrations, 1)

	got := loaded[0].Migrations[0]
	assert.Equal(t, "relax-amount", got.MigrationID)
	assert.Equal(t, []string{"amount is no longer required"}, got.Changes)
	// Transforms are in-process functions and are not persisted.
	assert.Nil(t, got.Transform)
}

func TestSchemaStore_LoadInto(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(storedSchema("1.0.0")))
	require.NoError(t, store.Save(storedSchema("1.2.0")))

	reg := schema.NewRegistry()
	require.NoError(t, store.LoadInto(reg))

	latest, ok := reg.Latest("my-pack:grit-axis")
	require.True(t, ok)
	assert.Equal(t, "1.2.0", latest.Version)
}
