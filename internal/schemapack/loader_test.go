package schemapack

import (
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardplay/canon/internal/schema"
)

const gritAxisPack = `
pack:
  namespace: my-pack
  version: 1.2.0
  extensionId: my-pack
  description: Expression axes for grit-heavy material
schemas:
  - id: my-pack:grit-axis
    version: 1.0.0
    nodeType: my-pack:grit-axis
    description: Per-voice grit amount
    payload:
      kind: object
      properties:
        axisId:
          kind: string
          minLength: 1
        amount:
          kind: number
          min: 0
          max: 1
      required: [axisId, amount]
  - id: my-pack:grit-axis
    version: 1.1.0
    nodeType: my-pack:grit-axis
    payload:
      kind: object
      properties:
        axisId:
          kind: string
        amount:
          kind: number
      required: [axisId]
    migrations:
      - fromVersion: 1.0.0
        toVersion: 1.1.0
        migrationId: relax-amount
        changes:
          - amount is no longer required
      - fromVersion: 0.9.0
        toVersion: 1.0.0
        changes:
          - prerelease shape promoted
`

func packFS(manifests map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for path, content := range manifests {
		fsys[path] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestLoad(t *testing.T) {
	loaded, err := Load(packFS(map[string]string{
		"my-pack/pack.yaml": gritAxisPack,
	}))
	require.NoError(t, err)

	require.Len(t, loaded.Packs, 1)
	assert.Equal(t, "my-pack", loaded.Packs[0].Namespace)
	assert.Equal(t, "1.2.0", loaded.Packs[0].Version)

	require.Len(t, loaded.Schemas, 2)
	first := loaded.Schemas[0]
	assert.Equal(t, "my-pack:grit-axis@1.0.0", first.Key())
	require.NotNil(t, first.Payload)
	require.Contains(t, first.Payload.Properties, "amount")
	require.NotNil(t, first.Payload.Properties["amount"].Max)
	assert.Equal(t, 1.0, *first.Payload.Properties["amount"].Max)

	second := loaded.Schemas[1]
	require.Len(t, second.Migrations, 2)
	assert.Equal(t, "relax-amount", second.Migrations[0].MigrationID)
	// An edge declared without an id gets a generated one.
	generated := second.Migrations[1].MigrationID
	require.NotEmpty(t, generated)
	_, err = uuid.Parse(generated)
	assert.NoError(t, err)
}

func TestLoad_Register(t *testing.T) {
	loaded, err := Load(packFS(map[string]string{
		"my-pack/pack.yaml": gritAxisPack,
	}))
	require.NoError(t, err)

	reg := schema.NewRegistry()
	require.NoError(t, loaded.Register(reg))

	latest, ok := reg.Latest("my-pack:grit-axis")
	require.True(t, ok)
	assert.Equal(t, "1.1.0", latest.Version)

	assert.Equal(t, map[string]string{"my-pack": "1.2.0"}, loaded.InstalledVersions())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		wantErr  string
	}{
		{
			name:     "malformed yaml",
			manifest: "pack: [not a map",
			wantErr:  "parse",
		},
		{
			name:     "missing namespace",
			manifest: "pack:\n  version: 1.0.0\n",
			wantErr:  "pack.namespace is required",
		},
		{
			name:     "reserved namespace",
			manifest: "pack:\n  namespace: gofai\n  version: 1.0.0\n",
			wantErr:  "gofai",
		},
		{
			name:     "missing version",
			manifest: "pack:\n  namespace: my-pack\n",
			wantErr:  "pack.version is required",
		},
		{
			name: "schema outside pack namespace",
			manifest: `
pack:
  namespace: my-pack
  version: 1.0.0
schemas:
  - id: other-pack:thing
    version: 1.0.0
    payload:
      kind: string
`,
			wantErr: "outside pack namespace",
		},
		{
			name: "schema without payload",
			manifest: `
pack:
  namespace: my-pack
  version: 1.0.0
schemas:
  - id: my-pack:thing
    version: 1.0.0
`,
			wantErr: "declares no payload type",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(packFS(map[string]string{"pack.yaml": tc.manifest}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_DuplicateAcrossManifests(t *testing.T) {
	single := `
pack:
  namespace: my-pack
  version: 1.0.0
schemas:
  - id: my-pack:thing
    version: 1.0.0
    payload:
      kind: string
`
	_, err := Load(packFS(map[string]string{
		"a/pack.yaml": single,
		"b/pack.yaml": single,
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "my-pack:thing@1.0.0")
	assert.Contains(t, err.Error(), "a/pack.yaml")
	assert.Contains(t, err.Error(), "b/pack.yaml")
}
