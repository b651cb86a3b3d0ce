package schema

import (
	"github.com/cardplay/canon/internal/paramtype"
)

// Transform rewrites a payload as part of one migration step. It must
// return a new payload, never mutate its input. A nil Transform on a
// Migration means the step is data-only documentation: the payload passes
// through unchanged and only the version tag moves. This is the extension
// point for executable migrations; the declared descriptor is authoritative
// either way.
type Transform func(payload map[string]any) (map[string]any, error)

// Migration is one declared edge in a schema's version graph.
type Migration struct {
	FromVersion string `json:"fromVersion" yaml:"fromVersion"`
	ToVersion   string `json:"toVersion" yaml:"toVersion"`
	MigrationID string `json:"migrationId" yaml:"migrationId"`
	// Changes lists human-readable descriptions of what the step does.
	Changes []string `json:"changes,omitempty" yaml:"changes,omitempty"`

	Transform Transform `json:"-" yaml:"-"`
}

// Schema is one published version of an extension schema. Identity is
// (ID, Version); the structural content is immutable once registered.
type Schema struct {
	ID          string           `json:"id" yaml:"id"`
	Version     string           `json:"version" yaml:"version"`
	NodeType    string           `json:"nodeType" yaml:"nodeType"`
	Payload     *paramtype.Type  `json:"payload" yaml:"payload"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Examples    []map[string]any `json:"examples,omitempty" yaml:"examples,omitempty"`
	Migrations  []Migration      `json:"migrations,omitempty" yaml:"migrations,omitempty"`
}

// Key returns the registry key text "id@version".
func (s *Schema) Key() string {
	return s.ID + "@" + s.Version
}
