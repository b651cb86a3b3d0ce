package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cardplay/canon/internal/extension"
	"github.com/cardplay/canon/internal/paramtype"
)

// Registry errors.
var (
	ErrNilSchema       = errors.New("schema cannot be nil")
	ErrMissingIdentity = errors.New("schema must carry an id and a version")
	ErrSchemaExists    = errors.New("schema version already registered")
	ErrSchemaNotFound  = errors.New("schema version not registered")
	ErrNoMigrationPath = errors.New("no migration path between versions")
)

// Registry stores published schemas keyed by (id, version). It is safe for
// concurrent use; reads take the shared lock, and Register takes the
// exclusive lock and rejects duplicates so published content stays
// immutable.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]map[string]*Schema // id -> version -> schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]map[string]*Schema),
	}
}

// Register publishes a schema. Re-registering an existing (id, version) key
// returns ErrSchemaExists and leaves the original untouched; lookups for
// other versions are unaffected either way.
func (r *Registry) Register(s *Schema) error {
	if s == nil {
		return ErrNilSchema
	}
	if s.ID == "" || s.Version == "" {
		return ErrMissingIdentity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	versions, ok := r.schemas[s.ID]
	if !ok {
		versions = make(map[string]*Schema)
		r.schemas[s.ID] = versions
	}
	if _, exists := versions[s.Version]; exists {
		return fmt.Errorf("%w: %s", ErrSchemaExists, s.Key())
	}
	versions[s.Version] = s
	return nil
}

// Get returns the schema at exactly (id, version), or (nil, false).
func (r *Registry) Get(id, version string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[id][version]
	return s, ok
}

// Latest returns the schema with the greatest version registered for id,
// using semantic-version ordering (see CompareVersions), or (nil, false)
// when nothing is registered.
func (r *Registry) Latest(id string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *Schema
	for _, s := range r.schemas[id] {
		if latest == nil || CompareVersions(s.Version, latest.Version) > 0 {
			latest = s
		}
	}
	return latest, latest != nil
}

// Versions returns the registered versions for id in ascending order.
func (r *Registry) Versions(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.schemas[id]))
	for v := range r.schemas[id] {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return CompareVersions(out[i], out[j]) < 0 })
	return out
}

// IDs returns every registered schema id, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.schemas))
	for id := range r.schemas {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Namespaces returns the distinct namespace prefixes of the registered
// schema ids (the segment before the first separator), sorted.
func (r *Registry) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]struct{})
	for id := range r.schemas {
		for i := 0; i < len(id); i++ {
			if id[i] == ':' {
				set[id[:i]] = struct{}{}
				break
			}
		}
	}
	out := make([]string, 0, len(set))
	for ns := range set {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// ValidateNode resolves the schema a node claims and validates its payload.
// An unregistered (schemaId, schemaVersion) is reported as a result error
// with rule "schema-exists"; nothing in this path returns a Go error.
func (r *Registry) ValidateNode(node extension.Node) paramtype.Result {
	s, ok := r.Get(node.SchemaID, node.SchemaVersion)
	if !ok {
		return paramtype.Fail(paramtype.Issue{
			Path:    "$",
			Rule:    paramtype.RuleSchemaExists,
			Message: fmt.Sprintf("schema %s@%s is not registered", node.SchemaID, node.SchemaVersion),
		})
	}
	return s.Payload.Validate(anyPayload(node.Payload))
}

// anyPayload widens the payload map for the validator.
func anyPayload(payload map[string]any) any {
	if payload == nil {
		return map[string]any{}
	}
	return payload
}

// MigrateNode migrates node to targetVersion by composing declared
// migration edges. It returns a new node; the input is never modified.
// Migration is all-or-nothing: if the target schema is unregistered the
// result is ErrSchemaNotFound, and if no chain of declared edges connects
// the node's version to the target the result is ErrNoMigrationPath. A
// node never ends up tagged with a version its payload was not migrated to.
func (r *Registry) MigrateNode(node extension.Node, targetVersion string) (extension.Node, error) {
	if _, ok := r.Get(node.SchemaID, targetVersion); !ok {
		return extension.Node{}, fmt.Errorf("%w: %s@%s", ErrSchemaNotFound, node.SchemaID, targetVersion)
	}
	if node.SchemaVersion == targetVersion {
		return node, nil
	}

	steps, err := r.migrationPath(node.SchemaID, node.SchemaVersion, targetVersion)
	if err != nil {
		return extension.Node{}, err
	}

	payload := node.Payload
	for _, step := range steps {
		if step.Transform == nil {
			continue
		}
		payload, err = step.Transform(payload)
		if err != nil {
			return extension.Node{}, fmt.Errorf("migration %s (%s -> %s): %w",
				step.MigrationID, step.FromVersion, step.ToVersion, err)
		}
	}

	return node.WithPayload(payload).WithSchemaVersion(targetVersion), nil
}

// migrationPath finds the shortest chain of declared edges from fromVersion
// to toVersion via breadth-first search over the id's version graph.
func (r *Registry) migrationPath(id, fromVersion, toVersion string) ([]Migration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Collect the edges declared across every registered version.
	edges := make(map[string][]Migration)
	for _, s := range r.schemas[id] {
		for _, m := range s.Migrations {
			edges[m.FromVersion] = append(edges[m.FromVersion], m)
		}
	}

	type walk struct {
		version string
		steps   []Migration
	}
	queue := []walk{{version: fromVersion}}
	visited := map[string]bool{fromVersion: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.version == toVersion {
			return cur.steps, nil
		}
		for _, edge := range edges[cur.version] {
			if visited[edge.ToVersion] {
				continue
			}
			visited[edge.ToVersion] = true
			steps := make([]Migration, len(cur.steps), len(cur.steps)+1)
			copy(steps, cur.steps)
			queue = append(queue, walk{version: edge.ToVersion, steps: append(steps, edge)})
		}
	}

	return nil, fmt.Errorf("%w: %s from %s to %s", ErrNoMigrationPath, id, fromVersion, toVersion)
}
