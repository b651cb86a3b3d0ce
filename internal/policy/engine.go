package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/cardplay/canon/internal/cachemanager"
	"github.com/cardplay/canon/internal/extension"
	"github.com/cardplay/canon/internal/log"
	"github.com/cardplay/canon/internal/schema"
)

const (
	maxSuggestions = 3
	suggestionTTL  = 30 * time.Second
)

// Engine adjudicates nodes against a schema registry. Suggestion lookups
// for rejected nodes go through a read-through cache with a short TTL so a
// batch check that hits the same unknown schema id repeatedly ranks
// candidates once.
type Engine struct {
	registry    *schema.Registry
	suggestions *cachemanager.ReadThroughCache[string, []string, extension.Node]
}

// NewEngine creates an engine over registry.
func NewEngine(registry *schema.Registry) *Engine {
	e := &Engine{registry: registry}
	cache := cachemanager.NewInMemoryCacheManager[string, []string](
		"policy-suggestions", suggestionTTL, cachemanager.DefaultCleanupInterval)
	e.suggestions = cachemanager.NewReadThroughCache(cache, e.rankSuggestions, false)
	return e
}

// Handle adjudicates node under policy. The decision is deterministic and
// evaluated in order: a node that validates against its declared schema is
// preserved; otherwise, if the policy allows migration and a different
// latest version is registered, the node is migrated; otherwise the
// policy's behavior decides. Handle never returns a Go error.
func (e *Engine) Handle(ctx context.Context, node extension.Node, p Policy) Result {
	if res := e.registry.ValidateNode(node); res.Valid {
		return Result{
			Outcome: OutcomePreserved,
			Node:    &node,
			Message: fmt.Sprintf("Node %s validates against schema %s@%s", node.Type, node.SchemaID, node.SchemaVersion),
		}
	}

	if p.AttemptMigration {
		if latest, ok := e.registry.Latest(node.SchemaID); ok && latest.Version != node.SchemaVersion {
			migrated, err := e.registry.MigrateNode(node, latest.Version)
			if err == nil {
				return Result{
					Outcome: OutcomeMigrated,
					Node:    &migrated,
					Message: fmt.Sprintf("Migrated node %s from schema version %s to %s", node.Type, node.SchemaVersion, latest.Version),
				}
			}
			log.Debug(log.CatPolicy, "migration attempt failed, falling through",
				"schemaId", node.SchemaID, "from", node.SchemaVersion, "to", latest.Version, "error", err)
		}
	}

	switch p.Behavior {
	case BehaviorWarn:
		res := Result{
			Outcome: OutcomeWarned,
			Message: fmt.Sprintf("Warning: unknown semantic node %s (schema %s@%s); interpretation may be incomplete", node.Type, node.SchemaID, node.SchemaVersion),
		}
		if p.PreserveInSerialization {
			res.Node = &node
		}
		return res
	case BehaviorPreserve:
		return Result{
			Outcome: OutcomePreserved,
			Node:    &node,
			Message: fmt.Sprintf("Preserved unknown semantic node %s (schema %s@%s) without interpretation", node.Type, node.SchemaID, node.SchemaVersion),
		}
	default:
		// Reject is the default for an unset or unknown behavior.
		return Result{
			Outcome:     OutcomeRejected,
			Message:     fmt.Sprintf("Unknown semantic node %s: schema %s@%s is not registered or its payload is invalid", node.Type, node.SchemaID, node.SchemaVersion),
			Suggestions: e.suggest(ctx, node),
		}
	}
}

// suggest resolves suggestions for the node's declared schema id through
// the read-through cache.
func (e *Engine) suggest(ctx context.Context, node extension.Node) []string {
	out, _ := e.suggestions.Get(ctx, node.SchemaID, node, suggestionTTL)
	return out
}

// rankSuggestions ranks registered schema ids against the node's declared
// schema id for typo recovery. The list is never empty: when nothing is
// registered it falls back to an installation hint for the node's
// namespace.
func (e *Engine) rankSuggestions(ctx context.Context, node extension.Node) ([]string, error) {
	known := e.registry.IDs()
	var out []string
	matches := fuzzy.Find(node.SchemaID, known)
	for i := 0; i < len(matches) && i < maxSuggestions; i++ {
		out = append(out, matches[i].Str)
	}
	if len(out) == 0 {
		for i := 0; i < len(known) && i < maxSuggestions; i++ {
			out = append(out, known[i])
		}
	}
	if len(out) == 0 {
		for _, ns := range e.registry.Namespaces() {
			out = append(out, fmt.Sprintf("namespace %s is registered; check the schema id", ns))
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	if len(out) == 0 {
		out = []string{fmt.Sprintf("no schemas registered; install the %s extension and reload its schema pack", node.Namespace)}
	}
	return out, nil
}
