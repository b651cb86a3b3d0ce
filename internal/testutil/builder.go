// Package testutil provides test fixtures for registries and extension nodes.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardplay/canon/internal/schema"
)

// RegistryBuilder accumulates schemas and registers them in order.
type RegistryBuilder struct {
	t       *testing.T
	schemas []*schema.Schema
}

// NewRegistryBuilder creates a builder for a populated test registry.
func NewRegistryBuilder(t *testing.T) *RegistryBuilder {
	t.Helper()
	return &RegistryBuilder{t: t}
}

// WithSchema adds a schema version with optional configuration.
func (b *RegistryBuilder) WithSchema(id, version string, opts ...SchemaOption) *RegistryBuilder {
	s := defaultSchema(id, version)
	for _, opt := range opts {
		opt(s)
	}
	b.schemas = append(b.schemas, s)
	return b
}

// Build registers all accumulated schemas and returns the registry.
func (b *RegistryBuilder) Build() *schema.Registry {
	b.t.Helper()
	reg := schema.NewRegistry()
	for _, s := range b.schemas {
		require.NoError(b.t, reg.Register(s), "register %s", s.Key())
	}
	return reg
}
