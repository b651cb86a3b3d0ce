package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cardplay/canon/internal/paramtype"
	"github.com/cardplay/canon/internal/schema"
)

// SchemaStore persists published schemas. Rows are append-only; the unique
// (schema_id, version) index enforces immutability at the storage layer.
type SchemaStore struct {
	db *sql.DB
}

// schemaModel is the database row for the schemas table. Payload, examples
// and migrations are JSON-encoded; migration transforms are in-process
// functions and are intentionally not persisted.
type schemaModel struct {
	SchemaID    string
	Version     string
	NodeType    string
	Description string
	Payload     string
	Examples    *string
	Migrations  *string
	PublishedAt int64
}

func toSchemaModel(s *schema.Schema) (*schemaModel, error) {
	payload, err := json.Marshal(s.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload type: %w", err)
	}

	m := &schemaModel{
		SchemaID:    s.ID,
		Version:     s.Version,
		NodeType:    s.NodeType,
		Description: s.Description,
		Payload:     string(payload),
		PublishedAt: time.Now().UnixMilli(),
	}
	if len(s.Examples) > 0 {
		encoded, err := json.Marshal(s.Examples)
		if err != nil {
			return nil, fmt.Errorf("encode examples: %w", err)
		}
		str := string(encoded)
		m.Examples = &str
	}
	if len(s.Migrations) > 0 {
		encoded, err := json.Marshal(s.Migrations)
		if err != nil {
			return nil, fmt.Errorf("encode migrations: %w", err)
		}
		str := string(encoded)
		m.Migrations = &str
	}
	return m, nil
}

func (m *schemaModel) toSchema() (*schema.Schema, error) {
	s := &schema.Schema{
		ID:          m.SchemaID,
		Version:     m.Version,
		NodeType:    m.NodeType,
		Description: m.Description,
	}

	var payload paramtype.Type
	if err := json.Unmarshal([]byte(m.Payload), &payload); err != nil {
		return nil, fmt.Errorf("decode payload type for %s@%s: %w", m.SchemaID, m.Version, err)
	}
	s.Payload = &payload

	if m.Examples != nil {
		if err := json.Unmarshal([]byte(*m.Examples), &s.Examples); err != nil {
			return nil, fmt.Errorf("decode examples for %s@%s: %w", m.SchemaID, m.Version, err)
		}
	}
	if m.Migrations != nil {
		if err := json.Unmarshal([]byte(*m.Migrations), &s.Migrations); err != nil {
			return nil, fmt.Errorf("decode migrations for %s@%s: %w", m.SchemaID, m.Version, err)
		}
	}
	return s, nil
}

// Save appends a published schema. Re-saving an existing (id, version)
// returns schema.ErrSchemaExists.
func (st *SchemaStore) Save(s *schema.Schema) error {
	model, err := toSchemaModel(s)
	if err != nil {
		return err
	}

	_, err = st.db.Exec(
		`INSERT INTO schemas (schema_id, version, node_type, description, payload, examples, migrations, published_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		model.SchemaID, model.Version, model.NodeType, model.Description,
		model.Payload, model.Examples, model.Migrations, model.PublishedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: %s", schema.ErrSchemaExists, s.Key())
		}
		return fmt.Errorf("insert schema: %w", err)
	}
	return nil
}

// LoadAll returns every persisted schema in publication order.
func (st *SchemaStore) LoadAll() ([]*schema.Schema, error) {
	rows, err := st.db.Query(
		`SELECT schema_id, version, node_type, description, payload, examples, migrations, published_at
		 FROM schemas ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query schemas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*schema.Schema
	for rows.Next() {
		var m schemaModel
		if err := rows.Scan(&m.SchemaID, &m.Version, &m.NodeType, &m.Description,
			&m.Payload, &m.Examples, &m.Migrations, &m.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan schema row: %w", err)
		}
		s, err := m.toSchema()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schema rows: %w", err)
	}
	return out, nil
}

// LoadInto registers every persisted schema into reg.
func (st *SchemaStore) LoadInto(reg *schema.Registry) error {
	schemas, err := st.LoadAll()
	if err != nil {
		return err
	}
	for _, s := range schemas {
		if err := reg.Register(s); err != nil {
			return fmt.Errorf("register %s: %w", s.Key(), err)
		}
	}
	return nil
}
