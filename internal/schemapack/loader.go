// Package schemapack loads extension schema packs from the filesystem.
// A pack is a directory containing a pack.yaml that declares the owning
// extension plus the schemas it publishes; loaded schemas are registered
// into a schema.Registry in one pass so a bad pack never half-registers.
package schemapack

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cardplay/canon/internal/canon"
	"github.com/cardplay/canon/internal/log"
	"github.com/cardplay/canon/internal/paramtype"
	"github.com/cardplay/canon/internal/schema"
)

// PackFileName is the manifest file scanned for inside pack directories.
const PackFileName = "pack.yaml"

// PackFile is the root structure of a pack.yaml manifest.
type PackFile struct {
	Pack    PackDef     `yaml:"pack"`
	Schemas []SchemaDef `yaml:"schemas"`
}

// PackDef identifies the extension that owns the pack's schemas.
type PackDef struct {
	Namespace   string `yaml:"namespace"`   // e.g., "my-pack"
	Version     string `yaml:"version"`     // extension version, e.g., "1.2.0"
	ExtensionID string `yaml:"extensionId"` // optional stable id; defaults to the namespace
	Description string `yaml:"description"`
}

// SchemaDef declares a single schema version in YAML.
type SchemaDef struct {
	ID          string           `yaml:"id"`
	Version     string           `yaml:"version"`
	NodeType    string           `yaml:"nodeType"`
	Payload     *paramtype.Type  `yaml:"payload"`
	Description string           `yaml:"description"`
	Examples    []map[string]any `yaml:"examples"`
	Migrations  []MigrationDef   `yaml:"migrations"`
}

// MigrationDef declares a migration edge in YAML. Declared edges carry no
// executable transform; they describe the version graph, and in-process
// transforms are attached by extension code after loading.
type MigrationDef struct {
	FromVersion string   `yaml:"fromVersion"`
	ToVersion   string   `yaml:"toVersion"`
	MigrationID string   `yaml:"migrationId"`
	Changes     []string `yaml:"changes"`
}

// Loaded is the result of scanning one filesystem for packs.
type Loaded struct {
	Packs   []PackDef
	Schemas []*schema.Schema
}

// Load scans fsys for pack.yaml manifests and returns every declared
// schema. Later it can be handed to Register. Duplicate (id, version)
// declarations across manifests are reported with both file paths.
func Load(fsys fs.FS) (*Loaded, error) {
	loaded := &Loaded{}
	declaredIn := make(map[string]string) // schema key -> manifest path

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != PackFileName {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		var file PackFile
		if err := yaml.Unmarshal(content, &file); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if err := validatePack(file.Pack, path); err != nil {
			return err
		}

		for _, def := range file.Schemas {
			s, err := buildSchemaFromDef(def, file.Pack, path)
			if err != nil {
				return err
			}
			if prev, dup := declaredIn[s.Key()]; dup {
				return fmt.Errorf("schema %s declared in both %s and %s", s.Key(), prev, path)
			}
			declaredIn[s.Key()] = path
			loaded.Schemas = append(loaded.Schemas, s)
		}

		loaded.Packs = append(loaded.Packs, file.Pack)
		log.Debug(log.CatPack, "loaded pack manifest", "path", path,
			"namespace", file.Pack.Namespace, "schemas", len(file.Schemas))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan schema packs: %w", err)
	}

	return loaded, nil
}

// LoadDirs loads packs from each existing directory in dirs. Missing
// directories are skipped so a fresh checkout without a .canon dir works.
func LoadDirs(dirs []string) (*Loaded, error) {
	merged := &Loaded{}
	seen := make(map[string]string)

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		loaded, err := Load(os.DirFS(dir))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dir, err)
		}
		for _, s := range loaded.Schemas {
			if prev, dup := seen[s.Key()]; dup {
				return nil, fmt.Errorf("schema %s declared in both %s and %s", s.Key(), prev, dir)
			}
			seen[s.Key()] = dir
		}
		merged.Packs = append(merged.Packs, loaded.Packs...)
		merged.Schemas = append(merged.Schemas, loaded.Schemas...)
	}

	return merged, nil
}

// Register publishes every loaded schema into reg.
func (l *Loaded) Register(reg *schema.Registry) error {
	for _, s := range l.Schemas {
		if err := reg.Register(s); err != nil {
			return fmt.Errorf("register %s: %w", s.Key(), err)
		}
	}
	return nil
}

// InstalledVersions returns the namespace -> version table of the loaded
// packs, in the shape the compatibility checker consumes.
func (l *Loaded) InstalledVersions() map[string]string {
	out := make(map[string]string, len(l.Packs))
	for _, p := range l.Packs {
		out[p.Namespace] = p.Version
	}
	return out
}

func validatePack(pack PackDef, path string) error {
	if pack.Namespace == "" {
		return fmt.Errorf("%s: pack.namespace is required", path)
	}
	if err := canon.CheckNamespace(pack.Namespace); err != nil {
		return fmt.Errorf("%s: pack.namespace %q: %w", path, pack.Namespace, err)
	}
	if pack.Version == "" {
		return fmt.Errorf("%s: pack.version is required", path)
	}
	return nil
}

// buildSchemaFromDef converts a YAML schema declaration into a schema
// value, filling in a fresh migration id for edges declared without one.
func buildSchemaFromDef(def SchemaDef, pack PackDef, path string) (*schema.Schema, error) {
	if def.ID == "" || def.Version == "" {
		return nil, fmt.Errorf("%s: schema entries require id and version", path)
	}
	if !strings.HasPrefix(def.ID, pack.Namespace+canon.Separator) {
		return nil, fmt.Errorf("%s: schema %s is outside pack namespace %s", path, def.ID, pack.Namespace)
	}
	if def.Payload == nil {
		return nil, fmt.Errorf("%s: schema %s@%s declares no payload type", path, def.ID, def.Version)
	}

	migrations := make([]schema.Migration, 0, len(def.Migrations))
	for _, m := range def.Migrations {
		id := m.MigrationID
		if id == "" {
			id = uuid.NewString()
		}
		migrations = append(migrations, schema.Migration{
			FromVersion: m.FromVersion,
			ToVersion:   m.ToVersion,
			MigrationID: id,
			Changes:     m.Changes,
		})
	}

	return &schema.Schema{
		ID:          def.ID,
		Version:     def.Version,
		NodeType:    def.NodeType,
		Payload:     def.Payload,
		Description: def.Description,
		Examples:    def.Examples,
		Migrations:  migrations,
	}, nil
}
