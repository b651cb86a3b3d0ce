package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/cardplay/canon/internal/schema"
)

var (
	schemaShowVersion string
	schemaListJSON    bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect schemas loaded from the configured pack directories",
}

var schemaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered schema and its versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, err := loadRegistry()
		if err != nil {
			return err
		}

		if schemaListJSON {
			type entry struct {
				ID       string   `json:"id"`
				Versions []string `json:"versions"`
				Latest   string   `json:"latest"`
			}
			entries := make([]entry, 0, len(reg.IDs()))
			for _, id := range reg.IDs() {
				e := entry{ID: id, Versions: reg.Versions(id)}
				if latest, ok := reg.Latest(id); ok {
					e.Latest = latest.Version
				}
				entries = append(entries, e)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		if len(reg.IDs()) == 0 {
			fmt.Println("no schemas registered")
			return nil
		}
		for _, id := range reg.IDs() {
			versions := reg.Versions(id)
			latest := versions[len(versions)-1]
			if s, ok := reg.Latest(id); ok {
				latest = s.Version
			}
			fmt.Printf("%s  versions=%s  latest=%s\n", id, strings.Join(versions, ","), latest)
		}
		return nil
	},
}

var schemaShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one schema version as JSON",
	Long: `Show prints the full schema document, payload type tree included. With
no --version flag the latest registered version is shown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, err := loadRegistry()
		if err != nil {
			return err
		}

		s, err := resolveSchema(reg, args[0], schemaShowVersion)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	},
}

var schemaDiffCmd = &cobra.Command{
	Use:   "diff <id> <version1> <version2>",
	Short: "Show a line diff between two versions of a schema",
	Long: `Diff pretty-prints both schema versions as JSON and reports a line
oriented diff, so a pack author can see exactly which payload fields a
version bump touched.

Examples:
  canon schema diff my-pack:grit-axis 1.0.0 1.1.0`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, err := loadRegistry()
		if err != nil {
			return err
		}

		from, err := resolveSchema(reg, args[0], args[1])
		if err != nil {
			return err
		}
		to, err := resolveSchema(reg, args[0], args[2])
		if err != nil {
			return err
		}

		text, err := diffSchemas(from, to)
		if err != nil {
			return err
		}
		if text == "" {
			fmt.Printf("%s: versions %s and %s are identical\n", args[0], args[1], args[2])
			return nil
		}
		fmt.Print(text)
		return nil
	},
}

func init() {
	schemaListCmd.Flags().BoolVar(&schemaListJSON, "json", false, "emit the schema list as JSON")
	schemaShowCmd.Flags().StringVar(&schemaShowVersion, "version", "", "schema version (defaults to latest)")

	schemaCmd.AddCommand(schemaListCmd)
	schemaCmd.AddCommand(schemaShowCmd)
	schemaCmd.AddCommand(schemaDiffCmd)
	rootCmd.AddCommand(schemaCmd)
}

// resolveSchema looks up id at version, or the latest version when version
// is empty.
func resolveSchema(reg *schema.Registry, id, version string) (*schema.Schema, error) {
	if version == "" {
		s, ok := reg.Latest(id)
		if !ok {
			return nil, fmt.Errorf("schema %s is not registered", id)
		}
		return s, nil
	}
	s, ok := reg.Get(id, version)
	if !ok {
		return nil, fmt.Errorf("schema %s@%s is not registered", id, version)
	}
	return s, nil
}

// diffSchemas renders a unified-style line diff between two schema
// documents. Unchanged runs longer than a few lines are elided.
func diffSchemas(from, to *schema.Schema) (string, error) {
	a, err := json.MarshalIndent(from, "", "  ")
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(to, "", "  ")
	if err != nil {
		return "", err
	}
	if string(a) == string(b) {
		return "", nil
	}

	dmp := diffmatchpatch.New()
	c1, c2, lines := dmp.DiffLinesToChars(string(a)+"\n", string(b)+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(c1, c2, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffEqual:
			sb.WriteString(elideEqual(d.Text))
			continue
		}
		for _, line := range splitDiffLines(d.Text) {
			sb.WriteString(prefix + line + "\n")
		}
	}
	return sb.String(), nil
}

// elideEqual keeps two lines of context on either side of a change and
// replaces the middle of long equal runs with an ellipsis marker.
func elideEqual(text string) string {
	const context = 2
	lines := splitDiffLines(text)

	var sb strings.Builder
	if len(lines) <= 2*context+1 {
		for _, line := range lines {
			sb.WriteString("  " + line + "\n")
		}
		return sb.String()
	}
	for _, line := range lines[:context] {
		sb.WriteString("  " + line + "\n")
	}
	fmt.Fprintf(&sb, "  ... %d unchanged lines ...\n", len(lines)-2*context)
	for _, line := range lines[len(lines)-context:] {
		sb.WriteString("  " + line + "\n")
	}
	return sb.String()
}

func splitDiffLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
