package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardplay/canon/internal/infrastructure/sqlite"
	"github.com/cardplay/canon/internal/schema"
	"github.com/cardplay/canon/internal/schemapack"
)

var packStorePath string

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Load and publish schema packs",
}

var packListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the packs found in the configured pack directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := schemapack.LoadDirs(cfg.PackDirs)
		if err != nil {
			return err
		}
		if len(loaded.Packs) == 0 {
			fmt.Println("no packs found")
			return nil
		}
		for _, p := range loaded.Packs {
			fmt.Printf("%s  %s", p.Namespace, p.Version)
			if p.Description != "" {
				fmt.Printf("  %s", p.Description)
			}
			fmt.Println()
		}
		return nil
	},
}

var packPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Persist loaded pack schemas to the local schema store",
	Long: `Publish loads every pack from the configured pack directories and
writes its schemas into the local store. The store is append-only: a
(schema, version) pair already present is skipped, never overwritten.
Ship changes under a new version instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, loaded, err := loadRegistry()
		if err != nil {
			return err
		}
		if len(loaded.Schemas) == 0 {
			fmt.Println("no schemas to publish")
			return nil
		}

		path := packStorePath
		if path == "" {
			path = cfg.Store.Path
		}
		db, err := sqlite.NewDB(path)
		if err != nil {
			return err
		}
		defer db.Close()

		store := db.SchemaStore()
		published, skipped := 0, 0
		for _, id := range reg.IDs() {
			for _, v := range reg.Versions(id) {
				s, _ := reg.Get(id, v)
				switch err := store.Save(s); {
				case err == nil:
					published++
				case errors.Is(err, schema.ErrSchemaExists):
					skipped++
				default:
					return fmt.Errorf("publish %s: %w", s.Key(), err)
				}
			}
		}
		fmt.Printf("published %d schemas to %s (%d already present)\n", published, path, skipped)
		return nil
	},
}

func init() {
	packPublishCmd.Flags().StringVar(&packStorePath, "store", "", "schema store path (defaults to store.path from config)")

	packCmd.AddCommand(packListCmd)
	packCmd.AddCommand(packPublishCmd)
	rootCmd.AddCommand(packCmd)
}
