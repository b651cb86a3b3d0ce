package cmd

import (
	"fmt"

	"github.com/cardplay/canon/internal/schema"
	"github.com/cardplay/canon/internal/schemapack"
)

// loadRegistry scans the configured pack directories and builds a registry
// from every declared schema.
func loadRegistry() (*schema.Registry, *schemapack.Loaded, error) {
	loaded, err := schemapack.LoadDirs(cfg.PackDirs)
	if err != nil {
		return nil, nil, fmt.Errorf("loading schema packs: %w", err)
	}

	reg := schema.NewRegistry()
	if err := loaded.Register(reg); err != nil {
		return nil, nil, err
	}
	return reg, loaded, nil
}

// installedTable merges the loaded packs' versions with the configured
// extension table; explicit configuration wins.
func installedTable(loaded *schemapack.Loaded) map[string]string {
	table := loaded.InstalledVersions()
	for ns, version := range cfg.Extensions {
		table[ns] = version
	}
	return table
}
