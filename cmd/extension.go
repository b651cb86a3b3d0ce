package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cardplay/canon/internal/canon"
	"github.com/cardplay/canon/internal/config"
)

var extensionCmd = &cobra.Command{
	Use:     "extension",
	Aliases: []string{"ext"},
	Short:   "Manage the installed-extension table",
}

var extensionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed extensions and their versions",
	Long: `List shows every extension the compatibility checker treats as
installed. The table merges the versions declared by loaded packs with
the extensions section of the config file; config entries win.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, loaded, err := loadRegistry()
		if err != nil {
			return err
		}

		installed := installedTable(loaded)
		if len(installed) == 0 {
			fmt.Println("no extensions installed")
			return nil
		}

		namespaces := make([]string, 0, len(installed))
		for ns := range installed {
			namespaces = append(namespaces, ns)
		}
		sort.Strings(namespaces)
		for _, ns := range namespaces {
			fmt.Printf("%s  %s\n", ns, installed[ns])
		}
		return nil
	},
}

var extensionAddCmd = &cobra.Command{
	Use:   "add <namespace> <version>",
	Short: "Record an extension as installed in the config file",
	Long: `Add writes the namespace and version into the extensions section of
the config file, creating the file if it does not exist. Comments and
unrelated sections of an existing config file are preserved.

Examples:
  canon extension add my-pack 1.2.0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, ver := args[0], args[1]
		if err := canon.CheckNamespace(ns); err != nil {
			return fmt.Errorf("namespace %q: %w", ns, err)
		}

		extensions := make(map[string]string, len(cfg.Extensions)+1)
		for k, v := range cfg.Extensions {
			extensions[k] = v
		}
		extensions[ns] = ver

		path := configFilePath()
		if err := config.SaveExtensions(path, extensions); err != nil {
			return err
		}
		fmt.Printf("recorded %s %s in %s\n", ns, ver, path)
		return nil
	},
}

var extensionRemoveCmd = &cobra.Command{
	Use:     "remove <namespace>",
	Aliases: []string{"rm"},
	Short:   "Remove an extension from the config file",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns := args[0]
		if _, ok := cfg.Extensions[ns]; !ok {
			return fmt.Errorf("extension %q is not recorded in the config file", ns)
		}

		extensions := make(map[string]string, len(cfg.Extensions))
		for k, v := range cfg.Extensions {
			if k != ns {
				extensions[k] = v
			}
		}

		path := configFilePath()
		if err := config.SaveExtensions(path, extensions); err != nil {
			return err
		}
		fmt.Printf("removed %s from %s\n", ns, path)
		return nil
	},
}

func init() {
	extensionCmd.AddCommand(extensionListCmd)
	extensionCmd.AddCommand(extensionAddCmd)
	extensionCmd.AddCommand(extensionRemoveCmd)
	rootCmd.AddCommand(extensionCmd)
}
