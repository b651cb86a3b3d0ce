package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// SaveExtensions updates the installed-extension table in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveExtensions(configPath string, extensions map[string]string) error {
	return replaceSection(configPath, "extensions", buildExtensionsNode(extensions))
}

// SavePackDirs updates the pack search path in the config file, preserving
// the rest of the document.
func SavePackDirs(configPath string, dirs []string) error {
	node := &yaml.Node{Kind: yaml.SequenceNode}
	for _, dir := range dirs {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: dir})
	}
	return replaceSection(configPath, "pack_dirs", node)
}

// buildExtensionsNode renders the extension table with stable key order so
// repeated saves do not churn the file.
func buildExtensionsNode(extensions map[string]string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}

	namespaces := make([]string, 0, len(extensions))
	for ns := range extensions {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)

	for _, ns := range namespaces {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: ns},
			&yaml.Node{Kind: yaml.ScalarNode, Value: extensions[ns]},
		)
	}
	if len(node.Content) == 0 {
		// Render an explicit empty map instead of a null value.
		node.Style = yaml.FlowStyle
	}
	return node
}

// replaceSection swaps the value of a top-level key in the config file,
// creating the file or the key when missing.
func replaceSection(configPath, key string, value *yaml.Node) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path is the user's own config file
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{
					Kind: yaml.MappingNode,
					Content: []*yaml.Node{
						{Kind: yaml.ScalarNode, Value: key},
						value,
					},
				},
			},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind != yaml.MappingNode {
			return fmt.Errorf("config root is not a mapping")
		}
		found := false
		for i := 0; i < len(root.Content)-1; i += 2 {
			if root.Content[i].Value == key {
				root.Content[i+1] = value
				found = true
				break
			}
		}
		if !found {
			root.Content = append(root.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: key},
				value,
			)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing encoder: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
