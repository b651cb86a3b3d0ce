package compat

import (
	"fmt"

	"github.com/cardplay/canon/internal/extension"
)

// Requirement names an extension version a consumer would need to install
// before a node can be interpreted.
type Requirement struct {
	Namespace string `json:"namespace"`
	Version   string `json:"version"`
}

// Result describes how a node relates to an installed extension set.
type Result struct {
	Compatible bool          `json:"compatible"`
	Requires   []Requirement `json:"requires"`
	Conflicts  []Requirement `json:"conflicts"`
	Warnings   []string      `json:"warnings"`
}

// Check cross-references the node's declared namespace and version against
// installed, a map of extension namespace to installed version. A namespace
// missing from the map is incompatible and reported under Requires. A
// version mismatch stays compatible but carries a warning.
func Check(node extension.Node, installed map[string]string) Result {
	installedVersion, ok := installed[node.Namespace]
	if !ok {
		return Result{
			Compatible: false,
			Requires: []Requirement{{
				Namespace: node.Namespace,
				Version:   node.Version,
			}},
			Conflicts: []Requirement{},
			Warnings:  []string{},
		}
	}

	res := Result{
		Compatible: true,
		Requires:   []Requirement{},
		Conflicts:  []Requirement{},
		Warnings:   []string{},
	}
	if installedVersion != node.Version {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"extension %s version mismatch: node declares %s, installed %s",
			node.Namespace, node.Version, installedVersion))
	}
	return res
}
