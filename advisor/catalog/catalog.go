// Package catalog serves the static IT-solution and support-grant databases.
// Both are embedded at build time and never change at runtime.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

var (
	//go:embed data/solutions.json
	solutionsRaw []byte

	//go:embed data/grants.json
	grantsRaw []byte
)

// Entry describes one catalog item.
type Entry struct {
	Description string   `json:"description"`
	Examples    []string `json:"examples,omitempty"`
}

var (
	solutions = mustParse("solutions", solutionsRaw)
	grants    = mustParse("grants", grantsRaw)
)

// Solutions returns the IT-solution catalog keyed by solution name.
func Solutions() map[string]Entry {
	return solutions
}

// Grants returns the support-grant catalog keyed by program name.
func Grants() map[string]Entry {
	return grants
}

func mustParse(name string, raw []byte) map[string]Entry {
	var entries map[string]Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		panic(fmt.Sprintf("catalog: parse embedded %s database: %v", name, err))
	}
	return entries
}
