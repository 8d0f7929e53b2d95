package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ChainTable maps a requester role to the ordered reviewer roles its leave
// requests pass through.
type ChainTable map[string][]string

type chainsFile struct {
	Chains ChainTable `yaml:"chains"`
}

// DefaultChains is used when APPROVAL_CHAINS_FILE is unset.
func DefaultChains() ChainTable {
	return ChainTable{
		"guru":           {"kepala sekolah", "dirpen"},
		"staf":           {"kepala sekolah"},
		"kepala sekolah": {"dirpen"},
	}
}

// LoadChains reads a YAML file of the form
//
//	chains:
//	  guru: [kepala sekolah, dirpen]
func LoadChains(path string) (ChainTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read approval chains file: %w", err)
	}
	return ParseChains(raw)
}

func ParseChains(raw []byte) (ChainTable, error) {
	var f chainsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse approval chains: %w", err)
	}
	if err := f.Chains.Validate(); err != nil {
		return nil, err
	}
	return f.Chains, nil
}

// Validate rejects empty tables, empty chains and blank roles.
func (t ChainTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("approval chains: at least one chain is required")
	}
	for requester, chain := range t {
		if strings.TrimSpace(requester) == "" {
			return fmt.Errorf("approval chains: blank requester role")
		}
		if len(chain) == 0 {
			return fmt.Errorf("approval chains: chain for %q is empty", requester)
		}
		for _, role := range chain {
			if strings.TrimSpace(role) == "" {
				return fmt.Errorf("approval chains: chain for %q has a blank role", requester)
			}
		}
	}
	return nil
}
