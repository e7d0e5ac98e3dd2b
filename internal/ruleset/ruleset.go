// Package ruleset reads declarative table and chain layouts from YAML so they
// can be checked before anything is loaded into the kernel.
package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/plexsphere/nftcompat/internal/nft"
)

// File is the on-disk shape of a ruleset declaration.
type File struct {
	Tables []TableSpec `yaml:"tables"`
}

// TableSpec declares one table.
type TableSpec struct {
	Name   string      `yaml:"name"`
	Family string      `yaml:"family"`
	Chains []ChainSpec `yaml:"chains"`
}

// ChainSpec declares one chain. A chain without a hook is a regular chain.
// Type defaults to "filter" for base chains and Policy to "accept".
type ChainSpec struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type,omitempty"`
	Hook     string   `yaml:"hook,omitempty"`
	Priority string   `yaml:"priority,omitempty"`
	Policy   string   `yaml:"policy,omitempty"`
	Device   string   `yaml:"device,omitempty"`
	Jumps    []string `yaml:"jumps,omitempty"`
}

// Load reads and converts the ruleset file at path.
func Load(path string) ([]nft.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ruleset: read %s: %w", path, err)
	}
	tables, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("ruleset: %s: %w", path, err)
	}
	return tables, nil
}

// Parse decodes a ruleset document. Unknown keys are rejected so a typo does
// not silently drop part of a declaration. An empty document has no tables.
func Parse(data []byte) ([]nft.Table, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	return f.Convert()
}

// Convert turns the declaration into nft tables.
func (f File) Convert() ([]nft.Table, error) {
	tables := make([]nft.Table, 0, len(f.Tables))
	for i, ts := range f.Tables {
		t, err := ts.convert()
		if err != nil {
			return nil, fmt.Errorf("tables[%d]: %w", i, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (ts TableSpec) convert() (nft.Table, error) {
	if ts.Name == "" {
		return nft.Table{}, errors.New("table name must not be empty")
	}
	family, err := nft.ParseFamily(ts.Family)
	if err != nil {
		return nft.Table{}, fmt.Errorf("table %q: %w", ts.Name, err)
	}

	t := nft.Table{Name: ts.Name, Family: family}
	for _, cs := range ts.Chains {
		c, err := cs.convert()
		if err != nil {
			return nft.Table{}, fmt.Errorf("table %q: %w", ts.Name, err)
		}
		t.Chains = append(t.Chains, c)
	}
	return t, nil
}

func (cs ChainSpec) convert() (nft.Chain, error) {
	if cs.Name == "" {
		return nft.Chain{}, errors.New("chain name must not be empty")
	}
	c := nft.Chain{Name: cs.Name, Device: cs.Device}

	if cs.Hook == "" {
		if cs.Type != "" || cs.Priority != "" || cs.Policy != "" || cs.Device != "" {
			return nft.Chain{}, fmt.Errorf("chain %q: type, priority, policy and device require a hook", cs.Name)
		}
	} else {
		hook, err := nft.ParseHook(cs.Hook)
		if err != nil {
			return nft.Chain{}, fmt.Errorf("chain %q: %w", cs.Name, err)
		}
		c.Hook = nft.HookRef(hook)

		c.Type = nft.ChainTypeFilter
		if cs.Type != "" {
			if c.Type, err = nft.ParseChainType(cs.Type); err != nil {
				return nft.Chain{}, fmt.Errorf("chain %q: %w", cs.Name, err)
			}
		}
		if cs.Priority != "" {
			p, err := nft.ParsePriority(cs.Priority)
			if err != nil {
				return nft.Chain{}, fmt.Errorf("chain %q: %w", cs.Name, err)
			}
			c.Priority = nft.PriorityRef(p)
		}
		if cs.Policy != "" {
			if c.Policy, err = nft.ParseChainPolicy(cs.Policy); err != nil {
				return nft.Chain{}, fmt.Errorf("chain %q: %w", cs.Name, err)
			}
		}
	}

	for _, j := range cs.Jumps {
		v, err := nft.ParseVerdict(j)
		if err != nil {
			return nft.Chain{}, fmt.Errorf("chain %q: %w", cs.Name, err)
		}
		if _, ok := v.Target(); !ok {
			return nft.Chain{}, fmt.Errorf("chain %q: jumps entry %q is not a jump or goto", cs.Name, j)
		}
		c.Verdicts = append(c.Verdicts, v)
	}
	return c, nil
}
