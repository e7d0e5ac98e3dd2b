package validator

import (
	"fmt"

	"github.com/plexsphere/nftcompat/internal/nft"
)

// Code classifies a Violation.
type Code string

// Possible Code values.
const (
	CodeChainType        Code = "chain-type"         // chain type not allowed in family
	CodeHook             Code = "hook"               // hook never allowed for type and family
	CodeHookVersion      Code = "hook-version"       // hook needs a newer kernel or nft
	CodeDeviceMissing    Code = "device-missing"     // netdev or inet ingress base chain without device
	CodeDuplicateChain   Code = "duplicate-chain"    // two chains share a name
	CodeUnknownTarget    Code = "unknown-target"     // jump/goto to a chain not in the table
	CodeBaseChainTarget  Code = "base-chain-target"  // jump/goto to a base chain
	CodeDeviceNotPresent Code = "device-not-present" // reported by the live audit
)

// Violation describes one structural problem of a declared table or chain.
type Violation struct {
	Table   string     `yaml:"table"`
	Family  nft.Family `yaml:"family"`
	Chain   string     `yaml:"chain,omitempty"`
	Code    Code       `yaml:"code"`
	Message string     `yaml:"message"`
}

// String renders the violation on one line.
func (v Violation) String() string {
	loc := v.Family.String() + " " + v.Table
	if v.Chain != "" {
		loc += "/" + v.Chain
	}
	return fmt.Sprintf("%s: %s: %s", loc, v.Code, v.Message)
}

// CheckChain checks a single chain of a table with family f. Regular chains
// have nothing to check here.
func (v *Validator) CheckChain(table string, f nft.Family, c nft.Chain) []Violation {
	if !c.IsBase() {
		return nil
	}

	var out []Violation
	add := func(code Code, format string, args ...any) {
		out = append(out, Violation{
			Table:   table,
			Family:  f,
			Chain:   c.Name,
			Code:    code,
			Message: fmt.Sprintf(format, args...),
		})
	}

	// netdev is judged by its hooks only.
	if f != nft.FamilyNetdev && !v.ChainTypeAllowed(c.Type, f) {
		add(CodeChainType, "chain type %s is not allowed in family %s", c.Type, f)
	}

	h := *c.Hook
	if !v.HookAllowed(h, c.Type, f) {
		if kernel, engine, gated := Requirement(h, c.Type, f); gated {
			add(CodeHookVersion, "hook %s requires kernel >= %s and nft >= %s (have kernel %s, nft %s)",
				h, kernel, engine, v.snap.Kernel, v.snap.Engine)
		} else {
			add(CodeHook, "hook %s is not allowed for %s chains in family %s", h, c.Type, f)
		}
	}

	// nft rejects netdev chains and inet ingress chains without a device.
	if c.Device == "" && (f == nft.FamilyNetdev || (f == nft.FamilyInet && h == nft.HookIngress)) {
		add(CodeDeviceMissing, "%s chain on hook %s needs a device", f, h)
	}
	return out
}

// CheckTable checks every chain of t and the jump/goto targets between them.
func (v *Validator) CheckTable(t nft.Table) []Violation {
	var out []Violation

	seen := make(map[string]bool, len(t.Chains))
	for _, c := range t.Chains {
		if seen[c.Name] {
			out = append(out, Violation{
				Table:   t.Name,
				Family:  t.Family,
				Chain:   c.Name,
				Code:    CodeDuplicateChain,
				Message: "chain declared more than once",
			})
			continue
		}
		seen[c.Name] = true
		out = append(out, v.CheckChain(t.Name, t.Family, c)...)
	}

	for _, c := range t.Chains {
		for _, verdict := range c.Verdicts {
			target, ok := verdict.Target()
			if !ok {
				continue
			}
			dst, found := t.Chain(target)
			switch {
			case !found:
				out = append(out, Violation{
					Table:   t.Name,
					Family:  t.Family,
					Chain:   c.Name,
					Code:    CodeUnknownTarget,
					Message: fmt.Sprintf("%s: chain %q does not exist in table", verdict, target),
				})
			case dst.IsBase():
				out = append(out, Violation{
					Table:   t.Name,
					Family:  t.Family,
					Chain:   c.Name,
					Code:    CodeBaseChainTarget,
					Message: fmt.Sprintf("%s: chain %q is a base chain", verdict, target),
				})
			}
		}
	}
	return out
}

// CheckTables checks each table in order.
func (v *Validator) CheckTables(tables []nft.Table) []Violation {
	var out []Violation
	for _, t := range tables {
		out = append(out, v.CheckTable(t)...)
	}
	return out
}
