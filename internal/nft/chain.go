package nft

// Chain is a chain declaration. A chain with a nil Hook is a regular chain
// reachable only through jump or goto; otherwise it is a base chain.
type Chain struct {
	Name     string
	Type     ChainType
	Hook     *Hook
	Priority *Priority
	Policy   ChainPolicy
	// Device is the interface a netdev base chain binds to.
	Device string
	// Verdicts lists the jump/goto statements of the chain's rules. Other
	// verdicts may appear but carry no structural meaning.
	Verdicts []Verdict
}

// IsBase reports whether c attaches to a hook.
func (c Chain) IsBase() bool {
	return c.Hook != nil
}

// Table groups chains under a single family.
type Table struct {
	Name   string
	Family Family
	Chains []Chain
}

// Chain returns the chain called name, if present.
func (t Table) Chain(name string) (Chain, bool) {
	for _, c := range t.Chains {
		if c.Name == name {
			return c, true
		}
	}
	return Chain{}, false
}

// HookRef returns a pointer to h.
func HookRef(h Hook) *Hook {
	return &h
}

// PriorityRef returns a pointer to p.
func PriorityRef(p Priority) *Priority {
	return &p
}
