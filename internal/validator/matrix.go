package validator

import "github.com/plexsphere/nftcompat/internal/nft"

// MatrixEntry summarizes one (family, chain type) pair.
type MatrixEntry struct {
	Family           nft.Family    `yaml:"family"`
	ChainType        nft.ChainType `yaml:"type"`
	ChainTypeAllowed bool          `yaml:"chain_type_allowed"`
	Hooks            []nft.Hook    `yaml:"hooks"`
}

// AllowedHooks returns the hooks HookAllowed accepts for ct in family f, in
// packet-path order.
func (v *Validator) AllowedHooks(ct nft.ChainType, f nft.Family) []nft.Hook {
	var hooks []nft.Hook
	for _, h := range nft.AllHooks() {
		if v.HookAllowed(h, ct, f) {
			hooks = append(hooks, h)
		}
	}
	return hooks
}

// Matrix evaluates every (family, chain type) pair, family-major.
func (v *Validator) Matrix() []MatrixEntry {
	families := nft.AllFamilies()
	types := nft.AllChainTypes()
	entries := make([]MatrixEntry, 0, len(families)*len(types))
	for _, f := range families {
		for _, ct := range types {
			entries = append(entries, MatrixEntry{
				Family:           f,
				ChainType:        ct,
				ChainTypeAllowed: v.ChainTypeAllowed(ct, f),
				Hooks:            v.AllowedHooks(ct, f),
			})
		}
	}
	return entries
}
