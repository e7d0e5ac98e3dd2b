package nft

import (
	"fmt"

	"github.com/google/nftables"
)

// TableFromKernel converts a netlink table into a Table without chains.
func TableFromKernel(kt *nftables.Table) (Table, error) {
	family, err := FamilyFromKernel(kt.Family)
	if err != nil {
		return Table{}, fmt.Errorf("nft: table %q: %w", kt.Name, err)
	}
	return Table{Name: kt.Name, Family: family}, nil
}

// ChainFromKernel converts a netlink chain of a table with the given family.
// Chains without hook information become regular chains. Priorities that are
// not one of the named constants are dropped rather than rounded.
func ChainFromKernel(family Family, kc *nftables.Chain) (Chain, error) {
	c := Chain{
		Name:   kc.Name,
		Policy: ChainPolicyFromKernel(kc.Policy),
		Device: kc.Device,
	}
	if kc.Hooknum == nil {
		return c, nil
	}

	ct, err := ChainTypeFromKernel(kc.Type)
	if err != nil {
		return Chain{}, fmt.Errorf("nft: chain %q: %w", kc.Name, err)
	}
	hook, err := HookFromKernel(family, *kc.Hooknum)
	if err != nil {
		return Chain{}, fmt.Errorf("nft: chain %q: %w", kc.Name, err)
	}
	c.Type = ct
	c.Hook = HookRef(hook)
	if kc.Priority != nil {
		if p, err := PriorityFromInt(int32(*kc.Priority)); err == nil {
			c.Priority = PriorityRef(p)
		}
	}
	return c, nil
}
