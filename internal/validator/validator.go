// Package validator decides which combinations of chain type, family and hook
// nftables accepts on a given host.
//
// The decision tables follow
// https://wiki.nftables.org/wiki-nftables/index.php/Netfilter_hooks#Hooks_by_family_and_chain_type.
// Every switch lists every member of its enumeration; the trailing return
// false is reached only by values outside the closed sets.
package validator

import (
	"github.com/plexsphere/nftcompat/internal/nft"
	"github.com/plexsphere/nftcompat/internal/system"
)

// Version thresholds for the hooks that need both kernel and nft support.
var (
	// inet ingress: kernel 5.10, nft 0.9.7.
	inetIngressKernel = system.NewVersion(5, 10, 0)
	inetIngressEngine = system.NewVersion(0, 9, 7)

	// netdev ingress: kernel 4.2, nft 0.6.
	netdevIngressKernel = system.NewVersion(4, 2, 0)
	netdevIngressEngine = system.NewVersion(0, 6, 0)

	// netdev egress: kernel 5.16, nft 1.0.1.
	netdevEgressKernel = system.NewVersion(5, 16, 0)
	netdevEgressEngine = system.NewVersion(1, 0, 1)
)

// Validator answers compatibility queries against a fixed Snapshot. It holds
// no mutable state and is safe for concurrent use.
type Validator struct {
	snap system.Snapshot
}

// New returns a Validator for the given snapshot.
func New(snap system.Snapshot) *Validator {
	return &Validator{snap: snap}
}

// Snapshot returns the snapshot the validator was built with.
func (v *Validator) Snapshot() system.Snapshot {
	return v.snap
}

// ChainTypeAllowed reports whether a chain of type ct may be declared in a
// table of family f. Netdev never passes this check; netdev chains are judged
// by HookAllowed alone.
func (v *Validator) ChainTypeAllowed(ct nft.ChainType, f nft.Family) bool {
	switch ct {
	case nft.ChainTypeFilter:
		return f == nft.FamilyIP || f == nft.FamilyIP6 || f == nft.FamilyInet ||
			f == nft.FamilyARP || f == nft.FamilyBridge
	case nft.ChainTypeNAT:
		return f == nft.FamilyIP || f == nft.FamilyIP6
	case nft.ChainTypeRoute:
		return f == nft.FamilyIP || f == nft.FamilyIP6
	}
	return false
}

// HookAllowed reports whether a chain of type ct in family f may attach to
// hook h on this host.
func (v *Validator) HookAllowed(h nft.Hook, ct nft.ChainType, f nft.Family) bool {
	switch f {
	case nft.FamilyInet:
		switch ct {
		case nft.ChainTypeFilter:
			switch h {
			case nft.HookPrerouting, nft.HookInput, nft.HookForward, nft.HookOutput, nft.HookPostrouting:
				return true
			case nft.HookIngress:
				return v.supports(inetIngressKernel, inetIngressEngine)
			case nft.HookEgress:
				return false
			}
		case nft.ChainTypeNAT:
			return natHook(h)
		case nft.ChainTypeRoute:
			return h == nft.HookOutput
		}
	case nft.FamilyIP, nft.FamilyIP6:
		switch ct {
		case nft.ChainTypeFilter:
			return classicHook(h)
		case nft.ChainTypeNAT:
			return natHook(h)
		case nft.ChainTypeRoute:
			return h == nft.HookOutput
		}
	case nft.FamilyARP:
		switch ct {
		case nft.ChainTypeFilter:
			return h == nft.HookInput || h == nft.HookOutput
		case nft.ChainTypeNAT, nft.ChainTypeRoute:
			return false
		}
	case nft.FamilyBridge:
		switch ct {
		case nft.ChainTypeFilter:
			return classicHook(h)
		case nft.ChainTypeNAT, nft.ChainTypeRoute:
			return false
		}
	case nft.FamilyNetdev:
		switch ct {
		case nft.ChainTypeFilter:
			switch h {
			case nft.HookIngress:
				return v.supports(netdevIngressKernel, netdevIngressEngine)
			case nft.HookEgress:
				return v.supports(netdevEgressKernel, netdevEgressEngine)
			case nft.HookPrerouting, nft.HookInput, nft.HookForward, nft.HookOutput, nft.HookPostrouting:
				return false
			}
		case nft.ChainTypeNAT, nft.ChainTypeRoute:
			return false
		}
	}
	return false
}

// supports reports whether both the kernel and nft meet their thresholds.
func (v *Validator) supports(kernel, engine system.Version) bool {
	return v.snap.Engine.AtLeast(engine) && v.snap.Kernel.AtLeast(kernel)
}

// classicHook reports whether h is one of the five IP-stack hooks.
func classicHook(h nft.Hook) bool {
	switch h {
	case nft.HookPrerouting, nft.HookInput, nft.HookForward, nft.HookOutput, nft.HookPostrouting:
		return true
	case nft.HookIngress, nft.HookEgress:
		return false
	}
	return false
}

// natHook reports whether h can carry a nat chain. Forwarded packets are
// never translated.
func natHook(h nft.Hook) bool {
	switch h {
	case nft.HookPrerouting, nft.HookInput, nft.HookOutput, nft.HookPostrouting:
		return true
	case nft.HookForward, nft.HookIngress, nft.HookEgress:
		return false
	}
	return false
}

// Requirement returns the minimum kernel and nft versions a hook needs in the
// given family and chain type, and false when the hook is not version gated.
func Requirement(h nft.Hook, ct nft.ChainType, f nft.Family) (kernel, engine system.Version, gated bool) {
	if ct != nft.ChainTypeFilter {
		return system.Version{}, system.Version{}, false
	}
	switch {
	case f == nft.FamilyInet && h == nft.HookIngress:
		return inetIngressKernel, inetIngressEngine, true
	case f == nft.FamilyNetdev && h == nft.HookIngress:
		return netdevIngressKernel, netdevIngressEngine, true
	case f == nft.FamilyNetdev && h == nft.HookEgress:
		return netdevEgressKernel, netdevEgressEngine, true
	}
	return system.Version{}, system.Version{}, false
}
