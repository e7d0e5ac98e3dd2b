// Package nft models the structural vocabulary of nftables: address families,
// chain types, hooks, chain policies, priorities and verdicts, plus the chain
// and table containers built from them.
//
// Every enumeration is closed. The All* functions list the members in
// declaration order and are what tests iterate to prove that decision tables
// are exhaustive.
package nft

import (
	"strings"

	"github.com/google/nftables"
)

// Family is the address family a table operates over.
type Family uint8

// Possible Family values.
const (
	FamilyIP Family = iota + 1
	FamilyIP6
	FamilyInet
	FamilyARP
	FamilyBridge
	FamilyNetdev
)

var familyNames = map[Family]string{
	FamilyIP:     "ip",
	FamilyIP6:    "ip6",
	FamilyInet:   "inet",
	FamilyARP:    "arp",
	FamilyBridge: "bridge",
	FamilyNetdev: "netdev",
}

// AllFamilies returns every Family in declaration order.
func AllFamilies() []Family {
	return []Family{FamilyIP, FamilyIP6, FamilyInet, FamilyARP, FamilyBridge, FamilyNetdev}
}

// String returns the nft keyword for the family.
func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return "family(" + itoa(int64(f)) + ")"
}

// ParseFamily parses an nft family keyword, case-insensitively.
// "ip4" and "ipv4" are accepted as aliases of "ip", "ipv6" of "ip6".
func ParseFamily(text string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "ip", "ip4", "ipv4":
		return FamilyIP, nil
	case "ip6", "ipv6":
		return FamilyIP6, nil
	case "inet":
		return FamilyInet, nil
	case "arp":
		return FamilyARP, nil
	case "bridge":
		return FamilyBridge, nil
	case "netdev":
		return FamilyNetdev, nil
	}
	return 0, invalidInput("family", text)
}

// Kernel returns the netlink table family for f.
func (f Family) Kernel() nftables.TableFamily {
	switch f {
	case FamilyIP:
		return nftables.TableFamilyIPv4
	case FamilyIP6:
		return nftables.TableFamilyIPv6
	case FamilyInet:
		return nftables.TableFamilyINet
	case FamilyARP:
		return nftables.TableFamilyARP
	case FamilyBridge:
		return nftables.TableFamilyBridge
	case FamilyNetdev:
		return nftables.TableFamilyNetdev
	}
	return nftables.TableFamilyUnspecified
}

// FamilyFromKernel maps a netlink table family back to a Family.
func FamilyFromKernel(tf nftables.TableFamily) (Family, error) {
	for _, f := range AllFamilies() {
		if f.Kernel() == tf {
			return f, nil
		}
	}
	return 0, unrecognizedValue("table family", itoa(int64(tf)))
}

// MarshalText implements encoding.TextMarshaler.
func (f Family) MarshalText() ([]byte, error) {
	if _, ok := familyNames[f]; !ok {
		return nil, unrecognizedValue("family", itoa(int64(f)))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Family) UnmarshalText(text []byte) error {
	v, err := ParseFamily(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
