package nft

import (
	"strings"

	"github.com/google/nftables"
)

// ChainType is the semantic role of a base chain.
// https://wiki.nftables.org/wiki-nftables/index.php/Configuring_chains#Base_chain_types
type ChainType uint8

// Possible ChainType values.
const (
	ChainTypeFilter ChainType = iota + 1
	ChainTypeNAT
	ChainTypeRoute
)

// AllChainTypes returns every ChainType in declaration order.
func AllChainTypes() []ChainType {
	return []ChainType{ChainTypeFilter, ChainTypeNAT, ChainTypeRoute}
}

// String returns the nft keyword for the chain type.
func (t ChainType) String() string {
	switch t {
	case ChainTypeFilter:
		return "filter"
	case ChainTypeNAT:
		return "nat"
	case ChainTypeRoute:
		return "route"
	}
	return "chaintype(" + itoa(int64(t)) + ")"
}

// ParseChainType parses an nft chain type keyword, case-insensitively.
func ParseChainType(text string) (ChainType, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "filter":
		return ChainTypeFilter, nil
	case "nat":
		return ChainTypeNAT, nil
	case "route":
		return ChainTypeRoute, nil
	}
	return 0, invalidInput("chain type", text)
}

// ChainTypeFromKernel maps a netlink chain type back to a ChainType.
func ChainTypeFromKernel(ct nftables.ChainType) (ChainType, error) {
	switch ct {
	case nftables.ChainTypeFilter:
		return ChainTypeFilter, nil
	case nftables.ChainTypeNAT:
		return ChainTypeNAT, nil
	case nftables.ChainTypeRoute:
		return ChainTypeRoute, nil
	}
	return 0, unrecognizedValue("chain type", string(ct))
}

// MarshalText implements encoding.TextMarshaler.
func (t ChainType) MarshalText() ([]byte, error) {
	if t < ChainTypeFilter || t > ChainTypeRoute {
		return nil, unrecognizedValue("chain type", itoa(int64(t)))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ChainType) UnmarshalText(text []byte) error {
	v, err := ParseChainType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
