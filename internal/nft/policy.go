package nft

import (
	"strings"

	"github.com/google/nftables"
)

// ChainPolicy is the verdict a base chain applies to packets that fall off
// its end. The zero value is ChainPolicyAccept.
type ChainPolicy uint8

// Possible ChainPolicy values.
const (
	ChainPolicyAccept ChainPolicy = iota
	ChainPolicyDrop
)

// AllChainPolicies returns every ChainPolicy in declaration order.
func AllChainPolicies() []ChainPolicy {
	return []ChainPolicy{ChainPolicyAccept, ChainPolicyDrop}
}

// ParseChainPolicy parses "accept" or "drop" in any letter case. Any other
// text yields an error matching ErrInvalidInput that carries the text.
func ParseChainPolicy(text string) (ChainPolicy, error) {
	switch strings.ToLower(text) {
	case "accept":
		return ChainPolicyAccept, nil
	case "drop":
		return ChainPolicyDrop, nil
	}
	return 0, invalidInput("chain policy", text)
}

// String returns the canonical lowercase keyword.
func (p ChainPolicy) String() string {
	switch p {
	case ChainPolicyAccept:
		return "accept"
	case ChainPolicyDrop:
		return "drop"
	}
	return "policy(" + itoa(int64(p)) + ")"
}

// ChainPolicyFromKernel maps a netlink chain policy; a nil policy is the
// default accept.
func ChainPolicyFromKernel(p *nftables.ChainPolicy) ChainPolicy {
	if p != nil && *p == nftables.ChainPolicyDrop {
		return ChainPolicyDrop
	}
	return ChainPolicyAccept
}

// MarshalText implements encoding.TextMarshaler.
func (p ChainPolicy) MarshalText() ([]byte, error) {
	if p > ChainPolicyDrop {
		return nil, unrecognizedValue("chain policy", itoa(int64(p)))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ChainPolicy) UnmarshalText(text []byte) error {
	v, err := ParseChainPolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
