package nft

import (
	"strings"

	"github.com/google/nftables"
	"golang.org/x/sys/unix"
)

// Hook is the point in the packet path a base chain attaches to.
// https://wiki.nftables.org/wiki-nftables/index.php/Netfilter_hooks
type Hook uint8

// Possible Hook values.
const (
	HookPrerouting Hook = iota + 1
	HookInput
	HookForward
	HookOutput
	HookPostrouting
	HookIngress
	HookEgress
)

// Hook numbers absent from x/sys.
const (
	nfInetIngress nftables.ChainHook = 5
	nfARPIn       nftables.ChainHook = 0
	nfARPOut      nftables.ChainHook = 1
	nfARPForward  nftables.ChainHook = 2
)

var hookNames = map[Hook]string{
	HookPrerouting:  "prerouting",
	HookInput:       "input",
	HookForward:     "forward",
	HookOutput:      "output",
	HookPostrouting: "postrouting",
	HookIngress:     "ingress",
	HookEgress:      "egress",
}

// AllHooks returns every Hook in packet-path order.
func AllHooks() []Hook {
	return []Hook{HookPrerouting, HookInput, HookForward, HookOutput, HookPostrouting, HookIngress, HookEgress}
}

// String returns the nft keyword for the hook.
func (h Hook) String() string {
	if name, ok := hookNames[h]; ok {
		return name
	}
	return "hook(" + itoa(int64(h)) + ")"
}

// ParseHook parses an nft hook keyword, case-insensitively.
func ParseHook(text string) (Hook, error) {
	want := strings.ToLower(strings.TrimSpace(text))
	for _, h := range AllHooks() {
		if hookNames[h] == want {
			return h, nil
		}
	}
	return 0, invalidInput("hook", text)
}

// Kernel returns the netlink hook number of h within family f. Hook numbers
// are family-relative: ingress is 0 on netdev but 5 on inet, and arp numbers
// its hooks independently. ok is false when the kernel defines no such hook
// for the family.
func (h Hook) Kernel(f Family) (hook *nftables.ChainHook, ok bool) {
	switch f {
	case FamilyNetdev:
		switch h {
		case HookIngress:
			return nftables.ChainHookRef(unix.NF_NETDEV_INGRESS), true
		case HookEgress:
			return nftables.ChainHookRef(unix.NF_NETDEV_EGRESS), true
		}
		return nil, false
	case FamilyARP:
		switch h {
		case HookInput:
			return nftables.ChainHookRef(nfARPIn), true
		case HookOutput:
			return nftables.ChainHookRef(nfARPOut), true
		case HookForward:
			return nftables.ChainHookRef(nfARPForward), true
		}
		return nil, false
	}
	switch h {
	case HookPrerouting:
		return nftables.ChainHookRef(unix.NF_INET_PRE_ROUTING), true
	case HookInput:
		return nftables.ChainHookRef(unix.NF_INET_LOCAL_IN), true
	case HookForward:
		return nftables.ChainHookRef(unix.NF_INET_FORWARD), true
	case HookOutput:
		return nftables.ChainHookRef(unix.NF_INET_LOCAL_OUT), true
	case HookPostrouting:
		return nftables.ChainHookRef(unix.NF_INET_POST_ROUTING), true
	case HookIngress:
		if f == FamilyInet {
			return nftables.ChainHookRef(nfInetIngress), true
		}
	}
	return nil, false
}

// HookFromKernel maps a family-relative netlink hook number back to a Hook.
func HookFromKernel(f Family, num nftables.ChainHook) (Hook, error) {
	for _, h := range AllHooks() {
		k, ok := h.Kernel(f)
		if ok && *k == num {
			return h, nil
		}
	}
	return 0, unrecognizedValue(f.String()+" hook", itoa(int64(num)))
}

// MarshalText implements encoding.TextMarshaler.
func (h Hook) MarshalText() ([]byte, error) {
	if _, ok := hookNames[h]; !ok {
		return nil, unrecognizedValue("hook", itoa(int64(h)))
	}
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hook) UnmarshalText(text []byte) error {
	v, err := ParseHook(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}
