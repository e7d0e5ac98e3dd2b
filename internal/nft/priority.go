package nft

import (
	"strconv"
	"strings"
)

// Priority orders base chains attached to the same hook. Only the named
// netfilter priorities from linux/netfilter_ipv4.h are representable.
type Priority int32

// Possible Priority values.
const (
	PriorityConntrackDefrag Priority = -400 // conntrack-defrag
	PriorityRaw             Priority = -300 // raw
	PrioritySELinuxFirst    Priority = -225 // selinux-first
	PriorityConntrack       Priority = -200 // conntrack
	PriorityMangle          Priority = -150 // mangle
	PriorityNATDest         Priority = -100 // nat-dest
	PriorityFilter          Priority = 0    // filter
	PrioritySecurity        Priority = 50   // security
	PriorityNATSource       Priority = 100  // nat-source
	PrioritySELinuxLast     Priority = 225  // selinux-last
	PriorityConntrackHelper Priority = 300  // conntrack-helper
)

var priorityNames = map[Priority]string{
	PriorityConntrackDefrag: "conntrack-defrag",
	PriorityRaw:             "raw",
	PrioritySELinuxFirst:    "selinux-first",
	PriorityConntrack:       "conntrack",
	PriorityMangle:          "mangle",
	PriorityNATDest:         "nat-dest",
	PriorityFilter:          "filter",
	PrioritySecurity:        "security",
	PriorityNATSource:       "nat-source",
	PrioritySELinuxLast:     "selinux-last",
	PriorityConntrackHelper: "conntrack-helper",
}

// AllPriorities returns every Priority in ascending order.
func AllPriorities() []Priority {
	return []Priority{
		PriorityConntrackDefrag,
		PriorityRaw,
		PrioritySELinuxFirst,
		PriorityConntrack,
		PriorityMangle,
		PriorityNATDest,
		PriorityFilter,
		PrioritySecurity,
		PriorityNATSource,
		PrioritySELinuxLast,
		PriorityConntrackHelper,
	}
}

// PriorityFromInt returns the Priority whose value is exactly n. Integers
// between constants are not rounded; they fail with ErrUnrecognizedValue.
func PriorityFromInt(n int32) (Priority, error) {
	p := Priority(n)
	if _, ok := priorityNames[p]; !ok {
		return 0, unrecognizedValue("priority", itoa(int64(n)))
	}
	return p, nil
}

// ParsePriority accepts a priority name such as "mangle" or the decimal value
// of one of the named priorities.
func ParsePriority(text string) (Priority, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	for p, name := range priorityNames {
		if name == s {
			return p, nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, invalidInput("priority", text)
	}
	return PriorityFromInt(int32(n))
}

// String returns the priority name.
func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return itoa(int64(p))
}

// Int returns the underlying integer value.
func (p Priority) Int() int32 {
	return int32(p)
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	if _, ok := priorityNames[p]; !ok {
		return nil, unrecognizedValue("priority", itoa(int64(p)))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Priority) UnmarshalText(text []byte) error {
	v, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
