//go:build linux

package audit

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// NetlinkResolver implements DeviceResolver with rtnetlink link lookups.
type NetlinkResolver struct{}

// NewNetlinkResolver returns a new NetlinkResolver.
func NewNetlinkResolver() *NetlinkResolver {
	return &NetlinkResolver{}
}

// DeviceExists reports whether a link called name exists.
func (NetlinkResolver) DeviceExists(name string) (bool, error) {
	if _, err := netlink.LinkByName(name); err != nil {
		if _, ok := err.(netlink.LinkNotFoundError); ok {
			return false, nil
		}
		return false, fmt.Errorf("audit: netlink: lookup %s: %w", name, err)
	}
	return true, nil
}
