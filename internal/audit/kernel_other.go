//go:build !linux

package audit

import (
	"log/slog"

	"github.com/plexsphere/nftcompat/internal/nft"
)

// NftablesLister is unavailable outside Linux.
type NftablesLister struct{}

// NewNftablesLister returns a lister whose ListTables fails with ErrUnsupported.
func NewNftablesLister(*slog.Logger) *NftablesLister {
	return &NftablesLister{}
}

// ListTables always returns ErrUnsupported.
func (*NftablesLister) ListTables() ([]nft.Table, error) {
	return nil, ErrUnsupported
}

// NetlinkResolver is unavailable outside Linux.
type NetlinkResolver struct{}

// NewNetlinkResolver returns a resolver whose DeviceExists fails with ErrUnsupported.
func NewNetlinkResolver() *NetlinkResolver {
	return &NetlinkResolver{}
}

// DeviceExists always returns ErrUnsupported.
func (NetlinkResolver) DeviceExists(string) (bool, error) {
	return false, ErrUnsupported
}
