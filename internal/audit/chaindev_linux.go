//go:build linux

package audit

import (
	"github.com/google/nftables"
	"github.com/mdlayher/netlink"
	"golang.org/x/sys/unix"
)

// Hook attributes for multi-device netdev chains, missing from x/sys/unix.
const (
	nftaHookDevs   = 0x4 // NFTA_HOOK_DEVS
	nftaDeviceName = 0x1 // NFTA_DEVICE_NAME
)

type chainKey struct {
	family nftables.TableFamily
	table  string
	chain  string
}

// chainDevices dumps the chains of every family and returns the device each
// base chain is bound to, keyed by table and chain. google/nftables does not
// decode NFTA_HOOK_DEV, so the dump is decoded here.
func chainDevices(conn *netlink.Conn) (map[chainKey]string, error) {
	req := netlink.Message{
		Header: netlink.Header{
			Type:  netlink.HeaderType((unix.NFNL_SUBSYS_NFTABLES << 8) | unix.NFT_MSG_GETCHAIN),
			Flags: netlink.Request | netlink.Dump,
		},
		Data: []byte{unix.AF_UNSPEC, unix.NFNETLINK_V0, 0, 0},
	}
	msgs, err := conn.Execute(req)
	if err != nil {
		return nil, err
	}

	newChain := netlink.HeaderType((unix.NFNL_SUBSYS_NFTABLES << 8) | unix.NFT_MSG_NEWCHAIN)
	devices := make(map[chainKey]string)
	for _, m := range msgs {
		if m.Header.Type != newChain || len(m.Data) < 4 {
			continue
		}
		k, dev, err := decodeChainDevice(m.Data)
		if err != nil {
			return nil, err
		}
		if dev != "" {
			devices[k] = dev
		}
	}
	return devices, nil
}

// decodeChainDevice reads the nfgenmsg family and the table, chain and hook
// device attributes of a NEWCHAIN message. For chains bound to several devices
// the first one is returned.
func decodeChainDevice(data []byte) (chainKey, string, error) {
	k := chainKey{family: nftables.TableFamily(data[0])}
	ad, err := netlink.NewAttributeDecoder(data[4:])
	if err != nil {
		return chainKey{}, "", err
	}

	var dev string
	for ad.Next() {
		switch ad.Type() {
		case unix.NFTA_CHAIN_TABLE:
			k.table = ad.String()
		case unix.NFTA_CHAIN_NAME:
			k.chain = ad.String()
		case unix.NFTA_CHAIN_HOOK:
			ad.Nested(func(hd *netlink.AttributeDecoder) error {
				for hd.Next() {
					switch hd.Type() {
					case unix.NFTA_HOOK_DEV:
						dev = hd.String()
					case nftaHookDevs:
						hd.Nested(func(dd *netlink.AttributeDecoder) error {
							for dd.Next() {
								if dd.Type() == nftaDeviceName && dev == "" {
									dev = dd.String()
								}
							}
							return nil
						})
					}
				}
				return nil
			})
		}
	}
	if err := ad.Err(); err != nil {
		return chainKey{}, "", err
	}
	return k, dev, nil
}
