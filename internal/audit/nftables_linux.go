//go:build linux

package audit

import (
	"fmt"
	"log/slog"

	"github.com/google/nftables"
	"github.com/google/nftables/expr"
	"github.com/mdlayher/netlink"
	"github.com/mdlayher/netlink/nltest"
	"golang.org/x/sys/unix"

	"github.com/plexsphere/nftcompat/internal/nft"
)

// NftablesLister implements ChainLister using the Linux nftables subsystem via
// the google/nftables netlink library. Listing requires CAP_NET_ADMIN.
type NftablesLister struct {
	logger *slog.Logger

	// dial replaces the netfilter socket in tests.
	dial nltest.Func
}

// NewNftablesLister returns a new NftablesLister.
func NewNftablesLister(logger *slog.Logger) *NftablesLister {
	if logger == nil {
		logger = slog.Default()
	}
	return &NftablesLister{logger: logger}
}

// ListTables dumps every table and chain of every family. Tables of families
// or chains with hooks this package does not model are skipped with a warning.
func (l *NftablesLister) ListTables() ([]nft.Table, error) {
	var opts []nftables.ConnOption
	if l.dial != nil {
		opts = append(opts, nftables.WithTestDial(l.dial))
	}
	conn, err := nftables.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("audit: nftables: open: %w", err)
	}

	kts, err := conn.ListTables()
	if err != nil {
		return nil, fmt.Errorf("audit: nftables: list tables: %w", err)
	}
	kcs, err := conn.ListChains()
	if err != nil {
		return nil, fmt.Errorf("audit: nftables: list chains: %w", err)
	}
	devices, err := l.dumpChainDevices()
	if err != nil {
		return nil, fmt.Errorf("audit: nftables: list chain devices: %w", err)
	}

	type key struct {
		family nftables.TableFamily
		name   string
	}
	index := make(map[key]int, len(kts))
	tables := make([]nft.Table, 0, len(kts))
	for _, kt := range kts {
		t, err := nft.TableFromKernel(kt)
		if err != nil {
			l.logger.Warn("skipping table",
				"component", "audit",
				"table", kt.Name,
				"error", err,
			)
			continue
		}
		index[key{kt.Family, kt.Name}] = len(tables)
		tables = append(tables, t)
	}

	for _, kc := range kcs {
		if kc.Table == nil {
			continue
		}
		i, ok := index[key{kc.Table.Family, kc.Table.Name}]
		if !ok {
			continue
		}
		kc.Device = devices[chainKey{kc.Table.Family, kc.Table.Name, kc.Name}]
		c, err := nft.ChainFromKernel(tables[i].Family, kc)
		if err != nil {
			l.logger.Warn("skipping chain",
				"component", "audit",
				"table", kc.Table.Name,
				"chain", kc.Name,
				"error", err,
			)
			continue
		}
		rules, err := conn.GetRules(kc.Table, kc)
		if err != nil {
			return nil, fmt.Errorf("audit: nftables: list rules of %s/%s: %w", kc.Table.Name, kc.Name, err)
		}
		c.Verdicts = chainTransfers(rules)
		tables[i].Chains = append(tables[i].Chains, c)
	}

	l.logger.Debug("nftables ruleset dumped",
		"component", "audit",
		"tables", len(tables),
		"chains", len(kcs),
	)
	return tables, nil
}

func (l *NftablesLister) dumpChainDevices() (map[chainKey]string, error) {
	var conn *netlink.Conn
	if l.dial != nil {
		conn = nltest.Dial(l.dial)
	} else {
		c, err := netlink.Dial(unix.NETLINK_NETFILTER, nil)
		if err != nil {
			return nil, err
		}
		conn = c
	}
	defer conn.Close()
	return chainDevices(conn)
}

// chainTransfers returns the jump and goto verdicts found in rules.
func chainTransfers(rules []*nftables.Rule) []nft.Verdict {
	var out []nft.Verdict
	for _, r := range rules {
		for _, e := range r.Exprs {
			ve, ok := e.(*expr.Verdict)
			if !ok {
				continue
			}
			v, err := nft.VerdictFromExpr(ve)
			if err != nil {
				continue
			}
			if _, ok := v.Target(); ok {
				out = append(out, v)
			}
		}
	}
	return out
}
