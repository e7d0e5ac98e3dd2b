package cmd

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/plexsphere/nftcompat/internal/audit"
	"github.com/plexsphere/nftcompat/internal/nft"
)

type stubLister struct {
	tables []nft.Table
	err    error
}

func (s stubLister) ListTables() ([]nft.Table, error) { return s.tables, s.err }

type stubDevices map[string]bool

func (s stubDevices) DeviceExists(name string) (bool, error) { return s[name], nil }

// useKernel points the audit command at fixed tables and devices.
func useKernel(t *testing.T, lister audit.ChainLister, devices audit.DeviceResolver) {
	t.Helper()
	oldLister, oldResolver := newChainLister, newDeviceResolver
	newChainLister = func(*slog.Logger) audit.ChainLister { return lister }
	newDeviceResolver = func() audit.DeviceResolver { return devices }
	t.Cleanup(func() {
		newChainLister, newDeviceResolver = oldLister, oldResolver
	})
}

func kernelTables() []nft.Table {
	return []nft.Table{
		{
			Name:   "edge",
			Family: nft.FamilyNetdev,
			Chains: []nft.Chain{
				{Name: "in_eth0", Type: nft.ChainTypeFilter, Hook: nft.HookRef(nft.HookIngress), Device: "eth0"},
				{Name: "in_gone", Type: nft.ChainTypeFilter, Hook: nft.HookRef(nft.HookIngress), Device: "gone0"},
			},
		},
	}
}

func TestAuditCommand_Help(t *testing.T) {
	output, _ := execute(t, "audit", "--help")

	if !strings.Contains(output, "CAP_NET_ADMIN") {
		t.Errorf("help should mention CAP_NET_ADMIN, got: %s", output)
	}
	if !strings.Contains(output, "--output") {
		t.Errorf("help should mention '--output' flag, got: %s", output)
	}
}

func TestAuditCommand_Clean(t *testing.T) {
	useKernel(t, stubLister{tables: kernelTables()}, stubDevices{"eth0": true, "gone0": true})

	output, err := execute(t, "audit", "--kernel", "6.1.0", "--engine", "1.0.6")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !strings.Contains(output, "No violations.") {
		t.Errorf("output should report no violations, got:\n%s", output)
	}
}

func TestAuditCommand_MissingDevice(t *testing.T) {
	useKernel(t, stubLister{tables: kernelTables()}, stubDevices{"eth0": true})

	output, err := execute(t, "audit", "--kernel", "6.1.0", "--engine", "1.0.6")
	if !errors.Is(err, ErrViolations) {
		t.Fatalf("audit error = %v, want ErrViolations", err)
	}
	if !strings.Contains(output, "netdev edge/in_gone: device-not-present: device gone0 does not exist") {
		t.Errorf("output should report the missing device, got:\n%s", output)
	}
	if strings.Contains(output, "in_eth0:") {
		t.Errorf("output should not report in_eth0, got:\n%s", output)
	}
}

func TestAuditCommand_ListError(t *testing.T) {
	listErr := errors.New("netlink receive: operation not permitted")
	useKernel(t, stubLister{err: listErr}, stubDevices{})

	_, err := execute(t, "audit", "--kernel", "6.1.0", "--engine", "1.0.6")
	if !errors.Is(err, listErr) {
		t.Fatalf("audit error = %v, want wrapped %v", err, listErr)
	}
	if want := "nftcompat audit: audit: list tables: "; !strings.HasPrefix(err.Error(), want) {
		t.Errorf("error = %q, want prefix %q", err, want)
	}
}
