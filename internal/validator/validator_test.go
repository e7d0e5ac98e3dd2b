package validator

import (
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/plexsphere/nftcompat/internal/nft"
	"github.com/plexsphere/nftcompat/internal/system"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newValidator builds a Validator from (kernel, nft) version triples.
func newValidator(kernel, engine [3]uint32) *Validator {
	return New(system.NewSnapshot(
		system.NewVersion(kernel[0], kernel[1], kernel[2]),
		system.NewVersion(engine[0], engine[1], engine[2]),
	))
}

func TestChainTypeAllowed(t *testing.T) {
	v := newValidator([3]uint32{0, 0, 0}, [3]uint32{0, 0, 0})

	allowed := map[nft.ChainType]map[nft.Family]bool{
		nft.ChainTypeFilter: {nft.FamilyIP: true, nft.FamilyIP6: true, nft.FamilyInet: true, nft.FamilyARP: true, nft.FamilyBridge: true},
		nft.ChainTypeNAT:    {nft.FamilyIP: true, nft.FamilyIP6: true},
		nft.ChainTypeRoute:  {nft.FamilyIP: true, nft.FamilyIP6: true},
	}

	for _, ct := range nft.AllChainTypes() {
		for _, f := range nft.AllFamilies() {
			want := allowed[ct][f]
			if got := v.ChainTypeAllowed(ct, f); got != want {
				t.Errorf("ChainTypeAllowed(%v, %v) = %v, want %v", ct, f, got, want)
			}
		}
	}
}

func TestChainTypeAllowed_NetdevNeverAllowed(t *testing.T) {
	v := newValidator([3]uint32{6, 8, 0}, [3]uint32{1, 1, 0})
	for _, ct := range nft.AllChainTypes() {
		if v.ChainTypeAllowed(ct, nft.FamilyNetdev) {
			t.Errorf("ChainTypeAllowed(%v, netdev) = true, want false", ct)
		}
	}
}

func TestHookAllowed_IP(t *testing.T) {
	v := newValidator([3]uint32{0, 0, 0}, [3]uint32{0, 0, 0})

	tests := []struct {
		hook nft.Hook
		ct   nft.ChainType
		want bool
	}{
		{nft.HookPrerouting, nft.ChainTypeFilter, true},
		{nft.HookInput, nft.ChainTypeFilter, true},
		{nft.HookForward, nft.ChainTypeFilter, true},
		{nft.HookOutput, nft.ChainTypeFilter, true},
		{nft.HookPostrouting, nft.ChainTypeFilter, true},
		{nft.HookIngress, nft.ChainTypeFilter, false},
		{nft.HookEgress, nft.ChainTypeFilter, false},

		{nft.HookPrerouting, nft.ChainTypeNAT, true},
		{nft.HookInput, nft.ChainTypeNAT, true},
		{nft.HookForward, nft.ChainTypeNAT, false},
		{nft.HookOutput, nft.ChainTypeNAT, true},
		{nft.HookPostrouting, nft.ChainTypeNAT, true},
		{nft.HookIngress, nft.ChainTypeNAT, false},
		{nft.HookEgress, nft.ChainTypeNAT, false},

		{nft.HookPrerouting, nft.ChainTypeRoute, false},
		{nft.HookInput, nft.ChainTypeRoute, false},
		{nft.HookForward, nft.ChainTypeRoute, false},
		{nft.HookOutput, nft.ChainTypeRoute, true},
		{nft.HookPostrouting, nft.ChainTypeRoute, false},
		{nft.HookIngress, nft.ChainTypeRoute, false},
		{nft.HookEgress, nft.ChainTypeRoute, false},
	}
	for _, f := range []nft.Family{nft.FamilyIP, nft.FamilyIP6} {
		for _, tt := range tests {
			if got := v.HookAllowed(tt.hook, tt.ct, f); got != tt.want {
				t.Errorf("HookAllowed(%v, %v, %v) = %v, want %v", tt.hook, tt.ct, f, got, tt.want)
			}
		}
	}
}

func TestHookAllowed_Inet(t *testing.T) {
	old := newValidator([3]uint32{1, 9, 99}, [3]uint32{0, 1, 6})
	if old.HookAllowed(nft.HookIngress, nft.ChainTypeFilter, nft.FamilyInet) {
		t.Error("old host: ingress/filter/inet = true, want false")
	}
	if !old.HookAllowed(nft.HookPrerouting, nft.ChainTypeFilter, nft.FamilyInet) {
		t.Error("old host: prerouting/filter/inet = false, want true")
	}
	if !old.HookAllowed(nft.HookInput, nft.ChainTypeFilter, nft.FamilyInet) {
		t.Error("old host: input/filter/inet = false, want true")
	}
	if !old.HookAllowed(nft.HookPrerouting, nft.ChainTypeNAT, nft.FamilyInet) {
		t.Error("old host: prerouting/nat/inet = false, want true")
	}
	if old.HookAllowed(nft.HookForward, nft.ChainTypeNAT, nft.FamilyInet) {
		t.Error("old host: forward/nat/inet = true, want false")
	}

	minimum := newValidator([3]uint32{5, 10, 0}, [3]uint32{0, 9, 7})
	if !minimum.HookAllowed(nft.HookIngress, nft.ChainTypeFilter, nft.FamilyInet) {
		t.Error("minimum host: ingress/filter/inet = false, want true")
	}

	newer := newValidator([3]uint32{6, 0, 0}, [3]uint32{1, 0, 0})
	if !newer.HookAllowed(nft.HookIngress, nft.ChainTypeFilter, nft.FamilyInet) {
		t.Error("new host: ingress/filter/inet = false, want true")
	}
	if newer.HookAllowed(nft.HookEgress, nft.ChainTypeFilter, nft.FamilyInet) {
		t.Error("new host: egress/filter/inet = true, want false")
	}

	for _, h := range nft.AllHooks() {
		want := h == nft.HookOutput
		if got := newer.HookAllowed(h, nft.ChainTypeRoute, nft.FamilyInet); got != want {
			t.Errorf("HookAllowed(%v, route, inet) = %v, want %v", h, got, want)
		}
	}
}

func TestHookAllowed_InetIngressBoundary(t *testing.T) {
	tests := []struct {
		name   string
		kernel [3]uint32
		engine [3]uint32
		want   bool
	}{
		{"engine one patch short", [3]uint32{5, 10, 0}, [3]uint32{0, 9, 6}, false},
		{"kernel one patch short", [3]uint32{5, 9, 9}, [3]uint32{0, 9, 7}, false},
		{"both short", [3]uint32{5, 9, 9}, [3]uint32{0, 9, 6}, false},
		{"exact thresholds", [3]uint32{5, 10, 0}, [3]uint32{0, 9, 7}, true},
		{"above both", [3]uint32{5, 10, 1}, [3]uint32{0, 9, 8}, true},
		{"new kernel old engine", [3]uint32{6, 8, 0}, [3]uint32{0, 9, 6}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newValidator(tt.kernel, tt.engine)
			if got := v.HookAllowed(nft.HookIngress, nft.ChainTypeFilter, nft.FamilyInet); got != tt.want {
				t.Errorf("HookAllowed(ingress, filter, inet) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHookAllowed_ARP(t *testing.T) {
	v := newValidator([3]uint32{0, 0, 0}, [3]uint32{0, 0, 0})
	for _, h := range nft.AllHooks() {
		want := h == nft.HookInput || h == nft.HookOutput
		if got := v.HookAllowed(h, nft.ChainTypeFilter, nft.FamilyARP); got != want {
			t.Errorf("HookAllowed(%v, filter, arp) = %v, want %v", h, got, want)
		}
	}
	if v.HookAllowed(nft.HookInput, nft.ChainTypeNAT, nft.FamilyARP) {
		t.Error("HookAllowed(input, nat, arp) = true, want false")
	}
	if v.HookAllowed(nft.HookOutput, nft.ChainTypeRoute, nft.FamilyARP) {
		t.Error("HookAllowed(output, route, arp) = true, want false")
	}
}

func TestHookAllowed_Bridge(t *testing.T) {
	v := newValidator([3]uint32{0, 0, 0}, [3]uint32{0, 0, 0})
	for _, h := range nft.AllHooks() {
		want := h != nft.HookIngress && h != nft.HookEgress
		if got := v.HookAllowed(h, nft.ChainTypeFilter, nft.FamilyBridge); got != want {
			t.Errorf("HookAllowed(%v, filter, bridge) = %v, want %v", h, got, want)
		}
	}
	if v.HookAllowed(nft.HookPrerouting, nft.ChainTypeNAT, nft.FamilyBridge) {
		t.Error("HookAllowed(prerouting, nat, bridge) = true, want false")
	}
	if v.HookAllowed(nft.HookInput, nft.ChainTypeRoute, nft.FamilyBridge) {
		t.Error("HookAllowed(input, route, bridge) = true, want false")
	}
}

func TestHookAllowed_Netdev(t *testing.T) {
	tests := []struct {
		name        string
		kernel      [3]uint32
		engine      [3]uint32
		wantIngress bool
		wantEgress  bool
	}{
		{"too old", [3]uint32{4, 1, 0}, [3]uint32{0, 5, 0}, false, false},
		{"kernel ok engine old", [3]uint32{4, 2, 0}, [3]uint32{0, 5, 9}, false, false},
		{"ingress threshold", [3]uint32{4, 2, 0}, [3]uint32{0, 6, 0}, true, false},
		{"egress engine without egress kernel", [3]uint32{4, 2, 0}, [3]uint32{1, 0, 1}, true, false},
		{"egress kernel without egress engine", [3]uint32{5, 16, 0}, [3]uint32{1, 0, 0}, true, false},
		{"egress threshold", [3]uint32{5, 16, 0}, [3]uint32{1, 0, 1}, true, true},
		{"kernel just below egress", [3]uint32{5, 15, 99}, [3]uint32{1, 0, 1}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newValidator(tt.kernel, tt.engine)
			if got := v.HookAllowed(nft.HookIngress, nft.ChainTypeFilter, nft.FamilyNetdev); got != tt.wantIngress {
				t.Errorf("ingress = %v, want %v", got, tt.wantIngress)
			}
			if got := v.HookAllowed(nft.HookEgress, nft.ChainTypeFilter, nft.FamilyNetdev); got != tt.wantEgress {
				t.Errorf("egress = %v, want %v", got, tt.wantEgress)
			}
		})
	}

	full := newValidator([3]uint32{5, 16, 0}, [3]uint32{1, 0, 1})
	for _, h := range []nft.Hook{nft.HookPrerouting, nft.HookInput, nft.HookForward, nft.HookOutput, nft.HookPostrouting} {
		if full.HookAllowed(h, nft.ChainTypeFilter, nft.FamilyNetdev) {
			t.Errorf("HookAllowed(%v, filter, netdev) = true, want false", h)
		}
	}
	if full.HookAllowed(nft.HookIngress, nft.ChainTypeNAT, nft.FamilyNetdev) {
		t.Error("HookAllowed(ingress, nat, netdev) = true, want false")
	}
	if full.HookAllowed(nft.HookEgress, nft.ChainTypeRoute, nft.FamilyNetdev) {
		t.Error("HookAllowed(egress, route, netdev) = true, want false")
	}
}

func TestHookAllowed_EdgeCases(t *testing.T) {
	v := newValidator([3]uint32{0, 0, 0}, [3]uint32{0, 0, 0})
	if v.HookAllowed(nft.HookInput, nft.ChainTypeRoute, nft.FamilyBridge) {
		t.Error("HookAllowed(input, route, bridge) = true, want false")
	}
	if v.HookAllowed(nft.HookForward, nft.ChainTypeNAT, nft.FamilyIP) {
		t.Error("HookAllowed(forward, nat, ip) = true, want false")
	}
}

func TestHookAllowed_ExclusionSymmetry(t *testing.T) {
	// With every version gate open, families with no hooks for a chain type
	// must still refuse every hook.
	v := newValidator([3]uint32{99, 0, 0}, [3]uint32{99, 0, 0})
	excluded := []struct {
		ct nft.ChainType
		f  nft.Family
	}{
		{nft.ChainTypeNAT, nft.FamilyARP},
		{nft.ChainTypeRoute, nft.FamilyARP},
		{nft.ChainTypeNAT, nft.FamilyBridge},
		{nft.ChainTypeRoute, nft.FamilyBridge},
		{nft.ChainTypeNAT, nft.FamilyNetdev},
		{nft.ChainTypeRoute, nft.FamilyNetdev},
	}
	for _, e := range excluded {
		if v.ChainTypeAllowed(e.ct, e.f) {
			t.Errorf("ChainTypeAllowed(%v, %v) = true, want false", e.ct, e.f)
		}
		for _, h := range nft.AllHooks() {
			if v.HookAllowed(h, e.ct, e.f) {
				t.Errorf("HookAllowed(%v, %v, %v) = true, want false", h, e.ct, e.f)
			}
		}
	}
}

func TestHookAllowed_OutOfRangeValues(t *testing.T) {
	v := newValidator([3]uint32{99, 0, 0}, [3]uint32{99, 0, 0})
	if v.HookAllowed(nft.Hook(0), nft.ChainTypeFilter, nft.FamilyInet) {
		t.Error("HookAllowed(zero hook) = true, want false")
	}
	if v.HookAllowed(nft.HookInput, nft.ChainType(0), nft.FamilyIP) {
		t.Error("HookAllowed(zero chain type) = true, want false")
	}
	if v.ChainTypeAllowed(nft.ChainTypeFilter, nft.Family(0)) {
		t.Error("ChainTypeAllowed(zero family) = true, want false")
	}
}

func TestValidator_Deterministic(t *testing.T) {
	v := newValidator([3]uint32{5, 10, 0}, [3]uint32{0, 9, 7})
	first := v.Matrix()
	for i := 0; i < 3; i++ {
		again := v.Matrix()
		for j := range first {
			if first[j].ChainTypeAllowed != again[j].ChainTypeAllowed || len(first[j].Hooks) != len(again[j].Hooks) {
				t.Fatalf("Matrix() changed between calls at entry %d", j)
			}
		}
	}
}

func TestValidator_ConcurrentQueries(t *testing.T) {
	v := newValidator([3]uint32{5, 16, 0}, [3]uint32{1, 0, 1})
	want := v.Matrix()

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := v.Matrix()
			for j := range want {
				if got[j].ChainTypeAllowed != want[j].ChainTypeAllowed || len(got[j].Hooks) != len(want[j].Hooks) {
					errs <- "concurrent Matrix() diverged"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}

func TestRequirement(t *testing.T) {
	kernel, engine, gated := Requirement(nft.HookEgress, nft.ChainTypeFilter, nft.FamilyNetdev)
	if !gated {
		t.Fatal("Requirement(egress, filter, netdev) gated = false, want true")
	}
	if kernel != system.NewVersion(5, 16, 0) || engine != system.NewVersion(1, 0, 1) {
		t.Errorf("Requirement = %v/%v, want 5.16.0/1.0.1", kernel, engine)
	}
	if _, _, gated := Requirement(nft.HookInput, nft.ChainTypeFilter, nft.FamilyInet); gated {
		t.Error("Requirement(input, filter, inet) gated = true, want false")
	}
	if _, _, gated := Requirement(nft.HookIngress, nft.ChainTypeNAT, nft.FamilyInet); gated {
		t.Error("Requirement(ingress, nat, inet) gated = true, want false")
	}
}
