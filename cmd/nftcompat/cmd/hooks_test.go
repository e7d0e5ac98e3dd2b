package cmd

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestHooksCommand_InetFilter(t *testing.T) {
	tests := []struct {
		name   string
		kernel string
		engine string
		want   string
	}{
		{
			name:   "ingress supported",
			kernel: "5.10.0",
			engine: "0.9.7",
			want:   "prerouting,input,forward,output,postrouting,ingress",
		},
		{
			name:   "ingress too new",
			kernel: "5.9.9",
			engine: "0.9.7",
			want:   "prerouting,input,forward,output,postrouting\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := execute(t, "hooks", "--family", "inet", "--type", "filter",
				"--kernel", tt.kernel, "--engine", tt.engine)
			if err != nil {
				t.Fatalf("hooks: %v", err)
			}
			if !strings.Contains(output, tt.want) {
				t.Errorf("hooks output should contain %q, got:\n%s", tt.want, output)
			}
			if strings.Count(output, "\n") != 2 {
				t.Errorf("expected header and one row, got:\n%s", output)
			}
		})
	}
}

func TestHooksCommand_FullMatrixYAML(t *testing.T) {
	output, err := execute(t, "hooks", "--yaml", "--kernel", "6.1.0", "--engine", "1.0.6")
	if err != nil {
		t.Fatalf("hooks: %v", err)
	}
	var entries []struct {
		Family           string   `yaml:"family"`
		Type             string   `yaml:"type"`
		ChainTypeAllowed bool     `yaml:"chain_type_allowed"`
		Hooks            []string `yaml:"hooks"`
	}
	if err := yaml.Unmarshal([]byte(output), &entries); err != nil {
		t.Fatalf("yaml.Unmarshal: %v\n%s", err, output)
	}
	if len(entries) != 18 {
		t.Fatalf("len(entries) = %d, want 6 families x 3 types", len(entries))
	}
	for _, e := range entries {
		if e.Family == "netdev" && e.Type == "filter" {
			if strings.Join(e.Hooks, ",") != "ingress,egress" {
				t.Errorf("netdev filter hooks = %v, want ingress,egress", e.Hooks)
			}
		}
		if e.Family == "arp" && e.Type == "nat" && len(e.Hooks) != 0 {
			t.Errorf("arp nat hooks = %v, want none", e.Hooks)
		}
	}
}

func TestHooksCommand_BadFilter(t *testing.T) {
	_, err := execute(t, "hooks", "--family", "ipx", "--kernel", "6.1.0", "--engine", "1.0.6")
	if err == nil {
		t.Fatal("expected error for unknown family")
	}
	if !strings.Contains(err.Error(), `nftcompat hooks: nft: invalid family "ipx"`) {
		t.Errorf("unexpected error: %v", err)
	}
}
