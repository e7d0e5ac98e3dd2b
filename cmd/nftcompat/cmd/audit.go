package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/plexsphere/nftcompat/internal/audit"
)

var (
	auditOutput string
	auditYAML   bool
)

// Kernel backends of the audit command. Tests swap them for fakes.
var (
	newChainLister = func(logger *slog.Logger) audit.ChainLister {
		return audit.NewNftablesLister(logger)
	}
	newDeviceResolver = func() audit.DeviceResolver {
		return audit.NewNetlinkResolver()
	}
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check the ruleset loaded in the kernel",
	Long: "Read the live nftables ruleset over netlink and check it against the\n" +
		"detected system. Requires CAP_NET_ADMIN. Exits non-zero when violations are found.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditOutput, "output", "", "write a YAML report to this path (overrides config)")
	auditCmd.Flags().BoolVar(&auditYAML, "yaml", false, "print the report as YAML instead of text")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, _ []string) error {
	cfg, logger, v, err := setup(cmd.Context())
	if err != nil {
		return fmt.Errorf("nftcompat audit: %w", err)
	}

	a := audit.New(cfg.Audit, v, newChainLister(logger), newDeviceResolver(), logger)
	r, err := a.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("nftcompat audit: %w", err)
	}
	if err := emit(cmd, cfg, logger, r, auditOutput, auditYAML); err != nil {
		return fmt.Errorf("nftcompat audit: %w", err)
	}
	if !r.OK() {
		return fmt.Errorf("nftcompat audit: %w", ErrViolations)
	}
	return nil
}
