package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/plexsphere/nftcompat/internal/config"
	"github.com/plexsphere/nftcompat/internal/report"
	"github.com/plexsphere/nftcompat/internal/ruleset"
)

var (
	checkOutput string
	checkYAML   bool
)

var checkCmd = &cobra.Command{
	Use:   "check <ruleset.yaml>",
	Short: "Check a declared ruleset",
	Long: "Load a YAML ruleset declaration and check every table and chain against\n" +
		"the detected system. Exits non-zero when violations are found.",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkOutput, "output", "", "write a YAML report to this path (overrides config)")
	checkCmd.Flags().BoolVar(&checkYAML, "yaml", false, "print the report as YAML instead of text")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logger, v, err := setup(cmd.Context())
	if err != nil {
		return fmt.Errorf("nftcompat check: %w", err)
	}

	tables, err := ruleset.Load(args[0])
	if err != nil {
		return fmt.Errorf("nftcompat check: %w", err)
	}
	logger.Debug("ruleset loaded",
		"component", "check",
		"path", args[0],
		"tables", len(tables),
	)

	r := report.New(args[0], v, tables)
	if err := emit(cmd, cfg, logger, r, checkOutput, checkYAML); err != nil {
		return fmt.Errorf("nftcompat check: %w", err)
	}
	if !r.OK() {
		return fmt.Errorf("nftcompat check: %w", ErrViolations)
	}
	return nil
}

// emit prints r and writes the YAML report file if one is configured.
func emit(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, r *report.Report, output string, asYAML bool) error {
	out := cmd.OutOrStdout()
	if asYAML {
		data, err := r.YAML()
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	} else if err := r.WriteText(out); err != nil {
		return err
	}

	path := cfg.Report.Path
	if output != "" {
		path = output
	}
	if path == "" {
		return nil
	}
	if err := r.WriteYAML(path); err != nil {
		return err
	}
	logger.Info("report written",
		"component", "report",
		"path", path,
		"violations", len(r.Violations),
	)
	return nil
}
