package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/nftcompat/internal/system"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the detected kernel and nft versions",
	Long:  "Probe the kernel and nft versions (or use the pinned ones) and print the banner.",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	_, _, v, err := setup(cmd.Context())
	if err != nil {
		return fmt.Errorf("nftcompat info: %w", err)
	}
	if err := system.WriteBanner(cmd.OutOrStdout(), v.Snapshot()); err != nil {
		return fmt.Errorf("nftcompat info: %w", err)
	}
	return nil
}
