package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/plexsphere/nftcompat/internal/nft"
	"github.com/plexsphere/nftcompat/internal/validator"
)

var (
	hooksFamily string
	hooksType   string
	hooksYAML   bool
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Show the allowed hooks per family and chain type",
	Long: "Print, for every family and chain type, whether the chain type is allowed\n" +
		"and which hooks are accepted on the detected system.",
	Args: cobra.NoArgs,
	RunE: runHooks,
}

func init() {
	hooksCmd.Flags().StringVar(&hooksFamily, "family", "", "only show this family")
	hooksCmd.Flags().StringVar(&hooksType, "type", "", "only show this chain type")
	hooksCmd.Flags().BoolVar(&hooksYAML, "yaml", false, "print the matrix as YAML")
	rootCmd.AddCommand(hooksCmd)
}

func runHooks(cmd *cobra.Command, _ []string) error {
	keep, err := filterMatrix(hooksFamily, hooksType)
	if err != nil {
		return fmt.Errorf("nftcompat hooks: %w", err)
	}
	_, _, v, err := setup(cmd.Context())
	if err != nil {
		return fmt.Errorf("nftcompat hooks: %w", err)
	}

	var matrix []validator.MatrixEntry
	for _, e := range v.Matrix() {
		if keep(e) {
			matrix = append(matrix, e)
		}
	}

	out := cmd.OutOrStdout()
	if hooksYAML {
		data, err := yaml.Marshal(matrix)
		if err != nil {
			return fmt.Errorf("nftcompat hooks: encode: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FAMILY\tTYPE\tTYPE ALLOWED\tHOOKS")
	for _, e := range matrix {
		names := make([]string, 0, len(e.Hooks))
		for _, h := range e.Hooks {
			names = append(names, h.String())
		}
		hooks := strings.Join(names, ",")
		if hooks == "" {
			hooks = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", e.Family, e.ChainType, e.ChainTypeAllowed, hooks)
	}
	return tw.Flush()
}

// filterMatrix parses the optional filters into a predicate.
func filterMatrix(family, chainType string) (func(validator.MatrixEntry) bool, error) {
	var (
		f  nft.Family
		ct nft.ChainType
	)
	if family != "" {
		parsed, err := nft.ParseFamily(family)
		if err != nil {
			return nil, err
		}
		f = parsed
	}
	if chainType != "" {
		parsed, err := nft.ParseChainType(chainType)
		if err != nil {
			return nil, err
		}
		ct = parsed
	}
	return func(e validator.MatrixEntry) bool {
		if family != "" && e.Family != f {
			return false
		}
		if chainType != "" && e.ChainType != ct {
			return false
		}
		return true
	}, nil
}
