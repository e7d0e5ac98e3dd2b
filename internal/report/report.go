// Package report collects the outcome of a check or audit run and renders it
// for humans (text) or machines (YAML).
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/plexsphere/nftcompat/internal/fsutil"
	"github.com/plexsphere/nftcompat/internal/nft"
	"github.com/plexsphere/nftcompat/internal/system"
	"github.com/plexsphere/nftcompat/internal/validator"
)

// Report is the result of checking a set of tables against one snapshot.
type Report struct {
	// Source names where the tables came from: a ruleset path or "kernel".
	Source     string                `yaml:"source"`
	Snapshot   system.Snapshot       `yaml:"system"`
	Tables     []TableSummary        `yaml:"tables"`
	Violations []validator.Violation `yaml:"violations"`
}

// TableSummary counts the chains of one checked table.
type TableSummary struct {
	Name          string     `yaml:"name"`
	Family        nft.Family `yaml:"family"`
	BaseChains    int        `yaml:"base_chains"`
	RegularChains int        `yaml:"regular_chains"`
}

// New checks tables with v and returns the report.
func New(source string, v *validator.Validator, tables []nft.Table) *Report {
	r := &Report{
		Source:     source,
		Snapshot:   v.Snapshot(),
		Tables:     make([]TableSummary, 0, len(tables)),
		Violations: v.CheckTables(tables),
	}
	for _, t := range tables {
		s := TableSummary{Name: t.Name, Family: t.Family}
		for _, c := range t.Chains {
			if c.IsBase() {
				s.BaseChains++
			} else {
				s.RegularChains++
			}
		}
		r.Tables = append(r.Tables, s)
	}
	return r
}

// Add appends violations found outside the validator, e.g. by the audit.
func (r *Report) Add(vs ...validator.Violation) {
	r.Violations = append(r.Violations, vs...)
}

// OK reports whether no violation was found.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// WriteText renders a human-readable summary.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Source:\t%s\n", r.Source)
	fmt.Fprintf(tw, "Kernel:\t%s\n", r.Snapshot.Kernel)
	fmt.Fprintf(tw, "nft:\t%s\n", r.Snapshot.Engine)
	fmt.Fprintf(tw, "Tables:\t%d\n", len(r.Tables))
	for _, t := range r.Tables {
		fmt.Fprintf(tw, "  %s %s\t%d base, %d regular\n", t.Family, t.Name, t.BaseChains, t.RegularChains)
	}
	if r.OK() {
		fmt.Fprintln(tw, "\nNo violations.")
		return tw.Flush()
	}
	fmt.Fprintf(tw, "\nViolations: %d\n", len(r.Violations))
	for _, v := range r.Violations {
		fmt.Fprintf(tw, "  %s\n", v)
	}
	return tw.Flush()
}

// YAML encodes the whole report.
func (r *Report) YAML() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("report: encode: %w", err)
	}
	return data, nil
}

// WriteYAML writes the report to path atomically.
func (r *Report) WriteYAML(path string) error {
	data, err := r.YAML()
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}
