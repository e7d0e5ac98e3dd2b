// Package audit reads the ruleset loaded in the running kernel and checks it
// against the detected system snapshot.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/plexsphere/nftcompat/internal/nft"
	"github.com/plexsphere/nftcompat/internal/report"
	"github.com/plexsphere/nftcompat/internal/validator"
)

// Source is the report source name used for live audits.
const Source = "kernel"

// ErrUnsupported is returned by the kernel backends on platforms without
// nftables or netlink.
var ErrUnsupported = errors.New("audit: not supported on this platform")

// ChainLister returns the tables currently loaded, including their chains and
// the jump/goto verdicts of each chain's rules.
type ChainLister interface {
	ListTables() ([]nft.Table, error)
}

// DeviceResolver reports whether a network device exists.
type DeviceResolver interface {
	DeviceExists(name string) (bool, error)
}

// Config holds audit options.
type Config struct {
	// SkipDevices disables the existence check of netdev chain devices.
	SkipDevices bool `yaml:"skip_devices"`
}

// Auditor checks a live ruleset.
type Auditor struct {
	cfg       Config
	validator *validator.Validator
	lister    ChainLister
	devices   DeviceResolver
	logger    *slog.Logger
}

// New returns an Auditor. devices may be nil, in which case device checks are
// skipped regardless of cfg.
func New(cfg Config, v *validator.Validator, lister ChainLister, devices DeviceResolver, logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{
		cfg:       cfg,
		validator: v,
		lister:    lister,
		devices:   devices,
		logger:    logger,
	}
}

// Run lists the kernel tables and returns the resulting report.
func (a *Auditor) Run(ctx context.Context) (*report.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}

	tables, err := a.lister.ListTables()
	if err != nil {
		return nil, fmt.Errorf("audit: list tables: %w", err)
	}
	a.logger.Debug("kernel tables listed",
		"component", "audit",
		"tables", len(tables),
	)

	r := report.New(Source, a.validator, tables)

	if !a.cfg.SkipDevices && a.devices != nil {
		vs, err := a.checkDevices(ctx, tables)
		if err != nil {
			return nil, err
		}
		r.Add(vs...)
	}

	a.logger.Info("audit complete",
		"component", "audit",
		"tables", len(tables),
		"violations", len(r.Violations),
	)
	return r, nil
}

func (a *Auditor) checkDevices(ctx context.Context, tables []nft.Table) ([]validator.Violation, error) {
	var out []validator.Violation
	for _, t := range tables {
		for _, c := range t.Chains {
			if !c.IsBase() || c.Device == "" {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("audit: %w", err)
			}
			ok, err := a.devices.DeviceExists(c.Device)
			if err != nil {
				return nil, fmt.Errorf("audit: resolve device %s: %w", c.Device, err)
			}
			if ok {
				continue
			}
			out = append(out, validator.Violation{
				Table:   t.Name,
				Family:  t.Family,
				Chain:   c.Name,
				Code:    validator.CodeDeviceNotPresent,
				Message: fmt.Sprintf("device %s does not exist", c.Device),
			})
		}
	}
	return out, nil
}
