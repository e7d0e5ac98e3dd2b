package system

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Snapshot is the pair of versions detected once at startup. It is a value
// type; copies may be shared freely between goroutines.
type Snapshot struct {
	Kernel Version `yaml:"kernel"`
	Engine Version `yaml:"engine"`
}

// NewSnapshot returns a Snapshot for the given kernel and nft versions.
func NewSnapshot(kernel, engine Version) Snapshot {
	return Snapshot{Kernel: kernel, Engine: engine}
}

// Detect builds the Snapshot. Versions pinned in cfg are used as-is and the
// corresponding prober is not called.
func Detect(ctx context.Context, cfg Config, kernel KernelProber, engine EngineProber, logger *slog.Logger) (Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var snap Snapshot

	if cfg.KernelVersion != nil {
		snap.Kernel = *cfg.KernelVersion
		logger.Debug("kernel version pinned", "component", "system", "version", snap.Kernel.String())
	} else {
		v, err := probe(ctx, cfg, kernel.ProbeKernel)
		if err != nil {
			return Snapshot{}, fmt.Errorf("system: detect kernel version: %w", err)
		}
		snap.Kernel = v
	}

	if cfg.EngineVersion != nil {
		snap.Engine = *cfg.EngineVersion
		logger.Debug("nft version pinned", "component", "system", "version", snap.Engine.String())
	} else {
		v, err := probe(ctx, cfg, engine.ProbeEngine)
		if err != nil {
			return Snapshot{}, fmt.Errorf("system: detect nft version: %w", err)
		}
		snap.Engine = v
	}

	logger.Info("system detected",
		"component", "system",
		"kernel", snap.Kernel.String(),
		"nft", snap.Engine.String(),
	)
	return snap, nil
}

func probe(ctx context.Context, cfg Config, fn func(context.Context) (Version, error)) (Version, error) {
	if cfg.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ProbeTimeout)
		defer cancel()
	}
	return fn(ctx)
}

const greeting = `
  _   _ _____ _____ ____ ___  __  __ ____   _  _____
 | \ | |  ___|_   _/ ___/ _ \|  \/  |  _ \ / \|_   _|
 |  \| | |_    | || |  | | | | |\/| | |_) / _ \ | |
 | |\  |  _|   | || |__| |_| | |  | |  __/ ___ \| |
 |_| \_|_|     |_| \____\___/|_|  |_|_| /_/   \_\_|
`

// WriteBanner prints the startup greeting followed by the detected versions.
func WriteBanner(w io.Writer, snap Snapshot) error {
	if _, err := fmt.Fprint(w, greeting+"\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-20s%s\n", "Linux version", snap.Kernel); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%-20s%s\n", "NFTables version", snap.Engine)
	return err
}
