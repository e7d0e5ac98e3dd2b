package system

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// KernelProber detects the running kernel version.
type KernelProber interface {
	ProbeKernel(ctx context.Context) (Version, error)
}

// EngineProber detects the nft userspace tool version.
type EngineProber interface {
	ProbeEngine(ctx context.Context) (Version, error)
}

// NftProber implements EngineProber by running `<Binary> --version`.
type NftProber struct {
	// Binary is the nft executable name or path. Empty means DefaultNftBinary.
	Binary string
}

// NewNftProber returns an EngineProber that calls the given nft binary.
func NewNftProber(binary string) *NftProber {
	return &NftProber{Binary: binary}
}

// ProbeEngine runs nft --version and parses its standard output. Standard
// error is only reported when the command fails.
func (p *NftProber) ProbeEngine(ctx context.Context) (Version, error) {
	bin := p.Binary
	if bin == "" {
		bin = DefaultNftBinary
	}
	output, err := exec.CommandContext(ctx, bin, "--version").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Version{}, fmt.Errorf("system: %s --version: %s: %w", bin, strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return Version{}, fmt.Errorf("system: %s --version: %w", bin, err)
	}
	return ParseEngineVersion(string(output))
}
