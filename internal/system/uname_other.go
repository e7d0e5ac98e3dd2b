//go:build !linux

package system

import (
	"context"
	"errors"
)

// UnameProber implements KernelProber. nftables exists only on Linux, so on
// other platforms it always fails; pin KernelVersion in the config instead.
type UnameProber struct{}

// NewUnameProber returns a KernelProber backed by uname(2).
func NewUnameProber() *UnameProber {
	return &UnameProber{}
}

// ProbeKernel always returns an error on non-Linux platforms.
func (p *UnameProber) ProbeKernel(_ context.Context) (Version, error) {
	return Version{}, errors.New("system: uname: kernel probing requires linux")
}
