//go:build linux

package system

import (
	"context"
	"fmt"

	"golang.org/x/sys/unix"
)

// UnameProber implements KernelProber using the uname(2) release string.
type UnameProber struct{}

// NewUnameProber returns a KernelProber backed by uname(2).
func NewUnameProber() *UnameProber {
	return &UnameProber{}
}

// ProbeKernel reads the kernel release, e.g. "6.1.0-18-amd64".
func (p *UnameProber) ProbeKernel(_ context.Context) (Version, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return Version{}, fmt.Errorf("system: uname: %w", err)
	}
	return ParseVersion(unix.ByteSliceToString(uts.Release[:]))
}
