// Package sysinfo provides the ports.System adapter for the live host.
package sysinfo

import (
	"fmt"
	"os"
	"os/user"
	"runtime"

	"gopkg.in/ini.v1"

	"github.com/felixgeelhaar/shipshape/internal/ports"
)

const osReleasePath = "/etc/os-release"

// RealSystem reads identity from the live host.
type RealSystem struct {
	releasePath string
}

// NewRealSystem creates a new RealSystem.
func NewRealSystem() *RealSystem {
	return &RealSystem{releasePath: osReleasePath}
}

// NewRealSystemWithReleasePath creates a RealSystem reading os-release
// from an alternate path. Used in tests.
func NewRealSystemWithReleasePath(path string) *RealSystem {
	return &RealSystem{releasePath: path}
}

// EffectiveUserID returns the effective uid of the calling process.
func (s *RealSystem) EffectiveUserID() int {
	return os.Geteuid()
}

// Username returns the name of the account the process runs as.
func (s *RealSystem) Username() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}

// Hostname returns the host's name.
func (s *RealSystem) Hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}

// Arch returns the machine architecture in Go's naming.
func (s *RealSystem) Arch() string {
	return runtime.GOARCH
}

// OSRelease parses /etc/os-release. The file is shell-style KEY=VALUE
// with optional quoting, which ini handles directly.
func (s *RealSystem) OSRelease() (ports.OSRelease, error) {
	file, err := ini.Load(s.releasePath)
	if err != nil {
		return ports.OSRelease{}, fmt.Errorf("read os-release: %w", err)
	}

	section := file.Section("")
	return ports.OSRelease{
		ID:         section.Key("ID").String(),
		VersionID:  section.Key("VERSION_ID").String(),
		Codename:   section.Key("VERSION_CODENAME").String(),
		PrettyName: section.Key("PRETTY_NAME").String(),
	}, nil
}

// Ensure RealSystem implements ports.System.
var _ ports.System = (*RealSystem)(nil)
