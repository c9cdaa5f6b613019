// Package hostinfo provides host identity detection and the advisory
// release-compatibility check.
package hostinfo

import (
	"fmt"

	"github.com/felixgeelhaar/shipshape/internal/ports"
)

// Host contains detected host information.
type Host struct {
	Release  ports.OSRelease
	Arch     string
	Hostname string
}

// Detect reads host identity through the injected system interface.
// A missing or unreadable os-release is not an error at this level;
// the compatibility check degrades to a warning.
func Detect(system ports.System) Host {
	host := Host{
		Arch:     system.Arch(),
		Hostname: system.Hostname(),
	}
	if release, err := system.OSRelease(); err == nil {
		host.Release = release
	}
	return host
}

// Expected describes the release the provisioning sequence was written
// against.
type Expected struct {
	ID        string
	VersionID string
}

// IsZero reports whether no expectation is configured.
func (e Expected) IsZero() bool {
	return e.ID == "" && e.VersionID == ""
}

// Matches reports whether the detected host satisfies the expectation.
// Empty expectation fields match anything.
func (e Expected) Matches(host Host) bool {
	if e.ID != "" && e.ID != host.Release.ID {
		return false
	}
	if e.VersionID != "" && e.VersionID != host.Release.VersionID {
		return false
	}
	return true
}

// MismatchWarning renders the advisory warning for a failed match.
func (e Expected) MismatchWarning(host Host) string {
	detected := host.Release.PrettyName
	if detected == "" {
		detected = fmt.Sprintf("%s %s", host.Release.ID, host.Release.VersionID)
	}
	return fmt.Sprintf("this host reports %q, the sequence was written for %s %s; continuing anyway",
		detected, e.ID, e.VersionID)
}
