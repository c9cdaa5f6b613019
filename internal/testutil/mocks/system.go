package mocks

import (
	"errors"
	"sync"

	"github.com/felixgeelhaar/shipshape/internal/ports"
)

// System is a test double for ports.System.
type System struct {
	mu         sync.RWMutex
	euid       int
	username   string
	hostname   string
	arch       string
	release    ports.OSRelease
	releaseErr error
}

// NewSystem creates a System mock that looks like a root shell on an
// amd64 Ubuntu host.
func NewSystem() *System {
	return &System{
		euid:     0,
		username: "root",
		hostname: "testhost",
		arch:     "amd64",
		release:  ports.OSRelease{ID: "ubuntu", VersionID: "24.04", Codename: "noble", PrettyName: "Ubuntu 24.04 LTS"},
	}
}

// SetEffectiveUserID overrides the reported euid.
func (m *System) SetEffectiveUserID(euid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.euid = euid
}

// SetUsername overrides the reported account name.
func (m *System) SetUsername(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.username = name
}

// SetHostname overrides the reported hostname.
func (m *System) SetHostname(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hostname = name
}

// SetArch overrides the reported architecture.
func (m *System) SetArch(arch string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.arch = arch
}

// SetOSRelease overrides the reported os-release identity.
func (m *System) SetOSRelease(release ports.OSRelease) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release = release
	m.releaseErr = nil
}

// SetOSReleaseError makes OSRelease fail.
func (m *System) SetOSReleaseError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseErr = errors.New("os-release unreadable")
}

// EffectiveUserID returns the configured euid.
func (m *System) EffectiveUserID() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.euid
}

// Username returns the configured account name.
func (m *System) Username() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.username
}

// Hostname returns the configured hostname.
func (m *System) Hostname() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hostname
}

// Arch returns the configured architecture.
func (m *System) Arch() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.arch
}

// OSRelease returns the configured identity or error.
func (m *System) OSRelease() (ports.OSRelease, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.releaseErr != nil {
		return ports.OSRelease{}, m.releaseErr
	}
	return m.release, nil
}

// Ensure System implements ports.System.
var _ ports.System = (*System)(nil)
