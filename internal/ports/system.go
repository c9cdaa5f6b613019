package ports

// OSRelease holds the identity fields read from /etc/os-release.
type OSRelease struct {
	ID         string // e.g. "ubuntu"
	VersionID  string // e.g. "24.04"
	Codename   string // e.g. "noble"
	PrettyName string // e.g. "Ubuntu 24.04.1 LTS"
}

// System exposes host identity so the sequencer and steps can be tested
// against a fake instead of the live machine.
type System interface {
	// EffectiveUserID returns the effective uid of the calling process.
	EffectiveUserID() int

	// Username returns the name of the account the process runs as.
	Username() string

	// Hostname returns the host's name.
	Hostname() string

	// Arch returns the machine architecture in Go's naming (amd64, arm64).
	Arch() string

	// OSRelease returns the parsed /etc/os-release identity.
	OSRelease() (OSRelease, error)
}
