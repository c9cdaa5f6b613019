// Package config defines the provisioning profile: what gets installed
// and how the host ends up configured. A built-in profile covers the
// common case; an optional YAML file overrides parts of it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/shipshape/internal/provider/apt"
	"github.com/felixgeelhaar/shipshape/internal/provider/tools"
	"github.com/felixgeelhaar/shipshape/internal/validation"
)

// Config is the full provisioning profile.
type Config struct {
	// Release names the distribution the profile targets. A mismatch
	// on the host is reported but does not stop the run.
	Release ReleaseConfig `yaml:"release"`

	// Packages drives the apt steps.
	Packages PackagesConfig `yaml:"packages"`

	// DockerRepo registers Docker's upstream repository before the
	// engine install.
	DockerRepo apt.Repo `yaml:"dockerRepo"`

	// Tools are standalone binaries downloaded and placed on PATH.
	Tools []tools.Tool `yaml:"tools"`

	// Shell configures the login shell and its framework.
	Shell ShellConfig `yaml:"shell"`

	// SSHKeyPath is where the host identity's private key lives.
	SSHKeyPath string `yaml:"sshKeyPath"`
}

// ReleaseConfig is the expected distribution identity.
type ReleaseConfig struct {
	ID        string `yaml:"id"`
	VersionID string `yaml:"versionId"`
}

// PackagesConfig lists packages to install and legacy ones to purge.
type PackagesConfig struct {
	Install []string `yaml:"install"`
	Purge   []string `yaml:"purge"`
}

// ShellConfig drives the login shell switch, the framework install,
// and the rc-file helper injection.
type ShellConfig struct {
	Path         string `yaml:"path"`
	FrameworkURL string `yaml:"frameworkUrl"`
	FrameworkDir string `yaml:"frameworkDir"`
	RCPath       string `yaml:"rcPath"`
}

// Default returns the built-in profile: Ubuntu 24.04 with Docker,
// kubectl, doctl, zsh with oh-my-zsh, and an SSH identity.
func Default() *Config {
	return &Config{
		Release: ReleaseConfig{
			ID:        "ubuntu",
			VersionID: "24.04",
		},
		Packages: PackagesConfig{
			Install: []string{
				"ca-certificates",
				"curl",
				"git",
				"gnupg",
				"jq",
				"zsh",
			},
			Purge: []string{
				"docker.io",
				"docker-compose",
				"docker-doc",
				"podman-docker",
			},
		},
		DockerRepo: apt.Repo{
			Name:        "docker",
			KeyURL:      "https://download.docker.com/linux/ubuntu/gpg",
			KeyringPath: "/etc/apt/keyrings/docker.gpg",
			SourcePath:  "/etc/apt/sources.list.d/docker.list",
			Line:        "deb [arch=$ARCH signed-by=/etc/apt/keyrings/docker.gpg] https://download.docker.com/linux/ubuntu $CODENAME stable",
		},
		Tools: []tools.Tool{
			{
				Name:       "kubectl",
				VersionURL: "https://dl.k8s.io/release/stable.txt",
				URL:        "https://dl.k8s.io/release/$VERSION/bin/$OS/$ARCH/kubectl",
			},
			{
				Name:      "doctl",
				Version:   "1.104.0",
				URL:       "https://github.com/digitalocean/doctl/releases/download/v$RAWVERSION/doctl-$RAWVERSION-$OS-$ARCH.tar.gz",
				TarMember: "doctl",
			},
		},
		Shell: ShellConfig{
			Path:         "/usr/bin/zsh",
			FrameworkURL: "https://raw.githubusercontent.com/ohmyzsh/ohmyzsh/master/tools/install.sh",
			FrameworkDir: "~/.oh-my-zsh",
			RCPath:       "~/.zshrc",
		},
		SSHKeyPath: "~/.ssh/id_rsa",
	}
}

// Load returns the built-in profile, overlaid with the YAML file at
// path when one is given. A missing explicit path is an error; an
// empty path means defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied profile path
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects profiles that would produce unsafe steps.
func (c *Config) Validate() error {
	for _, pkg := range c.Packages.Install {
		if err := validation.ValidatePackageName(pkg); err != nil {
			return fmt.Errorf("packages.install: %w", err)
		}
	}
	for _, pkg := range c.Packages.Purge {
		if err := validation.ValidatePackageName(pkg); err != nil {
			return fmt.Errorf("packages.purge: %w", err)
		}
	}
	if err := validation.ValidateHTTPSURL(c.DockerRepo.KeyURL); err != nil {
		return fmt.Errorf("dockerRepo.keyUrl: %w", err)
	}
	for _, tool := range c.Tools {
		if tool.Name == "" {
			return fmt.Errorf("tools: name is required")
		}
		if tool.URL == "" {
			return fmt.Errorf("tools.%s: url is required", tool.Name)
		}
		// Tool URLs are templates; validate with the placeholders
		// substituted the way the install step will.
		if err := validation.ValidateHTTPSURL(tool.ArtifactURL("v0.0.0", "amd64")); err != nil {
			return fmt.Errorf("tools.%s: %w", tool.Name, err)
		}
		if tool.VersionURL != "" {
			if err := validation.ValidateHTTPSURL(tool.VersionURL); err != nil {
				return fmt.Errorf("tools.%s: %w", tool.Name, err)
			}
		}
	}
	if err := validation.ValidateShellPath(c.Shell.Path); err != nil {
		return fmt.Errorf("shell.path: %w", err)
	}
	if err := validation.ValidateHTTPSURL(c.Shell.FrameworkURL); err != nil {
		return fmt.Errorf("shell.frameworkUrl: %w", err)
	}
	return nil
}
