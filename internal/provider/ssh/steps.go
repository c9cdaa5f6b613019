package ssh

import (
	"fmt"
	"path/filepath"

	"github.com/felixgeelhaar/shipshape/internal/domain/step"
	"github.com/felixgeelhaar/shipshape/internal/ports"
)

// KeypairStep generates an SSH identity once. An existing private key
// is never overwritten: the step is satisfied as soon as the key file
// exists, so the keypair survives repeated provisioning runs.
type KeypairStep struct {
	id      step.StepID
	keyPath string
	bits    int
	fs      ports.FileSystem
}

// NewKeypairStep creates a step that keeps an RSA keypair at keyPath
// (private key; the public key sits next to it with a .pub suffix).
func NewKeypairStep(keyPath string, fs ports.FileSystem) *KeypairStep {
	return &KeypairStep{
		id:      step.MustNewStepID("ssh:keypair"),
		keyPath: keyPath,
		bits:    defaultBits,
		fs:      fs,
	}
}

// ID returns the step identifier.
func (s *KeypairStep) ID() step.StepID {
	return s.id
}

// Fatal reports that a missing SSH identity does not abort the run.
func (s *KeypairStep) Fatal() bool {
	return false
}

// PrivatePath returns the expanded private key path.
func (s *KeypairStep) PrivatePath() string {
	return ports.ExpandPath(s.keyPath)
}

// PublicPath returns the expanded public key path.
func (s *KeypairStep) PublicPath() string {
	return s.PrivatePath() + ".pub"
}

// Check treats an existing private key as a complete identity.
func (s *KeypairStep) Check(_ step.RunContext) (step.Status, error) {
	if s.fs.Exists(s.PrivatePath()) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply generates the keypair and writes it with strict permissions:
// 0700 on the directory, 0600 on the private key, 0644 on the public.
func (s *KeypairStep) Apply(_ step.RunContext) error {
	pair, err := generateKeyPair(s.bits)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.PrivatePath())
	if err := s.fs.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if err := s.fs.WriteFile(s.PrivatePath(), pair.Private, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}
	if err := s.fs.WriteFile(s.PublicPath(), pair.Public, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}
	return nil
}
