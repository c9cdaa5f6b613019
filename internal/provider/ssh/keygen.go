// Package ssh provides the provisioning step that equips a host with
// an SSH identity: a freshly generated RSA keypair placed under ~/.ssh
// with strict permissions, regenerated only when absent.
package ssh

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	gossh "golang.org/x/crypto/ssh"
)

// defaultBits is the RSA key size used for generated identities.
const defaultBits = 4096

// KeyPair holds an RSA keypair in its on-disk formats.
type KeyPair struct {
	// Private is the PEM-encoded PKCS#1 private key.
	Private []byte
	// Public is the key in OpenSSH authorized_keys format.
	Public []byte
}

// generateKeyPair creates a new RSA keypair of the given bit size.
func generateKeyPair(bits int) (*KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("generate RSA key: %w", err)
	}
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("validate RSA key: %w", err)
	}

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	pub, err := gossh.NewPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("derive SSH public key: %w", err)
	}

	return &KeyPair{
		Private: privPEM,
		Public:  gossh.MarshalAuthorizedKey(pub),
	}, nil
}
