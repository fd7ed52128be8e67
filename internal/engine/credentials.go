package engine

import (
	"fmt"

	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/zalando/go-keyring"
)

// Credentials resolves the password of a remote vCard source.
type Credentials interface {
	Password(user string) (string, error)
}

// KeyringCredentials stores passwords in the operating system keyring.
type KeyringCredentials struct {
	Service string
}

// NewKeyringCredentials uses the application keyring service name.
func NewKeyringCredentials() KeyringCredentials {
	return KeyringCredentials{Service: config.KeyringService}
}

// Password returns the secret stored for user.
func (k KeyringCredentials) Password(user string) (string, error) {
	p, err := keyring.Get(k.Service, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrKeyring, err)
	}
	return p, nil
}

// Store saves pass for user, replacing any previous secret.
func (k KeyringCredentials) Store(user, pass string) error {
	if err := keyring.Set(k.Service, user, pass); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyring, err)
	}
	return nil
}
