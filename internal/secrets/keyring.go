package secrets

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Keyring is a Store backed by the OS keyring (Keychain, Secret Service,
// Credential Manager). All secrets share one keyring service name; the key
// is the keyring account.
type Keyring struct {
	service string
}

// NewKeyring creates a keyring-backed store under the given service name.
func NewKeyring(service string) *Keyring {
	return &Keyring{service: service}
}

// Get returns the value for key, mapping the keyring's not-found error to
// ErrNotFound.
func (k *Keyring) Get(key string) (string, error) {
	v, err := keyring.Get(k.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading keyring entry %s: %w", key, err)
	}
	return v, nil
}

// Set stores value under key.
func (k *Keyring) Set(key, value string) error {
	if err := keyring.Set(k.service, key, value); err != nil {
		return fmt.Errorf("writing keyring entry %s: %w", key, err)
	}
	return nil
}

// Delete removes key. A missing key is a no-op.
func (k *Keyring) Delete(key string) error {
	err := keyring.Delete(k.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting keyring entry %s: %w", key, err)
	}
	return nil
}
