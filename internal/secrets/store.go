// Package secrets persists the single session secret between runs.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/99designs/keyring"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned by Get when nothing is stored.
var ErrNotFound = errors.New("secrets: not found")

// Store holds one secret under a fixed service/key name.
type Store interface {
	Set(value string) error
	Get() (string, error)
	Delete() error
}

const (
	BackendKeyring = "keyring"
	BackendFile    = "file"
)

// Options selects and addresses the backing store.
type Options struct {
	Backend string
	Service string
	Key     string
	// FileDir is where the file backend keeps its data; empty means the user config dir.
	FileDir string
	// Logger reports a fallback from the keyring to the file store.
	Logger zerolog.Logger
	// OpenKeyring defaults to keyring.Open.
	OpenKeyring func(keyring.Config) (keyring.Keyring, error)
}

// Open returns the configured backend. When the OS keyring is unavailable
// (headless sessions) it falls back to the encrypted file store.
func Open(opts Options) (Store, error) {
	if strings.TrimSpace(opts.Service) == "" || strings.TrimSpace(opts.Key) == "" {
		return nil, fmt.Errorf("secrets: service and key required")
	}
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendFile:
		return NewFileStore(opts.FileDir, opts.Service, opts.Key), nil
	case "", BackendKeyring:
		open := opts.OpenKeyring
		if open == nil {
			open = keyring.Open
		}
		ks, err := openKeyringStore(open, opts.Service, opts.Key)
		if err != nil {
			opts.Logger.Warn().Err(err).Str("service", opts.Service).Msg("OS keyring unavailable, using encrypted file store")
			return NewFileStore(opts.FileDir, opts.Service, opts.Key), nil
		}
		return ks, nil
	}
	return nil, fmt.Errorf("secrets: unknown backend %q", opts.Backend)
}

// KeyringStore keeps the secret in the platform credential store.
type KeyringStore struct {
	ring keyring.Keyring
	key  string
}

func NewKeyringStore(service, key string) (*KeyringStore, error) {
	return openKeyringStore(keyring.Open, service, key)
}

func openKeyringStore(open func(keyring.Config) (keyring.Keyring, error), service, key string) (*KeyringStore, error) {
	ring, err := open(keyring.Config{
		ServiceName: service,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.WinCredBackend,
		},
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("secrets: open keyring: %w", err)
	}
	return &KeyringStore{ring: ring, key: key}, nil
}

// NewKeyringStoreFrom wraps an already opened keyring.
func NewKeyringStoreFrom(ring keyring.Keyring, key string) *KeyringStore {
	return &KeyringStore{ring: ring, key: key}
}

func (s *KeyringStore) Set(value string) error {
	if err := s.ring.Set(keyring.Item{Key: s.key, Data: []byte(value), Label: s.key}); err != nil {
		return fmt.Errorf("secrets: set: %w", err)
	}
	return nil
}

func (s *KeyringStore) Get() (string, error) {
	item, err := s.ring.Get(s.key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("secrets: get: %w", err)
	}
	return string(item.Data), nil
}

// Delete is a no-op when nothing is stored.
func (s *KeyringStore) Delete() error {
	err := s.ring.Remove(s.key)
	if err == nil || errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return fmt.Errorf("secrets: delete: %w", err)
}
