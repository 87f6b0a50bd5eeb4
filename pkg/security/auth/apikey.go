package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"mercator-hq/switchyard/pkg/config"
)

var (
	// ErrMissingKey is returned when a request carries no API key.
	ErrMissingKey = errors.New("missing API key")

	// ErrInvalidKey is returned for keys that match no configured key.
	ErrInvalidKey = errors.New("invalid API key")

	// ErrKeyDisabled is returned for configured keys marked disabled.
	ErrKeyDisabled = errors.New("API key disabled")
)

// Client is an authenticated API client.
type Client struct {
	Name string
}

type keyEntry struct {
	client   Client
	digest   [sha256.Size]byte
	disabled bool
}

// KeySet validates API keys against a fixed set of configured keys.
type KeySet struct {
	entries []keyEntry
}

// NewKeySet builds a key set from configuration. Names and keys must be
// unique and non-empty.
func NewKeySet(keys []config.APIKeyConfig) (*KeySet, error) {
	ks := &KeySet{entries: make([]keyEntry, 0, len(keys))}
	names := make(map[string]bool, len(keys))

	for i, k := range keys {
		if k.Name == "" {
			return nil, fmt.Errorf("key %d: name is required", i)
		}
		if k.Key == "" {
			return nil, fmt.Errorf("key %q: value is required", k.Name)
		}
		if names[k.Name] {
			return nil, fmt.Errorf("key %q: duplicate name", k.Name)
		}
		names[k.Name] = true

		ks.entries = append(ks.entries, keyEntry{
			client:   Client{Name: k.Name},
			digest:   sha256.Sum256([]byte(k.Key)),
			disabled: k.Disabled,
		})
	}
	return ks, nil
}

// Validate returns the client owning key.
func (ks *KeySet) Validate(key string) (Client, error) {
	if key == "" {
		return Client{}, ErrMissingKey
	}
	digest := sha256.Sum256([]byte(key))

	match := -1
	for i := range ks.entries {
		if subtle.ConstantTimeCompare(digest[:], ks.entries[i].digest[:]) == 1 {
			match = i
		}
	}
	if match < 0 {
		return Client{}, ErrInvalidKey
	}
	if ks.entries[match].disabled {
		return Client{}, ErrKeyDisabled
	}
	return ks.entries[match].client, nil
}

// Len returns the number of configured keys, including disabled ones.
func (ks *KeySet) Len() int {
	return len(ks.entries)
}
