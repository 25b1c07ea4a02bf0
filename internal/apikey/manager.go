// Package apikey resolves and validates the v0.dev API key. The key comes
// from configuration (V0_API_KEY) when present and falls back to the OS
// keyring, where the set-key command stores it.
package apikey

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/99designs/keyring"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
)

// ServiceName identifies our keyring namespace.
const ServiceName = "v0-mcp-server"

// KeyAPIKey is the keyring item holding the v0 API key.
const KeyAPIKey = "v0-api-key"

const minKeyLength = 16

// Source tells where a resolved key came from.
type Source string

const (
	SourceConfig  Source = "config"
	SourceKeyring Source = "keyring"
)

// Manager resolves the API key. It is safe for concurrent use.
type Manager struct {
	mu         sync.RWMutex
	configured string
	ring       keyring.Keyring
}

// NewManager creates a manager. ring may be nil when no keyring is available.
func NewManager(configured string, ring keyring.Keyring) *Manager {
	return &Manager{configured: strings.TrimSpace(configured), ring: ring}
}

// OpenRing opens the OS keyring with the platform's default backends.
func OpenRing() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:   ServiceName,
		PassPrefix:    ServiceName,
		WinCredPrefix: ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return ring, nil
}

// Resolve returns a validated key and its source. Failures are *McpError
// values: INVALID_API_KEY when no key is found, VALIDATION_ERROR when the
// key is malformed.
func (m *Manager) Resolve() (string, Source, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.configured != "" {
		if err := Validate(m.configured); err != nil {
			return "", "", err
		}
		return m.configured, SourceConfig, nil
	}

	if m.ring != nil {
		item, err := m.ring.Get(KeyAPIKey)
		switch {
		case err == nil && len(item.Data) > 0:
			key := strings.TrimSpace(string(item.Data))
			if err := Validate(key); err != nil {
				return "", "", err
			}
			return key, SourceKeyring, nil
		case err != nil && !stdErrors.Is(err, keyring.ErrKeyNotFound):
			return "", "", fmt.Errorf("read %s from keyring: %w", KeyAPIKey, err)
		}
	}

	return "", "", verrors.TransformError("v0 API key is missing", verrors.Context{Operation: "resolve_api_key"})
}

// Store validates key and saves it in the keyring.
func (m *Manager) Store(key string) error {
	key = strings.TrimSpace(key)
	if err := Validate(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ring == nil {
		return stdErrors.New("no keyring available")
	}
	if err := m.ring.Set(keyring.Item{
		Key:         KeyAPIKey,
		Data:        []byte(key),
		Label:       "v0 API key",
		Description: "API key used by v0-mcp-server",
	}); err != nil {
		return fmt.Errorf("store %s in keyring: %w", KeyAPIKey, err)
	}
	return nil
}

// Clear removes a stored key. A missing item is not an error.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ring == nil {
		return nil
	}
	if err := m.ring.Remove(KeyAPIKey); err != nil && !stdErrors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("remove %s from keyring: %w", KeyAPIKey, err)
	}
	return nil
}

// Validate checks the key's shape. It does not contact v0.dev.
func Validate(key string) error {
	const suggestion = "Copy the key from your v0.dev account settings"
	switch {
	case key == "":
		return verrors.FieldValidationError("apiKey", "is required", suggestion)
	case strings.IndexFunc(key, unicode.IsSpace) >= 0:
		return verrors.FieldValidationError("apiKey", "must not contain whitespace", suggestion)
	case len(key) < minKeyLength:
		return verrors.FieldValidationError("apiKey", fmt.Sprintf("must be at least %d characters", minKeyLength), suggestion)
	}
	return nil
}

// Mask hides all but the last four characters of key for display.
func Mask(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
