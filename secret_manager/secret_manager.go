// Package secret_manager resolves API keys and other credentials without
// hard-coding where they live: environment variables first, OS keyring as
// a fallback, composed so callers never need to know which one answered.
package secret_manager

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// ErrSecretNotFound is returned when no configured manager has the secret.
// Provider auto-detection treats this as "vendor unavailable", not a hard
// failure.
var ErrSecretNotFound = errors.New("secret not found")

type SecretManagerType string

const (
	EnvSecretManagerType       SecretManagerType = "env"
	KeyringSecretManagerType   SecretManagerType = "keyring"
	CompositeSecretManagerType SecretManagerType = "composite"
)

// SecretManager looks up a named secret (e.g. "ANTHROPIC_API_KEY").
type SecretManager interface {
	GetSecret(name string) (string, error)
	GetType() SecretManagerType
}

// EnvSecretManager reads the secret directly from the process environment.
type EnvSecretManager struct{}

func (EnvSecretManager) GetSecret(name string) (string, error) {
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s not set in environment", ErrSecretNotFound, name)
}

func (EnvSecretManager) GetType() SecretManagerType { return EnvSecretManagerType }

// KeyringSecretManager reads the secret from the OS-native keyring.
type KeyringSecretManager struct {
	Service string
}

func (k KeyringSecretManager) GetSecret(name string) (string, error) {
	service := k.Service
	if service == "" {
		service = "voicecore"
	}
	secret, err := keyring.Get(service, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %s not in keyring", ErrSecretNotFound, name)
		}
		return "", fmt.Errorf("reading %s from keyring: %w", name, err)
	}
	return secret, nil
}

func (k KeyringSecretManager) GetType() SecretManagerType { return KeyringSecretManagerType }

// CompositeSecretManager tries each manager in order and returns the first
// hit, so a missing env var falls through to the keyring transparently.
type CompositeSecretManager struct {
	managers []SecretManager
}

func NewCompositeSecretManager(managers ...SecretManager) *CompositeSecretManager {
	return &CompositeSecretManager{managers: managers}
}

func (c *CompositeSecretManager) GetSecret(name string) (string, error) {
	var lastErr error
	for _, m := range c.managers {
		secret, err := m.GetSecret(name)
		if err == nil {
			return secret, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		return "", fmt.Errorf("%w: no secret managers configured", ErrSecretNotFound)
	}
	return "", lastErr
}

func (c *CompositeSecretManager) GetType() SecretManagerType { return CompositeSecretManagerType }

// Default returns the standard env-then-keyring chain used when a Config
// does not supply its own SecretManager.
func Default() SecretManager {
	return NewCompositeSecretManager(EnvSecretManager{}, KeyringSecretManager{})
}

// Available reports whether name resolves to a non-empty secret, without
// surfacing the value. Used by provider auto-detect.
func Available(sm SecretManager, name string) bool {
	_, err := sm.GetSecret(name)
	return err == nil
}
