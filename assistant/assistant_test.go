package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicecore/router"
	"voicecore/secret_manager"
)

// fakeSecrets hands back a fixed key for one secret name, modeling an
// environment where only one vendor's key is configured.
type fakeSecrets struct {
	name, value string
}

func (f fakeSecrets) GetSecret(name string) (string, error) {
	if name == f.name {
		return f.value, nil
	}
	return "", secret_manager.ErrSecretNotFound
}

func (f fakeSecrets) GetType() secret_manager.SecretManagerType {
	return secret_manager.EnvSecretManagerType
}

func TestNew_autoDetectsConfiguredProvider(t *testing.T) {
	a, err := New(context.Background(), WithSecrets(fakeSecrets{name: "ANTHROPIC_API_KEY", value: "sk-test"}))
	require.NoError(t, err)
	require.NotNil(t, a)
}

func TestNew_noProviderConfiguredErrors(t *testing.T) {
	_, err := New(context.Background(), WithSecrets(fakeSecrets{}))
	assert.Error(t, err)
}

func TestChat_dropsGarbageWithoutCallingProvider(t *testing.T) {
	a, err := New(context.Background(), WithSecrets(fakeSecrets{name: "ANTHROPIC_API_KEY", value: "sk-test"}))
	require.NoError(t, err)

	reply, err := a.Chat(context.Background(), "um", "", router.Metrics{})
	require.NoError(t, err)
	assert.Equal(t, "", reply)
}

func TestChat_fastPathBypassesProvider(t *testing.T) {
	a, err := New(context.Background(), WithSecrets(fakeSecrets{name: "ANTHROPIC_API_KEY", value: "sk-test"}))
	require.NoError(t, err)

	reply, err := a.Chat(context.Background(), "what day is it?", "", router.Metrics{})
	require.NoError(t, err)
	assert.Contains(t, reply, "Today is")
}
