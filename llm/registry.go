package llm

import (
	"context"
	"fmt"

	"voicecore/secret_manager"
)

// autoDetectOrder is the fallback order tried when no provider is named
// explicitly: the first vendor with a configured key wins.
var autoDetectOrder = []ProviderKind{ProviderAnthropic, ProviderOpenAI, ProviderGoogle}

func secretNameFor(kind ProviderKind) string {
	switch kind {
	case ProviderAnthropic:
		return AnthropicAPIKeySecretName
	case ProviderOpenAI:
		return OpenAIAPIKeySecretName
	case ProviderGoogle:
		return GoogleAPIKeySecretName
	default:
		return ""
	}
}

// NewProvider builds the Provider named by kind, or auto-detects the first
// vendor with an available key when kind is empty.
func NewProvider(ctx context.Context, kind ProviderKind, secrets secret_manager.SecretManager, model string) (Provider, error) {
	if kind == "" {
		detected, err := DetectProvider(secrets)
		if err != nil {
			return nil, err
		}
		kind = detected
	}

	switch kind {
	case ProviderAnthropic:
		return NewAnthropicProvider(secrets, model)
	case ProviderOpenAI:
		return NewOpenAIProvider(secrets, "", model)
	case ProviderGoogle:
		return NewGoogleProvider(ctx, secrets, model)
	default:
		return nil, fmt.Errorf("unknown provider kind %q", kind)
	}
}

// DetectProvider returns the first vendor in autoDetectOrder whose API key
// secret resolves, or an error naming every secret that was tried.
func DetectProvider(secrets secret_manager.SecretManager) (ProviderKind, error) {
	tried := make([]string, 0, len(autoDetectOrder))
	for _, kind := range autoDetectOrder {
		name := secretNameFor(kind)
		if secret_manager.Available(secrets, name) {
			return kind, nil
		}
		tried = append(tried, name)
	}
	if secret_manager.Available(secrets, googleAPIKeyFallbackSecretName) {
		return ProviderGoogle, nil
	}
	tried = append(tried, googleAPIKeyFallbackSecretName)
	return "", fmt.Errorf("no provider API key available, tried: %v", tried)
}
