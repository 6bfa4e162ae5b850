package stripe

import (
	"context"
	"testing"

	"github.com/epicdreams/storefront-backend/pkg/config"
)

func TestNewClientRejectsKeyFromOtherMode(t *testing.T) {
	_, err := NewClient(context.Background(), config.StripeConfig{
		SecretKey:     "sk_live_123",
		WebhookSecret: "whsec_123",
		Env:           "test",
	}, nil)
	if err == nil {
		t.Fatal("expected live key to be rejected in test mode")
	}

	_, err = NewClient(context.Background(), config.StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_123",
		Env:           "live",
	}, nil)
	if err == nil {
		t.Fatal("expected test key to be rejected in live mode")
	}
}

func TestNewClientRequiresSecrets(t *testing.T) {
	if _, err := NewClient(context.Background(), config.StripeConfig{WebhookSecret: "whsec"}, nil); err != errAPIKeyRequired {
		t.Fatalf("expected api key error, got %v", err)
	}
	if _, err := NewClient(context.Background(), config.StripeConfig{SecretKey: "sk_test_1"}, nil); err != errSecretRequired {
		t.Fatalf("expected webhook secret error, got %v", err)
	}
	if _, err := NewClient(context.Background(), config.StripeConfig{SecretKey: "sk_test_1", WebhookSecret: "whsec", Env: "staging"}, nil); err != errInvalidStripeEnv {
		t.Fatalf("expected env error, got %v", err)
	}
}

func TestNewClientAcceptsRestrictedTestKey(t *testing.T) {
	client, err := NewClient(context.Background(), config.StripeConfig{
		SecretKey:     "rk_test_abc",
		WebhookSecret: " whsec_abc ",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Environment() != "test" {
		t.Fatalf("expected test env, got %q", client.Environment())
	}
	if client.SigningSecret() != "whsec_abc" {
		t.Fatalf("expected trimmed signing secret, got %q", client.SigningSecret())
	}
}
