package secretmanager

import (
	"os"

	vault "github.com/hashicorp/vault-client-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("secretmanager", fx.Provide(ProvideVault))

// ProvideVault returns a Vault client configured from the VAULT_* environment,
// or nil when VAULT_ADDR is unset so config falls back to plain env values.
func ProvideVault() (*vault.Client, error) {
	if os.Getenv("VAULT_ADDR") == "" {
		zap.L().Info("VAULT_ADDR not set, skipping vault secrets")
		return nil, nil
	}

	client, err := vault.New(
		vault.WithEnvironment(),
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}
