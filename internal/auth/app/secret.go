package app

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/zaobank/mobile-auth/pkg/cryptox"
)

// LoadOrCreateSecret returns the HS256 signing secret from the
// given file, generating one on first boot. The secret persists
// across restarts; replacing the file and restarting is the only
// way to invalidate all outstanding access tokens at once.
func LoadOrCreateSecret(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		secret := bytes.TrimSpace(raw)
		if len(secret) == 0 {
			return nil, fmt.Errorf("secret file %s is empty", path)
		}
		return secret, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read secret file: %w", err)
	}

	generated, err := cryptox.GenerateToken(cryptox.TokenSize512)
	if err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}
	if err := os.WriteFile(path, []byte(generated+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("write secret file: %w", err)
	}
	return []byte(generated), nil
}
