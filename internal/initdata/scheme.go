package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"strings"
)

// Scheme selects how the signature secret is derived from the bot token.
// Telegram deployments have used both; the right one is a deployment decision.
type Scheme string

const (
	// SchemeRawSHA256 uses SHA-256(botToken) as the secret.
	SchemeRawSHA256 Scheme = "raw-sha256"
	// SchemeWebAppHMAC uses HMAC-SHA256(key="WebAppData", msg=botToken) as the secret.
	SchemeWebAppHMAC Scheme = "webapp-hmac"
)

const webAppDataKey = "WebAppData"

// ParseScheme maps a configuration value to a Scheme. Empty values are
// rejected: there is no default scheme.
func ParseScheme(s string) (Scheme, error) {
	scheme := Scheme(strings.ToLower(strings.TrimSpace(s)))
	if err := scheme.validate(); err != nil {
		return "", err
	}
	return scheme, nil
}

func (s Scheme) validate() error {
	switch s {
	case SchemeRawSHA256, SchemeWebAppHMAC:
		return nil
	case "":
		return ErrMissingScheme
	default:
		return fmt.Errorf("%w %q", ErrUnknownScheme, string(s))
	}
}

// DeriveSecret computes the signature secret for botToken under scheme.
func DeriveSecret(botToken string, scheme Scheme) ([]byte, error) {
	if botToken == "" {
		return nil, ErrMissingCredential
	}
	if err := scheme.validate(); err != nil {
		return nil, err
	}
	return deriveSecret(botToken, scheme), nil
}

func deriveSecret(botToken string, scheme Scheme) []byte {
	if scheme == SchemeRawSHA256 {
		sum := sha256.Sum256([]byte(botToken))
		return sum[:]
	}
	mac := hmac.New(sha256.New, []byte(webAppDataKey))
	mac.Write([]byte(botToken))
	return mac.Sum(nil)
}
