package identity

import (
	"context"
	"errors"

	"github.com/gigmarket/gigmarket/internal/config"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is what the identity provider asserts about a bearer.
type Identity struct {
	Subject    string
	Issuer     string
	Email      string
	Username   string
	Name       string
	PictureURL string
}

// TokenIdentifier is the stable key linking an identity to its user row.
func (i Identity) TokenIdentifier() string {
	return i.Issuer + "|" + i.Subject
}

type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

// New picks the verifier configured under auth.provider.
func New(cfg *config.Config) (Verifier, error) {
	switch cfg.Auth.Provider {
	case "supabase":
		return NewSupabaseVerifier(cfg.Auth.SupabaseProjectRef, cfg.Auth.SupabaseAPIKey), nil
	case "jwt", "":
		return NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience)
	default:
		return nil, errors.New("identity: unknown provider " + cfg.Auth.Provider)
	}
}
