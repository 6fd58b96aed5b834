package identity

import (
	"context"
	"fmt"

	auth "github.com/supabase-community/auth-go"
)

// SupabaseVerifier resolves tokens against a Supabase Auth (GoTrue) project.
type SupabaseVerifier struct {
	client auth.Client
	issuer string
}

func NewSupabaseVerifier(projectRef, apiKey string) *SupabaseVerifier {
	return &SupabaseVerifier{
		client: auth.New(projectRef, apiKey),
		issuer: fmt.Sprintf("https://%s.supabase.co/auth/v1", projectRef),
	}
}

func (v *SupabaseVerifier) Verify(_ context.Context, rawToken string) (*Identity, error) {
	resp, err := v.client.WithToken(rawToken).GetUser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id := &Identity{
		Subject: resp.ID.String(),
		Issuer:  v.issuer,
		Email:   resp.Email,
	}
	id.Username = metaString(resp.UserMetadata, "user_name", "preferred_username")
	id.Name = metaString(resp.UserMetadata, "full_name", "name")
	id.PictureURL = metaString(resp.UserMetadata, "avatar_url", "picture")
	return id, nil
}

func metaString(meta map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := meta[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
