package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

type AuthClient struct {
	client *auth.Client
}

func NewAuthClient(client *auth.Client) *AuthClient {
	return &AuthClient{
		client: client,
	}
}

// VerifyToken resolves an ID token to the Firebase identity behind it.
// The rest of the system trusts the returned token.
func (c *AuthClient) VerifyToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return c.client.VerifyIDToken(ctx, idToken)
}

func (c *AuthClient) GetUser(ctx context.Context, uid string) (*auth.UserRecord, error) {
	return c.client.GetUser(ctx, uid)
}
