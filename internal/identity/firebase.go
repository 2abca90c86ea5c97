package identity

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// idTokenVerifier is the part of *auth.Client we use.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier validates Firebase ID tokens; the Firebase UID is the user id.
type FirebaseVerifier struct {
	client idTokenVerifier
}

func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("failed to verify firebase id token: %w", err)
	}
	return tok.UID, nil
}
