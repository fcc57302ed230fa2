package service

import (
	"errors"
	"strings"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
)

type GoogleIdentity struct {
	Sub   string
	Email string
	Name  string
}

// GoogleVerifier checks a Google ID token against our client id.
type GoogleVerifier interface {
	Verify(idToken string) (*GoogleIdentity, error)
}

type googleVerifier struct {
	clientID string
}

// NewGoogleVerifier returns nil when no client id is configured.
func NewGoogleVerifier(clientID string) GoogleVerifier {
	if strings.TrimSpace(clientID) == "" {
		return nil
	}
	return &googleVerifier{clientID: clientID}
}

func (g *googleVerifier) Verify(idToken string) (*GoogleIdentity, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.clientID}); err != nil {
		return nil, err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, err
	}
	if claimSet.Sub == "" {
		return nil, errors.New("google token has no subject")
	}
	return &GoogleIdentity{Sub: claimSet.Sub, Email: claimSet.Email, Name: claimSet.Name}, nil
}
