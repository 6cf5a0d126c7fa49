package appstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenValidity is the lifetime requested for every minted bearer token.
const tokenValidity = 300 * time.Second

// tokenLeeway is subtracted from the expiry when deciding whether a cached
// token is still usable, so a token is never presented moments before the
// backend would reject it.
const tokenLeeway = 10 * time.Second

const tokenAudience = "appstoreconnect-v1"

type bearerToken struct {
	value     string
	expiresAt time.Time
}

// tokenIssuer mints ES256 bearer tokens from an APIKey and caches the most
// recent one. All request paths share one issuer, so concurrent callers
// serialize on the mutex only while a token is being minted.
type tokenIssuer struct {
	key *APIKey
	now func() time.Time

	mu    sync.Mutex
	token *bearerToken
}

func newTokenIssuer(key *APIKey) *tokenIssuer {
	return &tokenIssuer{key: key, now: time.Now}
}

// Token returns the cached bearer token, minting a new one only if none
// exists yet or the cached one has expired.
func (t *tokenIssuer) Token() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != nil && t.now().Add(tokenLeeway).Before(t.token.expiresAt) {
		return t.token.value, nil
	}

	minted, err := t.mint()
	if err != nil {
		return "", err
	}
	t.token = minted
	return minted.value, nil
}

func (t *tokenIssuer) mint() (*bearerToken, error) {
	signer, err := t.key.Signer()
	if err != nil {
		return nil, err
	}

	now := t.now()
	expiresAt := now.Add(tokenValidity)

	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.RegisteredClaims{
		Issuer:    t.key.IssuerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		Audience:  jwt.ClaimStrings{tokenAudience},
	})
	token.Header["kid"] = t.key.KeyID

	value, err := token.SignedString(signer)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &bearerToken{value: value, expiresAt: expiresAt}, nil
}
