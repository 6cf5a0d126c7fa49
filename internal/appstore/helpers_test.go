package appstore

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

// testKey generates a fresh P-256 key wrapped in APIKey form.
func testKey(t *testing.T) *APIKey {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)

	return &APIKey{
		IssuerID:   "57246542-96fe-1a63-e053-0824d011072a",
		KeyID:      "DEADBEEF42",
		PrivateKey: base64.StdEncoding.EncodeToString(der),
	}
}

// newTestClient builds a Client whose three endpoints all point at the given
// base URL.
func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{
		WithBaseURLs(baseURL+"/v1", baseURL+"/iris", baseURL+"/legacy"),
	}, opts...)
	return NewClient(testKey(t), opts...)
}
