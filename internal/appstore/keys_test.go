package appstore

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePEM(t *testing.T, blockType string, der []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "AuthKey.p8")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, pem.Encode(f, &pem.Block{Type: blockType, Bytes: der}))
	require.NoError(t, f.Close())
	return path
}

func TestNewAPIKeyFromPEMFile(t *testing.T) {
	want := testKey(t)
	der, err := base64.StdEncoding.DecodeString(want.PrivateKey)
	require.NoError(t, err)

	path := writePEM(t, "PRIVATE KEY", der)

	key, err := NewAPIKeyFromPEMFile(want.IssuerID, want.KeyID, path)
	require.NoError(t, err)
	require.Equal(t, want.IssuerID, key.IssuerID)
	require.Equal(t, want.KeyID, key.KeyID)
	require.Equal(t, want.PrivateKey, key.PrivateKey)

	_, err = key.Signer()
	require.NoError(t, err)
}

func TestNewAPIKeyFromPEMFile_WrongBlockType(t *testing.T) {
	path := writePEM(t, "EC PRIVATE KEY", []byte("irrelevant"))

	_, err := NewAPIKeyFromPEMFile("iss", "kid", path)
	require.ErrorIs(t, err, ErrInvalidKey)
	require.Contains(t, err.Error(), "EC PRIVATE KEY")
}

func TestNewAPIKeyFromPEMFile_NotPEM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "AuthKey.p8")
	require.NoError(t, os.WriteFile(path, []byte("not pem at all"), 0o644))

	_, err := NewAPIKeyFromPEMFile("iss", "kid", path)
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestAPIKey_SaveLoadRoundtrip(t *testing.T) {
	key := testKey(t)
	path := filepath.Join(t.TempDir(), "keys", "api-key.json")

	require.NoError(t, key.Save(path))

	loaded, err := LoadAPIKey(path)
	require.NoError(t, err)
	require.Equal(t, key, loaded)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestLoadAPIKey_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api-key.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := LoadAPIKey(path)
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestAPIKey_Signer_BadMaterial(t *testing.T) {
	t.Run("not base64", func(t *testing.T) {
		key := &APIKey{IssuerID: "iss", KeyID: "kid", PrivateKey: "%%%"}
		_, err := key.Signer()
		require.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("not DER", func(t *testing.T) {
		key := &APIKey{IssuerID: "iss", KeyID: "kid", PrivateKey: base64.StdEncoding.EncodeToString([]byte("junk"))}
		_, err := key.Signer()
		require.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("not ECDSA", func(t *testing.T) {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		der, err := x509.MarshalPKCS8PrivateKey(priv)
		require.NoError(t, err)

		key := &APIKey{IssuerID: "iss", KeyID: "kid", PrivateKey: base64.StdEncoding.EncodeToString(der)}
		_, err = key.Signer()
		require.ErrorIs(t, err, ErrInvalidKey)
	})
}
