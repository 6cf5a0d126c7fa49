// Package appstore implements a client for Apple's App Store Connect
// backend: API-key authentication, legacy session negotiation, app identity
// lookup, build registration and chunked binary delivery, plus the simple
// certificate, device and provisioning-profile endpoints.
package appstore

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

// APIKey bundles the three parts of an App Store Connect API key so a single
// file can be passed around instead of issuer id, key id and private key
// separately.
type APIKey struct {
	// IssuerID identifies who issued the key, usually a UUID.
	IssuerID string `json:"issuer_id"`

	// KeyID is the alphanumeric key identifier, e.g. "DEADBEEF42".
	KeyID string `json:"key_id"`

	// PrivateKey is the base64 encoded DER of the ECDSA private key.
	PrivateKey string `json:"private_key"`
}

// NewAPIKeyFromPEMFile builds an APIKey from the PEM private key file
// downloaded from the App Store Connect web interface.
func NewAPIKeyFromPEMFile(issuerID, keyID, path string) (*APIKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: %s: no PEM block found", ErrInvalidKey, path)
	}
	if block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("%w: %s: expected a PRIVATE KEY block, got %s", ErrInvalidKey, path, block.Type)
	}

	return &APIKey{
		IssuerID:   issuerID,
		KeyID:      keyID,
		PrivateKey: base64.StdEncoding.EncodeToString(block.Bytes),
	}, nil
}

// LoadAPIKey reads an APIKey previously written with Save.
func LoadAPIKey(path string) (*APIKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var key APIKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidKey, path, err)
	}
	return &key, nil
}

// Save writes the key as JSON. The file contains sensitive material, so it
// is created with owner-only permissions. Parent directories are created if
// missing.
func (k *APIKey) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Signer decodes the private key material into an ECDSA key usable for
// token signing.
func (k *APIKey) Signer() (*ecdsa.PrivateKey, error) {
	der, err := base64.StdEncoding.DecodeString(k.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding private key: %v", ErrInvalidKey, err)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing private key: %v", ErrInvalidKey, err)
	}

	ec, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an ECDSA private key", ErrInvalidKey)
	}
	return ec, nil
}
