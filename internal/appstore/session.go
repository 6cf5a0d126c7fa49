package appstore

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Session is a legacy content-delivery session: an id plus a shared secret
// used to sign every request body sent over the JSON-RPC surface. A session
// lives for one submission attempt and is never persisted.
type Session struct {
	ID           string
	SharedSecret string
}

// Sign computes the per-request digest over the exact serialized body bytes
// being sent: hex MD5 of sessionID + body + sharedSecret. The digest depends
// on the body, so it must be recomputed for every call.
func (s *Session) Sign(body []byte) string {
	h := md5.New()
	io.WriteString(h, s.ID)
	h.Write(body)
	io.WriteString(h, s.SharedSecret)
	return hex.EncodeToString(h.Sum(nil))
}

type sessionResult struct {
	SessionID    string `json:"SessionID"`
	SharedSecret string `json:"SharedSecret"`
}

// NegotiateSession exchanges the bearer token for a legacy session. Only the
// JSON-RPC surface needs one; iris and REST calls authenticate with the
// bearer token alone.
func (c *Client) NegotiateSession(ctx context.Context) (*Session, error) {
	var res sessionResult
	if err := c.rpc(ctx, nil, "authenticateForSession", nil, &res); err != nil {
		return nil, fmt.Errorf("negotiating session: %w", err)
	}
	if res.SessionID == "" || res.SharedSecret == "" {
		return nil, errors.New("authenticateForSession: incomplete session in response")
	}
	return &Session{ID: res.SessionID, SharedSecret: res.SharedSecret}, nil
}
