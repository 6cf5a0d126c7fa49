package appstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"

	"github.com/dvc94ch/asconnect/internal/version"
	"github.com/google/uuid"
)

// The legacy JSON-RPC surface predates the iris REST API and is still the
// only way to negotiate sessions and look up software by bundle id.

const clientName = "asconnect"
const clientBundleID = "com.dvc94ch.asconnect"

type rpcRequest struct {
	ID      string         `json:"id"`
	JSONRPC string         `json:"jsonrpc"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
}

// identityParams is the fixed application identity block sent with every
// legacy RPC call.
func identityParams() map[string]any {
	return map[string]any{
		"Application":         clientName,
		"ApplicationBundleId": clientBundleID,
		"Version":             version.Short(),
		"FrameworkVersions":   map[string]string{"go": runtime.Version()},
		"OSIdentifier":        runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// rpc issues one legacy JSON-RPC call. The envelope is serialized exactly
// once; when a session is active the same bytes are both signed and sent, so
// the digest always matches what the server receives.
func (c *Client) rpc(ctx context.Context, session *Session, method string, params map[string]any, result any) error {
	merged := identityParams()
	for k, v := range params {
		merged[k] = v
	}

	env := rpcRequest{
		ID:      uuid.NewString(),
		JSONRPC: "2.0",
		Method:  method,
		Params:  merged,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("x-tx-client-name", clientName)
	header.Set("x-tx-client-version", version.Short())
	if session != nil {
		header.Set("x-session-id", session.ID)
		header.Set("x-session-digest", session.Sign(body))
	}

	respBody, err := c.send(ctx, http.MethodPost, c.legacyURL, body, header)
	if err != nil {
		return err
	}

	var resp rpcResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("%s: decoding rpc response: %w", method, err)
	}
	if result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("%s: decoding rpc result: %w", method, err)
		}
	}
	return nil
}
