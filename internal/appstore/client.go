package appstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dvc94ch/asconnect/internal/logging"
)

const (
	defaultRESTBaseURL  = "https://api.appstoreconnect.apple.com/v1"
	defaultIrisBaseURL  = "https://contentdelivery.itunes.apple.com/MZContentDeliveryService/iris/v1"
	defaultLegacyRPCURL = "https://contentdelivery.itunes.apple.com/WebObjects/MZLabelService.woa/json/MZITunesSoftwareService"
)

// Client talks to the App Store Connect backends. One Client may serve
// several submissions; only the cached bearer token is shared state.
type Client struct {
	httpClient *http.Client
	issuer     *tokenIssuer
	log        logging.Logger

	restURL   string
	irisURL   string
	legacyURL string

	strictLookup  bool
	uploadWorkers int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to set a timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(log logging.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithBaseURLs overrides the backend endpoints. Tests point these at local
// fake servers. Empty strings keep the corresponding default.
func WithBaseURLs(rest, iris, legacyRPC string) Option {
	return func(c *Client) {
		if rest != "" {
			c.restURL = rest
		}
		if iris != "" {
			c.irisURL = iris
		}
		if legacyRPC != "" {
			c.legacyURL = legacyRPC
		}
	}
}

// WithStrictLookup makes app resolution fail with ErrAmbiguousApp when more
// than one candidate matches, instead of accepting the first.
func WithStrictLookup(strict bool) Option {
	return func(c *Client) { c.strictLookup = strict }
}

// WithUploadWorkers sets how many delivery-file chunks may be in flight at
// once. The default of 1 keeps the transfer strictly sequential in the order
// the backend assigned the operations.
func WithUploadWorkers(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.uploadWorkers = n
		}
	}
}

// NewClient builds a Client signing with the given API key.
func NewClient(key *APIKey, opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{},
		issuer:        newTokenIssuer(key),
		log:           logging.Nop(),
		restURL:       defaultRESTBaseURL,
		irisURL:       defaultIrisBaseURL,
		legacyURL:     defaultLegacyRPCURL,
		uploadWorkers: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromKeyFile builds a Client from a unified API key JSON file.
func NewClientFromKeyFile(path string, opts ...Option) (*Client, error) {
	key, err := LoadAPIKey(path)
	if err != nil {
		return nil, err
	}
	return NewClient(key, opts...), nil
}

// send executes one authenticated round trip: bearer token, JSON content
// negotiation, status inspection. A non-2xx status becomes an *APIError
// carrying the response body.
func (c *Client) send(ctx context.Context, method, url string, body []byte, header http.Header) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	token, err := c.issuer.Token()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	c.log.Debug(ctx, "request", "method", method, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading response: %w", method, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error(ctx, "request failed", "method", method, "url", url,
			"status", resp.StatusCode, "body", prettyBody(respBody))
		return nil, &APIError{Status: resp.StatusCode, Body: respBody}
	}

	return respBody, nil
}

// doJSON marshals in (when non-nil), sends the request and unmarshals the
// response into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, url string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return err
		}
	}

	respBody, err := c.send(ctx, method, url, body, nil)
	if err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%s %s: decoding response: %w", method, url, err)
		}
	}
	return nil
}

// putChunk transfers one raw byte range to a backend-assigned destination
// URL. The destination is pre-authorized, so no bearer token is attached.
func (c *Client) putChunk(ctx context.Context, url string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("PUT %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		c.log.Error(ctx, "chunk upload failed", "url", url, "status", resp.StatusCode, "body", string(body))
		return &APIError{Status: resp.StatusCode, Body: body}
	}
	return nil
}
