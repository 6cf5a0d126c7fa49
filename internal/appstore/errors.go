package appstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey means the API key material could not be decoded. It is
	// a configuration problem and fatal for the whole client.
	ErrInvalidKey = errors.New("invalid api key")

	// ErrAppNotFound means no app with a matching bundle id, type and
	// software type exists on the backend.
	ErrAppNotFound = errors.New("app not found")

	// ErrAmbiguousApp is returned in strict lookup mode when more than one
	// candidate matches the bundle id.
	ErrAmbiguousApp = errors.New("ambiguous app lookup")
)

// APIError is a non-2xx response from the backend. The body is kept verbatim
// so callers can inspect or log the backend's diagnostic payload.
type APIError struct {
	Status int
	Body   []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("app store connect: status %d: %s", e.Status, prettyBody(e.Body))
}

// prettyBody re-indents the body when it is JSON, which is what the backend
// returns for structured errors. Anything else passes through unchanged.
func prettyBody(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}
