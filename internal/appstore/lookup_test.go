package appstore

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// lookupServer serves canned candidate lists and verifies the session
// headers against the literal body bytes it received.
func lookupServer(t *testing.T, session *Session, attributes string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req rpcRequest
		require.NoError(t, json.Unmarshal(body, &req))
		require.Equal(t, "lookupSoftwareForBundleId", req.Method)

		if session != nil {
			require.Equal(t, session.ID, r.Header.Get("x-session-id"))
			sum := md5.Sum([]byte(session.ID + string(body) + session.SharedSecret))
			require.Equal(t, hex.EncodeToString(sum[:]), r.Header.Get("x-session-digest"))
		}
		require.Equal(t, clientName, r.Header.Get("x-tx-client-name"))
		require.NotEmpty(t, r.Header.Get("x-tx-client-version"))

		fmt.Fprintf(w, `{"result":{"attributes":%s}}`, attributes)
	}))
}

func TestLookupApp_FiltersCandidates(t *testing.T) {
	session := &Session{ID: "legacy-session", SharedSecret: "topsecret"}
	srv := lookupServer(t, session, `[
		{"AppleID":"111","Type":"Mac App","SoftwareTypeEnum":"Purple"},
		{"AppleID":"555","Type":"iOS App","SoftwareTypeEnum":"Purple"},
		{"AppleID":"333","Type":"iOS App","SoftwareTypeEnum":"Grape"}
	]`)
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	app, err := c.LookupApp(context.Background(), session, "com.example.demo")
	require.NoError(t, err)
	require.Equal(t, "555", app.AppleID)
	require.Equal(t, "com.example.demo", app.BundleID)
	require.Equal(t, "iOS App", app.Type)
	require.Equal(t, "Purple", app.SoftwareType)
}

func TestLookupApp_NoMatch(t *testing.T) {
	tests := []struct {
		name       string
		attributes string
	}{
		{"empty list", `[]`},
		{"all non-matching", `[
			{"AppleID":"111","Type":"Mac App","SoftwareTypeEnum":"Purple"},
			{"AppleID":"222","Type":"iOS App","SoftwareTypeEnum":"Grape"}
		]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := lookupServer(t, nil, tc.attributes)
			defer srv.Close()

			c := newTestClient(t, srv.URL)

			_, err := c.LookupApp(context.Background(), nil, "com.example.demo")
			require.ErrorIs(t, err, ErrAppNotFound)
		})
	}
}

func TestLookupApp_MultipleMatches(t *testing.T) {
	attributes := `[
		{"AppleID":"555","Type":"iOS App","SoftwareTypeEnum":"Purple"},
		{"AppleID":"556","Type":"iOS App","SoftwareTypeEnum":"Purple"}
	]`

	t.Run("default takes the first", func(t *testing.T) {
		srv := lookupServer(t, nil, attributes)
		defer srv.Close()

		c := newTestClient(t, srv.URL)

		app, err := c.LookupApp(context.Background(), nil, "com.example.demo")
		require.NoError(t, err)
		require.Equal(t, "555", app.AppleID)
	})

	t.Run("strict mode errors", func(t *testing.T) {
		srv := lookupServer(t, nil, attributes)
		defer srv.Close()

		c := newTestClient(t, srv.URL, WithStrictLookup(true))

		_, err := c.LookupApp(context.Background(), nil, "com.example.demo")
		require.ErrorIs(t, err, ErrAmbiguousApp)
	})
}

func TestLookupApp_SendsBundleID(t *testing.T) {
	var gotBundleID any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotBundleID = req.Params["BundleId"]
		fmt.Fprint(w, `{"result":{"attributes":[{"AppleID":"555","Type":"iOS App","SoftwareTypeEnum":"Purple"}]}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.LookupApp(context.Background(), nil, "com.example.demo")
	require.NoError(t, err)
	require.Equal(t, "com.example.demo", gotBundleID)
}
