package appstore

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// deliveryBackend fakes the delivery-file surface: create, chunk PUTs and
// finalize. It records the order of calls and every chunk body it receives.
type deliveryBackend struct {
	t *testing.T

	mu          sync.Mutex
	calls       []string
	chunks      map[string][]byte
	createReq   deliveryFileCreateRequest
	finalizeReq deliveryFileUpdateRequest

	// operations returned from the create call; URLs are filled in once the
	// test server is running.
	operations []UploadOperation

	// failChunk, when non-empty, makes the named chunk PUT return 500.
	failChunk string
}

func (b *deliveryBackend) record(call string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call)
}

func (b *deliveryBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /iris/buildDeliveryFiles", func(w http.ResponseWriter, r *http.Request) {
		b.record("create")
		require.NoError(b.t, json.NewDecoder(r.Body).Decode(&b.createReq))

		resp := map[string]any{"data": map[string]any{
			"id":         "df-1",
			"attributes": map[string]any{"uploadOperations": b.operations},
		}}
		require.NoError(b.t, json.NewEncoder(w).Encode(resp))
	})

	mux.HandleFunc("PUT /chunk/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		b.record("chunk " + name)

		if name == b.failChunk {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		body, err := io.ReadAll(r.Body)
		require.NoError(b.t, err)

		b.mu.Lock()
		b.chunks[name] = body
		b.mu.Unlock()
	})

	mux.HandleFunc("PATCH /iris/buildDeliveryFiles", func(w http.ResponseWriter, r *http.Request) {
		b.record("finalize")
		require.NoError(b.t, json.NewDecoder(r.Body).Decode(&b.finalizeReq))
	})

	return mux
}

func newDeliveryBackend(t *testing.T, ranges [][2]int64, failChunk string) (*deliveryBackend, *httptest.Server) {
	t.Helper()

	b := &deliveryBackend{t: t, chunks: map[string][]byte{}, failChunk: failChunk}
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	for i, r := range ranges {
		b.operations = append(b.operations, UploadOperation{
			Offset: r[0],
			Length: r[1],
			URL:    fmt.Sprintf("%s/chunk/%d", srv.URL, i+1),
		})
	}
	return b, srv
}

func writeTestFile(t *testing.T, size int) (string, []byte) {
	t.Helper()

	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "Demo.ipa")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path, data
}

func TestUploadBuildFile(t *testing.T) {
	backend, srv := newDeliveryBackend(t, [][2]int64{{0, 100}, {100, 50}}, "")
	path, data := writeTestFile(t, 150)

	c := newTestClient(t, srv.URL)
	require.NoError(t, c.UploadBuildFile(context.Background(), "998877", path))

	// Create request carries name, size, checksum and the build relationship.
	attrs := backend.createReq.Data.Attributes
	require.Equal(t, "Demo.ipa", attrs.FileName)
	require.Equal(t, int64(150), attrs.FileSize)
	sum := md5.Sum(data)
	require.Equal(t, hex.EncodeToString(sum[:]), attrs.SourceFileChecksum)
	require.Equal(t, "ASSET_DESCRIPTION", attrs.AssetType)
	require.Equal(t, "public.binary", attrs.UTI)
	require.Equal(t, "998877", backend.createReq.Data.Relationships.Build.Data.ID)

	// The transferred ranges are exactly the assigned byte ranges, in order,
	// and finalize runs last.
	require.Equal(t, []string{"create", "chunk 1", "chunk 2", "finalize"}, backend.calls)
	require.True(t, bytes.Equal(data[0:100], backend.chunks["1"]))
	require.True(t, bytes.Equal(data[100:150], backend.chunks["2"]))

	require.Equal(t, "df-1", backend.finalizeReq.Data.ID)
	require.Equal(t, "buildDeliveryFiles", backend.finalizeReq.Data.Type)
	require.True(t, backend.finalizeReq.Data.Attributes.Uploaded)
}

func TestUploadBuildFile_ChunkFailureSkipsFinalize(t *testing.T) {
	backend, srv := newDeliveryBackend(t, [][2]int64{{0, 100}, {100, 50}}, "2")
	path, _ := writeTestFile(t, 150)

	c := newTestClient(t, srv.URL)
	err := c.UploadBuildFile(context.Background(), "998877", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "[100,150)")

	for _, call := range backend.calls {
		require.NotEqual(t, "finalize", call)
	}
}

func TestUploadBuildFile_ConcurrentWorkers(t *testing.T) {
	ranges := [][2]int64{{0, 64}, {64, 64}, {128, 64}, {192, 64}, {256, 44}}
	backend, srv := newDeliveryBackend(t, ranges, "")
	path, data := writeTestFile(t, 300)

	c := newTestClient(t, srv.URL, WithUploadWorkers(4))
	require.NoError(t, c.UploadBuildFile(context.Background(), "998877", path))

	// Chunk order is unspecified with several workers, but the transferred
	// bytes must still partition the file exactly, and finalize must come
	// after every chunk.
	require.Equal(t, "create", backend.calls[0])
	require.Equal(t, "finalize", backend.calls[len(backend.calls)-1])
	require.Len(t, backend.calls, len(ranges)+2)

	var assembled []byte
	for i, r := range ranges {
		chunk := backend.chunks[fmt.Sprintf("%d", i+1)]
		require.Len(t, chunk, int(r[1]))
		assembled = append(assembled, chunk...)
	}
	require.True(t, bytes.Equal(data, assembled))
}

func TestUploadBuildFile_ShortFile(t *testing.T) {
	// The backend assigns a range past the end of the file; the read fails
	// and the upload aborts before finalize.
	backend, srv := newDeliveryBackend(t, [][2]int64{{0, 100}, {100, 50}}, "")
	path, _ := writeTestFile(t, 120)

	c := newTestClient(t, srv.URL)
	err := c.UploadBuildFile(context.Background(), "998877", path)
	require.Error(t, err)

	require.False(t, strings.Contains(strings.Join(backend.calls, ","), "finalize"))
}

func TestUploadBuildFile_MissingFile(t *testing.T) {
	_, srv := newDeliveryBackend(t, nil, "")

	c := newTestClient(t, srv.URL)
	err := c.UploadBuildFile(context.Background(), "998877", filepath.Join(t.TempDir(), "gone.ipa"))
	require.Error(t, err)
}
