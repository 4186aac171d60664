package luno

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testKeyID     = "key-id"
	testKeySecret = "key-secret"
)

//
// newTestClient starts a stub Luno API serving the provided handler and returns a client pointed
// at it. The server is shut down when the test completes.
//
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(testKeyID, testKeySecret, append([]Option{WithBaseURL(server.URL)}, opts...)...)
	require.NoError(t, err)

	return client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set(ContentTypeHeader, JSONContentType)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
