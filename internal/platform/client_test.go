package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plugsetup/internal/core"
)

func TestClient_Install(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, core.NopLogger{})
	err := client.Install(context.Background(), "webhook-relay")

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/v1/modules/webhook-relay/install", gotPath)
}

func TestClient_Uninstall(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, core.NopLogger{})
	err := client.Uninstall(context.Background(), "webhook-relay")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/v1/modules/webhook-relay", gotPath)
}

func TestClient_Check(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, core.NopLogger{})
	require.NoError(t, client.Check(context.Background(), "discord"))
	assert.Equal(t, "/api/v1/services/discord/health", gotPath)
}

func TestClient_NonSuccessStatusBecomesCapabilityError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "module not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, core.NopLogger{})
	err := client.Install(context.Background(), "missing-module")

	var capErr *core.CapabilityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, http.StatusNotFound, capErr.Status)
	assert.Equal(t, "install missing-module", capErr.Operation)
	assert.Contains(t, capErr.Message, "module not found")
}

func TestClient_TransportFailureBecomesNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL, core.NopLogger{})
	err := client.Check(context.Background(), "discord")

	var netErr *core.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "health check discord", netErr.Operation)
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, core.NopLogger{})
	err := client.Install(ctx, "slow-module")

	var netErr *core.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.ErrorIs(t, netErr.Err, context.Canceled)
}

func TestClient_PathEscapesPluginID(t *testing.T) {
	var gotEscaped string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEscaped = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, core.NopLogger{})
	require.NoError(t, client.Install(context.Background(), "weird/id"))
	assert.Equal(t, "/api/v1/modules/weird%2Fid/install", gotEscaped)
}
