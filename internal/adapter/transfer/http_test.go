package transfer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sargamapp/sargam/internal/logger"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("audio-bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "song.mp4")
	tr := NewHTTPTransfer(5*time.Second, logger.NewTestLogger())

	err := tr.Fetch(context.Background(), server.URL, dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "song.mp4")
	tr := NewHTTPTransfer(5*time.Second, logger.NewTestLogger())

	err := tr.Fetch(context.Background(), server.URL, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "410")

	// No file is left behind.
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetchLeavesNoTempFileOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		_, _ = w.Write([]byte("short"))
	}))
	server.Close() // connection refused

	dir := t.TempDir()
	dest := filepath.Join(dir, "song.mp4")
	tr := NewHTTPTransfer(2*time.Second, logger.NewTestLogger())

	err := tr.Fetch(context.Background(), server.URL, dest)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := NewHTTPTransfer(5*time.Second, logger.NewTestLogger())
	err := tr.Fetch(ctx, server.URL, filepath.Join(t.TempDir(), "song.mp4"))
	require.Error(t, err)
}
