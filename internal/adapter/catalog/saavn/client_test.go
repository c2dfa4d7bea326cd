package saavn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, logger.NewTestLogger())
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search/songs", r.URL.Path)
		assert.Equal(t, "tum hi ho", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "SUCCESS",
			"data": {
				"total": 2,
				"start": 1,
				"results": [
					{"id": "s1", "name": "Tum Hi Ho", "duration": "262"},
					{"id": "s2", "name": "Tum Hi Ho Unplugged", "duration": "180"}
				]
			}
		}`))
	})

	songs, err := client.Search(context.Background(), "tum hi ho", 1, 20)
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, "s1", songs[0].ID)
	assert.Equal(t, "Tum Hi Ho", songs[0].Name)
	assert.Equal(t, "s2", songs[1].ID)
}

func TestSearchEmptyResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "SUCCESS", "data": {"total": 0, "start": 1, "results": []}}`))
	})

	songs, err := client.Search(context.Background(), "zzzzz", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, songs)
}

func TestSearchServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := client.Search(context.Background(), "q", 1, 20)
	require.Error(t, err)

	var catErr *domain.CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, "search", catErr.Op)
	assert.Equal(t, http.StatusBadGateway, catErr.StatusCode)
}

func TestSearchMalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "SUCC`))
	})

	_, err := client.Search(context.Background(), "q", 1, 20)
	require.Error(t, err)

	var catErr *domain.CatalogError
	require.ErrorAs(t, err, &catErr)
}

func TestGetByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/songs/s1", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "data": [{"id": "s1", "name": "Tum Hi Ho"}]}`))
	})

	song, err := client.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, song)
	assert.Equal(t, "s1", song.ID)
}

func TestGetByIDNotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "404 response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "not found", http.StatusNotFound)
			},
		},
		{
			name: "empty data array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success": true, "data": []}`))
			},
		},
		{
			name: "success false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success": false, "data": []}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.GetByID(context.Background(), "missing")
			assert.ErrorIs(t, err, domain.ErrSongNotFound)
		})
	}
}

func TestArtistSongs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/artists/a1/songs", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"success": true, "data": [{"id": "s1"}, {"id": "s2"}, {"id": "s3"}]}`))
	})

	songs, err := client.ArtistSongs(context.Background(), "a1", 2, 20)
	require.NoError(t, err)
	assert.Len(t, songs, 3)
}

func TestContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "q", 1, 20)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
