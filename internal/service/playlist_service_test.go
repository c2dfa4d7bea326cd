package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sargamapp/sargam/internal/adapter/eventbus"
	"github.com/sargamapp/sargam/internal/adapter/repository/kv"
	"github.com/sargamapp/sargam/internal/adapter/storage/memkv"
	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/logger"
)

func newTestPlaylists() (*PlaylistService, *memkv.Store) {
	store := memkv.NewStore()
	svc := NewPlaylistService(logger.NewTestLogger(), kv.NewPlaylistRepository(store), eventbus.NewSyncEventBus(nil))
	return svc, store
}

func TestCreatePlaylist(t *testing.T) {
	svc, _ := newTestPlaylists()

	id, err := svc.Create("  Road Trip  ")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	playlists := svc.List()
	require.Len(t, playlists, 1)
	assert.Equal(t, id, playlists[0].ID)
	assert.Equal(t, "Road Trip", playlists[0].Name, "name is trimmed")
	assert.False(t, playlists[0].CreatedAt.IsZero())
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc, _ := newTestPlaylists()

	_, err := svc.Create("   ")
	assert.ErrorIs(t, err, domain.ErrEmptyPlaylistName)
	assert.Empty(t, svc.List())
}

func TestDeletePlaylist(t *testing.T) {
	svc, _ := newTestPlaylists()

	id, err := svc.Create("One")
	require.NoError(t, err)
	_, err = svc.Create("Two")
	require.NoError(t, err)

	svc.Delete(id)

	playlists := svc.List()
	require.Len(t, playlists, 1)
	assert.Equal(t, "Two", playlists[0].Name)

	// Unknown ids are a no-op.
	svc.Delete("nope")
	assert.Len(t, svc.List(), 1)
}

func TestAddSongDeduplicatesByID(t *testing.T) {
	svc, _ := newTestPlaylists()

	id, err := svc.Create("Mix")
	require.NoError(t, err)

	require.NoError(t, svc.AddSong(id, song("a")))
	require.NoError(t, svc.AddSong(id, song("b")))
	require.NoError(t, svc.AddSong(id, song("a")))

	playlist, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, queueIDs(playlist.Songs))
}

func TestAddSongUnknownPlaylist(t *testing.T) {
	svc, _ := newTestPlaylists()
	assert.ErrorIs(t, svc.AddSong("nope", song("a")), domain.ErrPlaylistNotFound)
}

func TestRemoveSong(t *testing.T) {
	svc, _ := newTestPlaylists()

	id, err := svc.Create("Mix")
	require.NoError(t, err)
	require.NoError(t, svc.AddSong(id, song("a")))
	require.NoError(t, svc.AddSong(id, song("b")))

	svc.RemoveSong(id, "a")

	playlist, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, queueIDs(playlist.Songs))

	// Unknown song and playlist ids are no-ops.
	svc.RemoveSong(id, "zzz")
	svc.RemoveSong("nope", "b")
}

func TestPlaylistsRoundTripAcrossRestart(t *testing.T) {
	svc, store := newTestPlaylists()

	id, err := svc.Create("Mix")
	require.NoError(t, err)
	require.NoError(t, svc.AddSong(id, song("a")))

	restarted := NewPlaylistService(logger.NewTestLogger(),
		kv.NewPlaylistRepository(store), eventbus.NewSyncEventBus(nil))

	playlist, err := restarted.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Mix", playlist.Name)
	assert.Equal(t, []string{"a"}, queueIDs(playlist.Songs))
}
