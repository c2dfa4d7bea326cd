package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sargamapp/sargam/internal/adapter/eventbus"
	"github.com/sargamapp/sargam/internal/adapter/repository/kv"
	"github.com/sargamapp/sargam/internal/adapter/storage/memkv"
	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/logger"
)

// id3Header is the smallest payload tag.Identify accepts as audio: an empty
// ID3v2 tag.
var id3Header = append([]byte("ID3\x04\x00\x00\x00\x00\x00\x00"), make([]byte, 16)...)

// stubTransfer writes canned bytes instead of hitting the network.
type stubTransfer struct {
	payload []byte
	err     error
	calls   int
}

func (st *stubTransfer) Fetch(_ context.Context, _ string, destPath string) error {
	st.calls++
	if st.err != nil {
		return st.err
	}
	return os.WriteFile(destPath, st.payload, 0o644)
}

type downloadFixture struct {
	svc      *DownloadService
	store    *memkv.Store
	transfer *stubTransfer
	bus      *eventbus.SyncEventBus
	dir      string
}

func newTestDownloads(t *testing.T) *downloadFixture {
	t.Helper()

	store := memkv.NewStore()
	transfer := &stubTransfer{payload: id3Header}
	bus := eventbus.NewSyncEventBus(nil)
	dir := t.TempDir()

	svc := NewDownloadService(logger.NewTestLogger(),
		kv.NewDownloadsRepository(store), transfer, bus, dir)

	return &downloadFixture{svc: svc, store: store, transfer: transfer, bus: bus, dir: dir}
}

func TestEnsureLocalDownloadsAndVerifies(t *testing.T) {
	f := newTestDownloads(t)

	path, err := f.svc.EnsureLocal(context.Background(), song("a"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.dir, "a.mp4"), path)
	assert.Equal(t, 1, f.transfer.calls)
	assert.True(t, f.svc.IsDownloaded("a"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, id3Header, data)
}

func TestEnsureLocalSecondCallSkipsTransfer(t *testing.T) {
	f := newTestDownloads(t)

	_, err := f.svc.EnsureLocal(context.Background(), song("a"))
	require.NoError(t, err)

	path, err := f.svc.EnsureLocal(context.Background(), song("a"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.dir, "a.mp4"), path)
	assert.Equal(t, 1, f.transfer.calls, "no second network transfer")
}

func TestEnsureLocalNoDownloadURL(t *testing.T) {
	f := newTestDownloads(t)

	bare := domain.Song{ID: "bare"}
	_, err := f.svc.EnsureLocal(context.Background(), bare)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoDownloadURL)

	var dlErr *domain.DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Equal(t, "bare", dlErr.SongID)
	assert.False(t, f.svc.IsDownloaded("bare"))
}

func TestEnsureLocalUnsupportedPlatform(t *testing.T) {
	store := memkv.NewStore()
	svc := NewDownloadService(logger.NewTestLogger(),
		kv.NewDownloadsRepository(store), &stubTransfer{}, eventbus.NewSyncEventBus(nil), "")

	_, err := svc.EnsureLocal(context.Background(), song("a"))
	assert.ErrorIs(t, err, domain.ErrDownloadUnsupported)
}

func TestTransferFailureLeavesSetUnchanged(t *testing.T) {
	f := newTestDownloads(t)
	f.transfer.err = fmt.Errorf("connection reset")

	var failed domain.DownloadFailedEvent
	f.bus.Subscribe(domain.EventDownloadFailed, func(e domain.Event) {
		failed = e.(domain.DownloadFailedEvent)
	})

	_, err := f.svc.EnsureLocal(context.Background(), song("a"))
	require.Error(t, err)
	assert.False(t, f.svc.IsDownloaded("a"))
	assert.Equal(t, "a", failed.SongID)

	ids, repoErr := kv.NewDownloadsRepository(f.store).LoadIDs()
	require.NoError(t, repoErr)
	assert.Empty(t, ids)
}

func TestUnrecognizedPayloadIsRejectedAndDeleted(t *testing.T) {
	f := newTestDownloads(t)
	f.transfer.payload = []byte("<html>502 Bad Gateway</html>")

	_, err := f.svc.EnsureLocal(context.Background(), song("a"))
	require.Error(t, err)
	assert.False(t, f.svc.IsDownloaded("a"))

	_, statErr := os.Stat(filepath.Join(f.dir, "a.mp4"))
	assert.True(t, os.IsNotExist(statErr), "rejected file is removed")
}

func TestLocalLocatorPrunesStaleEntries(t *testing.T) {
	f := newTestDownloads(t)

	path, err := f.svc.EnsureLocal(context.Background(), song("a"))
	require.NoError(t, err)

	// File removed behind our back.
	require.NoError(t, os.Remove(path))

	_, ok := f.svc.LocalLocator("a")
	assert.False(t, ok)
	assert.NotContains(t, f.svc.List(), "a")

	// The pruning is persisted too.
	ids, err := kv.NewDownloadsRepository(f.store).LoadIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDownloadsRoundTripAcrossRestart(t *testing.T) {
	f := newTestDownloads(t)

	_, err := f.svc.EnsureLocal(context.Background(), song("a"))
	require.NoError(t, err)

	restarted := NewDownloadService(logger.NewTestLogger(),
		kv.NewDownloadsRepository(f.store), f.transfer, eventbus.NewSyncEventBus(nil), f.dir)

	path, ok := restarted.LocalLocator("a")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(f.dir, "a.mp4"), path)
}

func TestRemoveDeletesFileAndEntry(t *testing.T) {
	f := newTestDownloads(t)

	path, err := f.svc.EnsureLocal(context.Background(), song("a"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Remove("a"))
	assert.False(t, f.svc.IsDownloaded("a"))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Unknown ids are a no-op.
	require.NoError(t, f.svc.Remove("zzz"))
}
