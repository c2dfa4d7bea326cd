package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/logger"
)

// pagedCatalog serves deterministic pages for search and artist queries.
type pagedCatalog struct {
	total    int
	searches int
	failWith error
}

func (c *pagedCatalog) page(page, limit int) []domain.Song {
	var out []domain.Song
	for i := (page - 1) * limit; i < c.total && len(out) < limit; i++ {
		out = append(out, song(fmt.Sprintf("s%d", i)))
	}
	return out
}

func (c *pagedCatalog) Search(_ context.Context, _ string, page, limit int) ([]domain.Song, error) {
	c.searches++
	if c.failWith != nil {
		return nil, c.failWith
	}
	return c.page(page, limit), nil
}

func (c *pagedCatalog) GetByID(_ context.Context, _ string) (*domain.Song, error) {
	return nil, domain.ErrSongNotFound
}

func (c *pagedCatalog) ArtistSongs(_ context.Context, _ string, page, limit int) ([]domain.Song, error) {
	return c.page(page, limit), nil
}

func TestSearchInfersHasMoreFromFullPage(t *testing.T) {
	catalog := &pagedCatalog{total: 25}
	svc := NewLibraryService(logger.NewTestLogger(), catalog, 20)

	results, hasMore, err := svc.Search(context.Background(), "query", 1)
	require.NoError(t, err)
	assert.Len(t, results, 20)
	assert.True(t, hasMore)

	results, hasMore, err = svc.Search(context.Background(), "query", 2)
	require.NoError(t, err)
	assert.Len(t, results, 5)
	assert.False(t, hasMore)

	// Both pages accumulate for the suggested tab.
	assert.Len(t, svc.LastResults(), 25)
}

func TestSearchBlankQueryReturnsNothing(t *testing.T) {
	catalog := &pagedCatalog{total: 5}
	svc := NewLibraryService(logger.NewTestLogger(), catalog, 20)

	results, hasMore, err := svc.Search(context.Background(), "   ", 1)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.False(t, hasMore)
	assert.Zero(t, catalog.searches, "no network call for a blank query")
}

func TestSearchNewQueryResetsAccumulation(t *testing.T) {
	catalog := &pagedCatalog{total: 25}
	svc := NewLibraryService(logger.NewTestLogger(), catalog, 20)

	_, _, err := svc.Search(context.Background(), "first", 1)
	require.NoError(t, err)
	_, _, err = svc.Search(context.Background(), "second", 1)
	require.NoError(t, err)

	assert.Len(t, svc.LastResults(), 20, "results from the old query are dropped")
}

func TestSearchPropagatesCatalogErrors(t *testing.T) {
	catalog := &pagedCatalog{failWith: domain.NewCatalogError("search", "q", 502, nil)}
	svc := NewLibraryService(logger.NewTestLogger(), catalog, 20)

	_, _, err := svc.Search(context.Background(), "q", 1)
	var catErr *domain.CatalogError
	assert.ErrorAs(t, err, &catErr)
}

func TestArtistSongsPaging(t *testing.T) {
	catalog := &pagedCatalog{total: 20}
	svc := NewLibraryService(logger.NewTestLogger(), catalog, 20)

	results, hasMore, err := svc.ArtistSongs(context.Background(), "artist1", 1)
	require.NoError(t, err)
	assert.Len(t, results, 20)
	assert.True(t, hasMore, "a full page implies more may follow")
}

func TestSuggestedCombinesQueueAndSearchHeads(t *testing.T) {
	catalog := &pagedCatalog{total: 30}
	svc := NewLibraryService(logger.NewTestLogger(), catalog, 20)

	_, _, err := svc.Search(context.Background(), "q", 1)
	require.NoError(t, err)

	queue := make([]domain.Song, 15)
	for i := range queue {
		queue[i] = song(fmt.Sprintf("q%d", i))
	}

	suggested := svc.Suggested(queue)

	// Ten from the queue head, ten from the search head.
	require.Len(t, suggested, 20)
	assert.Equal(t, "q0", suggested[0].ID)
	assert.Equal(t, "q9", suggested[9].ID)
	assert.Equal(t, "s0", suggested[10].ID)
}

func TestSuggestedDeduplicatesAndNeedsNoNetwork(t *testing.T) {
	catalog := &pagedCatalog{total: 5}
	svc := NewLibraryService(logger.NewTestLogger(), catalog, 20)

	_, _, err := svc.Search(context.Background(), "q", 1)
	require.NoError(t, err)
	callsAfterSearch := catalog.searches

	// The queue holds the same songs the search returned.
	suggested := svc.Suggested(svc.LastResults())

	assert.Len(t, suggested, 5, "duplicates suppressed")
	assert.Equal(t, callsAfterSearch, catalog.searches)
}

func TestSuggestedEmptyInputs(t *testing.T) {
	svc := NewLibraryService(logger.NewTestLogger(), &pagedCatalog{}, 20)
	assert.Empty(t, svc.Suggested(nil))
}
