package ports

import (
	"context"

	"github.com/sargamapp/sargam/internal/domain"
)

// CatalogClient is the remote music catalog the player searches and streams
// from. It is a thin HTTP wrapper; the caller infers "has more pages" as
// len(results) == limit since the API exposes no cursor.
type CatalogClient interface {
	// Search returns one page of songs matching the query.
	// Fails with a CatalogError on a non-success HTTP status.
	Search(ctx context.Context, query string, page, limit int) ([]domain.Song, error)

	// GetByID resolves a single song record, used to recover a missing
	// download URL. Returns (nil, ErrSongNotFound) when the catalog has no
	// record for the id.
	GetByID(ctx context.Context, id string) (*domain.Song, error)

	// ArtistSongs returns one page of an artist's songs.
	ArtistSongs(ctx context.Context, artistID string, page, limit int) ([]domain.Song, error)
}
