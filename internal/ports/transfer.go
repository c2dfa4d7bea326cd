package ports

import "context"

// FileTransfer performs the blocking copy of a remote resource to a local
// path. The download manager owns path construction and verification; the
// transfer only moves bytes.
type FileTransfer interface {
	// Fetch downloads url to destPath, creating or truncating the file.
	// A partial file may remain on error; the caller removes it.
	Fetch(ctx context.Context, url, destPath string) error
}
