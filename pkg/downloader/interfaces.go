package downloader

import (
	"context"
	"io"

	"fmpd/pkg/facebook"
)

// PhotoClient resolves identifiers to photo URLs and fetches them
type PhotoClient interface {
	ResolvePhotoURL(ctx context.Context, fbid string) (string, error)
	DownloadPhoto(ctx context.Context, photoURL string, w io.Writer) (*facebook.Photo, error)
}

// Observer is told about each item as a run progresses. Calls happen on the
// goroutine running Run, in processing order.
type Observer interface {
	ItemStarted(index int, fbid string)
	ItemSaved(index int, fbid, path string, size int64)
	ItemFailed(index int, fbid string, err error)
}
