package downloader

import (
	"context"
	"fmt"
	"time"

	fmpderrors "fmpd/pkg/errors"
	"fmpd/pkg/logger"
	"fmpd/pkg/storage"
	"fmpd/pkg/ui"
)

// Options controls where a run writes its files
type Options struct {
	OutputDir string
	Extension string
	// Name renders output names; nil uses storage.DefaultNameTemplate
	Name *storage.NameTemplate
	// Quiet suppresses printing written paths
	Quiet bool
}

// Summary reports what a run did. It is returned even when the run fails.
type Summary struct {
	Processed int
	Files     []string
	Elapsed   time.Duration
}

// ItemError ties a failure to the identifier being processed
type ItemError struct {
	Index int
	FBID  string
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("fbid %s (item %d): %v", e.FBID, e.Index+1, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Downloader processes identifiers one at a time and stops at the first failure
type Downloader struct {
	client   PhotoClient
	opts     Options
	logger   logger.Logger
	observer Observer
}

// New creates a Downloader
func New(client PhotoClient, opts Options, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Downloader{
		client: client,
		opts:   opts,
		logger: log,
	}
}

// SetObserver registers o for progress callbacks. Nil removes it.
func (d *Downloader) SetObserver(o Observer) {
	d.observer = o
}

// Run creates the output directory and downloads every identifier in order.
// Files written before a failure are kept.
func (d *Downloader) Run(ctx context.Context, ids []string) (*Summary, error) {
	tracker := ui.NewStatusTracker(len(ids))
	summary := &Summary{}
	defer func() {
		summary.Elapsed = tracker.GetElapsedTime()
	}()

	d.logger.InfoWithFields("Starting download run", map[string]interface{}{
		"output_dir": d.opts.OutputDir,
		"items":      len(ids),
	})

	store, err := storage.NewManager(d.opts.OutputDir, d.opts.Extension, d.opts.Name)
	if err != nil {
		d.logger.WithError(err).WithField("output_dir", d.opts.OutputDir).Error("Failed to prepare output directory")
		return summary, err
	}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, &ItemError{Index: i, FBID: id, Err: err}
		}

		tracker.Start(id)
		if d.observer != nil {
			d.observer.ItemStarted(i, id)
		}

		path, size, err := d.processItem(ctx, store, id)
		if err != nil {
			d.logger.WithError(err).WithFields(map[string]interface{}{
				"fbid":  id,
				"index": i,
			}).Error("Download failed")
			if d.observer != nil {
				d.observer.ItemFailed(i, id, err)
			}
			return summary, &ItemError{Index: i, FBID: id, Err: err}
		}
		tracker.Complete()
		if d.observer != nil {
			d.observer.ItemSaved(i, id, path, size)
		}

		summary.Processed++
		summary.Files = append(summary.Files, path)

		d.logger.InfoWithFields("Photo saved", map[string]interface{}{
			"fbid":     id,
			"path":     path,
			"progress": tracker.GetProgressBar(),
		})
		if !d.opts.Quiet {
			ui.PrintResult(path)
		}
	}

	d.logger.InfoWithFields("Download run complete", map[string]interface{}{
		"processed": summary.Processed,
		"elapsed":   tracker.GetElapsedTime().String(),
	})
	return summary, nil
}

// processItem resolves, fetches and stores one identifier and returns the
// written path and its size. The scratch file is removed on every path that
// does not commit it.
func (d *Downloader) processItem(ctx context.Context, store *storage.Manager, id string) (string, int64, error) {
	photoURL, err := d.client.ResolvePhotoURL(ctx, id)
	if err != nil {
		return "", 0, err
	}

	tmp, err := store.CreateTemp()
	if err != nil {
		return "", 0, err
	}
	defer tmp.Cleanup()

	photo, err := d.client.DownloadPhoto(ctx, photoURL, tmp)
	if err != nil {
		return "", 0, err
	}
	if photo == nil {
		return "", 0, fmpderrors.New(fmpderrors.ErrorTypeUnknown, "no photo returned for %s", photoURL)
	}

	path, err := store.Commit(tmp, id, photo.LastModified)
	if err != nil {
		return "", 0, err
	}
	return path, photo.Size, nil
}
