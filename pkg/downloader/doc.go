// Package downloader runs a batch of photo downloads.
//
// For each identifier, in order, the Downloader asks its PhotoClient for the
// full-size photo URL, streams the photo into a scratch file in the output
// directory and commits it under a name derived from its modification date
// (see package storage). Processing is strictly sequential and fail-fast: the
// first error stops the run and is returned as an *ItemError naming the
// identifier. Files committed before the failure stay on disk.
//
// Usage:
//
//	jar, err := cookies.LoadJar("cookies.txt")
//	if err != nil {
//	    return err
//	}
//	client := facebook.NewClient(config.DefaultPrefix, config.DefaultUserAgent, 0, jar, log)
//	d := downloader.New(client, downloader.Options{
//	    OutputDir: "output",
//	    Extension: ".jpg",
//	}, log)
//
//	summary, err := d.Run(ctx, ids)
package downloader
