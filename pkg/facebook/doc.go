// Package facebook provides the HTTP side of fmpd: resolving a photo FBID to
// its full-size media URL and fetching the image.
//
// The full-size view endpoint does not serve the image. It returns a page that
// embeds the media URL after a "url=" marker; ResolvePhotoURL extracts it and
// DownloadPhoto fetches it, reporting the Last-Modified time so the caller can
// keep the remote timestamp on the local copy.
//
//	client := facebook.NewClient(prefix, userAgent, 0, jar, log)
//	photoURL, err := client.ResolvePhotoURL(ctx, "10153582534245079")
//	if err != nil {
//	    return err
//	}
//	photo, err := client.DownloadPhoto(ctx, photoURL, tmpFile)
package facebook
