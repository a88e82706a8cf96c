// Package storage manages the output directory of a download run.
//
// A run owns a freshly created directory (NewManager refuses an existing one).
// Each item is downloaded into its own hidden scratch file in that directory
// and then renamed to a name derived from its modification date:
//
//	20160519.jpg
//	20160519 1.jpg
//	20160519 2.jpg
//
// Suffixes are assigned in processing order without gaps. A NameTemplate
// changes the scheme, e.g. "yyyy/MM/f[ i]" files photos by year and month
// under their identifier. Scratch files that
// are not committed are removed by TempFile.Cleanup, so a failed item leaves
// nothing behind.
//
//	tmp, err := manager.CreateTemp()
//	if err != nil {
//	    return err
//	}
//	defer tmp.Cleanup()
//	// write the photo into tmp ...
//	path, err := manager.Commit(tmp, fbid, lastModified)
package storage
