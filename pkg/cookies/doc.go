// Package cookies turns a browser session exported in the Netscape/curl
// cookie-jar format into an http.CookieJar.
//
// The jar is public-suffix aware (golang.org/x/net/publicsuffix), so cookies
// exported for .facebook.com reach m.facebook.com and the CDN redirect target
// only when their domain matches, the same way curl --cookie behaves.
//
// A jar can also be stored by account name and selected instead of a file
// path. Manager keeps it in the system keychain (KeyringStore) and falls back
// to an AES-GCM encrypted file (EncryptedFileStore) on machines without one.
package cookies
