package facebook

import (
	"net/url"
	"regexp"
	"strings"

	fmpderrors "fmpd/pkg/errors"
)

const (
	// HomeURL is what the redirect page points to when the photo cannot be
	// viewed with the current session or the FBID does not exist.
	HomeURL = "https://mbasic.facebook.com/home.php"
)

// redirectPattern captures everything after the first "url=" up to the next
// double quote on the same line. The &quot; entity counts as a quote too.
var redirectPattern = regexp.MustCompile(`url=(.*?)(?:"|&quot;)`)

// PhotoPageURL builds the redirect page URL for an identifier. The identifier
// is appended verbatim.
func PhotoPageURL(prefix, fbid string) string {
	return prefix + fbid
}

// ExtractRedirectURL pulls the media URL out of a redirect page body and
// decodes the &amp; entity.
func ExtractRedirectURL(body string) (string, error) {
	m := redirectPattern.FindStringSubmatch(body)
	if m == nil {
		return "", fmpderrors.New(fmpderrors.ErrorTypeParsing, "redirect page has no url= marker")
	}
	return strings.ReplaceAll(m[1], "&amp;", "&"), nil
}

// IsHomeRedirect reports whether an extracted URL is the site's home page
func IsHomeRedirect(raw string) bool {
	return raw == HomeURL
}

// NormalizePhotoURL turns an extracted redirect target into an absolute URL.
// Targets that arrive query-escaped (https%3A%2F%2F...) are unescaped, and
// relative targets are resolved against the page they came from.
func NormalizePhotoURL(pageURL, raw string) (string, error) {
	if !hasHTTPScheme(raw) {
		if unescaped, err := url.QueryUnescape(raw); err == nil && hasHTTPScheme(unescaped) {
			raw = unescaped
		}
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmpderrors.Wrap(fmpderrors.ErrorTypeParsing, err, "invalid photo URL %q", raw)
	}
	if ref.IsAbs() {
		return raw, nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmpderrors.Wrap(fmpderrors.ErrorTypeParsing, err, "invalid page URL %q", pageURL)
	}
	return base.ResolveReference(ref).String(), nil
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
