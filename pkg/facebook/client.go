package facebook

import (
	"context"
	"io"
	"net/http"
	"time"

	fmpderrors "fmpd/pkg/errors"
	"fmpd/pkg/logger"
)

// Photo describes a fetched photo
type Photo struct {
	URL  string
	Size int64
	// LastModified is the parsed Last-Modified header, zero when absent
	LastModified time.Time
}

// Client talks to the photo endpoint with a fixed user agent and a cookie jar
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	prefix     string
	logger     logger.Logger
}

// NewClient creates a client. jar carries the session for both the redirect
// page and the photo request; a zero timeout disables the per-request limit.
func NewClient(prefix, userAgent string, timeout time.Duration, jar http.CookieJar, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "*/*",
		},
		prefix: prefix,
		logger: log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// Prefix returns the redirect page URL prefix
func (c *Client) Prefix() string {
	return c.prefix
}

func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, fmpderrors.Wrap(fmpderrors.ErrorTypeNetwork, err, "%s %s", req.Method, req.URL.Redacted())
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET and fails on any non-2xx status. The caller closes the body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmpderrors.Wrap(fmpderrors.ErrorTypeParsing, err, "failed to create request for %q", url)
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}

	if err := c.checkResponseStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func (c *Client) checkResponseStatus(resp *http.Response) error {
	if fmpderrors.IsSuccessStatus(resp.StatusCode) {
		return nil
	}

	c.logger.WarnWithFields("unexpected response status", map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	})
	return fmpderrors.HTTPStatus(resp.StatusCode, resp.Request.URL.Redacted())
}

// FetchRedirectPage returns the raw body of the redirect page for fbid
func (c *Client) FetchRedirectPage(ctx context.Context, fbid string) (string, error) {
	pageURL := PhotoPageURL(c.prefix, fbid)

	resp, err := c.Get(ctx, pageURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmpderrors.Wrap(fmpderrors.ErrorTypeNetwork, err, "failed to read redirect page")
	}
	return string(body), nil
}

// ResolvePhotoURL fetches the redirect page for fbid and returns the absolute
// URL of the full-size photo.
func (c *Client) ResolvePhotoURL(ctx context.Context, fbid string) (string, error) {
	pageURL := PhotoPageURL(c.prefix, fbid)

	body, err := c.FetchRedirectPage(ctx, fbid)
	if err != nil {
		return "", err
	}

	raw, err := ExtractRedirectURL(body)
	if err != nil {
		preview := body
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("no photo URL in redirect page", map[string]interface{}{
			"fbid":         fbid,
			"body_preview": preview,
		})
		return "", err
	}

	if IsHomeRedirect(raw) {
		return "", fmpderrors.New(fmpderrors.ErrorTypeInvalidID,
			"photo %s is not accessible, try opening %s in a browser logged in with the same session", fbid, pageURL)
	}

	photoURL, err := NormalizePhotoURL(pageURL, raw)
	if err != nil {
		return "", err
	}

	c.logger.DebugWithFields("resolved photo URL", map[string]interface{}{
		"fbid": fbid,
		"url":  photoURL,
	})
	return photoURL, nil
}

// DownloadPhoto streams the photo at photoURL into w. The transfer is complete
// when it returns without error.
func (c *Client) DownloadPhoto(ctx context.Context, photoURL string, w io.Writer) (*Photo, error) {
	resp, err := c.Get(ctx, photoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return nil, fmpderrors.Wrap(fmpderrors.ErrorTypeNetwork, err, "failed to download photo")
	}

	photo := &Photo{URL: photoURL, Size: n}
	lm := resp.Header.Get("Last-Modified")
	if t, err := http.ParseTime(lm); lm != "" && err == nil {
		photo.LastModified = t
	} else {
		c.logger.WarnWithFields("invalid Last-Modified header, naming the photo after the current date", map[string]interface{}{
			"url":           photoURL,
			"last_modified": lm,
		})
	}

	c.logger.DebugWithFields("photo downloaded", map[string]interface{}{
		"url":           photoURL,
		"size":          n,
		"last_modified": photo.LastModified,
	})
	return photo, nil
}
