package cookies

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const httpOnlyPrefix = "#HttpOnly_"

// Entry is one line of a Netscape cookie-jar file
type Entry struct {
	Domain            string
	IncludeSubdomains bool
	Path              string
	Secure            bool
	HTTPOnly          bool
	// Expires is zero for session cookies
	Expires time.Time
	Name    string
	Value   string
}

// ErrEmptyJar is returned when a cookie file holds no cookies at all
var ErrEmptyJar = errors.New("cookie jar contains no cookies")

// Parse reads cookies in the Netscape/curl cookie-jar format: seven
// tab-separated fields per line (domain, include-subdomains flag, path,
// secure flag, expiry in unix seconds, name, value). Lines starting with '#'
// are comments, except the "#HttpOnly_" domain prefix curl writes.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("cookie file line %d: %w", lineNo, err)
		}
		entry.HTTPOnly = httpOnly
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cookie file: %w", err)
	}

	return entries, nil
}

func parseLine(line string) (Entry, error) {
	fields := strings.Split(line, "\t")
	// curl writes six fields when the value is empty
	if len(fields) == 6 {
		fields = append(fields, "")
	}
	if len(fields) != 7 {
		return Entry{}, fmt.Errorf("expected 7 tab-separated fields, got %d", len(fields))
	}

	expiry, err := strconv.ParseInt(strings.TrimSpace(fields[4]), 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid expiry %q: %w", fields[4], err)
	}

	entry := Entry{
		Domain:            fields[0],
		IncludeSubdomains: strings.EqualFold(fields[1], "TRUE"),
		Path:              fields[2],
		Secure:            strings.EqualFold(fields[3], "TRUE"),
		Name:              fields[5],
		Value:             fields[6],
	}
	if entry.Domain == "" {
		return Entry{}, errors.New("empty domain")
	}
	if entry.Path == "" {
		entry.Path = "/"
	}
	if expiry > 0 {
		entry.Expires = time.Unix(expiry, 0)
	}
	return entry, nil
}

// ParseFile reads a cookie-jar file from disk
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cookie file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// NewJar loads entries into a public-suffix aware cookie jar, so each cookie
// is only sent to the hosts its domain and path match. Expired entries are
// dropped by the jar.
func NewJar(entries []Entry) (*cookiejar.Jar, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyJar
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	for _, e := range entries {
		host := strings.TrimPrefix(e.Domain, ".")
		scheme := "http"
		if e.Secure {
			scheme = "https"
		}
		u := &url.URL{Scheme: scheme, Host: host, Path: e.Path}

		c := &http.Cookie{
			Name:     e.Name,
			Value:    e.Value,
			Path:     e.Path,
			Secure:   e.Secure,
			HttpOnly: e.HTTPOnly,
			Expires:  e.Expires,
		}
		if e.IncludeSubdomains || strings.HasPrefix(e.Domain, ".") {
			c.Domain = host
		}
		jar.SetCookies(u, []*http.Cookie{c})
	}

	return jar, nil
}

// LoadJar parses a cookie-jar file and returns the populated jar
func LoadJar(path string) (*cookiejar.Jar, error) {
	entries, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	jar, err := NewJar(entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return jar, nil
}

// Mask hides all but the first and last 4 characters of a cookie value
func Mask(value string) string {
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
