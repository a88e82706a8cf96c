package facebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fmpderrors "fmpd/pkg/errors"
)

func TestPhotoPageURL(t *testing.T) {
	assert.Equal(t,
		"https://m.facebook.com/photo/view_full_size/?fbid=10153582534245079",
		PhotoPageURL("https://m.facebook.com/photo/view_full_size/?fbid=", "10153582534245079"))
}

func TestExtractRedirectURL(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "entity quote terminates",
			body: `<html>...url=https%3A%2F%2Fexample.com%2Fimg.jpg&amp;oh=...&amp;oe=...&quot;...</html>`,
			want: "https%3A%2F%2Fexample.com%2Fimg.jpg&oh=...&oe=...",
		},
		{
			name: "meta refresh",
			body: `<meta http-equiv="refresh" content="0;url=https://scontent.xx.fbcdn.net/v/t1/123_n.jpg?_nc_cat=1&amp;oh=ab&amp;oe=5F" />`,
			want: "https://scontent.xx.fbcdn.net/v/t1/123_n.jpg?_nc_cat=1&oh=ab&oe=5F",
		},
		{
			name: "first marker wins",
			body: `a url=first" b url=second"`,
			want: "first",
		},
		{
			name: "stops at first quote",
			body: `url=abc"def"`,
			want: "abc",
		},
		{
			name: "empty target",
			body: `url=""`,
			want: "",
		},
		{
			name: "marker without quote on its line is skipped",
			body: "url=dangling\nthen url=real\"",
			want: "real",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractRedirectURL(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractRedirectURLNoMarker(t *testing.T) {
	for _, body := range []string{"", "<html>nothing here</html>", "url=unterminated"} {
		_, err := ExtractRedirectURL(body)
		require.Error(t, err)
		assert.True(t, fmpderrors.Is(err, fmpderrors.ErrorTypeParsing), "body %q", body)
	}
}

func TestIsHomeRedirect(t *testing.T) {
	assert.True(t, IsHomeRedirect("https://mbasic.facebook.com/home.php"))
	assert.False(t, IsHomeRedirect("https://mbasic.facebook.com/home.php?x=1"))
	assert.False(t, IsHomeRedirect("https://scontent.xx.fbcdn.net/a.jpg"))
}

func TestNormalizePhotoURL(t *testing.T) {
	page := "https://m.facebook.com/photo/view_full_size/?fbid=1"
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"absolute kept verbatim", "https://scontent.xx.fbcdn.net/a.jpg?oh=1&oe=2", "https://scontent.xx.fbcdn.net/a.jpg?oh=1&oe=2"},
		{"query escaped", "https%3A%2F%2Fexample.com%2Fimg.jpg", "https://example.com/img.jpg"},
		{"relative path", "/photos/a.jpg", "https://m.facebook.com/photos/a.jpg"},
		{"scheme relative", "//cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhotoURL(page, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhotoURLInvalid(t *testing.T) {
	_, err := NormalizePhotoURL("https://m.facebook.com/", "http://[::1")
	require.Error(t, err)
	assert.True(t, fmpderrors.Is(err, fmpderrors.ErrorTypeParsing))
}
