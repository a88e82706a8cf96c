package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := HTTPStatus(404, "https://example.com/x")
	assert.Equal(t, "http_status error (code 404): unexpected status fetching https://example.com/x", err.Error())

	err = Wrap(ErrorTypeNetwork, io.ErrUnexpectedEOF, "reading %s", "body")
	assert.Equal(t, "network error: reading body: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestTypeOf(t *testing.T) {
	base := New(ErrorTypeParsing, "no url= marker")
	wrapped := fmt.Errorf("fbid 123: %w", base)

	assert.Equal(t, ErrorTypeParsing, TypeOf(wrapped))
	assert.True(t, Is(wrapped, ErrorTypeParsing))
	assert.False(t, Is(wrapped, ErrorTypeNetwork))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(io.EOF))
	assert.False(t, Is(nil, ErrorTypeUnknown))
}

func TestIsSuccessStatus(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{200, true},
		{204, true},
		{299, true},
		{301, false},
		{404, false},
		{500, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, IsSuccessStatus(tt.code))
		})
	}
}
