package cookies

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore()

	require.NoError(t, store.Available())
	assert.False(t, store.Exists("alice"))

	require.NoError(t, store.Save("alice", sampleJar))
	assert.True(t, store.Exists("alice"))

	text, err := store.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, sampleJar, text)

	entries, err := store.LoadEntries("alice")
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	jar, err := store.LoadJar("alice")
	require.NoError(t, err)
	u, _ := url.Parse("https://m.facebook.com/photo/")
	assert.NotEmpty(t, jar.Cookies(u))

	require.NoError(t, store.Delete("alice"))
	assert.False(t, store.Exists("alice"))
}

func TestKeyringStoreErrors(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore()

	assert.ErrorIs(t, store.Save("", sampleJar), ErrInvalidAccount)
	assert.ErrorIs(t, store.Save("bob", "# only a comment\n"), ErrEmptyJar)
	assert.Error(t, store.Save("bob", "not\ta\tjar\n"))
	assert.False(t, store.Exists("bob"))

	_, err := store.Load("nobody")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	assert.ErrorIs(t, store.Delete("nobody"), ErrAccountNotFound)
	_, err = store.Load("")
	assert.ErrorIs(t, err, ErrInvalidAccount)
	assert.False(t, store.Exists(""))
}
