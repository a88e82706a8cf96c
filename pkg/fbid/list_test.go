package fbid

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single without newline", "123", []string{"123"}},
		{"trailing whitespace", "123  \n456\t\r\n", []string{"123", "456"}},
		{"crlf", "1\r\n2\r\n", []string{"1", "2"}},
		{"blank lines and comments", "# photos\n\n10\n   \n# 11\n12\n", []string{"10", "12"}},
		{"leading whitespace", "  77\n", []string{"77"}},
		{"order kept", "3\n1\n2\n", []string{"3", "1", "2"}},
		{"duplicates kept", "5\n5\n", []string{"5", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadList(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("100\n200\n"), 0644))

	ids, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200"}, ids)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestCollect(t *testing.T) {
	listFile := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(listFile, []byte("1\n2\n"), 0644))

	t.Run("list file without args", func(t *testing.T) {
		ids, err := Collect(nil, strings.NewReader("9\n"), listFile)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, ids)
	})

	t.Run("positional args ignore list file", func(t *testing.T) {
		ids, err := Collect([]string{"7", "8"}, strings.NewReader("9\n"), listFile)
		require.NoError(t, err)
		assert.Equal(t, []string{"7", "8"}, ids)
	})

	t.Run("stdin after positional args", func(t *testing.T) {
		ids, err := Collect([]string{"-", "7"}, strings.NewReader("9\n# c\n10\n"), listFile)
		require.NoError(t, err)
		assert.Equal(t, []string{"7", "9", "10"}, ids)
	})

	t.Run("stdin read once", func(t *testing.T) {
		ids, err := Collect([]string{"-", "-"}, strings.NewReader("9\n"), listFile)
		require.NoError(t, err)
		assert.Equal(t, []string{"9"}, ids)
	})

	t.Run("missing list file", func(t *testing.T) {
		_, err := Collect(nil, nil, filepath.Join(t.TempDir(), "nope.txt"))
		assert.Error(t, err)
	})
}
