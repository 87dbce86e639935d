package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caocaocc/rules/pkg/utils"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache", "sources.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreSaveLoad(t *testing.T) {
	s := openTestStore(t)

	content := []byte("DOMAIN,example.com\n")
	require.NoError(t, s.Save("https://example.com/list.conf", content))

	cs, err := s.Load("https://example.com/list.conf")
	require.NoError(t, err)
	require.NotNil(t, cs)
	assert.Equal(t, content, cs.Content)
	assert.Equal(t, utils.SHA256Hex(content), cs.Checksum)
	assert.Equal(t, 0, cs.ErrorCount)
	assert.False(t, cs.FetchedAt.IsZero())
}

func TestStoreLoadMissing(t *testing.T) {
	s := openTestStore(t)

	cs, err := s.Load("https://example.com/none.conf")
	require.NoError(t, err)
	assert.Nil(t, cs)
}

func TestStoreRecordError(t *testing.T) {
	s := openTestStore(t)
	url := "https://example.com/list.conf"

	require.NoError(t, s.Save(url, []byte("a.com\n")))
	require.NoError(t, s.RecordError(url, "HTTP 502"))
	require.NoError(t, s.RecordError(url, "HTTP 503"))

	cs, err := s.Load(url)
	require.NoError(t, err)
	require.NotNil(t, cs)
	assert.Equal(t, 2, cs.ErrorCount)
	assert.Equal(t, "HTTP 503", cs.LastError)

	// 再次成功抓取后错误计数清零
	require.NoError(t, s.Save(url, []byte("b.com\n")))
	cs, err = s.Load(url)
	require.NoError(t, err)
	assert.Equal(t, 0, cs.ErrorCount)
	assert.Empty(t, cs.LastError)
}

func TestStoreSaveOverwrites(t *testing.T) {
	s := openTestStore(t)
	url := "https://example.com/list.conf"

	require.NoError(t, s.Save(url, []byte("old")))
	require.NoError(t, s.Save(url, []byte("new")))

	cs, err := s.Load(url)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), cs.Content)
}
