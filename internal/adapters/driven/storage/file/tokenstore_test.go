package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeanYan3D/tinatools/internal/adapters/driven/storage/storetest"
	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/ports/driven"
)

func setupTestStore(t *testing.T) *TokenStore {
	t.Helper()
	store, err := NewTokenStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestTokenStore(t *testing.T) {
	storetest.RunTokenStoreTests(t, func(t *testing.T) driven.TokenStore {
		return setupTestStore(t)
	})
}

func TestNewTokenStore_EmptyDir(t *testing.T) {
	_, err := NewTokenStore("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTokenStore_FileLayout(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Put(context.Background(), "gmail", storetest.SampleToken()))

	path := store.Path("gmail")
	assert.Equal(t, "gmail_token.json", filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestTokenStore_ReadsPHPClientTokenFile(t *testing.T) {
	store := setupTestStore(t)
	raw := `{"access_token":"ya29.legacy","refresh_token":"1//legacy","token_type":"Bearer","created":1760000000,"expires_in":3599,"scope":"https://www.googleapis.com/auth/gmail.readonly"}`
	require.NoError(t, os.WriteFile(store.Path("gmail"), []byte(raw), 0600))

	tok, err := store.Get(context.Background(), "gmail")

	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "1//legacy", tok.RefreshToken)
	assert.Equal(t, int64(1760003599), tok.ExpiresAt.Unix())
	assert.Equal(t, []string{"https://www.googleapis.com/auth/gmail.readonly"}, tok.Scopes)
}

func TestTokenStore_CorruptFile(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, os.WriteFile(store.Path("gmail"), []byte("{"), 0600))

	_, err := store.Get(context.Background(), "gmail")

	assert.Error(t, err)
}

func TestTokenStore_RejectsPathTraversal(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.Put(context.Background(), "../x", storetest.SampleToken())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
