package cookies

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vestio/internal/models"
)

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	store := NewStore(path, arbor.NewLogger())

	expires := time.Now().Add(72 * time.Hour).Unix()
	set := models.CookieSet{
		"auth":            {Value: "authcookie_abc", Expires: expires},
		"twoFactorAuth":   {Value: "tfa_xyz", Expires: expires},
		"cf_session_hint": {Value: "hint"},
	}

	require.NoError(t, store.Save(set))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, set, loaded)
}

func TestStore_MissingFileIsEmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	store := NewStore(path, arbor.NewLogger())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStore_CorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewStore(path, arbor.NewLogger())
	_, err := store.Load()
	assert.Error(t, err)
}

func TestStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "cookies.json")
	store := NewStore(path, arbor.NewLogger())

	require.NoError(t, store.Save(models.CookieSet{"auth": {Value: "v"}}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStore_Path(t *testing.T) {
	store := NewStore("./data/cookies.json", arbor.NewLogger())
	assert.Equal(t, "./data/cookies.json", store.Path())
}
