package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	products := []models.Product{
		{ID: 1, Name: "Almonds", Price: 3500, Stock: 50},
		{ID: 2, Name: "Walnuts", Price: 3200, Stock: 45},
	}

	require.NoError(t, store.Save(KeyStock, products))

	var loaded []models.Product
	require.NoError(t, store.Load(KeyStock, &loaded))
	assert.Equal(t, products, loaded)
}

func TestLoadMissingKey(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	loaded := []models.Product{{ID: 99}}
	require.NoError(t, store.Load(KeyStock, &loaded))
	// untouched, like an empty localStorage slot
	assert.Len(t, loaded, 1)
	assert.Equal(t, int64(99), loaded[0].ID)
}

func TestSaveOverwritesWholeArray(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(KeyCategories, []models.Category{{ID: 1, Name: "Nuts"}, {ID: 2, Name: "Seeds"}}))
	require.NoError(t, store.Save(KeyCategories, []models.Category{{ID: 2, Name: "Seeds"}}))

	var loaded []models.Category
	require.NoError(t, store.Load(KeyCategories, &loaded))
	require.Len(t, loaded, 1)
	assert.Equal(t, "Seeds", loaded[0].Name)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(KeyCustomers, []models.Customer{{ID: "c1", Name: "Maria"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, ".tmp", filepath.Ext(e.Name()))
	}
}

func TestDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(KeySessions, []models.Session{{ID: "s1"}}))
	require.NoError(t, store.Delete(KeySessions))
	require.NoError(t, store.Delete(KeySessions)) // idempotent

	var loaded []models.Session
	require.NoError(t, store.Load(KeySessions, &loaded))
	assert.Empty(t, loaded)
}
