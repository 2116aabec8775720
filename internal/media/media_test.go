package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestDeleteProductImagesMatchesExactStem(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	touch(t, dir, "product-1.jpg")
	touch(t, dir, "product-1-thumb.jpg")
	touch(t, dir, "product-12.jpg")
	touch(t, dir, "product-12-thumb.jpg")

	store.DeleteProductImages(1)

	assert.NoFileExists(t, filepath.Join(dir, "product-1.jpg"))
	assert.NoFileExists(t, filepath.Join(dir, "product-1-thumb.jpg"))
	assert.FileExists(t, filepath.Join(dir, "product-12.jpg"), "another product's image must survive")
	assert.FileExists(t, filepath.Join(dir, "product-12-thumb.jpg"))
}

func TestDeleteProductImagesMissingFiles(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	// nothing stored for this product; deleting is a no-op
	store.DeleteProductImages(7)
}

func TestSaveProductImageRejectsUnknownType(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	f, err := os.CreateTemp(t.TempDir(), "upload-*")
	require.NoError(t, err)
	defer f.Close()

	_, _, err = store.SaveProductImage(1, f, "listado.pdf")
	assert.Error(t, err)
}

func TestPathStripsDirectoryComponents(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "passwd"), store.Path("../../etc/passwd"))
	assert.Equal(t, filepath.Join(dir, "product-1.jpg"), store.Path("product-1.jpg"))
}
