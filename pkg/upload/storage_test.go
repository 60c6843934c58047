package upload

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("id_image", name)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["id_image"][0]
}

func TestSaveWritesFileAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewDiskStorage(dir, "/uploads")
	require.NoError(t, err)

	url, err := storage.Save(fileHeader(t, "id-card.png", "image-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewDiskStorage(dir, "/uploads")
	require.NoError(t, err)

	first, err := storage.Save(fileHeader(t, "same.jpg", "a"))
	require.NoError(t, err)
	second, err := storage.Save(fileHeader(t, "same.jpg", "b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewDiskStorageCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewDiskStorage(dir, "/uploads")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
