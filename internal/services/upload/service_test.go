package upload

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	apperrors "lumbung/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir, 1<<20)
	require.NoError(t, err)

	res, err := svc.SaveImage(context.Background(), fileHeader(t, "Photo.JPG", []byte("jpeg-bytes")))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^\d{8}_\d{6}_[0-9a-f]{8}\.jpg$`), res.Filename)
	assert.Equal(t, "/uploads/"+res.Filename, res.URL)
	assert.Equal(t, int64(10), res.Size)

	stored, err := os.ReadFile(filepath.Join(dir, res.Filename))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(stored))
}

func TestSaveImageRejectsExtension(t *testing.T) {
	svc, err := NewService(t.TempDir(), 1<<20)
	require.NoError(t, err)

	_, err = svc.SaveImage(context.Background(), fileHeader(t, "script.exe", []byte("x")))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestSaveImageRejectsLargeFile(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir, 8)
	require.NoError(t, err)

	_, err = svc.SaveImage(context.Background(), fileHeader(t, "big.png", bytes.Repeat([]byte("a"), 9)))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveImageRequiresFile(t *testing.T) {
	svc, err := NewService(t.TempDir(), 1<<20)
	require.NoError(t, err)

	_, err = svc.SaveImage(context.Background(), nil)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
