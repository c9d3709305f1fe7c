package media

import (
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	ls, err := NewLocalStorage(t.TempDir(), map[AssetType]string{
		AssetTypePhoto:     "photos",
		AssetTypeThumbnail: "photo_thumbnails",
	})
	require.NoError(t, err)
	return ls
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	require.NoError(t, imaging.Save(img, path))
}

func TestLocalStorageSaveAndGet(t *testing.T) {
	ls := newTestStorage(t)

	rel, err := ls.Save(AssetTypePhoto, "addr-1", "", ".jpg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "photos/addr-1/"))
	assert.True(t, strings.HasSuffix(rel, ".jpg"))

	rc, info, err := ls.Get(rel)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(body))
	assert.Equal(t, int64(len("jpeg bytes")), info.Size())

	require.NoError(t, ls.Delete(rel))
	_, _, err = ls.Get(rel)
	require.ErrorIs(t, err, ErrAssetNotFound)
	require.NoError(t, ls.Delete(rel))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	ls := newTestStorage(t)

	_, err := ls.Save(AssetTypePhoto, "../../outside", "x.jpg", "", strings.NewReader("x"))
	require.Error(t, err)

	full, err := ls.GetFullPath("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, ls.BasePath()))

	_, err = ls.EnsureDir(AssetType("archive"))
	require.Error(t, err)
}

func TestGenerateThumbnailFitsBox(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "sign.png")
	writeTestPNG(t, src, 800, 400)

	name, err := GenerateThumbnail(src, filepath.Join(dir, "thumbs"), 200)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	f, err := os.Open(filepath.Join(dir, "thumbs", name))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
}

func TestReadPhotoMetadataWithoutExif(t *testing.T) {
	src := filepath.Join(t.TempDir(), "plain.png")
	writeTestPNG(t, src, 64, 32)

	meta, err := ReadPhotoMetadata(src)
	require.NoError(t, err)
	require.NotNil(t, meta.Width)
	assert.Equal(t, 64, *meta.Width)
	assert.Equal(t, 32, *meta.Height)
	assert.Nil(t, meta.TakenAt)
	assert.False(t, meta.HasLocation())
}

func TestIsSupportedPhoto(t *testing.T) {
	assert.True(t, IsSupportedPhoto("IMG_0001.JPG"))
	assert.True(t, IsSupportedPhoto("sign.png"))
	assert.False(t, IsSupportedPhoto("notes.txt"))
}
