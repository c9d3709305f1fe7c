package workers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/congoaddressmapper/config"
	"github.com/camden-git/congoaddressmapper/media"
	"github.com/camden-git/congoaddressmapper/models"
)

type result struct {
	thumbnailURL *string
	meta         *media.PhotoMetadata
	err          error
}

type fakePhotos struct {
	mu         sync.Mutex
	processing map[string]bool
	results    map[string]result
	unfinished []models.Photo
}

func newFakePhotos() *fakePhotos {
	return &fakePhotos{processing: map[string]bool{}, results: map[string]result{}}
}

func (f *fakePhotos) MarkProcessing(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processing[id] = true
	return nil
}

func (f *fakePhotos) UpdateProcessingResult(_ context.Context, id string, thumbnailURL *string, meta *media.PhotoMetadata, taskErr error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[id] = result{thumbnailURL: thumbnailURL, meta: meta, err: taskErr}
	return nil
}

func (f *fakePhotos) ListRequiringProcessing(context.Context) ([]models.Photo, error) {
	return f.unfinished, nil
}

func (f *fakePhotos) result(id string) result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results[id]
}

func newTestProcessor(t *testing.T, photos PhotoStore) (*PhotoProcessor, *media.LocalStorage, chan string) {
	t.Helper()
	store, err := media.NewLocalStorage(t.TempDir(), map[media.AssetType]string{
		media.AssetTypePhoto:     config.DefaultPhotosSubDir,
		media.AssetTypeThumbnail: config.DefaultThumbnailsSubDir,
	})
	require.NoError(t, err)

	cfg := config.Config{
		Media:   config.MediaConfig{ThumbnailSize: 64},
		Workers: config.WorkerConfig{Count: 2, QueueSize: 10},
	}
	done := make(chan string, 10)
	proc := NewPhotoProcessor(cfg, store, photos)
	proc.OnDone = func(id string, _ error) { done <- id }
	t.Cleanup(proc.Stop)
	return proc, store, done
}

func savePNG(t *testing.T, store media.Store) string {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(200, 100, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	rel, err := store.Save(media.AssetTypePhoto, "addr-1", "", ".png", &buf)
	require.NoError(t, err)
	return rel
}

func waitFor(t *testing.T, done <-chan string, id string) {
	t.Helper()
	select {
	case got := <-done:
		require.Equal(t, id, got)
	case <-time.After(10 * time.Second):
		t.Fatalf("photo %s was not processed", id)
	}
}

func TestProcessPhotoWritesThumbnail(t *testing.T) {
	photos := newFakePhotos()
	proc, store, done := newTestProcessor(t, photos)
	rel := savePNG(t, store)

	require.True(t, proc.QueueJob(PhotoJob{PhotoID: "ph1", StoragePath: rel}))
	waitFor(t, done, "ph1")

	res := photos.result("ph1")
	require.NoError(t, res.err)
	require.NotNil(t, res.thumbnailURL)
	assert.True(t, strings.HasPrefix(*res.thumbnailURL, media.FilesURLPrefix+config.DefaultThumbnailsSubDir+"/"))
	require.NotNil(t, res.meta)
	assert.Equal(t, 200, *res.meta.Width)
	assert.False(t, res.meta.HasLocation())

	thumbRel := strings.TrimPrefix(*res.thumbnailURL, media.FilesURLPrefix)
	full, err := store.GetFullPath(thumbRel)
	require.NoError(t, err)
	thumb, err := imaging.Open(full)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 32), thumb.Bounds())
}

func TestProcessMissingFileRecordsError(t *testing.T) {
	photos := newFakePhotos()
	proc, _, done := newTestProcessor(t, photos)

	require.True(t, proc.QueueJob(PhotoJob{PhotoID: "ph1", StoragePath: "photos/none.jpg"}))
	waitFor(t, done, "ph1")

	res := photos.result("ph1")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "original file not found")
	assert.Nil(t, res.thumbnailURL)
}

func TestQueueUnfinished(t *testing.T) {
	photos := newFakePhotos()
	proc, store, done := newTestProcessor(t, photos)
	rel := savePNG(t, store)
	photos.unfinished = []models.Photo{
		{ID: "ph1", StoragePath: &rel},
		{ID: "ph2"}, // external URL, nothing to process
	}

	n, err := proc.QueueUnfinished(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	waitFor(t, done, "ph1")
	assert.NoError(t, photos.result("ph1").err)
}

func TestQueueJobSkipsPending(t *testing.T) {
	proc := &PhotoProcessor{
		JobQueue: make(chan PhotoJob, 1),
		pending:  map[string]bool{},
	}

	assert.True(t, proc.QueueJob(PhotoJob{PhotoID: "ph1"}))
	assert.False(t, proc.QueueJob(PhotoJob{PhotoID: "ph1"}), "already pending")
	assert.False(t, proc.QueueJob(PhotoJob{PhotoID: "ph2"}), "queue full")
	assert.False(t, proc.pending["ph2"])
}
