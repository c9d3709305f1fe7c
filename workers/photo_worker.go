package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sync"
	"time"

	"github.com/camden-git/congoaddressmapper/config"
	"github.com/camden-git/congoaddressmapper/logging"
	"github.com/camden-git/congoaddressmapper/media"
	"github.com/camden-git/congoaddressmapper/models"
)

const jobTimeout = 2 * time.Minute

// PhotoStore is the part of the photo repository the workers write results to.
type PhotoStore interface {
	MarkProcessing(ctx context.Context, id string) error
	UpdateProcessingResult(ctx context.Context, id string, thumbnailURL *string, meta *media.PhotoMetadata, taskErr error) error
	ListRequiringProcessing(ctx context.Context) ([]models.Photo, error)
}

type PhotoJob struct {
	PhotoID     string
	StoragePath string // relative to the media storage root
}

// PhotoProcessor thumbnails uploaded survey photos and extracts their EXIF data.
type PhotoProcessor struct {
	JobQueue chan PhotoJob
	Store    media.Store
	Photos   PhotoStore
	// OnDone, if set, is called after a job's result has been written.
	OnDone func(photoID string, taskErr error)

	thumbSize int
	wg        sync.WaitGroup
	stopChan  chan struct{}
	stopOnce  sync.Once
	pending   map[string]bool
	mu        sync.Mutex
}

func NewPhotoProcessor(cfg config.Config, store media.Store, photos PhotoStore) *PhotoProcessor {
	numWorkers := cfg.Workers.Count
	if numWorkers <= 0 {
		numWorkers = 1
	}
	queueSize := cfg.Workers.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}
	proc := &PhotoProcessor{
		JobQueue:  make(chan PhotoJob, queueSize),
		Store:     store,
		Photos:    photos,
		thumbSize: cfg.Media.ThumbnailSize,
		stopChan:  make(chan struct{}),
		pending:   make(map[string]bool),
	}
	proc.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go proc.worker(i)
	}
	slog.Info("started photo workers", "component", "workers", "workers", numWorkers, "queue_size", queueSize)
	return proc
}

func (p *PhotoProcessor) worker(id int) {
	defer p.wg.Done()
	ctx := logging.WithAttrs(context.Background(), slog.String("component", "workers"), slog.Int("worker", id))

	for {
		select {
		case job, ok := <-p.JobQueue:
			if !ok {
				logging.Debug(ctx, "photo worker stopping, queue closed")
				return
			}
			p.process(ctx, job)
			p.mu.Lock()
			delete(p.pending, job.PhotoID)
			p.mu.Unlock()
		case <-p.stopChan:
			logging.Debug(ctx, "photo worker stopping")
			return
		}
	}
}

func (p *PhotoProcessor) process(parent context.Context, job PhotoJob) {
	ctx, cancel := context.WithTimeout(logging.WithAttrs(parent, slog.String("photo_id", job.PhotoID)), jobTimeout)
	defer cancel()

	if err := p.Photos.MarkProcessing(ctx, job.PhotoID); err != nil {
		logging.Error(ctx, "failed to mark photo processing, skipping", logging.Err(err))
		return
	}

	thumbURL, meta, taskErr := p.run(job)
	if taskErr != nil {
		logging.Warn(ctx, "photo processing failed", logging.Err(taskErr))
	} else {
		logging.Info(ctx, "photo processed", slog.Bool("has_location", meta.HasLocation()))
	}

	if err := p.Photos.UpdateProcessingResult(ctx, job.PhotoID, thumbURL, meta, taskErr); err != nil {
		logging.Error(ctx, "failed to store photo processing result", logging.Err(err))
	}
	if p.OnDone != nil {
		p.OnDone(job.PhotoID, taskErr)
	}
}

func (p *PhotoProcessor) run(job PhotoJob) (*string, *media.PhotoMetadata, error) {
	fullPath, err := p.Store.GetFullPath(job.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("original file not found: %w", err)
		}
		return nil, nil, fmt.Errorf("failed to stat original file: %w", err)
	}

	thumbDir, err := p.Store.EnsureDir(media.AssetTypeThumbnail)
	if err != nil {
		return nil, nil, err
	}
	name, err := media.GenerateThumbnail(fullPath, thumbDir, p.thumbSize)
	if err != nil {
		return nil, nil, fmt.Errorf("thumbnail generation failed: %w", err)
	}
	thumbURL := media.FileURL(path.Join(config.DefaultThumbnailsSubDir, name))

	meta, err := media.ReadPhotoMetadata(fullPath)
	if err != nil {
		return &thumbURL, nil, fmt.Errorf("metadata extraction failed: %w", err)
	}
	return &thumbURL, meta, nil
}

// QueueJob queues a photo unless it is already pending or the queue is full.
func (p *PhotoProcessor) QueueJob(job PhotoJob) bool {
	p.mu.Lock()
	if p.pending[job.PhotoID] {
		p.mu.Unlock()
		return false
	}
	p.pending[job.PhotoID] = true
	p.mu.Unlock()

	select {
	case p.JobQueue <- job:
		slog.Debug("queued photo", "component", "workers", "photo_id", job.PhotoID)
		return true
	default:
		slog.Warn("photo queue full, dropping job", "component", "workers", "photo_id", job.PhotoID)
		p.mu.Lock()
		delete(p.pending, job.PhotoID)
		p.mu.Unlock()
		return false
	}
}

// QueueUnfinished requeues uploads left pending by a previous run and
// returns how many were queued.
func (p *PhotoProcessor) QueueUnfinished(ctx context.Context) (int, error) {
	photos, err := p.Photos.ListRequiringProcessing(ctx)
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, photo := range photos {
		if photo.StoragePath == nil {
			continue
		}
		if p.QueueJob(PhotoJob{PhotoID: photo.ID, StoragePath: *photo.StoragePath}) {
			queued++
		}
	}
	return queued, nil
}

func (p *PhotoProcessor) Stop() {
	p.stopOnce.Do(func() {
		slog.Info("stopping photo workers", "component", "workers")
		close(p.stopChan)
		p.wg.Wait()
	})
}
