package service

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roy777rajat/my-photo-app/internal/domain"
	"github.com/roy777rajat/my-photo-app/internal/repository"
)

// UploadService runs the blob-then-metadata pipeline for a batch of photos.
// Each item is independent: a failure never aborts the rest of the batch, and
// nothing is retried or rolled back. A metadata failure after a successful
// blob write leaves an orphaned blob; no compensating delete is issued.
type UploadService interface {
	UploadBatch(ctx context.Context, items []domain.UploadItem) []domain.UploadOutcome
}

type uploadService struct {
	objects         repository.ObjectRepository
	catalog         repository.CatalogRepository // nil when the table is missing
	defaultUploader string
	log             *zap.Logger
}

func NewUploadService(objects repository.ObjectRepository, catalog repository.CatalogRepository, defaultUploader string, log *zap.Logger) UploadService {
	return &uploadService{
		objects:         objects,
		catalog:         catalog,
		defaultUploader: defaultUploader,
		log:             log,
	}
}

// UploadBatch processes items in submission order. The returned slice always
// has one outcome per input item, in the same order.
func (s *uploadService) UploadBatch(ctx context.Context, items []domain.UploadItem) []domain.UploadOutcome {
	outcomes := make([]domain.UploadOutcome, 0, len(items))
	for _, item := range items {
		outcomes = append(outcomes, s.uploadOne(ctx, item))
	}
	return outcomes
}

func (s *uploadService) uploadOne(ctx context.Context, item domain.UploadItem) domain.UploadOutcome {
	out := domain.UploadOutcome{OriginalFilename: item.OriginalFilename}

	// The storage key is a fresh identifier, separate from the photo id, so
	// original filenames never become storage paths.
	photoID := uuid.New().String()
	key := uuid.New().String() + strings.ToLower(filepath.Ext(item.OriginalFilename))

	url, err := s.objects.Upload(ctx, key, bytes.NewReader(item.Data), int64(len(item.Data)), item.ContentType)
	if err != nil {
		s.log.Error("Photo upload failed",
			zap.String("filename", item.OriginalFilename),
			zap.Error(err))
		out.Status = domain.StatusUploadFailed
		out.Err = err
		return out
	}
	out.URL = url

	uploader := item.Uploader
	if uploader == "" {
		uploader = s.defaultUploader
	}

	record := domain.PhotoRecord{
		PhotoID:          photoID,
		StorageKey:       key,
		URL:              url,
		Description:      item.Description,
		OriginalFilename: item.OriginalFilename,
		Uploader:         uploader,
		UploadTimestamp:  time.Now().UnixMilli(),
		SizeBytes:        int64(len(item.Data)),
	}

	if s.catalog == nil {
		s.log.Warn("Blob stored but catalog is unavailable, metadata skipped",
			zap.String("photo_id", photoID),
			zap.String("key", key))
		out.Status = domain.StatusMetadataFailed
		out.Err = domain.ErrCatalogUnavailable
		return out
	}

	if err := s.catalog.PutRecord(ctx, record); err != nil {
		s.log.Error("Blob stored but metadata write failed",
			zap.String("photo_id", photoID),
			zap.String("key", key),
			zap.Error(err))
		out.Status = domain.StatusMetadataFailed
		out.Err = err
		return out
	}

	s.log.Info("Photo uploaded",
		zap.String("photo_id", photoID),
		zap.String("filename", item.OriginalFilename),
		zap.Int64("size", record.SizeBytes))

	out.Status = domain.StatusUploaded
	out.Record = &record
	return out
}
