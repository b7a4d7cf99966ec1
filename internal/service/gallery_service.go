package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/roy777rajat/my-photo-app/internal/domain"
	"github.com/roy777rajat/my-photo-app/internal/repository"
)

// GalleryService produces the catalog view: a full scan ordered most recent
// first. The scan is unbounded; catalogs here are family-album sized.
type GalleryService interface {
	ListAll(ctx context.Context) ([]domain.PhotoRecord, error)
}

type galleryService struct {
	catalog repository.CatalogRepository // nil when the table is missing
	log     *zap.Logger
}

func NewGalleryService(catalog repository.CatalogRepository, log *zap.Logger) GalleryService {
	return &galleryService{
		catalog: catalog,
		log:     log,
	}
}

func (s *galleryService) ListAll(ctx context.Context) ([]domain.PhotoRecord, error) {
	if s.catalog == nil {
		return nil, domain.ErrCatalogUnavailable
	}

	records, err := s.catalog.Scan(ctx)
	if err != nil {
		s.log.Error("Failed to list catalog", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	// Records with a missing timestamp carry the zero value and sort last.
	// The sort is stable so ties keep their scan order.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UploadTimestamp > records[j].UploadTimestamp
	})

	return records, nil
}
