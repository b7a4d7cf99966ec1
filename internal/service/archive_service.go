package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roy777rajat/my-photo-app/internal/domain"
	"github.com/roy777rajat/my-photo-app/internal/repository"
)

// Archive is a finished zip bundle. Buffer is positioned at its start and
// ready to stream as application/zip.
type Archive struct {
	Buffer     *bytes.Buffer
	EntryCount int
	Warnings   []string
}

// ProgressFunc receives (itemsProcessed, totalSelected) after every item,
// whether or not the item made it into the archive.
type ProgressFunc func(done, total int)

// ArchiveService bundles the selected subset of a catalog snapshot into a
// single zip. Entries keep snapshot order (recency-descending); a record
// whose blob cannot be fetched is skipped with a warning, not an abort.
type ArchiveService interface {
	BuildArchive(ctx context.Context, snapshot []domain.PhotoRecord, selected map[string]struct{}, onProgress ProgressFunc) (*Archive, error)
}

type archiveService struct {
	objects repository.ObjectRepository
	log     *zap.Logger
}

func NewArchiveService(objects repository.ObjectRepository, log *zap.Logger) ArchiveService {
	return &archiveService{
		objects: objects,
		log:     log,
	}
}

func (s *archiveService) BuildArchive(ctx context.Context, snapshot []domain.PhotoRecord, selected map[string]struct{}, onProgress ProgressFunc) (*Archive, error) {
	var chosen []domain.PhotoRecord
	for _, rec := range snapshot {
		if _, ok := selected[rec.PhotoID]; ok {
			chosen = append(chosen, rec)
		}
	}

	if len(chosen) == 0 {
		return nil, domain.ErrEmptyArchive
	}

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	var warnings []string
	entries := 0
	total := len(chosen)

	for i, rec := range chosen {
		name := rec.OriginalFilename
		if name == "" {
			name = rec.PhotoID + ".jpg"
		}

		// Duplicate entry names are written as-is; extraction overwrites.
		data, err := s.objects.Download(ctx, rec.StorageKey)
		if err != nil {
			warning := fmt.Sprintf("could not retrieve %s, skipping", name)
			warnings = append(warnings, warning)
			s.log.Warn("Skipping photo during archive build",
				zap.String("photo_id", rec.PhotoID),
				zap.String("key", rec.StorageKey),
				zap.Error(err))
		} else {
			w, err := zw.Create(name)
			if err == nil {
				_, err = w.Write(data)
			}
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("could not add %s to archive, skipping", name))
				s.log.Warn("Failed to write archive entry",
					zap.String("photo_id", rec.PhotoID),
					zap.Error(err))
			} else {
				entries++
			}
		}

		if onProgress != nil {
			onProgress(i+1, total)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	if entries == 0 {
		return nil, domain.ErrEmptyArchive
	}

	s.log.Info("Archive built",
		zap.Int("entries", entries),
		zap.Int("selected", total),
		zap.Int("warnings", len(warnings)))

	return &Archive{
		Buffer:     buf,
		EntryCount: entries,
		Warnings:   warnings,
	}, nil
}
