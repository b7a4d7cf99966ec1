package service

import (
	"context"
	"io"
	"sync"

	"github.com/roy777rajat/my-photo-app/internal/domain"
)

// fakeObjects is an in-memory ObjectRepository. Upload failures are keyed by
// 1-based call index so a single item of a batch can be made to fail.
type fakeObjects struct {
	mu           sync.Mutex
	blobs        map[string][]byte
	uploadCalls  int
	failUploadOn map[int]error
	downloadErrs map[string]error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{
		blobs:        make(map[string][]byte),
		failUploadOn: make(map[int]error),
		downloadErrs: make(map[string]error),
	}
}

func (f *fakeObjects) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.uploadCalls++
	if err, ok := f.failUploadOn[f.uploadCalls]; ok {
		return "", err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.blobs[key] = data
	return "https://family-photos.s3.eu-west-2.amazonaws.com/" + key, nil
}

func (f *fakeObjects) Download(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.downloadErrs[key]; ok {
		return nil, err
	}
	data, ok := f.blobs[key]
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	return data, nil
}

func (f *fakeObjects) Ping(context.Context) error { return nil }

// fakeCatalog is an in-memory CatalogRepository.
type fakeCatalog struct {
	mu        sync.Mutex
	records   []domain.PhotoRecord
	putCalls  int
	failPutOn map[int]error
	scanErr   error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		failPutOn: make(map[int]error),
	}
}

func (f *fakeCatalog) PutRecord(_ context.Context, rec domain.PhotoRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.putCalls++
	if err, ok := f.failPutOn[f.putCalls]; ok {
		return err
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeCatalog) Scan(context.Context) ([]domain.PhotoRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.scanErr != nil {
		return nil, f.scanErr
	}
	out := make([]domain.PhotoRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeCatalog) Ping(context.Context) error { return nil }
