package service

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roy777rajat/my-photo-app/internal/domain"
)

func archiveFixture() (*fakeObjects, []domain.PhotoRecord) {
	objects := newFakeObjects()
	snapshot := make([]domain.PhotoRecord, 0, 5)
	names := []string{"e.jpg", "d.jpg", "c.jpg", "b.jpg", "a.jpg"}
	for i, name := range names {
		key := "key-" + name
		objects.blobs[key] = []byte("blob-" + name)
		snapshot = append(snapshot, domain.PhotoRecord{
			PhotoID:          "id-" + name,
			StorageKey:       key,
			OriginalFilename: name,
			UploadTimestamp:  int64(1000 - i), // snapshot is recency-descending
		})
	}
	return objects, snapshot
}

func entryNames(t *testing.T, buf *bytes.Buffer) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestBuildArchiveSelectedSubset(t *testing.T) {
	objects, snapshot := archiveFixture()
	svc := NewArchiveService(objects, zap.NewNop())

	selected := map[string]struct{}{
		"id-b.jpg": {},
		"id-d.jpg": {},
	}

	archive, err := svc.BuildArchive(context.Background(), snapshot, selected, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, archive.EntryCount)
	assert.Empty(t, archive.Warnings)

	// Entries follow snapshot order, not selection order.
	assert.Equal(t, []string{"d.jpg", "b.jpg"}, entryNames(t, archive.Buffer))
}

func TestBuildArchiveMissingBlobSkipsWithWarning(t *testing.T) {
	objects, snapshot := archiveFixture()
	delete(objects.blobs, "key-d.jpg")
	svc := NewArchiveService(objects, zap.NewNop())

	selected := map[string]struct{}{
		"id-b.jpg": {},
		"id-d.jpg": {},
	}

	archive, err := svc.BuildArchive(context.Background(), snapshot, selected, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, archive.EntryCount)
	require.Len(t, archive.Warnings, 1)
	assert.Contains(t, archive.Warnings[0], "d.jpg")
	assert.Equal(t, []string{"b.jpg"}, entryNames(t, archive.Buffer))
}

func TestBuildArchiveKOfNEntries(t *testing.T) {
	objects, snapshot := archiveFixture()
	// 3 of 5 blobs retrievable.
	delete(objects.blobs, "key-a.jpg")
	delete(objects.blobs, "key-c.jpg")
	svc := NewArchiveService(objects, zap.NewNop())

	selected := make(map[string]struct{})
	for _, rec := range snapshot {
		selected[rec.PhotoID] = struct{}{}
	}

	archive, err := svc.BuildArchive(context.Background(), snapshot, selected, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, archive.EntryCount)
	assert.Len(t, archive.Warnings, 2)
}

func TestBuildArchiveFallbackEntryName(t *testing.T) {
	objects := newFakeObjects()
	objects.blobs["k1"] = []byte("x")
	snapshot := []domain.PhotoRecord{
		{PhotoID: "abc-123", StorageKey: "k1", OriginalFilename: ""},
	}
	svc := NewArchiveService(objects, zap.NewNop())

	archive, err := svc.BuildArchive(context.Background(), snapshot, map[string]struct{}{"abc-123": {}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc-123.jpg"}, entryNames(t, archive.Buffer))
}

func TestBuildArchiveDuplicateNamesKept(t *testing.T) {
	objects := newFakeObjects()
	objects.blobs["k1"] = []byte("x")
	objects.blobs["k2"] = []byte("y")
	snapshot := []domain.PhotoRecord{
		{PhotoID: "p1", StorageKey: "k1", OriginalFilename: "same.jpg"},
		{PhotoID: "p2", StorageKey: "k2", OriginalFilename: "same.jpg"},
	}
	svc := NewArchiveService(objects, zap.NewNop())

	selected := map[string]struct{}{"p1": {}, "p2": {}}
	archive, err := svc.BuildArchive(context.Background(), snapshot, selected, nil)
	require.NoError(t, err)

	// No deduplication: both entries are written under the same name.
	assert.Equal(t, 2, archive.EntryCount)
	assert.Equal(t, []string{"same.jpg", "same.jpg"}, entryNames(t, archive.Buffer))
}

func TestBuildArchiveEmptySelection(t *testing.T) {
	objects, snapshot := archiveFixture()
	svc := NewArchiveService(objects, zap.NewNop())

	_, err := svc.BuildArchive(context.Background(), snapshot, map[string]struct{}{}, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyArchive)
}

func TestBuildArchiveAllFetchesFail(t *testing.T) {
	objects, snapshot := archiveFixture()
	objects.blobs = map[string][]byte{}
	svc := NewArchiveService(objects, zap.NewNop())

	selected := map[string]struct{}{"id-a.jpg": {}, "id-b.jpg": {}}
	_, err := svc.BuildArchive(context.Background(), snapshot, selected, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyArchive)
}

func TestBuildArchiveProgressSignal(t *testing.T) {
	objects, snapshot := archiveFixture()
	delete(objects.blobs, "key-c.jpg") // failures still advance progress
	svc := NewArchiveService(objects, zap.NewNop())

	selected := make(map[string]struct{})
	for _, rec := range snapshot {
		selected[rec.PhotoID] = struct{}{}
	}

	var calls [][2]int
	_, err := svc.BuildArchive(context.Background(), snapshot, selected, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	require.NoError(t, err)

	require.Len(t, calls, 5)
	for i, call := range calls {
		assert.Equal(t, i+1, call[0])
		assert.Equal(t, 5, call[1])
	}
	// Final fraction is 1.0 regardless of failures.
	assert.Equal(t, calls[4][0], calls[4][1])
}

func TestBuildArchiveIdempotentEntryNames(t *testing.T) {
	objects, snapshot := archiveFixture()
	svc := NewArchiveService(objects, zap.NewNop())

	selected := map[string]struct{}{"id-a.jpg": {}, "id-e.jpg": {}}

	first, err := svc.BuildArchive(context.Background(), snapshot, selected, nil)
	require.NoError(t, err)
	second, err := svc.BuildArchive(context.Background(), snapshot, selected, nil)
	require.NoError(t, err)

	assert.Equal(t, entryNames(t, first.Buffer), entryNames(t, second.Buffer))
}
