package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roy777rajat/my-photo-app/internal/config"
	"github.com/roy777rajat/my-photo-app/internal/domain"
	"github.com/roy777rajat/my-photo-app/internal/service"
	"github.com/roy777rajat/my-photo-app/internal/session"
)

type Handler struct {
	uploads service.UploadService
	gallery service.GalleryService
	archive service.ArchiveService
	cfg     *config.Config
	// catalogAvailable is fixed at startup; when false the gallery and
	// export endpoints are disabled and uploads follow the blob-only policy.
	catalogAvailable bool
	log              *zap.Logger
}

func NewHandler(uploads service.UploadService, gallery service.GalleryService, archive service.ArchiveService, cfg *config.Config, catalogAvailable bool, log *zap.Logger) *Handler {
	return &Handler{
		uploads:          uploads,
		gallery:          gallery,
		archive:          archive,
		cfg:              cfg,
		catalogAvailable: catalogAvailable,
		log:              log,
	}
}

func (h *Handler) GetUI(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"catalogAvailable": h.catalogAvailable,
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"catalog": h.catalogAvailable,
	})
}

func (h *Handler) UploadPhotos(c *gin.Context) {
	if !h.catalogAvailable && !h.cfg.App.AllowBlobOnlyUploads {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Uploads are disabled: photo catalog is unavailable"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.log.Error("Failed to parse multipart form", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "No photos provided"})
		return
	}

	files := form.File["photos"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No photos provided"})
		return
	}

	descriptions := form.Value["descriptions"]
	uploader := c.PostForm("uploader")

	var items []domain.UploadItem
	var rejected []gin.H

	for i, file := range files {
		if file.Size > h.cfg.App.MaxUploadSize {
			rejected = append(rejected, gin.H{
				"original_filename": file.Filename,
				"status":            domain.StatusUploadFailed,
				"error":             "file too large",
			})
			continue
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !h.extAllowed(ext) {
			rejected = append(rejected, gin.H{
				"original_filename": file.Filename,
				"status":            domain.StatusUploadFailed,
				"error":             "unsupported file format",
			})
			continue
		}

		src, err := file.Open()
		if err != nil {
			h.log.Error("Failed to open uploaded file",
				zap.String("filename", file.Filename),
				zap.Error(err))
			rejected = append(rejected, gin.H{
				"original_filename": file.Filename,
				"status":            domain.StatusUploadFailed,
				"error":             "could not read file",
			})
			continue
		}

		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			rejected = append(rejected, gin.H{
				"original_filename": file.Filename,
				"status":            domain.StatusUploadFailed,
				"error":             "could not read file",
			})
			continue
		}

		contentType := file.Header.Get("Content-Type")
		if contentType == "" {
			contentType = mimetype.Detect(data).String()
		}

		description := ""
		if i < len(descriptions) {
			description = descriptions[i]
		}

		items = append(items, domain.UploadItem{
			Data:             data,
			ContentType:      contentType,
			OriginalFilename: file.Filename,
			Description:      description,
			Uploader:         uploader,
		})
	}

	outcomes := h.uploads.UploadBatch(c.Request.Context(), items)

	results := make([]gin.H, 0, len(outcomes)+len(rejected))
	uploadedCount := 0
	for _, out := range outcomes {
		entry := gin.H{
			"original_filename": out.OriginalFilename,
			"status":            out.Status,
		}
		if out.URL != "" {
			entry["url"] = out.URL
		}
		if out.Record != nil {
			entry["photo_id"] = out.Record.PhotoID
		}
		if out.Err != nil {
			entry["error"] = out.Err.Error()
		}
		if out.Status == domain.StatusUploaded {
			uploadedCount++
		}
		results = append(results, entry)
	}
	results = append(results, rejected...)

	c.JSON(http.StatusOK, gin.H{
		"uploaded": uploadedCount,
		"total":    len(results),
		"results":  results,
	})
}

func (h *Handler) ListPhotos(c *gin.Context) {
	records, err := h.gallery.ListAll(c.Request.Context())
	if err != nil {
		h.catalogError(c, err)
		return
	}

	sess := session.FromContext(c)
	selected := sess.Selected()

	photos := make([]gin.H, 0, len(records))
	for _, rec := range records {
		_, isSelected := selected[rec.PhotoID]
		photos = append(photos, gin.H{
			"photo_id":          rec.PhotoID,
			"url":               rec.URL,
			"description":       rec.Description,
			"original_filename": rec.OriginalFilename,
			"uploader":          rec.Uploader,
			"uploaded_at":       formatTimestamp(rec.UploadTimestamp),
			"size":              humanize.Bytes(uint64(rec.SizeBytes)),
			"selected":          isSelected,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"photos": photos,
		"count":  len(photos),
	})
}

type toggleRequest struct {
	PhotoID string `json:"photo_id" binding:"required"`
}

func (h *Handler) ToggleSelection(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo_id is required"})
		return
	}

	sess := session.FromContext(c)
	selected := sess.Toggle(req.PhotoID)

	c.JSON(http.StatusOK, gin.H{
		"photo_id": req.PhotoID,
		"selected": selected,
		"count":    sess.Count(),
	})
}

func (h *Handler) ToggleSelectAll(c *gin.Context) {
	records, err := h.gallery.ListAll(c.Request.Context())
	if err != nil {
		h.catalogError(c, err)
		return
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.PhotoID)
	}

	sess := session.FromContext(c)
	selectedAll := sess.ToggleAll(ids)

	c.JSON(http.StatusOK, gin.H{
		"selected_all": selectedAll,
		"count":        sess.Count(),
	})
}

func (h *Handler) GetSelection(c *gin.Context) {
	sess := session.FromContext(c)
	selected := sess.Selected()

	ids := make([]string, 0, len(selected))
	for id := range selected {
		ids = append(ids, id)
	}

	c.JSON(http.StatusOK, gin.H{
		"photo_ids": ids,
		"count":     len(ids),
	})
}

// DownloadArchive bundles the current selection against a fresh catalog
// snapshot and streams the zip. Per-item fetch failures become warnings, not
// a failed download; a selection with zero retrievable blobs is a 409.
func (h *Handler) DownloadArchive(c *gin.Context) {
	records, err := h.gallery.ListAll(c.Request.Context())
	if err != nil {
		h.catalogError(c, err)
		return
	}

	sess := session.FromContext(c)
	selected := sess.Selected()

	archive, err := h.archive.BuildArchive(c.Request.Context(), records, selected, func(done, total int) {
		h.log.Debug("Archive progress",
			zap.Float64("fraction", float64(done)/float64(total)),
			zap.Int("done", done),
			zap.Int("total", total))
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyArchive) {
			c.JSON(http.StatusConflict, gin.H{"error": "Nothing to download: no selected photos could be archived"})
			return
		}
		h.log.Error("Failed to build archive", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build archive"})
		return
	}

	for _, warning := range archive.Warnings {
		h.log.Warn("Archive warning", zap.String("warning", warning))
	}

	c.Header("Content-Disposition", `attachment; filename="selected_photos.zip"`)
	c.Header("X-Archive-Entries", strconv.Itoa(archive.EntryCount))
	c.Header("X-Archive-Warnings", strconv.Itoa(len(archive.Warnings)))
	c.Data(http.StatusOK, "application/zip", archive.Buffer.Bytes())
}

func (h *Handler) catalogError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrCatalogUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo catalog is unavailable"})
		return
	}
	h.log.Error("Catalog request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}

func (h *Handler) extAllowed(ext string) bool {
	for _, allowed := range h.cfg.App.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

func formatTimestamp(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}
