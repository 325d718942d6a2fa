package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"filedrop/config"
	"filedrop/middleware"
	"filedrop/models"
	"filedrop/registry"
	"filedrop/storage"
)

// Handler serves the file API. Registry and store are constructed at startup
// and passed in; there is no package-level state.
type Handler struct {
	registry *registry.Registry
	store    *storage.BlobStore
	log      *slog.Logger
}

func New(reg *registry.Registry, store *storage.BlobStore, log *slog.Logger) *Handler {
	return &Handler{registry: reg, store: store, log: log}
}

// fileJSON is a file record decorated with its retrieval URL.
type fileJSON struct {
	models.File
	URL string `json:"url"`
}

func blobURL(storedName string) string {
	return "/uploads/" + storedName
}

// ListFiles handles GET /api/files.
func (h *Handler) ListFiles(c *gin.Context) {
	files, err := h.registry.List()
	if err != nil {
		h.log.Error("failed to list files", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch files"})
		return
	}

	// Empty list serializes as [], never null.
	response := make([]fileJSON, 0, len(files))
	for _, f := range files {
		response = append(response, fileJSON{File: f, URL: blobURL(f.StoredName)})
	}
	c.JSON(http.StatusOK, response)
}

// UploadFile handles POST /api/upload. The blob is written before the
// metadata row: a failed insert leaves an orphaned blob (sweepable later),
// never a row pointing at bytes that don't exist.
func (h *Handler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		middleware.UploadsTotal.WithLabelValues("error").Inc()
		h.log.Error("failed to open uploaded file", "name", fileHeader.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer src.Close()

	storedName := storage.NewStoredName(fileHeader.Filename)

	size, err := h.store.Put(storedName, src)
	if err != nil {
		middleware.UploadsTotal.WithLabelValues("error").Inc()
		h.log.Error("failed to store blob", "storedName", storedName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	rec, err := h.registry.Create(fileHeader.Filename, storedName, fileHeader.Header.Get("Content-Type"), size)
	if err != nil {
		middleware.UploadsTotal.WithLabelValues("error").Inc()
		// The blob is now orphaned; leave it for a reconciliation sweep.
		h.log.Error("metadata insert failed after blob write, blob orphaned",
			"storedName", storedName, "name", fileHeader.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file information"})
		return
	}

	middleware.UploadsTotal.WithLabelValues("ok").Inc()
	middleware.UploadedBytes.Add(float64(size))
	h.log.Info("file uploaded",
		"id", rec.ID, "name", rec.Name, "storedName", rec.StoredName,
		"size", humanize.Bytes(uint64(size)))

	c.JSON(http.StatusCreated, fileJSON{File: *rec, URL: blobURL(rec.StoredName)})
}

// DeleteFile handles DELETE /api/files/:id. Blob removal is best-effort: a
// failed unlink is logged but never blocks the row delete, since a leaked
// blob can be swept later while a lost row strands its blob forever.
func (h *Handler) DeleteFile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	storedName, err := h.registry.GetStoredName(uint(id))
	if errors.Is(err, registry.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	if err != nil {
		middleware.DeletesTotal.WithLabelValues("error").Inc()
		h.log.Error("failed to look up file", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	if err := h.store.Delete(storedName); err != nil {
		h.log.Warn("failed to delete blob, leaving orphan", "id", id, "storedName", storedName, "error", err)
	}

	if err := h.registry.Delete(uint(id)); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			// Row vanished between lookup and delete.
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		middleware.DeletesTotal.WithLabelValues("error").Inc()
		h.log.Error("failed to delete file record", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	middleware.DeletesTotal.WithLabelValues("ok").Inc()
	h.log.Info("file deleted", "id", id, "storedName", storedName)
	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

// ServeBlob handles GET /uploads/:name, streaming raw blob bytes. Keys are
// always a single path segment; anything else is treated as absent.
func (h *Handler) ServeBlob(c *gin.Context) {
	name := c.Param("name")
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	path := h.store.Path(name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.File(path)
}

// Health handles GET /api/health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "filedrop",
		"version":   config.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
