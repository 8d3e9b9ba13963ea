package handler

import (
	"net/http"
	"strings"

	"github.com/batchtrack/backend/internal/infrastructure/storage"
	"github.com/batchtrack/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves reports kept by the in-memory blob store.
// It is only mounted when object storage is disabled.
type ReportHandler struct {
	BaseHandler
	store *storage.MemoryBlobStore
}

// NewReportHandler creates a new report handler
func NewReportHandler(store *storage.MemoryBlobStore) *ReportHandler {
	return &ReportHandler{store: store}
}

// Get streams the stored report under the *key wildcard
func (h *ReportHandler) Get(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	obj, ok := h.store.Get(key)
	if !ok {
		h.Error(c, dto.ErrCodeNotFound, "Report not found")
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}
