package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	catalogapp "github.com/batchtrack/backend/internal/application/catalog"
	submissionapp "github.com/batchtrack/backend/internal/application/submission"
	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/batchtrack/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// reportFormField is the multipart field carrying a batch report
const reportFormField = "report"

// BatchHandler handles batch endpoints
type BatchHandler struct {
	BaseHandler
	catalog     *catalogapp.Service
	submissions *submissionapp.Log
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(catalog *catalogapp.Service, submissions *submissionapp.Log) *BatchHandler {
	return &BatchHandler{catalog: catalog, submissions: submissions}
}

// Create godoc
// @Summary      Create a batch
// @Description  Accepts JSON, or multipart/form-data with an optional "report" file.
// @Description  Without a code one is derived from the product and package names.
// @Tags         batches
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalogapp.CreateBatchRequest true "Batch"
// @Success      201 {object} dto.Response{data=catalogapp.BatchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var req catalogapp.CreateBatchRequest

	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		if !h.bindBatchForm(c, &req) {
			return
		}
		upload, ok := h.readReport(c, false)
		if !ok {
			return
		}
		req.Report = upload
	} else if !h.bindJSON(c, &req) {
		return
	}

	batch, err := h.catalog.CreateBatch(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, batch)
}

// List godoc
// @Summary      List batches
// @Tags         batches
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query string false "Product ID"
// @Param        package_id query string false "Package ID"
// @Success      200 {object} dto.Response{data=[]catalogapp.BatchResponse}
// @Router       /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	var filter catalog.BatchFilter
	var ok bool
	if filter.ProductID, ok = h.queryID(c, "product_id"); !ok {
		return
	}
	if filter.PackageID, ok = h.queryID(c, "package_id"); !ok {
		return
	}

	batches, err := h.catalog.ListBatches(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, batches, len(batches))
}

// Get godoc
// @Summary      Get a batch
// @Tags         batches
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Batch ID"
// @Success      200 {object} dto.Response{data=catalogapp.BatchResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /batches/{id} [get]
func (h *BatchHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	batch, err := h.catalog.GetBatch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// ByCode godoc
// @Summary      Look up a batch by its code
// @Tags         batches
// @Produce      json
// @Param        code path string true "Batch code"
// @Success      200 {object} dto.Response{data=catalogapp.BatchResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /batches/by-code/{code} [get]
func (h *BatchHandler) ByCode(c *gin.Context) {
	batch, err := h.catalog.FindBatchByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// Delete godoc
// @Summary      Delete a batch with its submissions
// @Tags         batches
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Batch ID"
// @Success      200 {object} dto.Response{data=catalogapp.DeleteResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /batches/{id} [delete]
func (h *BatchHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	removed, err := h.catalog.DeleteBatch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, removed)
}

// ReplaceReport godoc
// @Summary      Replace the report of a batch
// @Tags         batches
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Batch ID"
// @Param        report formData file true "Report document (PDF, JPEG, PNG, WebP)"
// @Success      200 {object} dto.Response{data=catalogapp.BatchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /batches/{id}/report [put]
func (h *BatchHandler) ReplaceReport(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	upload, ok := h.readReport(c, true)
	if !ok {
		return
	}

	batch, err := h.catalog.ReplaceBatchReport(c.Request.Context(), id, *upload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// Submissions godoc
// @Summary      List the submissions of a batch
// @Tags         batches
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Batch ID"
// @Success      200 {object} dto.Response{data=[]submissionapp.SubmissionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /batches/{id}/submissions [get]
func (h *BatchHandler) Submissions(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.catalog.GetBatch(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	records, err := h.submissions.ListForBatch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, records, len(records))
}

// readReport reads the report file of a multipart request. A missing file
// yields nil unless required is set.
func (h *BatchHandler) readReport(c *gin.Context, required bool) (*catalogapp.ReportUpload, bool) {
	fileHeader, err := c.FormFile(reportFormField)
	if err != nil {
		if !required && errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		h.Error(c, dto.ErrCodeValidation, "A report file is required in the 'report' field")
		return nil, false
	}

	data, err := readFormFile(fileHeader)
	if err != nil {
		h.BadRequest(c, "Failed to read report file")
		return nil, false
	}
	return &catalogapp.ReportUpload{
		Data:        data,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}, true
}

// bindBatchForm fills req from multipart form fields and validates it
func (h *BatchHandler) bindBatchForm(c *gin.Context, req *catalogapp.CreateBatchRequest) bool {
	var err error
	if req.ProductID, err = uuid.Parse(c.PostForm("product_id")); err != nil {
		h.Error(c, dto.ErrCodeValidation, "Invalid product_id format")
		return false
	}
	if req.PackageID, err = uuid.Parse(c.PostForm("package_id")); err != nil {
		h.Error(c, dto.ErrCodeValidation, "Invalid package_id format")
		return false
	}
	if code, ok := c.GetPostForm("code"); ok && strings.TrimSpace(code) != "" {
		req.Code = &code
	}
	if reportURL, ok := c.GetPostForm("report_url"); ok && strings.TrimSpace(reportURL) != "" {
		req.ReportURL = &reportURL
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		h.ValidationError(c, err)
		return false
	}
	return true
}

// queryID parses an optional UUID query parameter
func (h *BatchHandler) queryID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.Error(c, dto.ErrCodeValidation, "Invalid "+key+" format")
		return nil, false
	}
	return &id, true
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
