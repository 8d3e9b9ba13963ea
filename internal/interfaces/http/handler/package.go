package handler

import (
	catalogapp "github.com/batchtrack/backend/internal/application/catalog"
	"github.com/batchtrack/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PackageHandler handles package endpoints
type PackageHandler struct {
	BaseHandler
	catalog *catalogapp.Service
}

// NewPackageHandler creates a new package handler
func NewPackageHandler(catalog *catalogapp.Service) *PackageHandler {
	return &PackageHandler{catalog: catalog}
}

// Create godoc
// @Summary      Create a package size for a product
// @Tags         packages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalogapp.CreatePackageRequest true "Package"
// @Success      201 {object} dto.Response{data=catalogapp.PackageResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /packages [post]
func (h *PackageHandler) Create(c *gin.Context) {
	var req catalogapp.CreatePackageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	pkg, err := h.catalog.CreatePackage(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, pkg)
}

// List godoc
// @Summary      List packages, optionally of one product
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query string false "Product ID"
// @Success      200 {object} dto.Response{data=[]catalogapp.PackageResponse}
// @Router       /packages [get]
func (h *PackageHandler) List(c *gin.Context) {
	var productID *uuid.UUID
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.Error(c, dto.ErrCodeValidation, "Invalid product_id format")
			return
		}
		productID = &id
	}

	packages, err := h.catalog.ListPackages(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, packages, len(packages))
}

// Get godoc
// @Summary      Get a package
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Package ID"
// @Success      200 {object} dto.Response{data=catalogapp.PackageResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /packages/{id} [get]
func (h *PackageHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	pkg, err := h.catalog.GetPackage(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pkg)
}

// Update godoc
// @Summary      Rename a package
// @Tags         packages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Package ID"
// @Param        request body catalogapp.UpdatePackageRequest true "New name"
// @Success      200 {object} dto.Response{data=catalogapp.PackageResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /packages/{id} [put]
func (h *PackageHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdatePackageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	pkg, err := h.catalog.UpdatePackage(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pkg)
}

// Delete godoc
// @Summary      Delete a package with its batches and submissions
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Package ID"
// @Success      200 {object} dto.Response{data=catalogapp.DeleteResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /packages/{id} [delete]
func (h *PackageHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	removed, err := h.catalog.DeletePackage(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, removed)
}
