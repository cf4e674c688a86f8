package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notekeep/backend/internal/model"
)

type CategoryService interface {
	Create(ctx context.Context, callerID int64, input model.CategoryRequest) (*model.Category, error)
	List(ctx context.Context, callerID int64, rawPage, rawPerPage *int) (*model.Page[model.Category], error)
}

type CategoryHandler struct {
	svc CategoryService
}

func NewCategoryHandler(svc CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// ListCategories godoc
// @Summary List the caller's categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Page size (default 15, max 100)"
// @Success 200 {object} model.PageResponse[model.Category]
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var q model.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeQueryError(c)
		return
	}

	page, err := h.svc.List(c.Request.Context(), callerID(c), q.Page, q.PerPage)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewPageResponse(*page))
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CategoryRequest true "Category label"
// @Success 201 {object} model.DataResponse[model.Category]
// @Failure 401 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	category, err := h.svc.Create(c.Request.Context(), callerID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.DataResponse[model.Category]{Data: *category})
}
