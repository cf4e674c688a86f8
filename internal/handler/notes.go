package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notekeep/backend/internal/model"
)

type NoteService interface {
	Create(ctx context.Context, callerID int64, input model.NoteRequest) (*model.Note, error)
	List(ctx context.Context, callerID int64, rawPage, rawPerPage *int) (*model.Page[model.Note], error)
	Get(ctx context.Context, callerID, noteID int64) (*model.Note, error)
	Update(ctx context.Context, callerID, noteID int64, input model.NoteRequest) (*model.Note, error)
	Delete(ctx context.Context, callerID, noteID int64) error
}

type NoteHandler struct {
	svc NoteService
}

func NewNoteHandler(svc NoteService) *NoteHandler {
	return &NoteHandler{svc: svc}
}

// ListNotes godoc
// @Summary List the caller's notes
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Page size (default 15, max 100)"
// @Success 200 {object} model.PageResponse[model.Note]
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
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

// CreateNote godoc
// @Summary Create a note
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.NoteRequest true "Note body"
// @Success 201 {object} model.DataResponse[model.Note]
// @Failure 401 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Router /api/v1/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	var req model.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	note, err := h.svc.Create(c.Request.Context(), callerID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.DataResponse[model.Note]{Data: *note})
}

// GetNote godoc
// @Summary Get one of the caller's notes
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Note ID"
// @Success 200 {object} model.DataResponse[model.Note]
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Message: msgNotFound})
		return
	}

	note, err := h.svc.Get(c.Request.Context(), callerID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DataResponse[model.Note]{Data: *note})
}

// UpdateNote godoc
// @Summary Replace a note's body
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Note ID"
// @Param request body model.NoteRequest true "New body"
// @Success 200 {object} model.DataResponse[model.Note]
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Router /api/v1/notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Message: msgNotFound})
		return
	}

	var req model.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	note, err := h.svc.Update(c.Request.Context(), callerID(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DataResponse[model.Note]{Data: *note})
}

// DeleteNote godoc
// @Summary Delete a note
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Note ID"
// @Success 200 {object} model.MessageResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Message: msgNotFound})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), callerID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: msgNoteDeleted})
}

// callerID is 0 when no identity is set; services reject that as unauthenticated.
func callerID(c *gin.Context) int64 {
	if identity := GetIdentity(c); identity != nil {
		return identity.UserID
	}
	return 0
}
