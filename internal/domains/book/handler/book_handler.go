package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"readinghub-backend/internal/domains/book/model"
	"readinghub-backend/internal/domains/book/service"
	"readinghub-backend/internal/shared/middleware"
	"readinghub-backend/internal/shared/response"
)

// BookHandler is the thin HTTP layer over the book service. It binds and
// validates DTOs, extracts the explicit auth context, and translates
// service errors; all rules live in the service.
type BookHandler struct {
	service service.ServiceInterface
}

func NewBookHandler(service service.ServiceInterface) *BookHandler {
	return &BookHandler{service: service}
}

func (h *BookHandler) Create(c *gin.Context) {
	actor, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	book, err := h.service.Create(c.Request.Context(), actor, req)
	if model.HandleBookError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, book)
}

func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	book, err := h.service.Update(c.Request.Context(), id, req)
	if model.HandleBookError(c, err) {
		return
	}
	if book == nil {
		response.NotFound(c, "book not found")
		return
	}
	response.Success(c, http.StatusOK, book)
}

func (h *BookHandler) Accept(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	book, err := h.service.Accept(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}
	if book == nil {
		response.NotFound(c, "book not found")
		return
	}
	response.Success(c, http.StatusOK, book)
}

func (h *BookHandler) Decline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	book, err := h.service.Decline(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}
	if book == nil {
		response.NotFound(c, "book not found")
		return
	}
	response.Success(c, http.StatusOK, book)
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}
	if !deleted {
		response.NotFound(c, "book not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookHandler) List(c *gin.Context) {
	var search model.BookSearch
	if err := c.ShouldBindQuery(&search); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	result, err := h.service.Get(c.Request.Context(), search)
	if model.HandleBookError(c, err) {
		return
	}

	var meta *response.Meta
	if result.TotalCount != nil {
		meta = &response.Meta{
			Page:  search.Page,
			Limit: search.PageSize,
			Total: *result.TotalCount,
		}
	}
	response.SuccessWithMeta(c, http.StatusOK, result.Items, meta)
}

func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}
	if book == nil {
		response.NotFound(c, "book not found")
		return
	}
	response.Success(c, http.StatusOK, book)
}
