package bookclub

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"readinghub-backend/internal/shared/middleware"
	"readinghub-backend/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req CreateBookClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	club, err := h.service.Create(c.Request.Context(), actor, req)
	if HandleError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, club)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book club id")
		return
	}

	var req UpdateBookClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	club, err := h.service.Update(c.Request.Context(), actor, id, req)
	if HandleError(c, err) {
		return
	}
	if club == nil {
		response.NotFound(c, "book club not found")
		return
	}
	response.Success(c, http.StatusOK, club)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book club id")
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), actor, id)
	if HandleError(c, err) {
		return
	}
	if !deleted {
		response.NotFound(c, "book club not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) List(c *gin.Context) {
	var search BookClubSearch
	if err := c.ShouldBindQuery(&search); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	result, err := h.service.Get(c.Request.Context(), search)
	if HandleError(c, err) {
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

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book club id")
		return
	}

	club, err := h.service.GetByID(c.Request.Context(), id)
	if HandleError(c, err) {
		return
	}
	if club == nil {
		response.NotFound(c, "book club not found")
		return
	}
	response.Success(c, http.StatusOK, club)
}
