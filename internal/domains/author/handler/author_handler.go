package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"readinghub-backend/internal/domains/author/model"
	"readinghub-backend/internal/domains/author/service"
	"readinghub-backend/internal/shared/middleware"
	"readinghub-backend/internal/shared/response"
)

type AuthorHandler struct {
	service service.ServiceInterface
}

func NewAuthorHandler(service service.ServiceInterface) *AuthorHandler {
	return &AuthorHandler{service: service}
}

func (h *AuthorHandler) Create(c *gin.Context) {
	actor, ok := middleware.AuthFromContext(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	author, err := h.service.Create(c.Request.Context(), actor, req)
	if model.HandleAuthorError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, author)
}

func (h *AuthorHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid author id")
		return
	}

	var req model.UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	author, err := h.service.Update(c.Request.Context(), id, req)
	if model.HandleAuthorError(c, err) {
		return
	}
	if author == nil {
		response.NotFound(c, "author not found")
		return
	}
	response.Success(c, http.StatusOK, author)
}

func (h *AuthorHandler) Accept(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid author id")
		return
	}

	author, err := h.service.Accept(c.Request.Context(), id)
	if model.HandleAuthorError(c, err) {
		return
	}
	if author == nil {
		response.NotFound(c, "author not found")
		return
	}
	response.Success(c, http.StatusOK, author)
}

func (h *AuthorHandler) Decline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid author id")
		return
	}

	author, err := h.service.Decline(c.Request.Context(), id)
	if model.HandleAuthorError(c, err) {
		return
	}
	if author == nil {
		response.NotFound(c, "author not found")
		return
	}
	response.Success(c, http.StatusOK, author)
}

func (h *AuthorHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid author id")
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), id)
	if model.HandleAuthorError(c, err) {
		return
	}
	if !deleted {
		response.NotFound(c, "author not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthorHandler) List(c *gin.Context) {
	var search model.AuthorSearch
	if err := c.ShouldBindQuery(&search); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	result, err := h.service.Get(c.Request.Context(), search)
	if model.HandleAuthorError(c, err) {
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

func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid author id")
		return
	}

	author, err := h.service.GetByID(c.Request.Context(), id)
	if model.HandleAuthorError(c, err) {
		return
	}
	if author == nil {
		response.NotFound(c, "author not found")
		return
	}
	response.Success(c, http.StatusOK, author)
}
