package country

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"readinghub-backend/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	country, err := h.service.Create(c.Request.Context(), req)
	if HandleError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, country)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid country id")
		return
	}

	var req UpdateCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	country, err := h.service.Update(c.Request.Context(), id, req)
	if HandleError(c, err) {
		return
	}
	if country == nil {
		response.NotFound(c, "country not found")
		return
	}
	response.Success(c, http.StatusOK, country)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid country id")
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), id)
	if HandleError(c, err) {
		return
	}
	if !deleted {
		response.NotFound(c, "country not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) List(c *gin.Context) {
	var search CountrySearch
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
		response.BadRequest(c, "invalid country id")
		return
	}

	country, err := h.service.GetByID(c.Request.Context(), id)
	if HandleError(c, err) {
		return
	}
	if country == nil {
		response.NotFound(c, "country not found")
		return
	}
	response.Success(c, http.StatusOK, country)
}
