// Package country is the lookup table for author countries.
package country

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"readinghub-backend/internal/shared/response"
	"readinghub-backend/pkg/crud"
	"readinghub-backend/pkg/logger"
)

type Country struct {
	ID        uuid.UUID
	Name      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateCountryRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (r CreateCountryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.Code,
			validation.Required.Error("code is required"),
			validation.Length(2, 2),
			is.UpperCase.Error("code must be an uppercase ISO 3166-1 alpha-2 code"),
		),
	)
}

type UpdateCountryRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (r UpdateCountryRequest) Validate() error {
	return CreateCountryRequest(r).Validate()
}

type CountrySearch struct {
	crud.SearchOptions
	Name string `form:"name"`
	Code string `form:"code"`
}

type CountryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(c *Country) CountryResponse {
	return CountryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Code:      c.Code,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

var ErrDuplicateCountry = errors.New("a country with this name or code already exists")

func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrDuplicateCountry) {
		response.Conflict(c, err.Error())
		return true
	}
	logger.Error("country operation failed", err)
	response.InternalServerError(c, "internal server error")
	return true
}
