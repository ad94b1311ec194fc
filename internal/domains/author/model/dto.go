package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"readinghub-backend/pkg/crud"
)

// DateLayout is the wire format for dates of birth.
const DateLayout = "2006-01-02"

type CreateAuthorRequest struct {
	Name        string     `json:"name"`
	DateOfBirth string     `json:"date_of_birth"`
	Biography   *string    `json:"biography,omitempty"`
	CountryID   *uuid.UUID `json:"country_id,omitempty"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.DateOfBirth,
			validation.Required.Error("date_of_birth is required"),
			validation.Date(DateLayout).Error("date_of_birth must be YYYY-MM-DD"),
		),
	)
}

// UpdateAuthorRequest carries an edit. CreatedBy is accepted on the wire but
// never applied: the creator is write-once.
type UpdateAuthorRequest struct {
	Name        string     `json:"name"`
	DateOfBirth string     `json:"date_of_birth"`
	Biography   *string    `json:"biography,omitempty"`
	CountryID   *uuid.UUID `json:"country_id,omitempty"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.DateOfBirth,
			validation.Required.Error("date_of_birth is required"),
			validation.Date(DateLayout).Error("date_of_birth must be YYYY-MM-DD"),
		),
	)
}

// ParseDateOfBirth converts the wire date into the entity form.
func ParseDateOfBirth(raw string) (time.Time, error) {
	return time.Parse(DateLayout, raw)
}

type AuthorSearch struct {
	crud.SearchOptions
	Name      string     `form:"name"`
	State     string     `form:"state"`
	CountryID *uuid.UUID `form:"country_id"`
	CreatedBy *uuid.UUID `form:"created_by"`
}

type AuthorResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	DateOfBirth string     `json:"date_of_birth"`
	Biography   *string    `json:"biography,omitempty"`
	CountryID   *uuid.UUID `json:"country_id,omitempty"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	AuthorState string     `json:"author_state"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func ToAuthorResponse(a *Author) AuthorResponse {
	return AuthorResponse{
		ID:          a.ID,
		Name:        a.Name,
		DateOfBirth: a.DateOfBirth.Format(DateLayout),
		Biography:   a.Biography,
		CountryID:   a.CountryID,
		PhotoURL:    a.PhotoURL,
		AuthorState: a.State.String(),
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
