package model

import (
	"time"

	"github.com/google/uuid"

	"readinghub-backend/internal/domains/moderation"
)

// Author is a user-submitted catalog entry. Its natural key is
// (name, date_of_birth): unique across all authors regardless of moderation
// state, name compared case-insensitively with whitespace trimmed.
type Author struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	DateOfBirth time.Time        `json:"date_of_birth" db:"date_of_birth"`
	Biography   *string          `json:"biography" db:"biography"`
	CountryID   *uuid.UUID       `json:"country_id" db:"country_id"`
	PhotoURL    *string          `json:"photo_url" db:"photo_url"`
	State       moderation.State `json:"state" db:"state"`
	CreatedBy   uuid.UUID        `json:"created_by" db:"created_by"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

func (a *Author) EntityName() string { return "author" }

func (a *Author) ModerationState() moderation.State { return a.State }

func (a *Author) SetModerationState(s moderation.State) { a.State = s }

func (a *Author) Touch(now time.Time) { a.UpdatedAt = now }
