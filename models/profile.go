package models

import "time"

// Profile — профиль участника (человек).
type Profile struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Handle       *string   `json:"handle,omitempty" db:"handle"`
	UniversityID *string   `json:"university_id,omitempty" db:"university_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	University *University `json:"university,omitempty" db:"-"`
}

// ProfileDetails is the profile page: the person plus the teams they
// appear on.
type ProfileDetails struct {
	Profile
	Teams []TeamSearchModel `json:"teams"`
}
