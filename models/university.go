package models

import "time"

type University struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Acronym   *string   `json:"acronym,omitempty" db:"acronym"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

// UniversityDetails — страница университета.
type UniversityDetails struct {
	University
	Teams    []TeamSearchModel `json:"teams"`
	Profiles []Profile         `json:"profiles"`
}
