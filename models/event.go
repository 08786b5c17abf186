package models

import "time"

// Event — соревнование (например, региональный финал), объединяющее контесты.
type Event struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Year        int       `json:"year" db:"year"`
	Location    *string   `json:"location,omitempty" db:"location"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

type EventDetails struct {
	Event
	Contests []Contest `json:"contests"`
}
