package models

import "time"

// Team — строка таблицы teams в том виде, в котором её редактирует админка.
type Team struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	UniversityID *string   `json:"university_id,omitempty" db:"university_id"`
	Member1ID    *string   `json:"member1_id,omitempty" db:"member1_id"`
	Member2ID    *string   `json:"member2_id,omitempty" db:"member2_id"`
	Member3ID    *string   `json:"member3_id,omitempty" db:"member3_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// TeamFullModel — собранное представление команды для страницы команды.
//
// University is "" when the team has no linked university. Existing
// consumers rely on the empty string, so the optional value carried by
// TeamRow is flattened only here.
type TeamFullModel struct {
	ID         string                    `json:"id"`
	Name       string                    `json:"name"`
	University string                    `json:"university"`
	Members    []TeamMember              `json:"members"`
	Contests   []ContestPerformanceEntry `json:"contests"`
}

// TeamSearchModel is the list-view projection. Members is always an
// empty slice, never nil.
type TeamSearchModel struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	University string       `json:"university"`
	Members    []TeamMember `json:"members"`
}
