package models

import "time"

type Contest struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Year            int       `json:"year" db:"year"`
	EventID         *string   `json:"event_id,omitempty" db:"event_id"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`

	Event    *Event    `json:"event,omitempty" db:"-"`
	Problems []Problem `json:"problems,omitempty" db:"-"`
}

// Problem — задача контеста. Label задаёт порядок колонок в таблице результатов.
type Problem struct {
	ID        string `json:"id" db:"id"`
	ContestID string `json:"contest_id" db:"contest_id"`
	Label     string `json:"label" db:"label"`
	Name      string `json:"name" db:"name"`
}

type Verdict string

const (
	VerdictAccepted     Verdict = "AC"
	VerdictWrongAnswer  Verdict = "WA"
	VerdictTimeLimit    Verdict = "TLE"
	VerdictRuntimeError Verdict = "RE"
	VerdictMemoryLimit  Verdict = "MLE"
	VerdictCompileError Verdict = "CE"
)

func (v Verdict) IsValid() bool {
	switch v {
	case VerdictAccepted, VerdictWrongAnswer, VerdictTimeLimit,
		VerdictRuntimeError, VerdictMemoryLimit, VerdictCompileError:
		return true
	}
	return false
}

// Submission — посылка команды. Minute отсчитывается от начала контеста.
type Submission struct {
	ID        string    `json:"id" db:"id"`
	ContestID string    `json:"contest_id" db:"contest_id"`
	TeamID    string    `json:"team_id" db:"team_id"`
	ProblemID string    `json:"problem_id" db:"problem_id"`
	Minute    int       `json:"minute" db:"minute"`
	Verdict   Verdict   `json:"verdict" db:"verdict"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
