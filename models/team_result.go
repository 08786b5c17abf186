package models

// ContestRef is the contest embedded in a performance row.
type ContestRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Year int    `json:"year"`
}

// PerformanceRow — строка team_results с присоединённым контестом.
// Contest is nil when the foreign key dangles.
type PerformanceRow struct {
	TeamID   string
	Position int
	Contest  *ContestRef
}

type ContestPerformanceEntry struct {
	Position int        `json:"position"`
	Contest  ContestRef `json:"contest"`
}

// ContestResult is one line of a contest's final standings.
type ContestResult struct {
	TeamID     string `json:"team_id" db:"team_id"`
	TeamName   string `json:"team_name" db:"-"`
	University string `json:"university" db:"-"`
	ContestID  string `json:"contest_id" db:"contest_id"`
	Position   int    `json:"position" db:"position"`
}
