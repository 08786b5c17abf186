// Package scoreboard строит таблицу результатов контеста по правилам ICPC
// и рассылает её обновления подписчикам по WebSocket.
package scoreboard

import (
	"sort"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/models"
)

// PenaltyPerRejection is added to a solved problem's time for every
// rejected attempt before the accepted one.
const PenaltyPerRejection = 20

// Team is a scoreboard participant.
type Team struct {
	ID         string
	Name       string
	University string
}

// Cell is one (team, problem) intersection of the grid.
type Cell struct {
	ProblemID    string `json:"problem_id"`
	Label        string `json:"label"`
	Attempts     int    `json:"attempts"`
	Solved       bool   `json:"solved"`
	SolvedAt     *int   `json:"solved_at,omitempty"`
	Penalty      int    `json:"penalty"`
	FirstToSolve bool   `json:"first_to_solve"`
}

type Row struct {
	Rank       int    `json:"rank"`
	TeamID     string `json:"team_id"`
	TeamName   string `json:"team_name"`
	University string `json:"university"`
	Solved     int    `json:"solved"`
	Penalty    int    `json:"penalty"`
	LastSolved int    `json:"last_solved"`
	Cells      []Cell `json:"cells"`
}

type ProblemColumn struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Name   string `json:"name"`
	Solved int    `json:"solved"`
	Tried  int    `json:"tried"`
}

// Board is the rendered scoreboard of one contest.
type Board struct {
	ContestID string          `json:"contest_id"`
	Problems  []ProblemColumn `json:"problems"`
	Rows      []Row           `json:"rows"`
}

// Build joins teams, problems and submissions into a ranked grid.
// Submissions referencing unknown teams or problems are ignored, as are
// submissions made after a team's first accepted one on that problem.
// Compile errors do not count as attempts.
func Build(contestID string, teams []Team, problems []models.Problem, submissions []models.Submission) Board {
	probs := make([]models.Problem, len(problems))
	copy(probs, problems)
	sort.SliceStable(probs, func(i, j int) bool { return probs[i].Label < probs[j].Label })

	column := make(map[string]int, len(probs))
	board := Board{
		ContestID: contestID,
		Problems:  make([]ProblemColumn, len(probs)),
		Rows:      make([]Row, 0, len(teams)),
	}
	for i, p := range probs {
		column[p.ID] = i
		board.Problems[i] = ProblemColumn{ID: p.ID, Label: p.Label, Name: p.Name}
	}

	rowIdx := make(map[string]int, len(teams))
	for _, t := range teams {
		if _, dup := rowIdx[t.ID]; dup {
			continue
		}
		cells := make([]Cell, len(probs))
		for i, p := range probs {
			cells[i] = Cell{ProblemID: p.ID, Label: p.Label}
		}
		rowIdx[t.ID] = len(board.Rows)
		board.Rows = append(board.Rows, Row{
			TeamID:     t.ID,
			TeamName:   t.Name,
			University: t.University,
			Cells:      cells,
		})
	}

	subs := make([]models.Submission, len(submissions))
	copy(subs, submissions)
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].Minute < subs[j].Minute })

	firstSolve := make(map[string]int, len(probs)) // problem -> минута первого AC
	for _, s := range subs {
		r, okTeam := rowIdx[s.TeamID]
		c, okProb := column[s.ProblemID]
		if !okTeam || !okProb {
			continue
		}
		cell := &board.Rows[r].Cells[c]
		if cell.Solved || s.Verdict == models.VerdictCompileError {
			continue
		}
		cell.Attempts++
		if s.Verdict != models.VerdictAccepted {
			continue
		}
		minute := s.Minute
		cell.Solved = true
		cell.SolvedAt = &minute
		cell.Penalty = minute + PenaltyPerRejection*(cell.Attempts-1)
		if first, ok := firstSolve[s.ProblemID]; !ok || minute < first {
			firstSolve[s.ProblemID] = minute
		}
	}

	for r := range board.Rows {
		row := &board.Rows[r]
		for c := range row.Cells {
			cell := &row.Cells[c]
			if cell.Attempts > 0 {
				board.Problems[c].Tried++
			}
			if !cell.Solved {
				continue
			}
			board.Problems[c].Solved++
			row.Solved++
			row.Penalty += cell.Penalty
			if *cell.SolvedAt > row.LastSolved {
				row.LastSolved = *cell.SolvedAt
			}
			cell.FirstToSolve = *cell.SolvedAt == firstSolve[cell.ProblemID]
		}
	}

	rank(board.Rows)
	return board
}

// rank sorts rows and assigns competition ranks ("1, 2, 2, 4").
func rank(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Solved != b.Solved {
			return a.Solved > b.Solved
		}
		if a.Penalty != b.Penalty {
			return a.Penalty < b.Penalty
		}
		if a.LastSolved != b.LastSolved {
			return a.LastSolved < b.LastSolved
		}
		return a.TeamName < b.TeamName
	})

	for i := range rows {
		if i > 0 && tied(rows[i-1], rows[i]) {
			rows[i].Rank = rows[i-1].Rank
			continue
		}
		rows[i].Rank = i + 1
	}
}

func tied(a, b Row) bool {
	return a.Solved == b.Solved && a.Penalty == b.Penalty && a.LastSolved == b.LastSolved
}
