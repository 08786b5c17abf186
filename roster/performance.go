package roster

import "github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/models"

// ProjectPerformances maps performance rows to entries, keeping input
// order. Rows without an embedded contest (dangling foreign key) are
// omitted, the same way malformed roster entries are. Duplicate contests
// are passed through.
func ProjectPerformances(rows []models.PerformanceRow) []models.ContestPerformanceEntry {
	entries := make([]models.ContestPerformanceEntry, 0, len(rows))
	for _, row := range rows {
		if row.Contest == nil {
			continue
		}
		entries = append(entries, models.ContestPerformanceEntry{
			Position: row.Position,
			Contest:  *row.Contest,
		})
	}
	return entries
}

// ProjectAllPerformances partitions rows by team id and projects each
// partition. Every id in teamIDs is present in the result; teams without
// rows get an empty slice. Rows for teams not listed are ignored.
func ProjectAllPerformances(rows []models.PerformanceRow, teamIDs []string) map[string][]models.ContestPerformanceEntry {
	byTeam := partitionPerformances(rows)

	result := make(map[string][]models.ContestPerformanceEntry, len(teamIDs))
	for _, id := range teamIDs {
		result[id] = ProjectPerformances(byTeam[id])
	}
	return result
}

func partitionPerformances(rows []models.PerformanceRow) map[string][]models.PerformanceRow {
	byTeam := make(map[string][]models.PerformanceRow)
	for _, row := range rows {
		byTeam[row.TeamID] = append(byTeam[row.TeamID], row)
	}
	return byTeam
}
