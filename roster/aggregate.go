package roster

import (
	"errors"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/models"
)

// ErrTeamNotFound is returned by BuildTeam when there is no team row.
var ErrTeamNotFound = errors.New("team not found")

// BuildTeam assembles the full team view from one team row, its
// memberships and its performance rows. Only a nil row is an error;
// malformed members and performances are left out.
func BuildTeam(row *models.TeamRow, memberships []models.MembershipRow, performances []models.PerformanceRow) (*models.TeamFullModel, error) {
	if row == nil {
		return nil, ErrTeamNotFound
	}

	return &models.TeamFullModel{
		ID:         row.ID,
		Name:       row.Name,
		University: universityLabel(row.University),
		Members:    AssembleRoster(row.Member1, row.Member2, row.Member3, memberships),
		Contests:   ProjectPerformances(performances),
	}, nil
}

// BuildAllTeams builds one TeamFullModel per row, in row order. The flat
// membership and performance lists are split by team id, so each entry
// equals BuildTeam called with that team's own subsets.
func BuildAllTeams(rows []models.TeamRow, memberships []models.MembershipRow, performances []models.PerformanceRow) []models.TeamFullModel {
	membersByTeam := make(map[string][]models.MembershipRow)
	for _, m := range memberships {
		membersByTeam[m.TeamID] = append(membersByTeam[m.TeamID], m)
	}
	perfByTeam := partitionPerformances(performances)

	teams := make([]models.TeamFullModel, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		team, _ := BuildTeam(row, membersByTeam[row.ID], perfByTeam[row.ID])
		teams = append(teams, *team)
	}
	return teams
}

// SearchModel projects a team row for list views; the roster is
// intentionally left empty.
func SearchModel(row models.TeamRow) models.TeamSearchModel {
	return models.TeamSearchModel{
		ID:         row.ID,
		Name:       row.Name,
		University: universityLabel(row.University),
		Members:    []models.TeamMember{},
	}
}

// universityLabel maps "no linked university" to "".
func universityLabel(u *models.UniversityRef) string {
	if u == nil {
		return ""
	}
	return u.Name
}
