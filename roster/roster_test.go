package roster

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/models"
)

func strPtr(s string) *string { return &s }

func ref(id, name string) *models.TeamMemberRef {
	return &models.TeamMemberRef{ID: strPtr(id), Name: strPtr(name)}
}

func membership(teamID, id, name string) models.MembershipRow {
	return models.MembershipRow{TeamID: teamID, Person: ref(id, name)}
}

func member(id, name string) models.TeamMember {
	return models.TeamMember{ID: id, Name: name, PersonID: id}
}

func ids(members []models.TeamMember) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.ID)
	}
	return out
}

func TestNormalizeDirectMember(t *testing.T) {
	tests := []struct {
		name string
		ref  *models.TeamMemberRef
		want *models.TeamMember
	}{
		{name: "nil ref", ref: nil, want: nil},
		{name: "missing id", ref: &models.TeamMemberRef{Name: strPtr("Alice")}, want: nil},
		{name: "missing name", ref: &models.TeamMemberRef{ID: strPtr("A")}, want: nil},
		{name: "empty id", ref: ref("", "Alice"), want: nil},
		{name: "empty name", ref: ref("A", ""), want: nil},
		{name: "complete", ref: ref("A", "Alice"), want: &models.TeamMember{ID: "A", Name: "Alice", PersonID: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDirectMember(tt.ref))
		})
	}
}

func TestAssembleRosterDeduplicatesDirectSlotAgainstMemberships(t *testing.T) {
	got := AssembleRoster(ref("A", "Alice"), nil, nil, []models.MembershipRow{
		membership("T", "A", "Alice"),
		membership("T", "B", "Bob"),
	})

	want := []models.TeamMember{member("A", "Alice"), member("B", "Bob")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AssembleRoster() mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleRosterDirectSlotPositionWins(t *testing.T) {
	got := AssembleRoster(nil, ref("B", "Bob"), ref("A", "Alice"), []models.MembershipRow{
		membership("T", "A", "Alice"),
	})
	assert.Equal(t, []string{"B", "A"}, ids(got))
}

func TestAssembleRosterSlotOrderPrecedence(t *testing.T) {
	got := AssembleRoster(nil, ref("B", "Bob"), ref("C", "Carol"), []models.MembershipRow{
		membership("T", "A", "Alice"),
	})
	assert.Equal(t, []string{"B", "C", "A"}, ids(got))
}

func TestAssembleRosterIsNotCappedByDirectSlots(t *testing.T) {
	rows := []models.MembershipRow{
		membership("T", "1", "One"),
		membership("T", "2", "Two"),
		membership("T", "3", "Three"),
		membership("T", "4", "Four"),
		membership("T", "5", "Five"),
	}

	got := AssembleRoster(nil, nil, nil, rows)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(got))
}

func TestAssembleRosterSkipsMalformedEntries(t *testing.T) {
	got := AssembleRoster(
		&models.TeamMemberRef{Name: strPtr("nameless")},
		ref("B", "Bob"),
		nil,
		[]models.MembershipRow{
			{TeamID: "T", Person: nil},
			{TeamID: "T", Person: &models.TeamMemberRef{ID: strPtr("C")}},
			membership("T", "D", "Dave"),
			membership("T", "D", "Dave"),
		},
	)
	assert.Equal(t, []string{"B", "D"}, ids(got))
}

func TestAssembleRosterSameIDInTwoSlots(t *testing.T) {
	got := AssembleRoster(ref("A", "Alice"), ref("A", "Alice"), ref("B", "Bob"), nil)
	assert.Equal(t, []string{"A", "B"}, ids(got))
}

func TestAssembleRosterEmptyIsNotNil(t *testing.T) {
	got := AssembleRoster(nil, nil, nil, nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAssembleRosterIsIdempotent(t *testing.T) {
	rows := []models.MembershipRow{membership("T", "B", "Bob"), membership("T", "A", "Alice")}
	m1 := ref("A", "Alice")

	first := AssembleRoster(m1, nil, nil, rows)
	second := AssembleRoster(m1, nil, nil, rows)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second call differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, "A", *m1.ID, "input ref must not be modified")
	assert.Len(t, rows, 2)
}

func TestProjectPerformances(t *testing.T) {
	rows := []models.PerformanceRow{
		{TeamID: "T", Position: 3, Contest: &models.ContestRef{ID: "c1", Name: "Regional", Year: 2022}},
		{TeamID: "T", Position: 1, Contest: &models.ContestRef{ID: "c2", Name: "Finals", Year: 2023}},
		{TeamID: "T", Position: 7, Contest: &models.ContestRef{ID: "c2", Name: "Finals", Year: 2023}},
	}

	got := ProjectPerformances(rows)

	want := []models.ContestPerformanceEntry{
		{Position: 3, Contest: models.ContestRef{ID: "c1", Name: "Regional", Year: 2022}},
		{Position: 1, Contest: models.ContestRef{ID: "c2", Name: "Finals", Year: 2023}},
		{Position: 7, Contest: models.ContestRef{ID: "c2", Name: "Finals", Year: 2023}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ProjectPerformances() mismatch (-want +got):\n%s", diff)
	}
}

// A performance row whose contest no longer exists is left out instead of
// failing the whole team page.
func TestProjectPerformancesOmitsDanglingContest(t *testing.T) {
	rows := []models.PerformanceRow{
		{TeamID: "T", Position: 2, Contest: nil},
		{TeamID: "T", Position: 5, Contest: &models.ContestRef{ID: "c1", Name: "Regional", Year: 2022}},
	}

	got := ProjectPerformances(rows)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Position)
}

func TestProjectAllPerformancesKeepsEmptyTeams(t *testing.T) {
	rows := []models.PerformanceRow{
		{TeamID: "T1", Position: 1, Contest: &models.ContestRef{ID: "c1", Name: "Regional", Year: 2022}},
		{TeamID: "other", Position: 9, Contest: &models.ContestRef{ID: "c1", Name: "Regional", Year: 2022}},
	}

	got := ProjectAllPerformances(rows, []string{"T1", "T2"})

	require.Len(t, got, 2)
	assert.Len(t, got["T1"], 1)
	require.Contains(t, got, "T2")
	assert.NotNil(t, got["T2"])
	assert.Empty(t, got["T2"])
}

func TestBuildTeamNotFound(t *testing.T) {
	team, err := BuildTeam(nil, nil, nil)
	assert.Nil(t, team)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestBuildTeam(t *testing.T) {
	row := &models.TeamRow{
		ID:         "T",
		Name:       "Segfault Squad",
		University: &models.UniversityRef{Name: "UFMG"},
		Member1:    ref("A", "Alice"),
		Member3:    ref("C", "Carol"),
	}
	memberships := []models.MembershipRow{membership("T", "C", "Carol"), membership("T", "B", "Bob")}
	performances := []models.PerformanceRow{
		{TeamID: "T", Position: 4, Contest: &models.ContestRef{ID: "c1", Name: "Regional", Year: 2023}},
	}

	got, err := BuildTeam(row, memberships, performances)
	require.NoError(t, err)

	want := &models.TeamFullModel{
		ID:         "T",
		Name:       "Segfault Squad",
		University: "UFMG",
		Members:    []models.TeamMember{member("A", "Alice"), member("C", "Carol"), member("B", "Bob")},
		Contests: []models.ContestPerformanceEntry{
			{Position: 4, Contest: models.ContestRef{ID: "c1", Name: "Regional", Year: 2023}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildTeam() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTeamWithoutUniversityOrPerformances(t *testing.T) {
	got, err := BuildTeam(&models.TeamRow{ID: "T", Name: "Lonely"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "", got.University)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"T","name":"Lonely","university":"","members":[],"contests":[]}`, string(raw))
}

func TestBuildAllTeamsMatchesBuildTeam(t *testing.T) {
	rows := []models.TeamRow{
		{ID: "T1", Name: "First", Member1: ref("A", "Alice")},
		{ID: "T2", Name: "Second", University: &models.UniversityRef{Name: "USP"}},
		{ID: "T3", Name: "Third", Member2: ref("B", "Bob")},
	}
	memberships := []models.MembershipRow{
		membership("T2", "X", "Xena"),
		membership("T1", "A", "Alice"),
		membership("T3", "A", "Alice"),
		membership("T1", "Y", "Yuri"),
	}
	performances := []models.PerformanceRow{
		{TeamID: "T1", Position: 2, Contest: &models.ContestRef{ID: "c1", Name: "Regional", Year: 2023}},
		{TeamID: "T3", Position: 1, Contest: &models.ContestRef{ID: "c1", Name: "Regional", Year: 2023}},
		{TeamID: "T1", Position: 5, Contest: &models.ContestRef{ID: "c2", Name: "Finals", Year: 2024}},
	}

	all := BuildAllTeams(rows, memberships, performances)
	require.Len(t, all, len(rows))

	for i, row := range rows {
		var ownMembers []models.MembershipRow
		for _, m := range memberships {
			if m.TeamID == row.ID {
				ownMembers = append(ownMembers, m)
			}
		}
		var ownPerf []models.PerformanceRow
		for _, p := range performances {
			if p.TeamID == row.ID {
				ownPerf = append(ownPerf, p)
			}
		}

		single, err := BuildTeam(&rows[i], ownMembers, ownPerf)
		require.NoError(t, err)
		if diff := cmp.Diff(*single, all[i]); diff != "" {
			t.Errorf("team %s: batch differs from single (-single +batch):\n%s", row.ID, diff)
		}
	}

	assert.Equal(t, []string{"A", "Y"}, ids(all[0].Members))
	assert.NotNil(t, all[1].Contests)
	assert.Empty(t, all[1].Contests)
}

func TestBuildAllTeamsEmpty(t *testing.T) {
	got := BuildAllTeams(nil, nil, nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchModelHasEmptyMembers(t *testing.T) {
	got := SearchModel(models.TeamRow{ID: "T", Name: "Team", Member1: ref("A", "Alice")})

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"T","name":"Team","university":"","members":[]}`, string(raw))
}
