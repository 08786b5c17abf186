package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/models"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/repositories"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

// fakeTeamRepo хранит заранее подготовленные строки так, как их вернул бы JOIN.
type fakeTeamRepo struct {
	mu           sync.Mutex
	rows         map[string]models.TeamRow
	order        []string
	memberships  []models.MembershipRow
	performances []models.PerformanceRow
	teams        map[string]*models.Team
	byPerson     map[string][]models.TeamRow
	byUniversity map[string][]models.TeamRow
	createErr    error
	listErr      error
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		rows:         map[string]models.TeamRow{},
		teams:        map[string]*models.Team{},
		byPerson:     map[string][]models.TeamRow{},
		byUniversity: map[string][]models.TeamRow{},
	}
}

func (f *fakeTeamRepo) addRow(r models.TeamRow) {
	f.rows[r.ID] = r
	f.order = append(f.order, r.ID)
}

func (f *fakeTeamRepo) GetRow(_ context.Context, id string) (*models.TeamRow, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return &r, nil
}

func (f *fakeTeamRepo) ListRows(_ context.Context, _ string, limit int) ([]models.TeamRow, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	rows := make([]models.TeamRow, 0)
	for _, id := range f.order {
		if len(rows) == limit {
			break
		}
		rows = append(rows, f.rows[id])
	}
	return rows, nil
}

func (f *fakeTeamRepo) ListRowsByPerson(_ context.Context, personID string) ([]models.TeamRow, error) {
	return f.byPerson[personID], nil
}

func (f *fakeTeamRepo) ListRowsByUniversity(_ context.Context, universityID string) ([]models.TeamRow, error) {
	return f.byUniversity[universityID], nil
}

func (f *fakeTeamRepo) ListRowsByIDs(_ context.Context, ids []string) ([]models.TeamRow, error) {
	rows := make([]models.TeamRow, 0, len(ids))
	for _, id := range ids {
		if r, ok := f.rows[id]; ok {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func (f *fakeTeamRepo) ListMemberships(_ context.Context, teamID string) ([]models.MembershipRow, error) {
	return f.ListMembershipsByTeams(context.Background(), []string{teamID})
}

func (f *fakeTeamRepo) ListMembershipsByTeams(_ context.Context, teamIDs []string) ([]models.MembershipRow, error) {
	want := toSet(teamIDs)
	out := make([]models.MembershipRow, 0)
	for _, m := range f.memberships {
		if want[m.TeamID] {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) ListPerformances(_ context.Context, teamID string) ([]models.PerformanceRow, error) {
	return f.ListPerformancesByTeams(context.Background(), []string{teamID})
}

func (f *fakeTeamRepo) ListPerformancesByTeams(_ context.Context, teamIDs []string) ([]models.PerformanceRow, error) {
	want := toSet(teamIDs)
	out := make([]models.PerformanceRow, 0)
	for _, p := range f.performances {
		if want[p.TeamID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id string) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	team.ID = uuid.NewString()
	cp := *team
	f.teams[team.ID] = &cp
	return nil
}

func (f *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	cp := *team
	f.teams[team.ID] = &cp
	return nil
}

func (f *fakeTeamRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(f.teams, id)
	return nil
}

func (f *fakeTeamRepo) AddMembership(_ context.Context, teamID, personID string) error {
	if _, ok := f.rows[teamID]; !ok {
		return repositories.ErrTeamNotFound
	}
	f.memberships = append(f.memberships, models.MembershipRow{
		TeamID: teamID,
		Person: &models.TeamMemberRef{ID: strPtr(personID)},
	})
	return nil
}

func (f *fakeTeamRepo) RemoveMembership(_ context.Context, teamID, personID string) error {
	for i, m := range f.memberships {
		if m.TeamID == teamID && m.Person != nil && m.Person.ID != nil && *m.Person.ID == personID {
			f.memberships = append(f.memberships[:i], f.memberships[i+1:]...)
			return nil
		}
	}
	return repositories.ErrMembershipNotFound
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

type fakeProfileRepo struct {
	profiles     map[string]models.Profile
	byUniversity map[string][]models.Profile
	createErr    error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles:     map[string]models.Profile{},
		byUniversity: map[string][]models.Profile{},
	}
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return &p, nil
}

func (f *fakeProfileRepo) Search(_ context.Context, _ string, limit int) ([]models.Profile, error) {
	out := make([]models.Profile, 0)
	for _, p := range f.profiles {
		if len(out) == limit {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProfileRepo) ListByUniversity(_ context.Context, universityID string) ([]models.Profile, error) {
	return f.byUniversity[universityID], nil
}

func (f *fakeProfileRepo) Create(_ context.Context, p *models.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	p.ID = uuid.NewString()
	f.profiles[p.ID] = *p
	return nil
}

func (f *fakeProfileRepo) Update(_ context.Context, p *models.Profile) error {
	if _, ok := f.profiles[p.ID]; !ok {
		return repositories.ErrProfileNotFound
	}
	f.profiles[p.ID] = *p
	return nil
}

func (f *fakeProfileRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.profiles[id]; !ok {
		return repositories.ErrProfileNotFound
	}
	delete(f.profiles, id)
	return nil
}

type fakeUniversityRepo struct {
	universities map[string]models.University
}

func newFakeUniversityRepo() *fakeUniversityRepo {
	return &fakeUniversityRepo{universities: map[string]models.University{}}
}

func (f *fakeUniversityRepo) GetByID(_ context.Context, id string) (*models.University, error) {
	u, ok := f.universities[id]
	if !ok {
		return nil, repositories.ErrUniversityNotFound
	}
	return &u, nil
}

func (f *fakeUniversityRepo) Search(_ context.Context, _ string, _ int) ([]models.University, error) {
	out := make([]models.University, 0, len(f.universities))
	for _, u := range f.universities {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUniversityRepo) Create(_ context.Context, u *models.University) error {
	for _, existing := range f.universities {
		if existing.Name == u.Name {
			return repositories.ErrUniversityNameConflict
		}
	}
	u.ID = uuid.NewString()
	f.universities[u.ID] = *u
	return nil
}

func (f *fakeUniversityRepo) Update(_ context.Context, u *models.University) error {
	if _, ok := f.universities[u.ID]; !ok {
		return repositories.ErrUniversityNotFound
	}
	f.universities[u.ID] = *u
	return nil
}

func (f *fakeUniversityRepo) UpdateLogoKey(_ context.Context, id string, key *string) error {
	u, ok := f.universities[id]
	if !ok {
		return repositories.ErrUniversityNotFound
	}
	u.LogoKey = key
	f.universities[id] = u
	return nil
}

func (f *fakeUniversityRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.universities[id]; !ok {
		return repositories.ErrUniversityNotFound
	}
	delete(f.universities, id)
	return nil
}

type fakeEventRepo struct {
	events map[string]models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[string]models.Event{}}
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	return &e, nil
}

func (f *fakeEventRepo) Search(_ context.Context, _ string, _ int) ([]models.Event, error) {
	out := make([]models.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventRepo) Create(_ context.Context, e *models.Event) error {
	e.ID = uuid.NewString()
	f.events[e.ID] = *e
	return nil
}

func (f *fakeEventRepo) Update(_ context.Context, e *models.Event) error {
	if _, ok := f.events[e.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	f.events[e.ID] = *e
	return nil
}

func (f *fakeEventRepo) UpdateLogoKey(_ context.Context, id string, key *string) error {
	e, ok := f.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	e.LogoKey = key
	f.events[id] = e
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

type fakeContestRepo struct {
	contests map[string]models.Contest
	results  []models.ContestResult
	teamIDs  map[string][]string
}

func newFakeContestRepo() *fakeContestRepo {
	return &fakeContestRepo{
		contests: map[string]models.Contest{},
		teamIDs:  map[string][]string{},
	}
}

func (f *fakeContestRepo) GetByID(_ context.Context, id string) (*models.Contest, error) {
	c, ok := f.contests[id]
	if !ok {
		return nil, repositories.ErrContestNotFound
	}
	return &c, nil
}

func (f *fakeContestRepo) Search(_ context.Context, _ string, year *int, _ int) ([]models.Contest, error) {
	out := make([]models.Contest, 0)
	for _, c := range f.contests {
		if year != nil && c.Year != *year {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeContestRepo) ListByEvent(_ context.Context, eventID string) ([]models.Contest, error) {
	out := make([]models.Contest, 0)
	for _, c := range f.contests {
		if c.EventID != nil && *c.EventID == eventID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContestRepo) Create(_ context.Context, c *models.Contest) error {
	c.ID = uuid.NewString()
	f.contests[c.ID] = *c
	return nil
}

func (f *fakeContestRepo) Update(_ context.Context, c *models.Contest) error {
	if _, ok := f.contests[c.ID]; !ok {
		return repositories.ErrContestNotFound
	}
	f.contests[c.ID] = *c
	return nil
}

func (f *fakeContestRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.contests[id]; !ok {
		return repositories.ErrContestNotFound
	}
	delete(f.contests, id)
	return nil
}

func (f *fakeContestRepo) ListResults(_ context.Context, contestID string) ([]models.ContestResult, error) {
	out := make([]models.ContestResult, 0)
	for _, r := range f.results {
		if r.ContestID == contestID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeContestRepo) ListTeamIDs(_ context.Context, contestID string) ([]string, error) {
	return f.teamIDs[contestID], nil
}

func (f *fakeContestRepo) UpsertResult(_ context.Context, result *models.ContestResult) error {
	for i, r := range f.results {
		if r.ContestID == result.ContestID && r.TeamID == result.TeamID {
			f.results[i] = *result
			return nil
		}
	}
	f.results = append(f.results, *result)
	return nil
}

func (f *fakeContestRepo) DeleteResult(_ context.Context, contestID, teamID string) error {
	for i, r := range f.results {
		if r.ContestID == contestID && r.TeamID == teamID {
			f.results = append(f.results[:i], f.results[i+1:]...)
			return nil
		}
	}
	return repositories.ErrResultNotFound
}

type fakeProblemRepo struct {
	problems map[string]models.Problem
}

func newFakeProblemRepo() *fakeProblemRepo {
	return &fakeProblemRepo{problems: map[string]models.Problem{}}
}

func (f *fakeProblemRepo) GetByID(_ context.Context, id string) (*models.Problem, error) {
	p, ok := f.problems[id]
	if !ok {
		return nil, repositories.ErrProblemNotFound
	}
	return &p, nil
}

func (f *fakeProblemRepo) ListByContest(_ context.Context, contestID string) ([]models.Problem, error) {
	out := make([]models.Problem, 0)
	for _, p := range f.problems {
		if p.ContestID == contestID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProblemRepo) Create(_ context.Context, p *models.Problem) error {
	for _, existing := range f.problems {
		if existing.ContestID == p.ContestID && existing.Label == p.Label {
			return repositories.ErrProblemLabelConflict
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	f.problems[p.ID] = *p
	return nil
}

func (f *fakeProblemRepo) Delete(_ context.Context, contestID, id string) error {
	p, ok := f.problems[id]
	if !ok || p.ContestID != contestID {
		return repositories.ErrProblemNotFound
	}
	delete(f.problems, id)
	return nil
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions []models.Submission
}

func (f *fakeSubmissionRepo) ListByContest(_ context.Context, contestID string) ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Submission, 0)
	for _, s := range f.submissions {
		if s.ContestID == contestID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) Create(_ context.Context, s *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uuid.NewString()
	f.submissions = append(f.submissions, *s)
	return nil
}

// fakeUploader records uploaded and deleted keys.
type fakeUploader struct {
	uploaded []string
	deleted  []string
}

var _ storage.FileUploader = (*fakeUploader)(nil)

func (f *fakeUploader) Upload(_ context.Context, key string, _ string, r io.Reader) (*storage.UploadResult, error) {
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	f.uploaded = append(f.uploaded, key)
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.test/" + key
}

type broadcast struct {
	room    string
	message interface{}
}

type fakeBroadcaster struct {
	sent []broadcast
}

func (f *fakeBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	f.sent = append(f.sent, broadcast{room: roomID, message: message})
}
