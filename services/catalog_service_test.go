package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/models"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/repositories"
)

func TestLimits_Clamp(t *testing.T) {
	l := Limits{Default: 50, Max: 200}
	assert.Equal(t, 50, l.clamp(0))
	assert.Equal(t, 50, l.clamp(-3))
	assert.Equal(t, 7, l.clamp(7))
	assert.Equal(t, 200, l.clamp(1000))
}

func TestProfileService_GetProfile(t *testing.T) {
	profiles := newFakeProfileRepo()
	profiles.profiles["p1"] = models.Profile{
		ID:         "p1",
		Name:       "Ana",
		University: &models.University{ID: "u1", Name: "UnB", LogoKey: strPtr("universities/u1/logo.png")},
	}
	teams := newFakeTeamRepo()
	teams.byPerson["p1"] = []models.TeamRow{{ID: "t1", Name: "Null Pointers", University: &models.UniversityRef{Name: "UnB"}}}

	svc := NewProfileService(profiles, teams, &fakeUploader{}, DefaultLimits, discardLogger())

	details, err := svc.GetProfile(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", details.Name)
	require.Len(t, details.Teams, 1)
	assert.Equal(t, "UnB", details.Teams[0].University)
	require.NotNil(t, details.University.LogoURL)
	assert.Equal(t, "https://cdn.example.test/universities/u1/logo.png", *details.University.LogoURL)

	_, err = svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileService_CreateProfile(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := NewProfileService(profiles, newFakeTeamRepo(), nil, DefaultLimits, discardLogger())

	_, err := svc.CreateProfile(context.Background(), ProfileInput{Name: " "})
	assert.ErrorIs(t, err, ErrProfileNameRequired)

	p, err := svc.CreateProfile(context.Background(), ProfileInput{Name: "Bruno", Handle: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, p.Handle)

	profiles.createErr = repositories.ErrProfileHandleConflict
	_, err = svc.CreateProfile(context.Background(), ProfileInput{Name: "Carla", Handle: strPtr("bruno")})
	assert.ErrorIs(t, err, ErrProfileHandleConflict)
}

func TestUniversityService_GetUniversity(t *testing.T) {
	universities := newFakeUniversityRepo()
	universities.universities["u1"] = models.University{ID: "u1", Name: "UnB"}
	profiles := newFakeProfileRepo()
	profiles.byUniversity["u1"] = []models.Profile{{ID: "p1", Name: "Ana", University: &models.University{ID: "u1"}}}
	teams := newFakeTeamRepo()
	teams.byUniversity["u1"] = []models.TeamRow{{ID: "t1", Name: "Null Pointers"}}

	svc := NewUniversityService(universities, profiles, teams, nil, DefaultLimits, discardLogger())

	details, err := svc.GetUniversity(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "UnB", details.Name)
	assert.Nil(t, details.LogoURL)
	require.Len(t, details.Profiles, 1)
	assert.Nil(t, details.Profiles[0].University)
	require.Len(t, details.Teams, 1)

	_, err = svc.GetUniversity(context.Background(), "u2")
	assert.ErrorIs(t, err, ErrUniversityNotFound)
}

func TestUniversityService_NameConflict(t *testing.T) {
	svc := NewUniversityService(newFakeUniversityRepo(), newFakeProfileRepo(), newFakeTeamRepo(), nil, DefaultLimits, discardLogger())

	_, err := svc.CreateUniversity(context.Background(), UniversityInput{Name: "UnB"})
	require.NoError(t, err)
	_, err = svc.CreateUniversity(context.Background(), UniversityInput{Name: "UnB"})
	assert.ErrorIs(t, err, ErrUniversityNameConflict)
}

func TestUniversityService_UploadLogo(t *testing.T) {
	universities := newFakeUniversityRepo()
	universities.universities["u1"] = models.University{ID: "u1", Name: "UnB", LogoKey: strPtr("universities/u1/old.png")}
	uploader := &fakeUploader{}
	svc := NewUniversityService(universities, newFakeProfileRepo(), newFakeTeamRepo(), uploader, DefaultLimits, discardLogger())
	ctx := context.Background()

	_, err := svc.UploadLogo(ctx, "u1", "application/pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrUnsupportedLogoType)

	u, err := svc.UploadLogo(ctx, "u1", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.NotNil(t, u.LogoKey)
	assert.True(t, strings.HasPrefix(*u.LogoKey, "universities/u1/logo-"))
	assert.Equal(t, []string{*u.LogoKey}, uploader.uploaded)
	assert.Equal(t, []string{"universities/u1/old.png"}, uploader.deleted)
	assert.Equal(t, u.LogoKey, universities.universities["u1"].LogoKey)

	require.NoError(t, svc.DeleteUniversity(ctx, "u1"))
	assert.Contains(t, uploader.deleted, *u.LogoKey)
}

func TestUniversityService_UploadLogoWithoutStorage(t *testing.T) {
	universities := newFakeUniversityRepo()
	universities.universities["u1"] = models.University{ID: "u1", Name: "UnB"}
	svc := NewUniversityService(universities, newFakeProfileRepo(), newFakeTeamRepo(), nil, DefaultLimits, discardLogger())

	_, err := svc.UploadLogo(context.Background(), "u1", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestEventService(t *testing.T) {
	events := newFakeEventRepo()
	contests := newFakeContestRepo()
	svc := NewEventService(events, contests, &fakeUploader{}, DefaultLimits, discardLogger())
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, EventInput{Name: "Maratona", Year: 1800})
	assert.ErrorIs(t, err, ErrInvalidYear)

	event, err := svc.CreateEvent(ctx, EventInput{Name: "Maratona", Year: 2024, Location: strPtr(" Recife ")})
	require.NoError(t, err)
	require.NotNil(t, event.Location)
	assert.Equal(t, "Recife", *event.Location)

	contests.contests["c1"] = models.Contest{ID: "c1", Name: "Final", Year: 2024, EventID: &event.ID}

	details, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, details.Contests, 1)
	assert.Equal(t, "Final", details.Contests[0].Name)

	updated, err := svc.UpdateEvent(ctx, event.ID, EventInput{Name: "Maratona SBC", Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, "Maratona SBC", updated.Name)
	assert.Nil(t, updated.Location)

	withLogo, err := svc.UploadLogo(ctx, event.ID, "image/svg+xml", strings.NewReader("<svg/>"))
	require.NoError(t, err)
	require.NotNil(t, withLogo.LogoURL)
	assert.True(t, strings.HasSuffix(*withLogo.LogoURL, ".svg"))

	require.NoError(t, svc.DeleteEvent(ctx, event.ID))
	_, err = svc.GetEvent(ctx, event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
