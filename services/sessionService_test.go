package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"MediPortal/models"
	"MediPortal/repositories"
	"MediPortal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")
	os.Exit(m.Run())
}

// fakeProfileStore serves a canned profile map and records inserts.
type fakeProfileStore struct {
	profiles  map[string]*models.User
	getErr    error
	insertErr error
	inserted  []models.User
}

func (s *fakeProfileStore) GetByID(_ context.Context, id string) (*models.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	user, ok := s.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return user, nil
}

func (s *fakeProfileStore) Insert(_ context.Context, user models.User) error {
	s.inserted = append(s.inserted, user)
	return s.insertErr
}

// fakeSessionReader serves a canned persisted-session map.
type fakeSessionReader struct {
	sessions map[string]*models.User
	getErr   error
}

func (s *fakeSessionReader) Get(_ context.Context, id string) (*models.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.sessions[id], nil
}

func tokenFor(t *testing.T, claims utils.TokenClaims) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(claims)
	require.NoError(t, err)
	return token
}

func TestGetCurrentUserEmptyToken(t *testing.T) {
	svc := NewSessionService(&fakeProfileStore{}, nil)

	user, err := svc.GetCurrentUser(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, user, "no token means nobody is signed in")
}

func TestGetCurrentUserInvalidToken(t *testing.T) {
	svc := NewSessionService(&fakeProfileStore{}, nil)

	user, err := svc.GetCurrentUser(context.Background(), "v2.local.garbage")
	require.NoError(t, err)
	assert.Nil(t, user, "an unreadable token resolves to absence, not an error")
}

func TestGetCurrentUserReturnsProfile(t *testing.T) {
	store := &fakeProfileStore{profiles: map[string]*models.User{
		"u1": {ID: "u1", Name: "John Doe", Email: "john@example.com", Role: models.RolePatient},
	}}
	svc := NewSessionService(store, nil)

	token := tokenFor(t, utils.TokenClaims{UserID: "u1", Email: "john@example.com"})
	user, err := svc.GetCurrentUser(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "John Doe", user.Name)
	assert.Empty(t, store.inserted)
}

func TestGetCurrentUserFallbackFromMetadata(t *testing.T) {
	store := &fakeProfileStore{profiles: map[string]*models.User{}}
	svc := NewSessionService(store, nil)

	token := tokenFor(t, utils.TokenClaims{
		UserID: "u2",
		Email:  "grey@example.com",
		Name:   "Dr. Grey",
		Role:   string(models.RoleDoctor),
	})
	user, err := svc.GetCurrentUser(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Dr. Grey", user.Name)
	assert.Equal(t, models.RoleDoctor, user.Role)

	require.Len(t, store.inserted, 1, "the missing row is rebuilt on the fly")
	assert.Equal(t, "u2", store.inserted[0].ID)
}

func TestGetCurrentUserFallbackNameFromEmail(t *testing.T) {
	store := &fakeProfileStore{profiles: map[string]*models.User{}}
	svc := NewSessionService(store, nil)

	token := tokenFor(t, utils.TokenClaims{UserID: "u3", Email: "jane@example.com"})
	user, err := svc.GetCurrentUser(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "jane", user.Name)
	assert.Equal(t, models.RolePatient, user.Role, "unknown role defaults to patient")
}

func TestGetCurrentUserFallbackSurvivesInsertFailure(t *testing.T) {
	store := &fakeProfileStore{
		profiles:  map[string]*models.User{},
		insertErr: errors.New("duplicate key"),
	}
	svc := NewSessionService(store, nil)

	token := tokenFor(t, utils.TokenClaims{UserID: "u4", Email: "x@example.com", Name: "X"})
	user, err := svc.GetCurrentUser(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "X", user.Name, "the metadata user is returned even when the insert races")
}

func TestGetCurrentUserRestoresPersistedSession(t *testing.T) {
	// The persisted copy carries an in-session role switch the profile row
	// may not reflect yet; it wins over the profile lookup.
	store := &fakeProfileStore{profiles: map[string]*models.User{
		"u1": {ID: "u1", Name: "John Doe", Role: models.RolePatient},
	}}
	sessions := &fakeSessionReader{sessions: map[string]*models.User{
		"u1": {ID: "u1", Name: "John Doe", Role: models.RoleDoctor},
	}}
	svc := NewSessionService(store, sessions)

	token := tokenFor(t, utils.TokenClaims{UserID: "u1", Email: "john@example.com"})
	user, err := svc.GetCurrentUser(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.RoleDoctor, user.Role)
	assert.Empty(t, store.inserted)
}

func TestGetCurrentUserLoggedOutFallsBackToProfile(t *testing.T) {
	store := &fakeProfileStore{profiles: map[string]*models.User{
		"u1": {ID: "u1", Name: "John Doe", Role: models.RolePatient},
	}}
	svc := NewSessionService(store, &fakeSessionReader{})

	token := tokenFor(t, utils.TokenClaims{UserID: "u1", Email: "john@example.com"})
	user, err := svc.GetCurrentUser(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "John Doe", user.Name)
}

func TestGetCurrentUserSessionErrorFallsBackToProfile(t *testing.T) {
	store := &fakeProfileStore{profiles: map[string]*models.User{
		"u1": {ID: "u1", Name: "John Doe", Role: models.RolePatient},
	}}
	sessions := &fakeSessionReader{getErr: errors.New("connection refused")}
	svc := NewSessionService(store, sessions)

	token := tokenFor(t, utils.TokenClaims{UserID: "u1", Email: "john@example.com"})
	user, err := svc.GetCurrentUser(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "John Doe", user.Name)
}

func TestGetCurrentUserFallbackOnLookupError(t *testing.T) {
	store := &fakeProfileStore{getErr: errors.New("connection refused")}
	svc := NewSessionService(store, nil)

	token := tokenFor(t, utils.TokenClaims{UserID: "u5", Email: "y@example.com", Name: "Y"})
	user, err := svc.GetCurrentUser(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u5", user.ID)
}
