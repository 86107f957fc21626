package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/baykery/storefront-service/internal/models"
)

type fakeUserStore struct {
	user     *models.User
	sessions map[uuid.UUID]*models.Session
}

func newFakeUserStore(user *models.User) *fakeUserStore {
	return &fakeUserStore{user: user, sessions: map[uuid.UUID]*models.Session{}}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}
	return nil, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, nil
}

func (f *fakeUserStore) CreateSession(_ context.Context, s *models.Session) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeUserStore) GetSession(_ context.Context, id uuid.UUID) (*models.Session, error) {
	return f.sessions[id], nil
}

func (f *fakeUserStore) DeleteSession(_ context.Context, id uuid.UUID) error {
	delete(f.sessions, id)
	return nil
}

func adminUser(t *testing.T) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Email:        "admin@baykery.pe",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
}

func TestLoginCreatesSession(t *testing.T) {
	store := newFakeUserStore(adminUser(t))
	svc := NewAuthService(store, 24*time.Hour)

	user, session, err := svc.Login(context.Background(), "admin@baykery.pe", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, store.user.ID, user.ID)
	require.NotNil(t, session)
	assert.Contains(t, store.sessions, session.ID)
	assert.True(t, session.ExpiresAt.After(time.Now()))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	store := newFakeUserStore(adminUser(t))
	svc := NewAuthService(store, 24*time.Hour)

	_, _, err := svc.Login(context.Background(), "admin@baykery.pe", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, store.sessions)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	store := newFakeUserStore(adminUser(t))
	svc := NewAuthService(store, 24*time.Hour)

	_, _, err := svc.Login(context.Background(), "nobody@baykery.pe", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserForSessionResolvesUser(t *testing.T) {
	store := newFakeUserStore(adminUser(t))
	svc := NewAuthService(store, 24*time.Hour)

	_, session, err := svc.Login(context.Background(), "admin@baykery.pe", "hunter2")
	require.NoError(t, err)

	user, err := svc.UserForSession(context.Background(), session.ID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, store.user.ID, user.ID)
}

func TestUserForSessionIgnoresExpired(t *testing.T) {
	store := newFakeUserStore(adminUser(t))
	svc := NewAuthService(store, time.Hour)

	_, session, err := svc.Login(context.Background(), "admin@baykery.pe", "hunter2")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	user, err := svc.UserForSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserForSessionIgnoresUnknown(t *testing.T) {
	store := newFakeUserStore(adminUser(t))
	svc := NewAuthService(store, time.Hour)

	user, err := svc.UserForSession(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestLogoutDeletesSession(t *testing.T) {
	store := newFakeUserStore(adminUser(t))
	svc := NewAuthService(store, time.Hour)

	_, session, err := svc.Login(context.Background(), "admin@baykery.pe", "hunter2")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), session.ID))
	assert.NotContains(t, store.sessions, session.ID)
}
