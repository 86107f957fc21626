package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/baykery/storefront-service/internal/models"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

type AuthService struct {
	users      UserStore
	sessionTTL time.Duration
	now        func() time.Time
}

func NewAuthService(users UserStore, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Login verifies the credentials and opens a session. The returned session
// ID doubles as the cookie token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.users.CreateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}
	return user, session, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.users.DeleteSession(ctx, sessionID)
}

// UserForSession resolves a cookie token to its user. Expired or unknown
// sessions resolve to nil without error; the caller treats that as
// unauthenticated.
func (s *AuthService) UserForSession(ctx context.Context, sessionID uuid.UUID) (*models.User, error) {
	session, err := s.users.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.Expired(s.now()) {
		return nil, nil
	}
	return s.users.GetByID(ctx, session.UserID)
}
