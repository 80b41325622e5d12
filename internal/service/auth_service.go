package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/formhive/formhive/internal/auth"
	"github.com/formhive/formhive/internal/models"
)

type AuthService struct {
	users      UserStore
	jwtSecret  string
	sessionTTL time.Duration
}

func NewAuthService(users UserStore, jwtSecret string, sessionTTL time.Duration) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, sessionTTL: sessionTTL}
}

type AuthResult struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`

	// NeedsProfile tells the client to route to the profile page when
	// the account has no display name yet.
	NeedsProfile bool `json:"needs_profile,omitempty"`
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalid)
	}
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.result(user)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalid)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrBadCredentials
	}
	return s.result(user)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	resp := user.ToResponse()
	return &resp, nil
}

// UpdateProfile sets the display name, provisioning the row when the
// session outlived a missing user record.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, email, fullName string) (*models.UserResponse, error) {
	if fullName == "" {
		return nil, fmt.Errorf("%w: full_name is required", ErrInvalid)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		log.Printf("Warning: profile update for unknown user %s, provisioning row", userID)
		user = &models.User{ID: userID, Email: email}
	}
	user.FullName = fullName
	if err := s.users.UpsertProfile(ctx, user); err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *AuthService) result(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(s.jwtSecret, user.ID, user.Email, s.sessionTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:        token,
		User:         user.ToResponse(),
		NeedsProfile: user.FullName == "",
	}, nil
}
