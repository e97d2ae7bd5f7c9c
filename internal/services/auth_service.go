package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jaramillohillary70-ai/pata-verde-app/internal/apperr"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/metrics"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/models"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/repositories"

	"github.com/rs/zerolog/log"
)

// RegisterInput carries the fields required to create a user.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthService handles registration and credential checks. No session or token is issued.
type AuthService struct {
	repo      repositories.DatasetRepository
	hasher    PasswordHasher
	publisher Publisher
	metrics   *metrics.Metrics
}

// NewAuthService creates a new AuthService. hasher defaults to PlainTextHasher; publisher and m
// may be nil.
func NewAuthService(repo repositories.DatasetRepository, hasher PasswordHasher, publisher Publisher, m *metrics.Metrics) *AuthService {
	if hasher == nil {
		hasher = PlainTextHasher{}
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		publisher: publisher,
		metrics:   m,
	}
}

// RegisterUser validates the input, rejects duplicate emails and stores a new user with zero
// points.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !strings.Contains(in.Email, "@") {
		return nil, apperr.InvalidInput("email must contain '@'").
			WithDetails(map[string]string{"email": "must contain '@'"})
	}

	stored, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "could not register user")
	}

	var created models.User
	err = s.repo.Update(ctx, func(ds *models.Dataset) error {
		for _, u := range ds.Users {
			if NormalizeEmail(u.Email) == in.Email {
				return apperr.Conflict(fmt.Sprintf("email '%s' already registered", in.Email))
			}
		}
		created = models.User{
			ID:       ds.NextUserID(),
			Name:     in.Name,
			Email:    in.Email,
			Password: stored,
			Points:   0,
		}
		ds.Users = append(ds.Users, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	s.metrics.UserRegistered()
	publishEvent(s.publisher, EventUserRegistered, map[string]any{
		"userId": created.ID,
		"email":  created.Email,
	})
	return &created, nil
}

// LoginUser checks the credentials against the stored user and returns it on success.
func (s *AuthService) LoginUser(ctx context.Context, in LoginInput) (*models.User, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	ds, err := s.repo.Read(ctx)
	if err != nil {
		return nil, err
	}

	user := ds.FindUserByEmail(in.Email)
	if user == nil {
		s.metrics.LoginAttempt("not_found")
		return nil, apperr.NotFound(fmt.Sprintf("user with email %s not found", in.Email))
	}
	if !s.hasher.Compare(user.Password, in.Password) {
		s.metrics.LoginAttempt("unauthorized")
		return nil, apperr.Unauthorized("invalid credentials")
	}

	s.metrics.LoginAttempt("success")
	found := *user
	return &found, nil
}
