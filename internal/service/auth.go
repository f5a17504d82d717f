// Package service contains the business logic layer.
//
// Handlers parse HTTP and write responses; services validate and enforce
// the rules; repositories read and write the database. Services receive
// repository interfaces (not concrete types), so tests inject in-memory
// mocks and the sqlite package is never imported here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/devsnippet/internal/apperror"
	"github.com/sakif/devsnippet/internal/auth"
	"github.com/sakif/devsnippet/internal/model"
	"github.com/sakif/devsnippet/internal/repository"
)

// AuthService registers identities and verifies login credentials.
//
//	AuthHandler (HTTP) → AuthService (rules) → UserRepository (DB)
//	                   ↘ PasswordService (bcrypt) / TokenService (JWT)
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Credentials is the input for both Register and Login.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new identity and returns its id.
//
// The existence check gives duplicate registrations a friendly conflict
// error, but it is not atomic with the insert — the UNIQUE(email)
// constraint in the store is what actually guarantees uniqueness, and a
// constraint violation surfaces as the same conflict error.
func (s *AuthService) Register(ctx context.Context, creds Credentials) (string, error) {
	creds.Email = strings.TrimSpace(creds.Email)

	if err := s.validate.Struct(creds); err != nil {
		return "", validationError(err)
	}

	_, err := s.users.GetUserByEmail(ctx, creds.Email)
	if err == nil {
		return "", apperror.Conflict("user already exists")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return "", fmt.Errorf("service/auth: checking existing user: %w", err)
	}

	hash, err := s.passwords.Hash(creds.Password)
	if err != nil {
		return "", fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Email:        creds.Email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))

	return user.ID, nil
}

// Login verifies the credentials and issues a signed bearer token.
//
// Unknown email and wrong password return the identical invalid-credentials
// error, so a response never reveals whether an account exists.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (string, error) {
	creds.Email = strings.TrimSpace(creds.Email)

	user, err := s.users.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.InvalidCredentials()
		}
		return "", fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, creds.Password); err != nil {
		return "", apperror.InvalidCredentials()
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return token, nil
}

// validationError flattens validator field errors into one apperror with a
// readable message, e.g. "field Email is required".
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.ValidationFailed("", err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	field := ""
	for _, e := range verrs {
		if field == "" {
			field = e.Field()
		}
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email address", e.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return apperror.ValidationFailed(field, strings.Join(msgs, ", "))
}
