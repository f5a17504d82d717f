package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/devsnippet/internal/apperror"
	"github.com/sakif/devsnippet/internal/auth"
	"github.com/sakif/devsnippet/internal/model"
)

// mockUserRepo is an in-memory repository.UserRepository. Keyed by email,
// since that's the unique constraint the real store enforces.
type mockUserRepo struct {
	byEmail map[string]*model.User
	nextID  int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: make(map[string]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if _, exists := m.byEmail[user.Email]; exists {
		return apperror.Conflict("user already exists")
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	stored := *user
	m.byEmail[user.Email] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAuthService(repo, tokens, passwords, logger), repo
}

func TestRegister_Success(t *testing.T) {
	svc, repo := newTestAuthService(t)

	userID, err := svc.Register(context.Background(), Credentials{
		Email: "a@example.com", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if userID == "" {
		t.Error("Register() returned empty userID")
	}

	stored := repo.byEmail["a@example.com"]
	if stored == nil {
		t.Fatal("user was not persisted")
	}
	if stored.PasswordHash == "hunter22" {
		t.Error("password stored in plaintext")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	creds := Credentials{Email: "a@example.com", Password: "hunter22"}
	if _, err := svc.Register(context.Background(), creds); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	// Same email, different password — still a conflict.
	creds.Password = "completely different"
	_, err := svc.Register(context.Background(), creds)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("second Register() error = %v, want ErrConflict", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name  string
		creds Credentials
	}{
		{"missing email", Credentials{Password: "hunter22"}},
		{"missing password", Credentials{Email: "a@example.com"}},
		{"malformed email", Credentials{Email: "not-an-email", Password: "hunter22"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.creds)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _ := newTestAuthService(t)

	creds := Credentials{Email: "a@example.com", Password: "hunter22"}
	userID, err := svc.Register(context.Background(), creds)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, err := svc.Login(context.Background(), creds)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// The token's subject must be the id Register returned.
	tokens, _ := auth.NewTokenService("test-secret-at-least-16-chars!!")
	subject, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if subject != userID {
		t.Errorf("token subject = %q, want registered id %q", subject, userID)
	}
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), Credentials{
		Email: "a@example.com", Password: "hunter22",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, errWrongPass := svc.Login(context.Background(), Credentials{
		Email: "a@example.com", Password: "wrong",
	})
	_, errUnknown := svc.Login(context.Background(), Credentials{
		Email: "nobody@example.com", Password: "hunter22",
	})

	// Both failures must be the same error shape: no account-existence
	// oracle.
	if !errors.Is(errWrongPass, apperror.ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", errWrongPass)
	}
	if !errors.Is(errUnknown, apperror.ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", errUnknown)
	}
	if errWrongPass.Error() != errUnknown.Error() {
		t.Errorf("messages differ: %q vs %q", errWrongPass.Error(), errUnknown.Error())
	}
}
