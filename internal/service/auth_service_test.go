package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/service"
)

type fakeUserStore struct {
	nextID    int
	users     map[int]*model.User
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: make(map[int]*model.User)}
}

func (s *fakeUserStore) GetByID(_ context.Context, id int) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	u.ID = s.nextID
	s.nextID++
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id int, passwordHash string) error {
	u, ok := s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = passwordHash
	return nil
}

func newAuthService(t *testing.T) (*service.AuthService, *fakeUserStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		BcryptCost:    bcrypt.MinCost,
		ResetTokenTTL: 15 * time.Minute,
	}
	users := newFakeUserStore()
	return service.NewAuthService(cfg, users, rdb, zerolog.Nop()), users, mr
}

func registerRequest(email string) *model.RegisterRequest {
	return &model.RegisterRequest{
		Name:        "Asha",
		Email:       email,
		Password:    "Sup3rSecret!",
		Gender:      "female",
		PhoneNumber: "9876543210",
		State:       "Kerala",
		Address:     "12 MG Road",
	}
}

func TestCheckPasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Sup3rSecret!", true},
		{"Short1!", false},       // under 8 chars
		{"alllowercase!", false}, // no uppercase
		{"NoSpecial123", false},  // no special character
		{"Has Space Ok", true},   // space counts as special
	}
	for _, c := range cases {
		err := service.CheckPasswordStrength(c.password)
		if c.ok && err != nil {
			t.Errorf("%q: unexpected %v", c.password, err)
		}
		if !c.ok && !errors.Is(err, service.ErrWeakPassword) {
			t.Errorf("%q: expected ErrWeakPassword, got %v", c.password, err)
		}
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerRequest("asha@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != model.RoleUser {
		t.Fatalf("expected user role, got %q", user.Role)
	}
	if user.PasswordHash == "Sup3rSecret!" {
		t.Fatal("password stored in plaintext")
	}

	token, logged, err := svc.Login(ctx, &model.LoginRequest{Email: "asha@example.com", Password: "Sup3rSecret!"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, logged.ID)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest("asha@example.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register(ctx, registerRequest("asha@example.com")); !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterDuplicateEmailUniqueViolation(t *testing.T) {
	// A concurrent register can pass the email pre-check and hit the
	// unique index on insert. That must still read as ErrEmailTaken.
	svc, users, _ := newAuthService(t)
	users.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	if _, err := svc.Register(context.Background(), registerRequest("asha@example.com")); !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest("asha@example.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Unknown email and wrong password yield the same error.
	_, _, err := svc.Login(ctx, &model.LoginRequest{Email: "nobody@example.com", Password: "Sup3rSecret!"})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	_, _, err = svc.Login(ctx, &model.LoginRequest{Email: "asha@example.com", Password: "WrongPass!"})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc, _, _ := newAuthService(t)

	token, err := svc.GenerateToken(&model.User{ID: 1, Role: model.RoleUser})
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := svc.ValidateToken(token + "x"); err == nil {
		t.Fatal("expected tampered token to fail validation")
	}
	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected garbage token to fail validation")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest("asha@example.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.ForgotPassword(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a reset token for a known email")
	}

	err = svc.ResetPassword(ctx, &model.ResetPasswordRequest{Token: token, NewPassword: "N3wSecret!"})
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if _, _, err := svc.Login(ctx, &model.LoginRequest{Email: "asha@example.com", Password: "N3wSecret!"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, err := svc.Login(ctx, &model.LoginRequest{Email: "asha@example.com", Password: "Sup3rSecret!"}); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("old password should be rejected, got %v", err)
	}

	// Single use.
	err = svc.ResetPassword(ctx, &model.ResetPasswordRequest{Token: token, NewPassword: "An0therOne!"})
	if !errors.Is(err, service.ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid on reuse, got %v", err)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, mr := newAuthService(t)

	token, err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("expected silent success for unknown email, got %v", err)
	}
	if token != "" {
		t.Fatalf("expected no token for unknown email, got %q", token)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("no token should be stored, keys: %v", mr.Keys())
	}
}

func TestResetTokenExpires(t *testing.T) {
	svc, _, mr := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest("asha@example.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, err := svc.ForgotPassword(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}

	mr.FastForward(16 * time.Minute)

	err = svc.ResetPassword(ctx, &model.ResetPasswordRequest{Token: token, NewPassword: "N3wSecret!"})
	if !errors.Is(err, service.ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid after expiry, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerRequest("asha@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	err = svc.ChangePassword(ctx, user.ID, &model.ChangePasswordRequest{
		CurrentPassword: "WrongPass!",
		NewPassword:     "N3wSecret!",
	})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	err = svc.ChangePassword(ctx, user.ID, &model.ChangePasswordRequest{
		CurrentPassword: "Sup3rSecret!",
		NewPassword:     "weak",
	})
	if !errors.Is(err, service.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	err = svc.ChangePassword(ctx, user.ID, &model.ChangePasswordRequest{
		CurrentPassword: "Sup3rSecret!",
		NewPassword:     "N3wSecret!",
	})
	if err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, err := svc.Login(ctx, &model.LoginRequest{Email: "asha@example.com", Password: "N3wSecret!"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
