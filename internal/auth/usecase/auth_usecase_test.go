package usecase

import (
	"testing"
	"time"

	authdomain "careerpulse-backend/internal/auth/domain"
	authdto "careerpulse-backend/internal/auth/dto"
	"careerpulse-backend/internal/auth/repository"
	"careerpulse-backend/pkg/config"

	"github.com/google/uuid"
)

type fakeUserRepo struct {
	usersByEmail  map[string]*authdomain.User
	usersByID     map[string]*authdomain.User
	refreshTokens map[string]*authdomain.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		usersByEmail:  make(map[string]*authdomain.User),
		usersByID:     make(map[string]*authdomain.User),
		refreshTokens: make(map[string]*authdomain.RefreshToken),
	}
}

func (f *fakeUserRepo) Create(user *authdomain.User) error {
	user.ID = uuid.New().String()
	f.usersByEmail[user.Email] = user
	f.usersByID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	return f.usersByEmail[email], nil
}

func (f *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	return f.usersByID[id], nil
}

func (f *fakeUserRepo) Update(user *authdomain.User) error { return nil }

func (f *fakeUserRepo) SaveRefreshToken(token *authdomain.RefreshToken) error {
	f.refreshTokens[token.Token] = token
	return nil
}

func (f *fakeUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return f.refreshTokens[token], nil
}

func (f *fakeUserRepo) DeleteRefreshToken(token string) error {
	delete(f.refreshTokens, token)
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewAuthUsecase(repo, testConfig())

	resp, err := u.Register(&authdto.RegisterRequest{
		Email:    "me@example.com",
		Password: "hunter22",
		Name:     "Me",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("register returned empty tokens")
	}
	if resp.User == nil || resp.User.ID == "" {
		t.Fatal("register returned no user")
	}

	stored, _ := repo.FindByEmail("me@example.com")
	if stored.Password == "hunter22" {
		t.Error("password stored in plain text")
	}

	if _, err := u.Register(&authdto.RegisterRequest{Email: "me@example.com", Password: "x", Name: "dup"}); err == nil {
		t.Error("expected duplicate registration to fail")
	}

	if _, err := u.Login(&authdto.LoginRequest{Email: "me@example.com", Password: "hunter22"}); err != nil {
		t.Errorf("Login: %v", err)
	}
	if _, err := u.Login(&authdto.LoginRequest{Email: "me@example.com", Password: "wrong"}); err == nil {
		t.Error("expected login with wrong password to fail")
	}
	if _, err := u.Login(&authdto.LoginRequest{Email: "nobody@example.com", Password: "x"}); err == nil {
		t.Error("expected login with unknown email to fail")
	}
}

func TestValidateToken(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewAuthUsecase(repo, testConfig())

	resp, err := u.Register(&authdto.RegisterRequest{Email: "me@example.com", Password: "hunter22", Name: "Me"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := u.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if user.ID != resp.User.ID {
		t.Errorf("validated user %q, want %q", user.ID, resp.User.ID)
	}

	if _, err := u.ValidateToken("not-a-jwt"); err == nil {
		t.Error("expected garbage token to fail validation")
	}

	// Token signed with a different secret
	other := NewAuthUsecase(repo, &config.Config{JWTSecret: "other-secret", JWTAccessExpiry: time.Minute, JWTRefreshExpiry: time.Hour})
	otherResp, err := other.Login(&authdto.LoginRequest{Email: "me@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := u.ValidateToken(otherResp.AccessToken); err == nil {
		t.Error("expected token signed with another secret to fail validation")
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewAuthUsecase(repo, testConfig())

	resp, err := u.Register(&authdto.RegisterRequest{Email: "me@example.com", Password: "hunter22", Name: "Me"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	refreshed, err := u.RefreshToken(resp.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Fatal("refresh returned empty tokens")
	}

	if _, err := u.RefreshToken("not-a-jwt"); err == nil {
		t.Error("expected garbage refresh token to fail")
	}

	// Expired server-side record is rejected even when the JWT itself verifies
	stored, _ := repo.FindRefreshToken(resp.RefreshToken)
	stored.ExpiresAt = time.Now().Add(-time.Minute)
	if _, err := u.RefreshToken(resp.RefreshToken); err == nil {
		t.Error("expected expired stored refresh token to fail")
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewAuthUsecase(repo, testConfig())

	resp, err := u.Register(&authdto.RegisterRequest{Email: "me@example.com", Password: "hunter22", Name: "Me"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := u.Logout(resp.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := u.RefreshToken(resp.RefreshToken); err == nil {
		t.Error("expected revoked refresh token to fail")
	}
}
