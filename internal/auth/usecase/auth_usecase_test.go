package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	authdomain "admissions-backend/internal/auth/domain"
	authdto "admissions-backend/internal/auth/dto"
	"admissions-backend/internal/auth/repository"
	"admissions-backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func newTestUsecase(t *testing.T, verify GoogleTokenVerifier) (AuthUsecase, repository.UserRepository) {
	t.Helper()
	db := setupTestDB(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Minute,
		JWTRefreshExpiry: time.Hour,
		AdminEmails:      []string{"head@school.edu"},
		GoogleClientID:   "client-id.apps.googleusercontent.com",
	}
	userRepo := repository.NewUserRepository(db)
	fcmRepo := repository.NewFCMTokenRepository(db)
	if verify == nil {
		verify = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			return nil, errors.New("verifier not set")
		}
	}
	return NewAuthUsecaseWithVerifier(userRepo, fcmRepo, cfg, verify), userRepo
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _ := newTestUsecase(t, nil)

	resp, err := uc.Register(&authdto.RegisterRequest{Email: "Student@Mail.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "student@mail.com", resp.User.Email)
	assert.Equal(t, authdomain.RoleStudent, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	_, err = uc.Register(&authdto.RegisterRequest{Email: "student@mail.com", Password: "secret1", Name: "Ana"})
	assert.ErrorIs(t, err, authdomain.ErrEmailTaken)

	_, err = uc.Login(&authdto.LoginRequest{Email: "student@mail.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	login, err := uc.Login(&authdto.LoginRequest{Email: "student@mail.com", Password: "secret1"})
	require.NoError(t, err)

	user, err := uc.ValidateToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
}

func TestValidateTokenRejectsRefreshToken(t *testing.T) {
	uc, _ := newTestUsecase(t, nil)

	resp, err := uc.Register(&authdto.RegisterRequest{Email: "a@mail.com", Password: "secret1", Name: "A"})
	require.NoError(t, err)

	_, err = uc.ValidateToken(resp.RefreshToken)
	assert.ErrorIs(t, err, authdomain.ErrInvalidToken)

	_, err = uc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, authdomain.ErrInvalidToken)
}

func TestAdminLogin(t *testing.T) {
	uc, _ := newTestUsecase(t, nil)

	_, err := uc.Register(&authdto.RegisterRequest{Email: "head@school.edu", Password: "secret1", Name: "Head"})
	require.NoError(t, err)
	_, err = uc.Register(&authdto.RegisterRequest{Email: "kid@school.edu", Password: "secret1", Name: "Kid"})
	require.NoError(t, err)

	resp, err := uc.AdminLogin(&authdto.LoginRequest{Email: "head@school.edu", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, resp.User.IsAdmin())

	_, err = uc.AdminLogin(&authdto.LoginRequest{Email: "kid@school.edu", Password: "secret1"})
	assert.ErrorIs(t, err, authdomain.ErrForbidden)
}

func TestLoginPromotesListedAdmin(t *testing.T) {
	uc, userRepo := newTestUsecase(t, nil)

	hash, err := repository.HashPassword("secret1")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(&authdomain.User{Email: "head@school.edu", Password: hash, Provider: "email"}))

	resp, err := uc.Login(&authdto.LoginRequest{Email: "head@school.edu", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, authdomain.RoleAdmin, resp.User.Role)

	stored, err := userRepo.FindByEmail("head@school.edu")
	require.NoError(t, err)
	assert.Equal(t, authdomain.RoleAdmin, stored.Role)
}

func TestRefreshTokenRotates(t *testing.T) {
	uc, _ := newTestUsecase(t, nil)

	resp, err := uc.Register(&authdto.RegisterRequest{Email: "a@mail.com", Password: "secret1", Name: "A"})
	require.NoError(t, err)

	rotated, err := uc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)

	_, err = uc.RefreshToken(resp.RefreshToken)
	assert.Error(t, err)

	require.NoError(t, uc.Logout(rotated.RefreshToken))
	_, err = uc.RefreshToken(rotated.RefreshToken)
	assert.Error(t, err)
}

func TestGoogleSignIn(t *testing.T) {
	var gotAudience string
	verify := func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		gotAudience = audience
		if token != "good-token" {
			return nil, errors.New("bad signature")
		}
		return &idtoken.Payload{Claims: map[string]interface{}{
			"email":          "new@gmail.com",
			"email_verified": true,
			"name":           "New Student",
			"picture":        "https://example.com/p.png",
		}}, nil
	}
	uc, userRepo := newTestUsecase(t, verify)

	_, err := uc.GoogleSignIn(context.Background(), "forged")
	assert.Error(t, err)

	resp, err := uc.GoogleSignIn(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "client-id.apps.googleusercontent.com", gotAudience)
	assert.Equal(t, "google", resp.User.Provider)

	stored, err := userRepo.FindByEmail("new@gmail.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "New Student", stored.Name)
}

func TestFCMTokenRegistration(t *testing.T) {
	db := setupTestDB(t)
	fcmRepo := repository.NewFCMTokenRepository(db)
	uc := NewAuthUsecaseWithVerifier(repository.NewUserRepository(db), fcmRepo, &config.Config{}, nil)

	require.NoError(t, uc.RegisterFCMToken("u1", "tok-1", "chrome"))
	require.NoError(t, uc.RegisterFCMToken("u1", "tok-1", "firefox"))
	require.NoError(t, uc.RegisterFCMToken("u2", "tok-2", "safari"))

	tokens, err := fcmRepo.GetTokensByUserID("u1")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "firefox", tokens[0].DeviceInfo)

	// other users cannot remove a token they do not own
	require.NoError(t, uc.UnregisterFCMToken("u1", "tok-2"))
	tokens, err = fcmRepo.GetTokensByUserID("u2")
	require.NoError(t, err)
	assert.Len(t, tokens, 1)

	require.NoError(t, fcmRepo.DeleteTokens([]string{"tok-1", "tok-2"}))
	tokens, err = fcmRepo.GetTokensByUserID("u1")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}
