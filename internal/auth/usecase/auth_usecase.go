package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	authdomain "admissions-backend/internal/auth/domain"
	authdto "admissions-backend/internal/auth/dto"
	"admissions-backend/internal/auth/repository"
	"admissions-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"google.golang.org/api/idtoken"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// GoogleTokenVerifier validates a Google ID token for the given audience
type GoogleTokenVerifier func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo     repository.UserRepository
	fcmTokenRepo repository.FCMTokenRepository
	config       *config.Config
	verifyGoogle GoogleTokenVerifier
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, fcmTokenRepo repository.FCMTokenRepository, cfg *config.Config) AuthUsecase {
	return NewAuthUsecaseWithVerifier(userRepo, fcmTokenRepo, cfg, idtoken.Validate)
}

// NewAuthUsecaseWithVerifier allows swapping the Google ID-token verifier (tests)
func NewAuthUsecaseWithVerifier(userRepo repository.UserRepository, fcmTokenRepo repository.FCMTokenRepository, cfg *config.Config, verify GoogleTokenVerifier) AuthUsecase {
	return &authUsecase{
		userRepo:     userRepo,
		fcmTokenRepo: fcmTokenRepo,
		config:       cfg,
		verifyGoogle: verify,
	}
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, authdomain.ErrInvalidCredentials
	}

	if user.Provider != "email" {
		return nil, errors.New("please use Google Sign-In for this account")
	}

	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, authdomain.ErrInvalidCredentials
	}

	if err := u.syncRole(user); err != nil {
		return nil, err
	}

	return u.generateTokens(user)
}

func (u *authUsecase) AdminLogin(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	resp, err := u.Login(req)
	if err != nil {
		return nil, err
	}
	if !resp.User.IsAdmin() {
		log.Printf("[Auth] Non-admin %s attempted admin login", resp.User.Email)
		return nil, authdomain.ErrForbidden
	}
	return resp, nil
}

func (u *authUsecase) Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, authdomain.ErrEmailTaken
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		Provider: "email",
		Role:     u.roleFor(req.Email),
	}

	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}

	return u.generateTokens(user)
}

func (u *authUsecase) GoogleSignIn(ctx context.Context, idToken string) (*authdto.TokenResponse, error) {
	if u.config.GoogleClientID == "" {
		return nil, errors.New("google sign-in is not configured")
	}

	payload, err := u.verifyGoogle(ctx, idToken, u.config.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify Google token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("google token has no email")
	}
	if verified, _ := payload.Claims["email_verified"].(bool); !verified {
		return nil, errors.New("google email is not verified")
	}
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	user, err := u.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &authdomain.User{
			Email:     email,
			Name:      name,
			AvatarURL: picture,
			Provider:  "google",
			Role:      u.roleFor(email),
		}
		if err := u.userRepo.Create(user); err != nil {
			return nil, err
		}
	} else {
		user.Name = name
		user.AvatarURL = picture
		if u.roleFor(user.Email) == authdomain.RoleAdmin {
			user.Role = authdomain.RoleAdmin
		}
		if err := u.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	return u.generateTokens(user)
}

func (u *authUsecase) RefreshToken(refreshToken string) (*authdto.TokenResponse, error) {
	claims, err := u.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	storedToken, err := u.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("refresh token expired")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}

	// Rotate: the presented token cannot be used twice
	if err := u.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return nil, err
	}

	return u.generateTokens(user)
}

func (u *authUsecase) Logout(refreshToken string) error {
	return u.userRepo.DeleteRefreshToken(refreshToken)
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	claims, err := u.parseToken(tokenString, tokenTypeAccess)
	if err != nil {
		return nil, authdomain.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, authdomain.ErrInvalidToken
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}

	return user, nil
}

func (u *authUsecase) RegisterFCMToken(userID, token, deviceInfo string) error {
	return u.fcmTokenRepo.SaveToken(userID, token, deviceInfo)
}

func (u *authUsecase) UnregisterFCMToken(userID, token string) error {
	return u.fcmTokenRepo.DeleteToken(userID, token)
}

func (u *authUsecase) generateTokens(user *authdomain.User) (*authdto.TokenResponse, error) {
	accessToken, err := u.signToken(jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"type":    tokenTypeAccess,
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.signToken(jwt.MapClaims{
		"user_id":  user.ID,
		"token_id": uuid.New().String(),
		"type":     tokenTypeRefresh,
		"exp":      time.Now().Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.ReplaceRefreshToken(&authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.config.JWTRefreshExpiry),
	}); err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) parseToken(tokenString, tokenType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, authdomain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, authdomain.ErrInvalidToken
	}
	if typ, _ := claims["type"].(string); typ != tokenType {
		return nil, authdomain.ErrInvalidToken
	}
	return claims, nil
}

func (u *authUsecase) roleFor(email string) string {
	if slices.Contains(u.config.AdminEmails, strings.ToLower(strings.TrimSpace(email))) {
		return authdomain.RoleAdmin
	}
	return authdomain.RoleStudent
}

// syncRole promotes accounts listed in ADMIN_EMAILS that were created before being listed
func (u *authUsecase) syncRole(user *authdomain.User) error {
	if user.Role == authdomain.RoleAdmin || u.roleFor(user.Email) != authdomain.RoleAdmin {
		return nil
	}
	user.Role = authdomain.RoleAdmin
	return u.userRepo.Update(user)
}
