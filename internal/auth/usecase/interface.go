package usecase

import (
	"context"

	authdomain "admissions-backend/internal/auth/domain"
	authdto "admissions-backend/internal/auth/dto"
)

// AuthUsecase defines account, session and device-token operations
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	// AdminLogin is Login restricted to admin accounts; the caller turns the access token into a session cookie
	AdminLogin(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	GoogleSignIn(ctx context.Context, idToken string) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(token string) (*authdomain.User, error)

	RegisterFCMToken(userID, token, deviceInfo string) error
	UnregisterFCMToken(userID, token string) error
}
