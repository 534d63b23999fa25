package repository

import authdomain "admissions-backend/internal/auth/domain"

// UserRepository defines persistence for accounts and refresh tokens
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	Update(user *authdomain.User) error

	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(token string) error
	// ReplaceRefreshToken stores a new token and prunes expired ones for the same user
	ReplaceRefreshToken(token *authdomain.RefreshToken) error
}

// FCMTokenRepository defines persistence for push-notification device tokens
type FCMTokenRepository interface {
	SaveToken(userID, token, deviceInfo string) error
	GetTokensByUserID(userID string) ([]authdomain.FCMToken, error)
	DeleteToken(userID, token string) error
	DeleteTokens(tokens []string) error
}
