package repository

import (
	"errors"
	"strings"
	"time"

	authdomain "admissions-backend/internal/auth/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// normalizeEmail is the stored form of every account address
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// first loads one row matching query into dest; (false, nil) when there is none.
func first(db *gorm.DB, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := db.Where(query, args...).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create assigns the id and timestamps. Accounts default to the student role.
func (r *userRepository) Create(user *authdomain.User) error {
	now := time.Now()
	user.ID = uuid.NewString()
	user.Email = normalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = authdomain.RoleStudent
	}
	user.CreatedAt, user.UpdatedAt = now, now
	return r.db.Create(user).Error
}

func (r *userRepository) FindByEmail(email string) (*authdomain.User, error) {
	var user authdomain.User
	found, err := first(r.db, &user, "email = ?", normalizeEmail(email))
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(id string) (*authdomain.User, error) {
	var user authdomain.User
	found, err := first(r.db, &user, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *authdomain.User) error {
	user.UpdatedAt = time.Now()
	return r.db.Save(user).Error
}

func (r *userRepository) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	var refreshToken authdomain.RefreshToken
	found, err := first(r.db, &refreshToken, "token = ?", token)
	if err != nil || !found {
		return nil, err
	}
	return &refreshToken, nil
}

func (r *userRepository) DeleteRefreshToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&authdomain.RefreshToken{}).Error
}

// ReplaceRefreshToken keeps the user's other live sessions; only expired tokens go.
func (r *userRepository) ReplaceRefreshToken(token *authdomain.RefreshToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		expired := tx.Where("user_id = ? AND expires_at < ?", token.UserID, time.Now())
		if err := expired.Delete(&authdomain.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
