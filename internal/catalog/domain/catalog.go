package domain

import (
	"errors"
	"time"
)

var ErrUniversityNotFound = errors.New("university not found")

type University struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"index;not null"`
	Country        string    `json:"country" gorm:"index"`
	City           string    `json:"city"`
	Website        string    `json:"website,omitempty"`
	AcceptanceRate float64   `json:"acceptance_rate,omitempty"` // 0..1
	Ranking        int       `json:"ranking,omitempty"`         // 0 = unranked
	Programs       []string  `json:"programs,omitempty" gorm:"serializer:json;type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Extracurricular struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Category    string    `json:"category" gorm:"index"` // e.g. "stem", "arts", "community"
	Description string    `json:"description" gorm:"type:text"`
	Level       string    `json:"level,omitempty"` // "school", "regional", "national", "international"
	CreatedAt   time.Time `json:"created_at"`
}

// UniversityHit is one ranked search result
type UniversityHit struct {
	*University
	Score float64 `json:"score"`
}
