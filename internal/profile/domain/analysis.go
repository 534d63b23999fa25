package domain

import (
	"errors"
	"time"

	"admissions-backend/pkg/ai"
)

var (
	ErrInvalidProfile   = errors.New("invalid student profile")
	ErrAnalysisFailed   = errors.New("career analysis failed")
	ErrAnalysisNotFound = errors.New("analysis not found")
)

// ProfileAnalysis is one stored career analysis together with the profile it was run on
type ProfileAnalysis struct {
	ID        string            `json:"id" gorm:"primaryKey"`
	UserID    string            `json:"user_id" gorm:"index;not null"`
	Profile   ai.StudentProfile `json:"profile" gorm:"serializer:json;type:text"`
	Analysis  ai.CareerAnalysis `json:"analysis" gorm:"serializer:json;type:text"`
	CreatedAt time.Time         `json:"created_at"`
}

// TableName specifies the table name for GORM
func (ProfileAnalysis) TableName() string {
	return "profile_analyses"
}
