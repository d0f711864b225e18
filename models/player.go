package models

import (
	"time"

	"gorm.io/gorm"
)

type Player struct {
	ID    string `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"not null"`
	Email string `json:"email" gorm:"uniqueIndex;not null"`

	// TokenBalance never goes negative: decrements are guarded by a
	// balance check inside the start-session transaction.
	TokenBalance int `json:"token_balance" gorm:"default:0"`

	Achievements []PlayerAchievement `json:"achievements,omitempty" gorm:"foreignKey:PlayerID"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
