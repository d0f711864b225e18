// models/achievement.go
package models

import "time"

// Achievement: static reference data — a play-count milestone for one game.
type Achievement struct {
	ID          string `json:"id" gorm:"primaryKey"`
	GameID      string `json:"game_id" gorm:"index;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`

	// Sessions the player must have on this game before the achievement
	// is earned. Two achievements may share the same threshold.
	PlaysRequired int `json:"plays_required" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// PlayerAchievement: awarded instance, at most once per (player, achievement).
type PlayerAchievement struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	PlayerID      string    `json:"player_id" gorm:"uniqueIndex:idx_player_achievement;not null"`
	AchievementID string    `json:"achievement_id" gorm:"uniqueIndex:idx_player_achievement;not null"`
	EarnedAt      time.Time `json:"earned_at" gorm:"autoCreateTime"`

	Achievement Achievement `json:"achievement,omitempty" gorm:"foreignKey:AchievementID"`
}
