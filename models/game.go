// models/game.go
package models

type Game struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
	Slug string `json:"slug" gorm:"uniqueIndex"`

	// Cost charged when a session starts on any machine running this game.
	TokensPerPlay int `json:"tokens_per_play" gorm:"not null"`

	// 🖼️ Marquee/cabinet art (public R2 URL or local /uploads path)
	ArtworkURL string `json:"artwork_url,omitempty"`

	Machines     []Machine     `json:"machines,omitempty" gorm:"foreignKey:GameID"`
	Achievements []Achievement `json:"achievements,omitempty" gorm:"foreignKey:GameID"`

	Timestamps
}
