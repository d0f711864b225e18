package models

import "time"

// Session is a time-bounded occupancy of a machine by a player. EndedAt nil
// means the session is still active. TokensSpent snapshots the game's cost at
// start time and never changes afterwards.
//
// Uniqueness is scoped to *active* sessions: a partial unique index on
// (player_id, machine_id) WHERE ended_at IS NULL (created at migration time,
// see main.go) forbids two simultaneous sessions for the same pair while
// permitting repeat play history.
type Session struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	PlayerID    string     `json:"player_id" gorm:"index;not null"`
	MachineID   string     `json:"machine_id" gorm:"index;not null"`
	TokensSpent int        `json:"tokens_spent" gorm:"not null"`
	StartedAt   time.Time  `json:"started_at" gorm:"not null"`
	EndedAt     *time.Time `json:"ended_at" gorm:"index"`

	Player  Player  `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
	Machine Machine `json:"machine,omitempty" gorm:"foreignKey:MachineID"`

	Timestamps
}

// Active reports whether the session is still occupying its machine.
func (s *Session) Active() bool {
	return s.EndedAt == nil
}
