package models

// Machine statuses. A machine is in exactly one of these at any time;
// "in_use" is only ever set by the session lifecycle, never by operators.
const (
	MachineAvailable   = "available"
	MachineInUse       = "in_use"
	MachineMaintenance = "maintenance"
)

type Machine struct {
	ID     string `json:"id" gorm:"primaryKey"`
	GameID string `json:"game_id" gorm:"index;not null"`
	Status string `json:"status" gorm:"type:varchar(16);default:'available'"`

	Game Game `json:"game,omitempty" gorm:"foreignKey:GameID"`

	// Populated on machine detail: the session currently occupying this
	// machine, if any.
	Sessions []Session `json:"sessions,omitempty" gorm:"foreignKey:MachineID"`

	Timestamps
}

// ValidOperatorStatus reports whether an operator may set a machine to the
// given status directly.
func ValidOperatorStatus(status string) bool {
	return status == MachineAvailable || status == MachineMaintenance
}
