package workers

import (
	"os"
	"strconv"
	"time"

	"arcade-room-system/models"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Reconciler is a periodic floor sweep: machines left in_use with no active
// session get released, and sessions running suspiciously long get flagged in
// the logs for an operator. The sweep uses the same guarded UPDATEs as the
// session lifecycle.
type Reconciler struct {
	DB            *gorm.DB
	MaxSessionAge time.Duration
}

func NewReconciler(db *gorm.DB) *Reconciler {
	maxHours := 4
	if v := os.Getenv("MAX_SESSION_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxHours = n
		}
	}
	return &Reconciler{
		DB:            db,
		MaxSessionAge: time.Duration(maxHours) * time.Hour,
	}
}

// Start runs the sweep every minute. The returned scheduler should be shut
// down on exit.
func (r *Reconciler) Start() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	if _, err := sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(r.sweep),
	); err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}

func (r *Reconciler) sweep() {
	// Machines marked in_use with no active session (manual DB edits,
	// bugs) go back on the floor.
	res := r.DB.Model(&models.Machine{}).
		Where("status = ?", models.MachineInUse).
		Where("NOT EXISTS (SELECT 1 FROM sessions WHERE sessions.machine_id = machines.id AND sessions.ended_at IS NULL AND sessions.deleted_at IS NULL)").
		Update("status", models.MachineAvailable)
	if res.Error != nil {
		log.Errorf("[Reconciler] machine sweep failed: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Infof("🔄 [Reconciler] released %d orphaned machine(s)", res.RowsAffected)
	}

	// Long-running sessions: flag, don't touch. Ending a player's session
	// behind their back is an operator decision.
	cutoff := time.Now().Add(-r.MaxSessionAge)
	var stale []models.Session
	if err := r.DB.Where("ended_at IS NULL AND started_at < ?", cutoff).
		Find(&stale).Error; err != nil {
		log.Errorf("[Reconciler] stale session scan failed: %v", err)
		return
	}
	for _, s := range stale {
		log.Warnf("⏰ [Reconciler] session %s active since %s (player %s, machine %s)",
			s.ID, s.StartedAt.Format(time.RFC3339), s.PlayerID, s.MachineID)
	}
}
