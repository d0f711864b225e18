package services

import (
	"encoding/json"
	"os"

	"arcade-room-system/models"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// NATS subjects for arcade events.
const (
	SubjectSessionStarted    = "arcade.session.started"
	SubjectSessionEnded      = "arcade.session.ended"
	SubjectAchievementEarned = "arcade.achievement.earned"
)

// EventPublisher pushes lifecycle events to NATS for downstream consumers
// (notifications, analytics). Publishing happens after the transaction
// commits and is best-effort: a broker hiccup is logged, never surfaced to
// the player.
type EventPublisher struct {
	Conn *nats.Conn
}

// ConnectEventPublisher connects to NATS_URL. Returns nil without error when
// NATS_URL is unset — eventing is optional and the core never depends on it.
func ConnectEventPublisher() (*EventPublisher, error) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		return nil, nil
	}

	opts := []nats.Option{nats.Name("arcade-room-system")}
	if token := os.Getenv("NATS_TOKEN"); token != "" {
		opts = append(opts, nats.Token(token))
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &EventPublisher{Conn: conn}, nil
}

func (p *EventPublisher) Close() {
	if p.Conn != nil {
		p.Conn.Close()
	}
}

func (p *EventPublisher) publish(subject string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("event marshal failed for %s: %v", subject, err)
		return
	}
	if err := p.Conn.Publish(subject, data); err != nil {
		log.Errorf("event publish failed for %s: %v", subject, err)
	}
}

func (p *EventPublisher) SessionStarted(session *models.Session) {
	p.publish(SubjectSessionStarted, session)
}

func (p *EventPublisher) SessionEnded(session *models.Session) {
	p.publish(SubjectSessionEnded, session)
}

func (p *EventPublisher) AchievementEarned(playerID string, achievement *models.Achievement) {
	p.publish(SubjectAchievementEarned, map[string]interface{}{
		"player_id":   playerID,
		"achievement": achievement,
	})
}
