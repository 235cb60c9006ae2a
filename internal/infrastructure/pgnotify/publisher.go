package pgnotify

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Publisher pushes events through Postgres NOTIFY so every process's
// listener, including this one's, relays them to its local streams.
type Publisher struct {
	db *gorm.DB
}

func NewPublisher(db *gorm.DB) *Publisher {
	return &Publisher{db: db}
}

func (p *Publisher) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := p.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", channel, string(payload)).Error; err != nil {
		return fmt.Errorf("pg_notify on %s: %w", channel, err)
	}
	return nil
}
