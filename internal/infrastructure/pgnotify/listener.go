package pgnotify

import (
	"context"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/velmark/vitrine-display-service/internal/notifications"
)

// Listener holds the one dedicated LISTEN connection of a process and
// relays every received channel message to the local hub. Together with
// the Publisher it forms the two-tier fan-out: database channel -> one
// relay per process -> N local streams.
type Listener struct {
	dsn      string
	channels []string
	hub      *notifications.Hub
	logger   *zap.Logger
}

func NewListener(dsn string, channels []string, hub *notifications.Hub, logger *zap.Logger) *Listener {
	return &Listener{dsn: dsn, channels: channels, hub: hub, logger: logger}
}

// Start blocks relaying notifications until the context is cancelled.
func (l *Listener) Start(ctx context.Context) error {
	listener := pq.NewListener(l.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.logger.Error("notification listener event", zap.Int("event", int(ev)), zap.Error(err))
		}
	})
	defer listener.Close()

	for _, channel := range l.channels {
		if err := listener.Listen(channel); err != nil {
			return err
		}
	}
	l.logger.Info("notification relay listening", zap.Strings("channels", l.channels))

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// Nil notifications signal a reconnect; clients reconcile
			// through the state endpoint, so nothing is replayed.
			if n == nil {
				continue
			}
			delivered := l.hub.Broadcast([]byte(n.Extra))
			l.logger.Debug("relayed notification",
				zap.String("channel", n.Channel),
				zap.Int("delivered", delivered),
			)
		case <-ping.C:
			if err := listener.Ping(); err != nil {
				l.logger.Error("notification listener ping failed", zap.Error(err))
			}
		}
	}
}
