package notifications

import (
	"context"

	"github.com/velmark/vitrine-display-service/internal/domain"
)

// LocalPublisher fans out to this process's hub only. Tests and
// single-process setups use it directly; production chains it behind the
// database relay instead, which loops events back through the listener.
type LocalPublisher struct {
	hub *Hub
}

func NewLocalPublisher(hub *Hub) *LocalPublisher {
	return &LocalPublisher{hub: hub}
}

func (p *LocalPublisher) Publish(_ context.Context, _ string, payload []byte) error {
	p.hub.Broadcast(payload)
	return nil
}

// MultiPublisher publishes to several sinks in order. A sink error stops
// the chain so the caller's retry policy re-publishes everywhere;
// duplicate delivery is acceptable, silent loss is not.
type MultiPublisher struct {
	sinks []domain.Publisher
}

func NewMultiPublisher(sinks ...domain.Publisher) *MultiPublisher {
	return &MultiPublisher{sinks: sinks}
}

func (p *MultiPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, channel, payload); err != nil {
			return err
		}
	}
	return nil
}
