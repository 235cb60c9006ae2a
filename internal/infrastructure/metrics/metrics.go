package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DisplayMetrics holds every metric of the display pipeline. All Record
// helpers are nil-safe so unit tests can run without a registry.
type DisplayMetrics struct {
	PriceTicksTotal        prometheus.Counter
	PriceProductsSeen      prometheus.Counter
	PriceChangesTotal      prometheus.Counter
	CampaignTransitions    prometheus.CounterVec
	QuickAdPlaysTotal      prometheus.Counter
	NotificationsPublished prometheus.CounterVec
	StreamClients          prometheus.Gauge
	JobsProcessedTotal     prometheus.CounterVec
	TickErrorsTotal        prometheus.CounterVec
}

func NewDisplayMetrics() *DisplayMetrics {
	return &DisplayMetrics{
		PriceTicksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "price_ticks_total",
			Help: "Number of completed price recomputation passes",
		}),
		PriceProductsSeen: promauto.NewCounter(prometheus.CounterOpts{
			Name: "price_products_seen_total",
			Help: "Products examined by the price engine",
		}),
		PriceChangesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "price_changes_total",
			Help: "Products whose price actually moved",
		}),
		CampaignTransitions: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campaign_transitions_total",
				Help: "Campaign state machine transitions",
			},
			[]string{"to_status"},
		),
		QuickAdPlaysTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "quick_ad_plays_total",
			Help: "Quick ads pushed to the display",
		}),
		NotificationsPublished: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_published_total",
				Help: "Events published through the notification channels",
			},
			[]string{"channel"},
		),
		StreamClients: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "stream_clients",
			Help: "Open display client streams on this process",
		}),
		JobsProcessedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobs_processed_total",
				Help: "Durable queue jobs by task name and outcome",
			},
			[]string{"name", "outcome"},
		),
		TickErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tick_errors_total",
				Help: "Failed recurring task runs",
			},
			[]string{"task"},
		),
	}
}

func (m *DisplayMetrics) RecordPriceTick(seen, changed int) {
	if m == nil {
		return
	}
	m.PriceTicksTotal.Inc()
	m.PriceProductsSeen.Add(float64(seen))
	m.PriceChangesTotal.Add(float64(changed))
}

func (m *DisplayMetrics) RecordCampaignTransition(toStatus string) {
	if m == nil {
		return
	}
	m.CampaignTransitions.WithLabelValues(toStatus).Inc()
}

func (m *DisplayMetrics) RecordQuickAdPlay() {
	if m == nil {
		return
	}
	m.QuickAdPlaysTotal.Inc()
}

func (m *DisplayMetrics) RecordNotification(channel string) {
	if m == nil {
		return
	}
	m.NotificationsPublished.WithLabelValues(channel).Inc()
}

func (m *DisplayMetrics) StreamClientConnected() {
	if m == nil {
		return
	}
	m.StreamClients.Inc()
}

func (m *DisplayMetrics) StreamClientGone() {
	if m == nil {
		return
	}
	m.StreamClients.Dec()
}

func (m *DisplayMetrics) RecordJob(name, outcome string) {
	if m == nil {
		return
	}
	m.JobsProcessedTotal.WithLabelValues(name, outcome).Inc()
}

func (m *DisplayMetrics) RecordTickError(task string) {
	if m == nil {
		return
	}
	m.TickErrorsTotal.WithLabelValues(task).Inc()
}
