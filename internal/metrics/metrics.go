package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "hotro_security_bot"

var (
	DeletedMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "deleted_messages_total",
		Help:      "Total number of deleted messages",
	}, []string{"reason"})

	Warnings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "warnings_total",
		Help:      "Total number of warnings issued",
	})

	Bans = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "bans_total",
		Help:      "Total number of ban actions",
	}, []string{"reason"})

	Mutes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "mutes_total",
		Help:      "Total number of mute actions",
	}, []string{"reason"})

	TrialsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "trials_started_total",
		Help:      "Total number of trials activated",
	})

	KeysIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "license_keys_issued_total",
		Help:      "Total number of license keys generated",
	})

	KeysRedeemed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "license_keys_redeemed_total",
		Help:      "Total number of license keys redeemed",
	})

	PromosSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "promos_sent_total",
		Help:      "Total number of scheduled broadcasts sent",
	})

	UpdateProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "update_processing_duration_seconds",
		Help:      "Duration of update processing",
		Buckets:   prometheus.DefBuckets,
	}, []string{"type", "status"})

	ActiveProUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "active_pro_users",
		Help:      "Number of users with an active pro grant",
	})

	ActiveMutes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "active_mutes",
		Help:      "Number of currently active mutes",
	})
)

func IncDeletedMessages(reason string) {
	DeletedMessages.WithLabelValues(reason).Inc()
}

func IncWarnings() {
	Warnings.Inc()
}

func IncBans(reason string) {
	Bans.WithLabelValues(reason).Inc()
}

func IncMutes(reason string) {
	Mutes.WithLabelValues(reason).Inc()
}

func IncTrialsStarted() {
	TrialsStarted.Inc()
}

func IncKeysIssued() {
	KeysIssued.Inc()
}

func IncKeysRedeemed() {
	KeysRedeemed.Inc()
}

func IncPromosSent() {
	PromosSent.Inc()
}

func SetActiveProUsers(count float64) {
	ActiveProUsers.Set(count)
}

func SetActiveMutes(count float64) {
	ActiveMutes.Set(count)
}

func ObserveUpdateProcessing(updateType string, duration float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	UpdateProcessingDuration.WithLabelValues(updateType, status).Observe(duration)
}
