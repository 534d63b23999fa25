package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sync run outcomes used as the "result" label.
const (
	SyncResultOK        = "ok"
	SyncResultNoPending = "no_pending"
	SyncResultError     = "error"
)

var (
	FeedbackSyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_sync_runs_total",
			Help: "Reply-sync runs by outcome.",
		},
		[]string{"result"},
	)

	FeedbackRepliesSynced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_replies_synced_total",
			Help: "Feedback records moved to replied by the reply sync.",
		},
	)

	FeedbackSubmissions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Feedback items submitted.",
		},
	)

	ProfileAnalyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_analyses_total",
			Help: "Career analyses requested, by outcome.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(FeedbackSyncRuns)
	prometheus.MustRegister(FeedbackRepliesSynced)
	prometheus.MustRegister(FeedbackSubmissions)
	prometheus.MustRegister(ProfileAnalyses)
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
