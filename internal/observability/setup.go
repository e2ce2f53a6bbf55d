package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
)

var (
	warnsIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warns_issued_total",
			Help: "Total number of warns issued",
		},
		[]string{"origin"},
	)

	bansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bans_total",
			Help: "Total number of bans applied",
		},
		[]string{"origin"},
	)

	bannedWordHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "banned_word_hits_total",
			Help: "Total number of messages matching a banned word",
		},
	)

	menuInteractionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "menu_interactions_total",
			Help: "Total number of settings menu button presses",
		},
	)

	updateProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "update_processing_duration_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)

func Init(ctx context.Context, metricsAddr string) error {
	prometheus.MustRegister(warnsIssuedTotal)
	prometheus.MustRegister(bansTotal)
	prometheus.MustRegister(bannedWordHitsTotal)
	prometheus.MustRegister(menuInteractionsTotal)
	prometheus.MustRegister(updateProcessingDuration)

	tp := trace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			<-ctx.Done()
			_ = server.Close()
		}()
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics server failed")
		}
	}()

	return nil
}

func RecordWarnIssued(origin string) {
	warnsIssuedTotal.WithLabelValues(origin).Inc()
}

func RecordBan(origin string) {
	bansTotal.WithLabelValues(origin).Inc()
}

func RecordWordHit() {
	bannedWordHitsTotal.Inc()
}

func RecordMenuInteraction() {
	menuInteractionsTotal.Inc()
}

// StartUpdateProcessing returns a function that records the elapsed
// processing time under the final status label.
func StartUpdateProcessing() func(status string) {
	timer := prometheus.NewTimer(nil)
	return func(status string) {
		updateProcessingDuration.WithLabelValues(status).Observe(timer.ObserveDuration().Seconds())
	}
}
