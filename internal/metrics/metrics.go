package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easyslot_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	CheckCycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "easyslot_check_cycle_duration_seconds",
			Help:    "Duration of each appointment check cycle in seconds.",
			Buckets: []float64{5, 15, 30, 60, 120, 300},
		},
	)
	CheckCyclesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easyslot_check_cycles_total",
			Help: "Total number of completed check cycles by outcome.",
		},
		[]string{"outcome"},
	)
	SlotsFoundCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "easyslot_slots_found_total",
			Help: "Total number of open appointment slots seen.",
		},
	)
	NotificationsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "easyslot_notifications_sent_total",
			Help: "Total number of notifications handed to senders.",
		},
	)
)

func StartMetricsServer() {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(CheckCycleDuration)
	prometheus.MustRegister(CheckCyclesCounter)
	prometheus.MustRegister(SlotsFoundCounter)
	prometheus.MustRegister(NotificationsCounter)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(":8080", nil))
	}()
}
