package function

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

type metrics struct {
	invocations *prometheus.CounterVec
	rows        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func newMetrics(r prometheus.Registerer) *metrics {
	return &metrics{
		invocations: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "arrowfn_function_invocations_total",
			Help: "Total number of function invocations.",
		}, []string{"function", "status"}),
		rows: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "arrowfn_function_rows_total",
			Help: "Total number of rows passed to functions.",
		}, []string{"function"}),
		duration: promauto.With(r).NewHistogramVec(prometheus.HistogramOpts{
			Name: "arrowfn_function_duration_seconds",
			Help: "Time taken to evaluate a function over a batch.",

			Buckets:                         prometheus.ExponentialBuckets(0.00001, 4, 10),
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 0,
		}, []string{"function"}),
	}
}
