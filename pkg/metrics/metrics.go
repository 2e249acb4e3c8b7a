package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "trmnltides"

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: subsystem,
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"verb", "path", "code"},
	)

	cycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "report_cycles_total",
			Subsystem: subsystem,
			Help:      "Report cycles by result.",
		},
		[]string{"result"},
	)

	cycleLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:      "report_cycle_latency",
			Subsystem: subsystem,
			Help:      "Time to fetch, classify and deliver one report, in seconds.",
			Buckets:   []float64{0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0, 64.0},
		},
	)

	tideSamples = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:      "tide_samples",
			Subsystem: subsystem,
			Help:      "Number of tide samples classified in the last report.",
		},
	)

	lastSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:      "last_success_timestamp_seconds",
			Subsystem: subsystem,
			Help:      "Unix time of the last report delivered to the webhook.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		cycles,
		cycleLatency,
		tideSamples,
		lastSuccess,
	)
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// ObserveCycle counts one report cycle with its result label and duration.
func ObserveCycle(result string, latency time.Duration) {
	cycles.WithLabelValues(result).Inc()
	cycleLatency.Observe(latency.Seconds())
}

// SetTideSamples records the size of the last classified series.
func SetTideSamples(n int) {
	tideSamples.Set(float64(n))
}

// MarkDelivered records a successful delivery at t.
func MarkDelivered(t time.Time) {
	lastSuccess.Set(float64(t.Unix()))
}

// LatencyHandler observes the latency of requests through next. Install it
// with Router.Use so requests are labeled by route.
func LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := routeOf(r)
		rec := &statusRecorder{ResponseWriter: w}

		// Defer metric observing. Any panics in next are reported as 500 errors
		// and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
				panic(err)
			}
			ObserveRequestLatency(verb, path, rec.code(), time.Since(t).Seconds())
		}()

		next.ServeHTTP(rec, r)
	})
}

// routeOf is the path template of the mux route r matched, or "other" outside
// of a route.
func routeOf(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "other"
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) code() string {
	if r.status == 0 {
		// Unset, will be set to 200 by stdlib.
		return "200"
	}
	return strconv.Itoa(r.status)
}
