package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the notes API.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AICalls    *prometheus.CounterVec
	AIDuration *prometheus.HistogramVec

	NotesWritten       *prometheus.CounterVec
	RecordingsArchived prometheus.Counter
	AudioBytes         prometheus.Histogram
}

// New creates all collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dailynotes_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dailynotes_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		AICalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dailynotes_ai_calls_total",
			Help: "Total number of language model calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		AIDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dailynotes_ai_call_duration_seconds",
			Help:    "Duration of language model calls",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		}, []string{"operation"}),

		NotesWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dailynotes_notes_written_total",
			Help: "Total number of note writes by action",
		}, []string{"action"}),
		RecordingsArchived: factory.NewCounter(prometheus.CounterOpts{
			Name: "dailynotes_recordings_archived_total",
			Help: "Total number of uploaded recordings stored in object storage",
		}),
		AudioBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dailynotes_transcribe_audio_bytes",
			Help:    "Size of audio bodies sent for transcription",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10), // 16KB to ~8MB
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordAICall records a language model call. err == nil counts as success.
func (m *Metrics) RecordAICall(operation string, d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.AICalls.WithLabelValues(operation, outcome).Inc()
	m.AIDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) RecordNoteWrite(action string) {
	m.NotesWritten.WithLabelValues(action).Inc()
}

func (m *Metrics) RecordRecordingArchived() {
	m.RecordingsArchived.Inc()
}

func (m *Metrics) RecordAudioBytes(n int) {
	m.AudioBytes.Observe(float64(n))
}
