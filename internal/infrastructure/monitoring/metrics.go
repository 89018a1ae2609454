package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for one desktop instance.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Window metrics
	WindowsOpen     prometheus.Gauge
	WindowsOpened   *prometheus.CounterVec
	WindowOps       *prometheus.CounterVec
	PointerGestures *prometheus.CounterVec

	// File system metrics
	FSNodes         prometheus.Gauge
	FSMutations     *prometheus.CounterVec
	FSPersists      prometheus.Counter
	FSPersistErrors prometheus.Counter
	FSDegraded      prometheus.Gauge

	// Assistant metrics
	AICalls    *prometheus.CounterVec
	AIDuration prometheus.Histogram

	// Terminal metrics
	Commands *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time
	snapshot  Snapshot
	mu        sync.RWMutex
}

// Snapshot holds current values for the JSON health API.
type Snapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	OpenWindows       int64   `json:"open_windows"`
	ActiveConnections int64   `json:"active_connections"`
	AvgLatencyMS      float64 `json:"avg_latency_ms"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a collector backed by its own registry, so several
// instances can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdesk_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webdesk_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webdesk_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		WindowsOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "webdesk_windows_open",
			Help: "Number of open windows",
		}),
		WindowsOpened: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdesk_windows_opened_total",
				Help: "Windows created, by application kind",
			},
			[]string{"app"},
		),
		WindowOps: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdesk_window_operations_total",
				Help: "Window manager operations, by kind and outcome",
			},
			[]string{"op", "result"},
		),
		PointerGestures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdesk_pointer_gestures_total",
				Help: "Completed pointer gestures, by kind",
			},
			[]string{"kind"},
		),

		FSNodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "webdesk_fs_nodes",
			Help: "Number of nodes in the virtual file system",
		}),
		FSMutations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdesk_fs_mutations_total",
				Help: "Virtual file system mutations, by operation",
			},
			[]string{"op"},
		),
		FSPersists: f.NewCounter(prometheus.CounterOpts{
			Name: "webdesk_fs_persists_total",
			Help: "Successful tree persists",
		}),
		FSPersistErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "webdesk_fs_persist_errors_total",
			Help: "Failed tree persists",
		}),
		FSDegraded: f.NewGauge(prometheus.GaugeOpts{
			Name: "webdesk_fs_degraded",
			Help: "1 when the file system has stopped persisting",
		}),

		AICalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdesk_ai_calls_total",
				Help: "Assistant calls, by mode and outcome",
			},
			[]string{"mode", "result"},
		),
		AIDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "webdesk_ai_duration_seconds",
			Help:    "Assistant call duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),

		Commands: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdesk_terminal_commands_total",
				Help: "Terminal commands executed, by command name",
			},
			[]string{"command"},
		),

		WSConnections: f.NewGauge(prometheus.GaugeOpts{
			Name: "webdesk_ws_connections",
			Help: "Number of active WebSocket connections",
		}),
		WSMessages: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdesk_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "webdesk_uptime_seconds",
		Help: "Service uptime in seconds",
	}, func() float64 {
		return time.Since(m.startTime).Seconds()
	})

	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// SetWindowsOpen sets the number of open windows.
func (m *Metrics) SetWindowsOpen(count int) {
	m.WindowsOpen.Set(float64(count))
	m.mu.Lock()
	m.snapshot.OpenWindows = int64(count)
	m.mu.Unlock()
}

// IncWindowsOpened counts a newly created window.
func (m *Metrics) IncWindowsOpened(app string) {
	m.WindowsOpened.WithLabelValues(app).Inc()
}

// RecordWindowOp counts a window manager operation.
func (m *Metrics) RecordWindowOp(op string, ok bool) {
	m.WindowOps.WithLabelValues(op, result(ok)).Inc()
}

// RecordGesture counts a completed pointer gesture.
func (m *Metrics) RecordGesture(kind string) {
	m.PointerGestures.WithLabelValues(kind).Inc()
}

// SetFSNodes sets the node count.
func (m *Metrics) SetFSNodes(count int) {
	m.FSNodes.Set(float64(count))
}

// RecordFSMutation counts a file system mutation.
func (m *Metrics) RecordFSMutation(op string) {
	m.FSMutations.WithLabelValues(op).Inc()
}

// RecordPersist counts a persist attempt.
func (m *Metrics) RecordPersist(err error) {
	if err != nil {
		m.FSPersistErrors.Inc()
		return
	}
	m.FSPersists.Inc()
}

// SetFSDegraded flags the file system as no longer persisting.
func (m *Metrics) SetFSDegraded(degraded bool) {
	if degraded {
		m.FSDegraded.Set(1)
		return
	}
	m.FSDegraded.Set(0)
}

// RecordAICall records an assistant call.
func (m *Metrics) RecordAICall(mode string, ok bool, duration time.Duration) {
	m.AICalls.WithLabelValues(mode, result(ok)).Inc()
	m.AIDuration.Observe(duration.Seconds())
}

// RecordCommand counts a terminal command.
func (m *Metrics) RecordCommand(name string) {
	m.Commands.WithLabelValues(name).Inc()
}

// RecordWSMessage records a WebSocket message.
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections.
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections.
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns current values for the JSON API.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.TotalRequests > 0 {
		s.AvgLatencyMS = s.totalDuration / float64(s.TotalRequests) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "miss"
}
