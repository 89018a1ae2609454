package tracing

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/webdesk/internal/shared/id"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Header names used for trace propagation.
const (
	TraceHeader = "X-Trace-ID"
	SpanHeader  = "X-Span-ID"
)

// TraceID identifies one request across the desktop service and its upstreams.
type TraceID string

// SpanID identifies one operation inside a trace.
type SpanID string

// Span is a single timed operation.
type Span struct {
	TraceID    TraceID
	SpanID     SpanID
	ParentID   SpanID
	Name       string
	Service    string
	StartTime  time.Time
	Duration   time.Duration
	Tags       map[string]string
	Err        error
	StatusCode int
}

// Finish records the span duration.
func (s *Span) Finish() {
	s.Duration = time.Since(s.StartTime)
}

// SetTag adds a tag to the span.
func (s *Span) SetTag(key, value string) {
	s.Tags[key] = value
}

// SetError records a failure.
func (s *Span) SetError(err error) {
	s.Err = err
	if s.StatusCode == 0 {
		s.StatusCode = http.StatusInternalServerError
	}
}

// Tracer collects finished spans and writes them to the log.
type Tracer struct {
	service string
	logger  *zap.Logger
	spans   chan *Span
	done    chan struct{}
	once    sync.Once
}

// New creates a tracer and starts its collector.
func New(service string, logger *zap.Logger) *Tracer {
	t := &Tracer{
		service: service,
		logger:  logger,
		spans:   make(chan *Span, 1000),
		done:    make(chan struct{}),
	}
	go t.collect()
	return t
}

// StartSpan opens a span, continuing the trace found in ctx if any.
func (t *Tracer) StartSpan(ctx context.Context, name string) (*Span, context.Context) {
	traceID := TraceIDFrom(ctx)
	if traceID == "" {
		traceID = TraceID(uuid.NewString())
	}

	span := &Span{
		TraceID:   traceID,
		SpanID:    SpanID(id.NewRequestID()),
		ParentID:  SpanIDFrom(ctx),
		Name:      name,
		Service:   t.service,
		StartTime: time.Now(),
		Tags:      make(map[string]string),
	}

	ctx = context.WithValue(ctx, traceIDKey, traceID)
	ctx = context.WithValue(ctx, spanIDKey, span.SpanID)
	return span, ctx
}

// Submit hands a finished span to the collector. Spans are dropped when the
// buffer is full.
func (t *Tracer) Submit(span *Span) {
	select {
	case <-t.done:
		return
	default:
	}
	select {
	case t.spans <- span:
	default:
		t.logger.Warn("span buffer full, dropping span",
			zap.String("trace_id", string(span.TraceID)),
			zap.String("operation", span.Name),
		)
	}
}

// Close stops the collector. Spans submitted afterwards are ignored.
func (t *Tracer) Close() {
	t.once.Do(func() { close(t.done) })
}

func (t *Tracer) collect() {
	for {
		select {
		case span := <-t.spans:
			t.emit(span)
		case <-t.done:
			return
		}
	}
}

func (t *Tracer) emit(span *Span) {
	fields := []zap.Field{
		zap.String("trace_id", string(span.TraceID)),
		zap.String("span_id", string(span.SpanID)),
		zap.String("operation", span.Name),
		zap.Duration("duration", span.Duration),
		zap.Int("status", span.StatusCode),
	}
	if span.ParentID != "" {
		fields = append(fields, zap.String("parent_id", string(span.ParentID)))
	}
	for k, v := range span.Tags {
		fields = append(fields, zap.String(k, v))
	}

	if span.Err != nil {
		t.logger.Error("span completed with error", append(fields, zap.Error(span.Err))...)
		return
	}
	t.logger.Debug("span completed", fields...)
}

type contextKey string

const (
	traceIDKey contextKey = "trace_id"
	spanIDKey  contextKey = "span_id"
)

// TraceIDFrom returns the trace id stored in ctx.
func TraceIDFrom(ctx context.Context) TraceID {
	v, _ := ctx.Value(traceIDKey).(TraceID)
	return v
}

// SpanIDFrom returns the current span id stored in ctx.
func SpanIDFrom(ctx context.Context) SpanID {
	v, _ := ctx.Value(spanIDKey).(SpanID)
	return v
}

// WithTrace seeds ctx with an inbound trace context.
func WithTrace(ctx context.Context, traceID TraceID, parent SpanID) context.Context {
	if traceID != "" {
		ctx = context.WithValue(ctx, traceIDKey, traceID)
	}
	if parent != "" {
		ctx = context.WithValue(ctx, spanIDKey, parent)
	}
	return ctx
}

// Inject copies the trace context from ctx into outbound headers.
func Inject(ctx context.Context, h http.Header) {
	if traceID := TraceIDFrom(ctx); traceID != "" {
		h.Set(TraceHeader, string(traceID))
	}
	if spanID := SpanIDFrom(ctx); spanID != "" {
		h.Set(SpanHeader, string(spanID))
	}
}
