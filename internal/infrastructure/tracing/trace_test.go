package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStartSpanContinuesTrace(t *testing.T) {
	tracer := New("test", zap.NewNop())
	defer tracer.Close()

	root, ctx := tracer.StartSpan(context.Background(), "root")
	child, childCtx := tracer.StartSpan(ctx, "child")

	assert.NotEmpty(t, root.TraceID)
	assert.Equal(t, root.TraceID, child.TraceID)
	assert.Equal(t, root.SpanID, child.ParentID)
	assert.Equal(t, child.SpanID, SpanIDFrom(childCtx))
}

func TestInject(t *testing.T) {
	ctx := WithTrace(context.Background(), "trace-1", "span-1")
	h := http.Header{}
	Inject(ctx, h)

	assert.Equal(t, "trace-1", h.Get(TraceHeader))
	assert.Equal(t, "span-1", h.Get(SpanHeader))
}

func TestHTTPMiddlewareEchoesHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := New("test", zap.NewNop())
	defer tracer.Close()

	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	var seen TraceID
	router.GET("/ping", func(c *gin.Context) {
		seen = TraceIDFrom(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(TraceHeader, "abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "abc", w.Header().Get(TraceHeader))
	assert.NotEmpty(t, w.Header().Get(SpanHeader))
	assert.Equal(t, TraceID("abc"), seen)
}

func TestSubmitAfterCloseIsIgnored(t *testing.T) {
	tracer := New("test", zap.NewNop())
	tracer.Close()
	tracer.Close()

	span, _ := tracer.StartSpan(context.Background(), "late")
	span.Finish()
	assert.NotPanics(t, func() { tracer.Submit(span) })
}
