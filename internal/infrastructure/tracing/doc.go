/*
Package tracing adds lightweight request tracing to the desktop service.

Every HTTP request gets a span. The trace id is taken from X-Trace-ID when
the caller supplies one and minted otherwise, then echoed back in the
response headers. Outbound calls (the assistant client) carry the same
headers through Inject so upstream logs can be correlated.

Finished spans are buffered and written through zap by a single collector
goroutine. When the buffer fills, spans are dropped with a warning.

# Usage

	tracer := tracing.New("webdesk", logger)
	defer tracer.Close()
	router.Use(tracing.HTTPMiddleware(tracer))
*/
package tracing
