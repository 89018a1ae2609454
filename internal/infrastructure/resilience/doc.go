/*
Package resilience guards calls to the assistant upstream with a circuit
breaker.

The breaker starts closed. Once ReadyToTrip reports true after a failure it
opens and rejects calls with ErrCircuitOpen until Timeout elapses. It then
admits MaxRequests trial calls in the half-open state; enough successes close
it again and any failure reopens it.

Errors are classified with IsFailure. By default a context.Canceled from the
caller does not count against the upstream.

# Usage

	breaker := resilience.New("gemini", resilience.Settings{Timeout: 30 * time.Second})

	text, err := resilience.Call(ctx, breaker, func(ctx context.Context) (string, error) {
		return client.generate(ctx, prompt)
	})
*/
package resilience
