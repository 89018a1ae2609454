package ai

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/GriffinCanCode/webdesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/tracing"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Config configures the Gemini client.
type Config struct {
	APIKey       string
	Model        string
	Endpoint     string
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	RPS          float64 // zero means unlimited
	Burst        int
}

// DefaultConfig returns settings for the public Gemini API.
func DefaultConfig() Config {
	return Config{
		Model:        "gemini-2.5-flash",
		Endpoint:     "https://generativelanguage.googleapis.com/v1beta",
		Timeout:      2 * time.Minute,
		MaxRetries:   3,
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: 5 * time.Second,
		RPS:          2,
		Burst:        4,
	}
}

// Gemini talks to the Gemini REST API through a retrying transport, a rate
// limiter and a circuit breaker.
type Gemini struct {
	cfg     Config
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewGemini creates a client. An empty APIKey is allowed; every call then
// answers MsgNoKey without touching the network.
func NewGemini(cfg Config) *Gemini {
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = def.Endpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	// retries happen in the transport; resty only shapes requests
	client := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "webdesk/1.0").
		SetJSONMarshaler(sonic.Marshal)

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}

	g := &Gemini{
		cfg:     cfg,
		resty:   client,
		limiter: rate.NewLimiter(limit, max(cfg.Burst, 1)),
		logger:  zap.NewNop(),
	}
	g.breaker = resilience.New("gemini", resilience.Settings{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsFailure: func(err error) bool {
			return err != nil && !errors.Is(err, errStopped) && !errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to resilience.State) {
			g.logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return g
}

// WithLogger sets the logger.
func (g *Gemini) WithLogger(l *zap.Logger) *Gemini {
	g.logger = l.Named("gemini")
	return g
}

// WithMetrics records call counts and latency.
func (g *Gemini) WithMetrics(m *monitoring.Metrics) *Gemini {
	g.metrics = m
	return g
}

// Breaker exposes the circuit breaker state.
func (g *Gemini) Breaker() *resilience.Breaker {
	return g.breaker
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// text joins the parts of the first candidate.
func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func newRequest(prompt string) generateRequest {
	return generateRequest{Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}}}
}

// Generate implements Service.
func (g *Gemini) Generate(ctx context.Context, prompt string) string {
	if g.cfg.APIKey == "" {
		return MsgNoKey
	}

	timer := monitoring.NewTimer(g.metrics, "generate")
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	text, err := resilience.Call(ctx, g.breaker, func(ctx context.Context) (string, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", err
		}

		resp, err := g.request(ctx).SetBody(newRequest(prompt)).
			Post("/models/" + g.cfg.Model + ":generateContent")
		if err != nil {
			return "", err
		}
		if resp.IsError() {
			var apiErr apiError
			_ = sonic.Unmarshal(resp.Body(), &apiErr)
			return "", statusError(resp.StatusCode(), apiErr)
		}

		var out generateResponse
		if err := sonic.Unmarshal(resp.Body(), &out); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		return out.text(), nil
	})
	timer.Stop(err == nil)

	if err != nil {
		g.logger.Warn("generate failed", zap.Error(err))
		return ErrorText(err)
	}
	if text == "" {
		return MsgNoResponse
	}
	return Sanitize(text)
}

// GenerateStream implements Service using server-sent events.
func (g *Gemini) GenerateStream(ctx context.Context, prompt string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if g.cfg.APIKey == "" {
			yield(MsgNoKey)
			return
		}

		timer := monitoring.NewTimer(g.metrics, "stream")
		ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()

		err := g.breaker.Do(ctx, func(ctx context.Context) error {
			if err := g.limiter.Wait(ctx); err != nil {
				return err
			}
			return g.stream(ctx, prompt, yield)
		})
		timer.Stop(err == nil || errors.Is(err, errStopped))

		if err != nil && !errors.Is(err, errStopped) {
			g.logger.Warn("stream failed", zap.Error(err))
			yield(ErrorText(err))
		}
	}
}

// errStopped marks a stream the consumer abandoned.
var errStopped = errors.New("consumer stopped")

func (g *Gemini) stream(ctx context.Context, prompt string, yield func(string) bool) error {
	resp, err := g.request(ctx).
		SetBody(newRequest(prompt)).
		SetQueryParam("alt", "sse").
		SetDoNotParseResponse(true).
		Post("/models/" + g.cfg.Model + ":streamGenerateContent")
	if err != nil {
		return err
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() >= http.StatusBadRequest {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(body)
		var apiErr apiError
		_ = sonic.Unmarshal(buf.Bytes(), &apiErr)
		return statusError(resp.StatusCode(), apiErr)
	}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "" || data == "[DONE]" {
			continue
		}

		var chunk generateResponse
		if err := sonic.UnmarshalString(data, &chunk); err != nil {
			return fmt.Errorf("decode chunk: %w", err)
		}
		if text := chunk.text(); text != "" {
			if !yield(text) {
				return errStopped
			}
		}
	}
	return scanner.Err()
}

func (g *Gemini) request(ctx context.Context) *resty.Request {
	req := g.resty.R().SetContext(ctx).SetHeader("x-goog-api-key", g.cfg.APIKey)
	tracing.Inject(ctx, req.Header)
	return req
}

func statusError(code int, apiErr apiError) error {
	if apiErr.Error.Message != "" {
		return errors.New(apiErr.Error.Message)
	}
	return fmt.Errorf("HTTP %d", code)
}
