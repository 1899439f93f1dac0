package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/sdr-ops/internal/resilience"
)

// EmailMarker delimits the email body from the reasoning section in
// generated responses. Prompt templates instruct the model to emit it;
// parsing depends on it staying stable.
const EmailMarker = "---EMAIL---"

// ModelErrorKind classifies adapter failures.
type ModelErrorKind string

const (
	// ErrUnavailable marks sustained transient failure or a missing API key.
	ErrUnavailable ModelErrorKind = "unavailable"
	// ErrInvalidResponse marks a malformed or empty model response.
	ErrInvalidResponse ModelErrorKind = "invalid_response"
)

// ModelError is the typed failure returned by the adapter.
type ModelError struct {
	Kind ModelErrorKind
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("model error: %s", e.Kind)
	}
	return fmt.Sprintf("model error: %s: %v", e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// ModelOutput is a successful generation, split into reasoning and email
// body at the EmailMarker.
type ModelOutput struct {
	Reasoning string `json:"reasoning"`
	Email     string `json:"email"`
}

// AdapterConfig holds the adapter's call policy.
type AdapterConfig struct {
	Model      string
	MaxTokens  int64
	Timeout    time.Duration // per-attempt deadline
	MaxRetries int           // retries after the first attempt
	RetryDelay time.Duration // constant delay between attempts
	RateRPS    float64       // outbound rate limit, 0 disables

	// OnRetry is invoked before each retry sleep, in addition to the
	// adapter's own retry logging. Optional.
	OnRetry func(attempt int, err error)
}

// Adapter wraps a Client with timeout, retry and response parsing. A nil
// client (no API key configured) makes every Generate return
// ErrUnavailable without attempting a call.
type Adapter struct {
	client  Client
	cfg     AdapterConfig
	limiter *rate.Limiter
}

// NewAdapter creates an Adapter. Pass a nil client to build a permanently
// unavailable adapter for keyless deployments.
func NewAdapter(client Client, cfg AdapterConfig) *Adapter {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	a := &Adapter{client: client, cfg: cfg}
	if cfg.RateRPS > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(cfg.RateRPS), max(int(cfg.RateRPS), 1))
	}
	return a
}

// Enabled reports whether the adapter has a backing client.
func (a *Adapter) Enabled() bool { return a.client != nil }

// Generate issues one generation call with the configured timeout, retrying
// transient failures up to MaxRetries times (MaxRetries+1 total attempts).
// On success the response is split at EmailMarker into reasoning and email;
// a missing marker is not fatal: the full text becomes reasoning and the
// email stays empty.
func (a *Adapter) Generate(ctx context.Context, prompt string) (ModelOutput, error) {
	if a.client == nil {
		return ModelOutput{}, &ModelError{Kind: ErrUnavailable, Err: eris.New("llm: no API key configured")}
	}

	logRetry := resilience.RetryLogger("llm", "generate")
	retryCfg := resilience.RetryConfig{
		MaxAttempts: a.cfg.MaxRetries + 1,
		Delay:       a.cfg.RetryDelay,
		OnRetry: func(attempt int, err error) {
			logRetry(attempt, err)
			if a.cfg.OnRetry != nil {
				a.cfg.OnRetry(attempt, err)
			}
		},
	}

	resp, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (*MessageResponse, error) {
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "llm: rate limit")
			}
		}
		callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()

		return a.client.CreateMessage(callCtx, MessageRequest{
			Model:     a.cfg.Model,
			MaxTokens: a.cfg.MaxTokens,
			Messages:  []Message{{Role: "user", Content: prompt}},
		})
	})
	if err != nil {
		return ModelOutput{}, &ModelError{Kind: ErrUnavailable, Err: err}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return ModelOutput{}, &ModelError{Kind: ErrInvalidResponse, Err: eris.New("llm: empty response")}
	}

	zap.L().Debug("llm: generation complete",
		zap.String("model", resp.Model),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)

	return ParseOutput(text), nil
}

// ParseOutput splits generated text into reasoning and email at EmailMarker.
func ParseOutput(text string) ModelOutput {
	reasoning, email, found := strings.Cut(text, EmailMarker)
	out := ModelOutput{Reasoning: strings.TrimSpace(reasoning)}
	if found {
		out.Email = strings.TrimSpace(email)
	}
	return out
}
