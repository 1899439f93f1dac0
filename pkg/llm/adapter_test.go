package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/sdr-ops/internal/resilience"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// scriptedClient returns queued responses or errors in order, counting calls.
type scriptedClient struct {
	calls     int
	responses []*MessageResponse
	errs      []error
}

func (c *scriptedClient) CreateMessage(_ context.Context, _ MessageRequest) (*MessageResponse, error) {
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return nil, c.errs[i]
	}
	if i < len(c.responses) {
		return c.responses[i], nil
	}
	return nil, errors.New("script exhausted")
}

func textResponse(text string) *MessageResponse {
	return &MessageResponse{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func fastConfig(maxRetries int) AdapterConfig {
	return AdapterConfig{
		Model:      "test-model",
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
		Timeout:    time.Second,
	}
}

func TestGenerate_NilClientUnavailableWithoutCall(t *testing.T) {
	a := NewAdapter(nil, fastConfig(3))

	_, err := a.Generate(context.Background(), "prompt")
	var merr *ModelError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, ErrUnavailable, merr.Kind)
}

func TestGenerate_SplitsAtMarker(t *testing.T) {
	client := &scriptedClient{responses: []*MessageResponse{
		textResponse("Fit looks strong.\n" + EmailMarker + "\nHi Jane, quick question."),
	}}
	a := NewAdapter(client, fastConfig(0))

	out, err := a.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Fit looks strong.", out.Reasoning)
	assert.Equal(t, "Hi Jane, quick question.", out.Email)
	assert.Equal(t, 1, client.calls)
}

func TestGenerate_MissingMarkerNotFatal(t *testing.T) {
	client := &scriptedClient{responses: []*MessageResponse{
		textResponse("All reasoning, no email section."),
	}}
	a := NewAdapter(client, fastConfig(0))

	out, err := a.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "All reasoning, no email section.", out.Reasoning)
	assert.Empty(t, out.Email)
}

func TestGenerate_EmptyResponseInvalid(t *testing.T) {
	client := &scriptedClient{responses: []*MessageResponse{textResponse("   ")}}
	a := NewAdapter(client, fastConfig(0))

	_, err := a.Generate(context.Background(), "prompt")
	var merr *ModelError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, ErrInvalidResponse, merr.Kind)
	assert.Equal(t, 1, client.calls)
}

func TestGenerate_RetriesTransientThenSucceeds(t *testing.T) {
	client := &scriptedClient{
		errs:      []error{resilience.NewTransientError(errors.New("boom"), 503), nil},
		responses: []*MessageResponse{nil, textResponse("ok\n" + EmailMarker + "\nhello")},
	}
	var retries int
	cfg := fastConfig(3)
	cfg.OnRetry = func(int, error) { retries++ }
	a := NewAdapter(client, cfg)

	out, err := a.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Email)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, 1, retries)
}

func TestGenerate_RetryBound(t *testing.T) {
	// Persistent transient failure: exactly MaxRetries+1 attempts, no more.
	transient := resilience.NewTransientError(errors.New("overloaded"), 529)
	client := &scriptedClient{errs: []error{transient, transient, transient, transient, transient}}
	a := NewAdapter(client, fastConfig(2))

	_, err := a.Generate(context.Background(), "prompt")
	var merr *ModelError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, ErrUnavailable, merr.Kind)
	assert.Equal(t, 3, client.calls)
}

func TestGenerate_PermanentErrorNoRetry(t *testing.T) {
	client := &scriptedClient{errs: []error{errors.New("invalid api key")}}
	a := NewAdapter(client, fastConfig(3))

	_, err := a.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestGenerate_ContextCancelStopsRetries(t *testing.T) {
	transient := resilience.NewTransientError(errors.New("down"), 503)
	client := &scriptedClient{errs: []error{transient, transient, transient}}
	cfg := fastConfig(5)
	cfg.RetryDelay = time.Minute
	a := NewAdapter(client, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := a.Generate(ctx, "prompt")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 1, client.calls)
}

func TestParseOutput(t *testing.T) {
	out := ParseOutput("reasoning here " + EmailMarker + " email here")
	assert.Equal(t, "reasoning here", out.Reasoning)
	assert.Equal(t, "email here", out.Email)

	out = ParseOutput(EmailMarker + "only email")
	assert.Empty(t, out.Reasoning)
	assert.Equal(t, "only email", out.Email)

	out = ParseOutput("no marker at all")
	assert.Equal(t, "no marker at all", out.Reasoning)
	assert.Empty(t, out.Email)
}

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "part one"},
		{Type: "tool_use", Text: "ignored"},
		{Type: "text", Text: " part two"},
	}}
	assert.Equal(t, "part one part two", resp.Text())
}
