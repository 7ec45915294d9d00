package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/padraicbc/batstats/config"
)

var errEmptyCompletion = errors.New("no description in completion response")

// Client generates descriptions with a chat completions model.
type Client struct {
	api         openai.Client
	model       string
	maxTokens   int64
	temperature float64
	timeout     time.Duration
}

// New builds a Client from cfg. Extra request options are appended after the
// configured ones (tests use them to point at a local server).
func New(cfg config.LLM, opts ...option.RequestOption) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrMissingCredential
	}

	base := []option.RequestOption{
		option.WithAPIKey(cfg.Token),
		option.WithBaseURL(cfg.Endpoint),
		option.WithMaxRetries(0),
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		api:         openai.NewClient(append(base, opts...)...),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     timeout,
	}, nil
}

// Generate makes a single completion request bounded by the configured timeout.
// Every failure is returned as a *GenerationError.
func (c *Client) Generate(ctx context.Context, p Profile) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(p.Prompt()),
		},
		Temperature: openai.Float(c.temperature),
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(c.maxTokens)
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Kind: KindOther, Err: errEmptyCompletion}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &GenerationError{Kind: KindOther, Err: errEmptyCompletion}
	}
	return text, nil
}

func classify(err error) *GenerationError {
	ge := &GenerationError{Kind: KindOther, Err: err}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		ge.StatusCode = apiErr.StatusCode
		if apiErr.StatusCode == http.StatusTooManyRequests {
			ge.Kind = KindRateLimited
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		ge.Timeout = true
	}
	return ge
}
