// Package cardgen fills in card content for a word using an
// OpenAI-compatible chat completion API.
package cardgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/vocab"
)

// Generator produces a card preview for a word.
type Generator interface {
	Generate(ctx context.Context, word string) (*models.CardDraft, error)
}

var (
	ErrEmptyResponse = errors.New("cardgen: empty response")
	ErrMalformed     = errors.New("cardgen: response is not a card")
)

const systemPrompt = `You write English vocabulary flashcards for Chinese-speaking learners.
Reply with one JSON object and nothing else: no markdown, no code fences, no commentary.
The object must have exactly these string fields:
"word" (the word as given, lower case), "phonetic" (IPA between slashes),
"pos" (abbreviated part of speech such as "n.", "v.", "adj."),
"definition" (a short English definition), "example" (one natural English sentence using the word),
"example_cn" (a Chinese translation of the example).`

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

type OpenAIGenerator struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIGenerator builds a generator for cfg. It returns an error when no
// API key is configured.
func NewOpenAIGenerator(cfg Config) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("cardgen: API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("cardgen: model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIGenerator{
		client:  openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, word string) (*models.CardDraft, error) {
	log := logger.FromContext(ctx).WithPrefix("cardgen")
	log.Debug("generating card: word=%s, model=%s", word, g.model)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(fmt.Sprintf("Word: %s", word)),
		},
		MaxCompletionTokens: openai.Int(500),
		Temperature:         openai.Float(0.3),
	})
	if err != nil {
		log.Error("chat completion failed: word=%s, err=%v", word, err)
		return nil, fmt.Errorf("cardgen: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		log.Warn("chat completion returned no choices: word=%s", word)
		return nil, ErrEmptyResponse
	}

	draft, err := ParseDraft(resp.Choices[0].Message.Content, word)
	if err != nil {
		log.Warn("unusable card for word=%s: %v", word, err)
		return nil, err
	}
	log.Debug("card generated: word=%s, duration=%v", word, time.Since(start))
	return draft, nil
}

// ParseDraft decodes a model reply into a sanitized draft for word. Code
// fences around the JSON are tolerated. The requested word always wins over
// whatever the model echoed back.
func ParseDraft(content, word string) (*models.CardDraft, error) {
	raw := stripFences(content)
	if raw == "" {
		return nil, ErrEmptyResponse
	}

	var d models.CardDraft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if strings.TrimSpace(d.Definition) == "" {
		return nil, fmt.Errorf("%w: missing definition", ErrMalformed)
	}

	d.Word = word
	prepared, err := vocab.Prepare(d)
	if err != nil {
		return nil, err
	}
	return &prepared, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
