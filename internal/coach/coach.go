// Package coach provides AI-powered analysis of journaled trades.
package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	apperrors "trading-diary/internal/errors"
	"trading-diary/internal/logging"
	"trading-diary/internal/models"
	"trading-diary/internal/stats"
	"trading-diary/pkg/utils"
)

// maxTradesPerAnalysis caps how many recent trades are sent to the model.
const maxTradesPerAnalysis = 50

const systemPrompt = `You are an experienced trading mentor reviewing a trader's journal.
Analyze the trades and respond with a single JSON object, no markdown, with exactly these fields:
  "summary": a 2-3 sentence overview of the trader's recent performance,
  "strengths": an array of strings naming what the trader does well,
  "weaknesses": an array of strings naming recurring problems,
  "actionableTips": an array of concrete suggestions for the next trading week,
  "sentimentScore": an integer from 0 to 100 rating the trader's discipline.
Be direct and specific. Reference setups and mistakes from the data.`

// LLMClient abstracts the chat completion call for testing.
type LLMClient interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIClient implements LLMClient using the OpenAI API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIClient creates a new OpenAI LLM client.
func NewOpenAIClient(apiKey, model string, temperature float64, maxTokens int) *OpenAIClient {
	return &OpenAIClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
	}
}

// CompleteWithSystem sends a prompt with system message to the LLM.
func (c *OpenAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

// Coach turns a trade history into mentor-style feedback.
type Coach struct {
	client   LLMClient
	model    string
	retryCfg utils.RetryConfig
	logger   zerolog.Logger
}

// New creates a coach using the given LLM client.
func New(client LLMClient, model string, logger zerolog.Logger) *Coach {
	return &Coach{
		client:   client,
		model:    model,
		retryCfg: utils.DefaultRetryConfig(),
		logger:   logger,
	}
}

// Analyze reviews the user's closed trades and returns structured feedback.
func (c *Coach) Analyze(ctx context.Context, trades []models.Trade) (*models.AnalysisResult, error) {
	closed := stats.Closed(trades)
	if len(closed) == 0 {
		return nil, apperrors.NewCoachError("analyze", apperrors.ErrNoClosedTrades)
	}

	// Most recent trades carry the most signal
	if len(closed) > maxTradesPerAnalysis {
		closed = closed[len(closed)-maxTradesPerAnalysis:]
	}

	prompt, err := buildPrompt(closed)
	if err != nil {
		return nil, apperrors.NewCoachError("analyze", err)
	}

	start := time.Now()
	raw, err := utils.RetryWithResult(ctx, c.retryCfg, func() (string, error) {
		return c.client.CompleteWithSystem(ctx, systemPrompt, prompt)
	})
	logging.LogCoachCall(c.logger, c.model, len(closed), time.Since(start), err)
	if err != nil {
		return nil, apperrors.NewCoachError("analyze", err)
	}

	result, err := ParseAnalysis(raw)
	if err != nil {
		return nil, apperrors.NewCoachError("analyze", err)
	}
	return result, nil
}

func buildPrompt(closed []models.Trade) (string, error) {
	summaries := make([]models.TradeSummary, 0, len(closed))
	for _, t := range closed {
		summaries = append(summaries, models.TradeSummary{
			Symbol:   t.Symbol,
			Type:     t.Type,
			PnL:      t.PnL,
			Setup:    t.Setup,
			Mistakes: t.Mistakes,
			Notes:    t.Notes,
		})
	}

	data, err := json.Marshal(summaries)
	if err != nil {
		return "", fmt.Errorf("encoding trade summaries: %w", err)
	}

	summary := stats.Summarize(closed)
	return fmt.Sprintf(
		"Closed trades (oldest first): %s\n\nOverall: %d trades, net P&L %.2f, win rate %.1f%%.",
		string(data), summary.TotalTrades, summary.NetPnL, summary.WinRate), nil
}

// ParseAnalysis decodes the model's JSON reply, tolerating markdown fences.
func ParseAnalysis(raw string) (*models.AnalysisResult, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("decoding analysis response: %w", err)
	}
	if result.Summary == "" {
		return nil, fmt.Errorf("analysis response missing summary")
	}
	return &result, nil
}
