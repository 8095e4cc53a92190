package coach

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trading-diary/internal/errors"
	"trading-diary/internal/models"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeLLM) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, userPrompt)
	return f.response, f.err
}

const validResponse = `{
	"summary": "Solid week overall with disciplined breakout entries.",
	"strengths": ["Sticks to the breakout setup"],
	"weaknesses": ["Sizes up after losses"],
	"actionableTips": ["Cap position size at 2% risk"],
	"sentimentScore": 72
}`

func closedTrade(pnl float64) models.Trade {
	tr := models.NewTrade()
	tr.Symbol = "RELIANCE"
	tr.Setup = "Breakout"
	tr.PnL = pnl
	tr.ExitDate = time.Now()
	return tr
}

func newTestCoach(llm LLMClient) *Coach {
	return New(llm, "gpt-4o", zerolog.Nop())
}

func TestAnalyze(t *testing.T) {
	llm := &fakeLLM{response: validResponse}
	c := newTestCoach(llm)

	result, err := c.Analyze(context.Background(), []models.Trade{closedTrade(100), closedTrade(-50)})
	require.NoError(t, err)
	assert.Equal(t, "Solid week overall with disciplined breakout entries.", result.Summary)
	assert.Equal(t, []string{"Sticks to the breakout setup"}, result.Strengths)
	assert.Equal(t, 72, result.SentimentScore)
	assert.Equal(t, 1, llm.calls)

	// Prompt carries the trade data and headline numbers
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "RELIANCE")
	assert.Contains(t, llm.prompts[0], "2 trades")
	assert.Contains(t, llm.prompts[0], "50.00")
}

func TestAnalyzeNoClosedTrades(t *testing.T) {
	llm := &fakeLLM{response: validResponse}
	c := newTestCoach(llm)

	open := models.NewTrade()
	_, err := c.Analyze(context.Background(), []models.Trade{open})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNoClosedTrades))
	assert.Zero(t, llm.calls)

	_, err = c.Analyze(context.Background(), nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrNoClosedTrades))
}

func TestAnalyzeCapsTradeCount(t *testing.T) {
	llm := &fakeLLM{response: validResponse}
	c := newTestCoach(llm)

	trades := make([]models.Trade, 0, maxTradesPerAnalysis+20)
	for i := 0; i < maxTradesPerAnalysis+20; i++ {
		trades = append(trades, closedTrade(float64(i)))
	}

	_, err := c.Analyze(context.Background(), trades)
	require.NoError(t, err)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "50 trades")
}

func TestAnalyzeRetriesOnFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("rate limited")}
	c := newTestCoach(llm)
	c.retryCfg.InitialDelay = time.Millisecond
	c.retryCfg.MaxDelay = time.Millisecond

	_, err := c.Analyze(context.Background(), []models.Trade{closedTrade(100)})
	require.Error(t, err)
	var cerr *apperrors.CoachError
	assert.ErrorAs(t, err, &cerr)
	assert.Equal(t, c.retryCfg.MaxAttempts, llm.calls)
}

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"plain json", validResponse, false},
		{"json fence", "```json\n" + validResponse + "\n```", false},
		{"bare fence", "```\n" + validResponse + "\n```", false},
		{"surrounding whitespace", "\n\n  " + validResponse + "  \n", false},
		{"not json", "I cannot help with that.", true},
		{"missing summary", `{"strengths": ["a"], "sentimentScore": 5}`, true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseAnalysis(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(result.Summary, "Solid week"))
			assert.Equal(t, 72, result.SentimentScore)
		})
	}
}
