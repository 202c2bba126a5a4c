package agent

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/config"
)

const (
	maxRetries     = 3
	initialBackoff = 1 * time.Second
)

// ErrAPIKeyRequired is returned when an API key is needed but not provided.
var ErrAPIKeyRequired = errors.New("API key required")

// Narrator turns a question plus a JSON data context into prose.
type Narrator interface {
	Narrate(ctx context.Context, question, dataContext string) (string, error)
}

// claudeNarrator wraps the Anthropic API for answer generation.
type claudeNarrator struct {
	client         anthropic.Client
	model          anthropic.Model
	maxTokens      int64
	maxRetries     int
	initialBackoff time.Duration
}

// NewClaudeNarrator creates an Anthropic backed narrator. The
// ANTHROPIC_API_KEY env var takes precedence over the configured key.
func NewClaudeNarrator(cfg config.LLMConfig) (Narrator, error) {
	apiKey := cfg.AnthropicAPIKey
	if envKey := os.Getenv("ANTHROPIC_API_KEY"); envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY or configure one", ErrAPIKeyRequired)
	}

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &claudeNarrator{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:          anthropic.Model(cfg.AnthropicModel),
		maxTokens:      maxTokens,
		maxRetries:     maxRetries,
		initialBackoff: initialBackoff,
	}, nil
}

const systemPrompt = `You are an expert sprint data analyst with deep knowledge of agile metrics and KPIs.

**Your Capabilities:**
1. Analyze sprint data and provide precise, data-driven insights
2. Calculate derived metrics when not directly available in the data
3. Compare performance across sprints, teams, and time periods
4. Identify trends, patterns, and anomalies

**Key Metrics You Can Calculate:**
- **Completion Rate**: (Completed tickets or story points / Total tickets or story points) x 100%
- **Velocity**: Story points completed per sprint
- **Capacity Utilization**: (Story points completed / Team capacity) x 100%
- **Bug Resolution Rate**: (Closed bugs / Total bugs) x 100%
- **Cycle Time**: Average time from start to completion
- **Team Productivity**: Story points per team member
- **Work Distribution**: Balance of work across team members
- **Sprint Progress**: % of work completed vs in-progress vs to-do
- **Quality Metrics**: Bug ratio, defect density

**Instructions:**
- When asked about metrics not directly provided, calculate them from available data
- Always show your calculations clearly (e.g., "Completion rate: 15 done / 20 total = 75%")
- Provide context and insights, not just numbers
- Compare current performance to averages or previous sprints when relevant
- Identify red flags (overallocation, blocked tickets, high bug counts)
- Be concise but thorough, using bullet points for clarity
- Format percentages, ratios, and trends clearly`

func (n *claudeNarrator) Narrate(ctx context.Context, question, dataContext string) (string, error) {
	userPrompt := fmt.Sprintf(`Question: %s

Available Data Context:
%s

**Analysis Instructions:**
1. Examine the data carefully for both direct values and values that need calculation
2. If the question asks about a metric not directly provided (like completion rate, velocity, productivity), calculate it from the available data
3. Show your calculations clearly in the answer
4. Provide context and insights beyond just numbers
5. Compare against benchmarks or averages when relevant
6. Highlight any concerning patterns (low completion rates, many blocked tickets, etc.)

Please provide a clear, data-driven answer with calculated metrics where needed.`, question, dataContext)

	return n.callWithRetry(ctx, userPrompt)
}

func (n *claudeNarrator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     n.model,
		MaxTokens: n.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := n.initialBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		message, err := n.client.Messages.New(ctx, params)
		if err == nil {
			if len(message.Content) > 0 {
				content := message.Content[0]
				if content.Type == "text" {
					return content.Text, nil
				}
				return "", fmt.Errorf("unexpected response format: not a text block (type=%s)", content.Type)
			}
			return "", fmt.Errorf("unexpected response format: no content blocks")
		}

		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !isRetryable(err) {
			return "", fmt.Errorf("non-retryable error: %w", err)
		}
	}

	return "", fmt.Errorf("failed after %d retries: %w", n.maxRetries+1, lastErr)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		statusCode := apiErr.StatusCode
		return statusCode == 429 || statusCode >= 500
	}

	return false
}
