package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

var errEmptyResponse = errors.New("empty model response")

// Client wraps the generative model behind the subtask and insight flows.
// Callers treat it as a best-effort collaborator: any failure is replaced by
// a static fallback at the route layer.
type Client struct {
	client *genai.Client
	model  string
	logger *log.Logger
}

// New creates a generative client. An empty model falls back to the default.
func New(ctx context.Context, apiKey, model string, logger *log.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{client: client, model: model, logger: logger}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}

type subtaskOutput struct {
	Subtasks []string `json:"subtasks"`
}

// SuggestSubtasks asks the model for concrete steps toward completing a task.
func (c *Client) SuggestSubtasks(ctx context.Context, task string) ([]string, error) {
	prompt := fmt.Sprintf(`You are a helpful assistant that suggests subtasks for a given task.

Task: %s

Respond with JSON of the form {"subtasks": ["..."]} listing subtasks that would help the user complete the task.`, task)

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var out subtaskOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode subtask response: %w", err)
	}
	if len(out.Subtasks) == 0 {
		return nil, errEmptyResponse
	}
	return out.Subtasks, nil
}

type insightOutput struct {
	Insights string `json:"insights"`
}

// JournalInsights analyzes newline-separated journal entries for mood and
// behavior patterns.
func (c *Client) JournalInsights(ctx context.Context, entries string) (string, error) {
	prompt := fmt.Sprintf(`You are an AI assistant that provides insights based on journal entries.

Analyze the following journal entries and provide insights into the user's mood, behavior, and any trends or patterns.
Respond with JSON of the form {"insights": "..."}.

Journal Entries:
%s`, entries)

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	var out insightOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return "", fmt.Errorf("decode insight response: %w", err)
	}
	if strings.TrimSpace(out.Insights) == "" {
		return "", errEmptyResponse
	}
	return out.Insights, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errEmptyResponse
	}
	if c.logger != nil {
		c.logger.WithField("model", c.model).Debug("generative response received")
	}
	return sb.String(), nil
}
