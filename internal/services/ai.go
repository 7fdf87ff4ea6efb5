package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

var _ TodoGenerator = (*AIService)(nil)

type AIService struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

// SuggestedTodo is one entry of the model's raw JSON answer
type SuggestedTodo struct {
	Title    string     `json:"title"`
	Priority string     `json:"priority"`
	DueDate  *time.Time `json:"dueDate"`
}

func NewAIService(apiKey string) *AIService {
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey))
}

// NewAIServiceWithConfig builds an AIService against any OpenAI-compatible endpoint.
func NewAIServiceWithConfig(cfg openai.ClientConfig) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4o,
		now:    time.Now,
	}
}

const promptTemplate = `You are a todo extraction assistant. Extract concrete todos from the text below.

Current time: %s

Text:
%s

Return a JSON array of todos in this format:
[
  {
    "title": "short todo title",
    "priority": "low, medium or high",
    "dueDate": "deadline in ISO8601, e.g. 2025-10-28T23:59:59Z, or null when none is given"
  }
]

Rules:
- Return an empty array [] when the text contains no todos
- Turn relative deadlines such as "tomorrow" or "next week" into concrete timestamps
- dueDate must be an ISO8601 string or null
- Return only the JSON, no explanations`

// GenerateTodosFromText analyzes text and extracts todos using OpenAI GPT
func (s *AIService) GenerateTodosFromText(ctx context.Context, text string) ([]SuggestedTodo, error) {
	if s.client == nil {
		return nil, errors.New("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(promptTemplate, s.now().Format(time.RFC3339), text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var todos []SuggestedTodo
	if err := json.Unmarshal([]byte(content), &todos); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return todos, nil
}

// stripCodeFence removes a markdown ```json fence the model sometimes adds
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimPrefix(content, "json")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
