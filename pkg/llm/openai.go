package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Extraction is what the model recovers when heuristics could not: the
// employer and role named in a job-related email.
type Extraction struct {
	Company string `json:"company"`
	Role    string `json:"role"`
}

// Client is a best-effort secondary extractor. The sync pipeline treats it as
// an optional black box: absent or failing, classification falls back to
// heuristic results.
type Client struct {
	api   openai.Client
	model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		api:   openai.NewClient(option.WithAPIKey(apiKey)),
		model: model,
	}
}

func (c *Client) ExtractApplication(ctx context.Context, subject, body string) (*Extraction, error) {
	if len(body) > 4000 {
		body = body[:4000]
	}

	prompt := fmt.Sprintf(`The following email concerns a job application. Extract the company name and the job title. Return ONLY pure JSON, without markdown and without backticks.

Format:
{"company":"...","role":"..."}

Use an empty string when a field cannot be determined.

Email:
Subject: %s

Body:
%s`, subject, body)

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var result Extraction
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &result); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}
	return &result, nil
}
