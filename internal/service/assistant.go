package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/set-night/subguard/internal/config"
	"github.com/set-night/subguard/internal/domain"
)

// Assistant answers a single prompt under a system instruction.
type Assistant interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ChatAssistant talks to an OpenAI-compatible chat-completion endpoint.
type ChatAssistant struct {
	client openai.Client
	model  string
}

func NewChatAssistant(apiKey, baseURL, model string) *ChatAssistant {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		// callers bound every request with a short timeout; retries would outlive it
		option.WithMaxRetries(0),
	)
	return &ChatAssistant{client: client, model: model}
}

func (a *ChatAssistant) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(config.AssistantMaxTokens),
		Temperature: openai.Float(config.AssistantTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.ErrEmptyReply
	}

	text := PlainText(resp.Choices[0].Message.Content)
	if text == "" {
		return "", domain.ErrEmptyReply
	}
	return text, nil
}

// PlainText strips HTML markup and entities some models emit, since replies
// are sent to Telegram without a parse mode.
func PlainText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("script, style").Remove()
	return strings.TrimSpace(doc.Text())
}
