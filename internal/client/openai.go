package client

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mrjoshuak/summabrowse/internal/textutil"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// DefaultMaxInputChars bounds the text sent in one chat request.
const DefaultMaxInputChars = 24000

// ChatClient is the part of the OpenAI client the summarizer needs, so any
// OpenAI-compatible backend or a test double can be plugged in.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI summarizes text with a chat completion model.
type OpenAI struct {
	Client        ChatClient
	Model         string
	MaxInputChars int
}

// NewOpenAI creates an OpenAI summarizer. baseURL may point at any
// OpenAI-compatible server; empty selects the official endpoint.
func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAI{
		Client: openai.NewClientWithConfig(cfg),
		Model:  model,
	}
}

const summarySystemPrompt = "You summarize web content for a reader in a hurry. " +
	"Answer with the summary only, in the language of the text."

const analysisSystemPrompt = "You analyze web content. Describe the main topic, the key claims, " +
	"the tone and the intended audience. Answer with the analysis only."

// Summarize implements Summarizer.
func (o *OpenAI) Summarize(ctx context.Context, text, kind, length string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	source := "web page"
	if kind == KindSelection {
		source = "text selection"
	}
	instruction := "Summarize this " + source + " in three sentences or fewer."
	if length == LengthDetailed {
		instruction = "Summarize this " + source + " in a few paragraphs, keeping the important details."
	}
	out, err := o.complete(ctx, summarySystemPrompt, instruction, text)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return out, nil
}

// Analyze implements Summarizer.
func (o *OpenAI) Analyze(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	out, err := o.complete(ctx, analysisSystemPrompt, "Analyze this content.", text)
	if err != nil {
		return "", fmt.Errorf("analyze: %w", err)
	}
	return out, nil
}

func (o *OpenAI) complete(ctx context.Context, system, instruction, text string) (string, error) {
	limit := o.MaxInputChars
	if limit <= 0 {
		limit = DefaultMaxInputChars
	}

	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: instruction + "\n\n" + textutil.Truncate(text, limit)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}
