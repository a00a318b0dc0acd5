// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package openai implements llm.Provider against OpenAI-compatible chat APIs.
package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/relevit/llm"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider implements llm.Provider using the OpenAI chat completion API.
// It also works against OpenAI-compatible local services when a base
// URL is configured.
type Provider struct {
	client *openai.LLM
	logger *slog.Logger
}

// Config holds connection settings for the OpenAI provider.
type Config struct {
	// BaseURL overrides the API endpoint. Empty uses the OpenAI default.
	BaseURL string
	// APIToken authenticates requests. Empty falls back to the
	// OPENAI_API_KEY environment variable.
	APIToken string
}

// Option configures the provider.
type Option func(*Config)

// WithBaseURL points the provider at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithAPIToken sets the API token.
func WithAPIToken(token string) Option {
	return func(c *Config) { c.APIToken = token }
}

// NewProvider creates an OpenAI-backed provider.
//
// Returns llm.Provider interface to enforce abstraction.
func NewProvider(opts ...Option) (llm.Provider, error) {
	config := &Config{}
	for _, opt := range opts {
		opt(config)
	}

	var clientOpts []openai.Option
	if config.BaseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(config.BaseURL))
	}
	if config.APIToken != "" {
		clientOpts = append(clientOpts, openai.WithToken(config.APIToken))
	}

	client, err := openai.New(clientOpts...)
	if err != nil {
		return nil, err
	}

	return &Provider{
		client: client,
		logger: slog.Default().With("component", "openai-provider"),
	}, nil
}

// Name returns the registry name for this provider.
func (p *Provider) Name() string {
	return "openai"
}

// Complete runs one chat completion call.
func (p *Provider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.Completion, error) {
	content := messageContent(req.Messages)

	response, err := p.client.GenerateContent(ctx, content,
		llms.WithModel(req.Model),
		llms.WithTemperature(req.Temperature),
		llms.WithMaxTokens(req.MaxTokens),
	)
	if err != nil {
		classified := llm.ClassifyProviderError("openai", err)
		p.logger.Error("completion failed", "model", req.Model, "err", err)
		return nil, classified
	}
	if len(response.Choices) == 0 {
		return nil, llm.ClassifyProviderError("openai", llm.ErrEmptyResponse)
	}

	choice := response.Choices[0]
	tokensIn, _ := choice.GenerationInfo["PromptTokens"].(int)
	tokensOut, _ := choice.GenerationInfo["CompletionTokens"].(int)

	return &llm.Completion{
		Content:   choice.Content,
		TokensIn:  tokensIn,
		TokensOut: tokensOut,
	}, nil
}

// messageContent converts provider-neutral messages to the wire format.
func messageContent(messages []llm.Message) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		content = append(content, llms.MessageContent{
			Role:  chatMessageType(msg.Role),
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}
	return content
}

func chatMessageType(role llm.Role) llms.ChatMessageType {
	switch role {
	case llm.RoleSystem:
		return llms.ChatMessageTypeSystem
	case llm.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
