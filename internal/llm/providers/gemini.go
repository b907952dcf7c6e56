// File path: internal/llm/providers/gemini.go
package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/schema"

	"github.com/plandeck/plandeck/internal/common"
)

type GeminiProvider struct {
	model     llms.Model
	chatModel string
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	chatModel := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if chatModel == "" {
		chatModel = "gemini-1.5-pro"
	}
	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(chatModel),
	)
	if err != nil {
		return nil, fmt.Errorf("configure gemini: %w", err)
	}
	common.Logger().Info("llm: Gemini provider configured", "chat_model", chatModel)
	return &GeminiProvider{model: client, chatModel: chatModel}, nil
}

func (g *GeminiProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	logger := common.Logger()
	logger.Debug("llm: sending generate request", "model", g.chatModel, "messages", len(messages))
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		role := schema.ChatMessageTypeHuman
		if strings.EqualFold(msg.Role, "system") {
			role = schema.ChatMessageTypeSystem
		}
		content = append(content, llms.TextParts(role, msg.Content))
	}
	resp, err := g.model.GenerateContent(ctx, content)
	if err != nil {
		logger.Error("llm: generate request failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	logger.Debug("llm: generate request succeeded")
	return resp.Choices[0].Content, nil
}

func (g *GeminiProvider) Name() string {
	return "gemini"
}
