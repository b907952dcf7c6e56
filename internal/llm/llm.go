// File path: internal/llm/llm.go
package llm

import (
	"context"
	"os"
	"strings"

	"github.com/plandeck/plandeck/internal/common"
	"github.com/plandeck/plandeck/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

// NewProvider selects the text-generation backend from the environment.
// Gemini is preferred (the studio's default), OpenAI is the alternative, and
// the deterministic local provider keeps the rest of the system usable
// offline.
func NewProvider(ctx context.Context) Provider {
	logger := common.Logger()
	if apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); apiKey != "" {
		provider, err := providers.NewGeminiProvider(ctx, apiKey)
		if err != nil {
			logger.Error("llm: gemini provider unavailable, falling back", "error", err)
		} else {
			logger.Info("llm: Gemini provider selected")
			return provider
		}
	}
	if apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); apiKey != "" {
		logger.Info("llm: OpenAI provider selected")
		return providers.NewOpenAIProvider(apiKey)
	}
	logger.Warn("llm: no API key configured; falling back to local provider")
	return providers.NewLocalProvider()
}
