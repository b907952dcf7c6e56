// File path: internal/llm/providers/local.go
package providers

import (
	"context"
	"fmt"
	"strings"
)

type Message struct {
	Role    string
	Content string
}

type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Name() string
}

// LocalProvider is a deterministic offline backend. When a prompt asks for
// the structured comparison contract it answers with a minimal valid payload
// so the report pipeline stays exercisable without network access.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

const localStructuredReply = `{
  "recommendation": {"plan": "Alpha", "reason": "Placeholder recommendation from the offline provider."},
  "scoreboard": [{"criterion": "Circulation", "winner": "Alpha"}],
  "details": [{"criterion": "Circulation", "analysisAlpha": "Placeholder.", "analysisBeta": "Placeholder.", "verdict": "Alpha"}],
  "risks": []
}`

func (l *LocalProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	for _, msg := range messages {
		if strings.Contains(msg.Content, "single JSON object") {
			return localStructuredReply, nil
		}
	}
	last := messages[len(messages)-1].Content
	return "[local-stub] " + strings.TrimSpace(last), nil
}

func (l *LocalProvider) Name() string {
	return "local"
}
