// File path: internal/analysis/analysis.go
package analysis

import (
	"encoding/json"
	"strings"

	"github.com/plandeck/plandeck/internal/common"
	"github.com/plandeck/plandeck/internal/domain"
)

// PlanLabel identifies which alternative a verdict refers to.
type PlanLabel string

const (
	PlanAlpha PlanLabel = "Alpha"
	PlanBeta  PlanLabel = "Beta"
	PlanTie   PlanLabel = "Tie"
)

type Recommendation struct {
	Plan   PlanLabel `json:"plan"`
	Reason string    `json:"reason"`
}

type ScoreEntry struct {
	Criterion string    `json:"criterion"`
	Winner    PlanLabel `json:"winner"`
}

type DetailEntry struct {
	Criterion     string `json:"criterion"`
	AnalysisAlpha string `json:"analysisAlpha"`
	AnalysisBeta  string `json:"analysisBeta"`
	Verdict       string `json:"verdict"`
}

type RiskEntry struct {
	Risk         string `json:"risk"`
	SuggestedFix string `json:"suggestedFix"`
}

// StructuredAnalysis is the contract between the generation backend and the
// report renderer.
type StructuredAnalysis struct {
	Recommendation Recommendation `json:"recommendation"`
	Scoreboard     []ScoreEntry   `json:"scoreboard"`
	Details        []DetailEntry  `json:"details"`
	Risks          []RiskEntry    `json:"risks"`
}

// ParseSection dispatches on the section's format tag. Markdown sections are
// deliberately prose and yield no structured analysis; untagged content is
// sniffed before parsing.
func ParseSection(sec *domain.GeneratedTextSection) *StructuredAnalysis {
	if sec == nil {
		return nil
	}
	switch sec.Format {
	case domain.FormatJSON:
		return Parse(sec.Content)
	case domain.FormatMarkdown:
		return nil
	}
	if !looksLikeJSON(sec.Content) {
		return nil
	}
	return Parse(sec.Content)
}

// Parse attempts to read content as a StructuredAnalysis. The backend is a
// trust boundary: any parse or validation failure collapses to nil, never to
// an error. Stored content may also predate the JSON contract entirely.
func Parse(content string) *StructuredAnalysis {
	trimmed := stripFences(strings.TrimSpace(content))
	if trimmed == "" {
		return nil
	}
	var out StructuredAnalysis
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		common.Logger().Debug("analysis: content is not structured", "error", err)
		return nil
	}
	if !out.validate() {
		common.Logger().Debug("analysis: structured content failed validation")
		return nil
	}
	return &out
}

func (a *StructuredAnalysis) validate() bool {
	plan, ok := normalizeLabel(a.Recommendation.Plan, false)
	if !ok || strings.TrimSpace(a.Recommendation.Reason) == "" {
		return false
	}
	a.Recommendation.Plan = plan
	for i, entry := range a.Scoreboard {
		winner, ok := normalizeLabel(entry.Winner, true)
		if !ok || strings.TrimSpace(entry.Criterion) == "" {
			return false
		}
		a.Scoreboard[i].Winner = winner
	}
	for _, d := range a.Details {
		if strings.TrimSpace(d.Criterion) == "" {
			return false
		}
	}
	for _, r := range a.Risks {
		if strings.TrimSpace(r.Risk) == "" {
			return false
		}
	}
	return true
}

func normalizeLabel(label PlanLabel, allowTie bool) (PlanLabel, bool) {
	switch strings.ToLower(strings.TrimSpace(string(label))) {
	case "alpha", "a":
		return PlanAlpha, true
	case "beta", "b":
		return PlanBeta, true
	case "tie", "draw", "empate":
		if allowTie {
			return PlanTie, true
		}
	}
	return "", false
}

// stripFences removes a surrounding markdown code fence if present. Backends
// frequently wrap JSON replies in ```json blocks despite instructions.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func looksLikeJSON(content string) bool {
	trimmed := strings.TrimSpace(content)
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "```")
}
