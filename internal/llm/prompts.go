// File path: internal/llm/prompts.go
package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/plandeck/plandeck/internal/domain"
)

// Prompt builders for the three generation flows. The comparative flow pins
// the reply to the StructuredAnalysis contract consumed by the report
// renderer; the other two are free-form prose.

const consultantRole = "You are a senior residential architecture consultant."

// GuidelinesPrompt asks for general design guidelines from the client profile
// and property facts.
func GuidelinesPrompt(p domain.Project) []Message {
	var b strings.Builder
	b.WriteString("Based on the data below, write general design guidelines that help the architect decide on layout, materials and functionality.\n\n")
	writeJSONBlock(&b, "Client profile", p.ClientProfile)
	writeJSONBlock(&b, "Property", p.PropertyInfo)
	b.WriteString("\nThe text must be professional, structured and inspiring. Use short section labels ending in a colon and bullet points starting with \"- \".")
	return []Message{
		{Role: "system", Content: consultantRole},
		{Role: "user", Content: b.String()},
	}
}

// ComparativePrompt asks for the structured comparison of the two plan
// alternatives. The selected criteria only steer emphasis; the reply shape is
// fixed.
func ComparativePrompt(p domain.Project) []Message {
	var b strings.Builder
	b.WriteString("Compare two floor-plan alternatives for the same residential project.\n\n")
	writeJSONBlock(&b, "Alternative Alpha", p.PlanA)
	writeJSONBlock(&b, "Alternative Beta", p.PlanB)
	writeJSONBlock(&b, "Client profile", p.ClientProfile)
	if p.Comparison != nil {
		if emphasis := p.Comparison.Criteria.EmphasisList(); len(emphasis) > 0 {
			fmt.Fprintf(&b, "Criteria to emphasize: %s.\n", strings.Join(emphasis, ", "))
		}
	}
	b.WriteString(`
Respond with a single JSON object and nothing else (no markdown fences, no commentary), with exactly this shape:
{
  "recommendation": {"plan": "Alpha" or "Beta", "reason": string},
  "scoreboard": [{"criterion": string, "winner": "Alpha" or "Beta" or "Tie"}],
  "details": [{"criterion": string, "analysisAlpha": string, "analysisBeta": string, "verdict": string}],
  "risks": [{"risk": string, "suggestedFix": string}]
}`)
	return []Message{
		{Role: "system", Content: "You are an architect analyst. " + consultantRole},
		{Role: "user", Content: b.String()},
	}
}

// TemplatePrompt asks for room-level recommendations for one template input.
func TemplatePrompt(input domain.TemplateInput, profile *domain.ClientProfile) []Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Write detailed recommendations for the room: %s.\n", input.TemplateType)
	fmt.Fprintf(&b, "Inputs: size %s, style %s, budget %s, preferences %s.\n",
		input.ApproximateSize, input.Style, input.Budget, input.Preferences)
	writeJSONBlock(&b, "Client context", profile)
	b.WriteString(`
Answer in 4 clearly labelled parts:
1. Room concept
2. Practical recommendations
3. Points of attention (common mistakes)
4. Material and furniture suggestions per price tier`)
	return []Message{
		{Role: "system", Content: consultantRole},
		{Role: "user", Content: b.String()},
	}
}

func writeJSONBlock(b *strings.Builder, label string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		data = []byte("null")
	}
	fmt.Fprintf(b, "%s: %s\n", label, data)
}
