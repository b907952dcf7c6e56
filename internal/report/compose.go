// File path: internal/report/compose.go
package report

import (
	"fmt"
	"strings"

	"github.com/plandeck/plandeck/internal/analysis"
	"github.com/plandeck/plandeck/internal/common"
	"github.com/plandeck/plandeck/internal/domain"
)

// Composer decides which sections to emit and in what order. Optional project
// data gates each section: the executive summary and scoreboard always render
// (as placeholders when the analysis is absent), the guidelines section is
// omitted entirely when there are none.
type Composer struct {
	theme Theme
}

func NewComposer(theme Theme) *Composer {
	return &Composer{theme: theme}
}

// Compose lays out the full document for one project snapshot. Malformed or
// missing analysis content degrades to placeholder sections; composition only
// fails when the drawing primitive itself reports an error.
func (c *Composer) Compose(p domain.Project) (*Engine, error) {
	logger := common.Logger()
	eng := NewEngine(c.theme)

	if err := eng.Cover(CoverData{
		Title:    c.theme.CoverTitle,
		Project:  p.Name,
		Client:   p.Client,
		DateText: p.ProjectDate.Format("02 Jan 2006"),
	}); err != nil {
		return nil, err
	}
	if err := eng.BeginBody(); err != nil {
		return nil, err
	}

	section := comparisonSection(p)
	sa := analysis.ParseSection(section)
	if section != nil && sa == nil {
		logger.Debug("report: comparison content has no structured analysis", "project", p.ID)
	}

	c.executiveSummary(eng, sa)
	c.factsBand(eng, p)
	c.guidelines(eng, p)
	c.scoreboard(eng, sa)
	c.detailedComparison(eng, sa)
	c.proseAnalysis(eng, section, sa)
	c.risksAndSignOff(eng, sa)
	c.roomStudies(eng, p)
	c.closingNotes(eng, p)

	if err := eng.Finalize(); err != nil {
		return nil, fmt.Errorf("compose report: %w", err)
	}
	logger.Info("report: document composed", "project", p.ID, "pages", eng.PageCount())
	return eng, nil
}

func comparisonSection(p domain.Project) *domain.GeneratedTextSection {
	if p.Comparison == nil {
		return nil
	}
	return p.Comparison.Analysis
}

func (c *Composer) executiveSummary(eng *Engine, sa *analysis.StructuredAnalysis) {
	eng.PlaceHeading("Executive Summary", 1)
	if sa == nil {
		eng.PlaceBand("Comparative analysis pending. Generate the plan comparison to complete this section.", c.theme.BandBg)
		return
	}
	eng.PlaceBand(fmt.Sprintf("Recommended: Plan %s. %s", sa.Recommendation.Plan, sa.Recommendation.Reason), c.theme.BandBg)
	var why []string
	for _, entry := range sa.Scoreboard {
		if entry.Winner == sa.Recommendation.Plan {
			why = append(why, fmt.Sprintf("%s favors Plan %s", entry.Criterion, entry.Winner))
		}
	}
	if len(why) > 0 {
		eng.PlaceBulletList(why)
	}
}

func (c *Composer) factsBand(eng *Engine, p domain.Project) {
	profile := p.ClientProfile
	info := p.PropertyInfo
	if profile == nil && info == nil {
		return
	}
	eng.PlaceHeading("Client & Property", 1)
	var items []KeyValue
	if profile != nil {
		items = append(items,
			KeyValue{Key: "Client type", Value: string(profile.ClientType)},
			KeyValue{Key: "Household size", Value: fmt.Sprintf("%d", profile.HouseholdSize)},
			KeyValue{Key: "Budget tier", Value: string(profile.Budget)},
			KeyValue{Key: "Desired style", Value: profile.DesiredStyle},
			KeyValue{Key: "Priorities", Value: strings.Join(profile.Priorities, ", ")},
		)
	}
	if info != nil {
		items = append(items,
			KeyValue{Key: "Property type", Value: string(info.PropertyType)},
			KeyValue{Key: "Total area", Value: fmt.Sprintf("%.0f m²", info.TotalArea)},
			KeyValue{Key: "Bedrooms", Value: fmt.Sprintf("%d", info.Bedrooms)},
			KeyValue{Key: "Bathrooms", Value: fmt.Sprintf("%d", info.Bathrooms)},
		)
	}
	eng.PlaceKeyValueBand(items)
	if info != nil && strings.TrimSpace(info.Restrictions) != "" {
		eng.PlaceParagraph("Restrictions: " + info.Restrictions)
	}
}

func (c *Composer) guidelines(eng *Engine, p domain.Project) {
	if p.Guidelines == nil || strings.TrimSpace(p.Guidelines.Content) == "" {
		return
	}
	eng.PlaceHeading("Design Guidelines", 1)
	placeTaggedLines(eng, classifyLines(p.Guidelines.Content))
}

func (c *Composer) scoreboard(eng *Engine, sa *analysis.StructuredAnalysis) {
	eng.PlaceHeading("Scoreboard", 1)
	if sa == nil || len(sa.Scoreboard) == 0 {
		eng.PlaceParagraph("No comparative scores available yet.")
		return
	}
	for _, entry := range sa.Scoreboard {
		eng.PlaceScorePill(entry.Criterion, string(entry.Winner))
	}
}

func (c *Composer) detailedComparison(eng *Engine, sa *analysis.StructuredAnalysis) {
	if sa == nil || len(sa.Details) == 0 {
		return
	}
	eng.PlaceHeading("Detailed Comparison", 1)
	for _, detail := range sa.Details {
		eng.PlaceHeading(detail.Criterion, 2)
		eng.PlaceTwoColumnBlock("Plan Alpha", detail.AnalysisAlpha, "Plan Beta", detail.AnalysisBeta)
		if strings.TrimSpace(detail.Verdict) != "" {
			eng.PlaceBand("Verdict: "+detail.Verdict, c.theme.BandBg)
		}
	}
}

// proseAnalysis renders legacy free-text comparison content produced before
// the structured JSON contract. It only runs when the stored content is
// clearly prose, never when a JSON parse merely failed validation.
func (c *Composer) proseAnalysis(eng *Engine, section *domain.GeneratedTextSection, sa *analysis.StructuredAnalysis) {
	if sa != nil || section == nil || strings.TrimSpace(section.Content) == "" {
		return
	}
	trimmed := strings.TrimSpace(section.Content)
	legacy := section.Format == domain.FormatMarkdown ||
		(section.Format == "" && !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "```"))
	if !legacy {
		return
	}
	eng.PlaceHeading("Comparative Analysis", 1)
	placeTaggedLines(eng, classifyLines(section.Content))
}

func (c *Composer) risksAndSignOff(eng *Engine, sa *analysis.StructuredAnalysis) {
	if sa != nil && len(sa.Risks) > 0 {
		eng.PlaceHeading("Risks & Mitigations", 1)
		for _, risk := range sa.Risks {
			eng.PlaceBand("Risk: "+risk.Risk, c.theme.WarnBg)
			if strings.TrimSpace(risk.SuggestedFix) != "" {
				eng.PlaceBand("Suggested fix: "+risk.SuggestedFix, c.theme.OkBg)
			}
		}
	}
	eng.PlaceSignature("Responsible architect")
}

func (c *Composer) roomStudies(eng *Engine, p domain.Project) {
	var results []domain.TemplateResult
	for _, result := range p.TemplateResults {
		if result.Concept != nil || result.Recommendations != nil || result.Cautions != nil || result.BudgetOptions != nil {
			results = append(results, result)
		}
	}
	if len(results) == 0 {
		return
	}
	eng.PlaceHeading("Room Studies", 1)
	for _, result := range results {
		if result.Concept != nil {
			eng.PlaceHeading(result.Concept.Title, 2)
			placeTaggedLines(eng, classifyLines(result.Concept.Content))
		}
		for _, sub := range []*domain.GeneratedTextSection{result.Recommendations, result.Cautions, result.BudgetOptions} {
			if sub == nil || strings.TrimSpace(sub.Content) == "" {
				continue
			}
			eng.PlaceHeading(sub.Title, 3)
			placeTaggedLines(eng, classifyLines(sub.Content))
		}
	}
}

func (c *Composer) closingNotes(eng *Engine, p domain.Project) {
	if strings.TrimSpace(p.Notes) == "" {
		return
	}
	eng.PlaceHeading("Closing Notes", 1)
	eng.PlaceParagraph(p.Notes)
}
