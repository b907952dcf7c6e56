// File path: internal/api/generate_handler.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/plandeck/plandeck/internal/analysis"
	"github.com/plandeck/plandeck/internal/common"
	"github.com/plandeck/plandeck/internal/common/telemetry"
	"github.com/plandeck/plandeck/internal/domain"
	"github.com/plandeck/plandeck/internal/llm"
)

// chat runs one provider round-trip with latency accounting.
func (s *Server) chat(ctx context.Context, messages []llm.Message) (string, error) {
	start := time.Now()
	content, err := s.provider.Chat(ctx, messages)
	telemetry.RecordChat(s.provider.Name(), time.Since(start), err)
	return content, err
}

// handleGenerateGuidelines produces the free-form design guidelines section
// from the client profile and property facts.
func (s *Server) handleGenerateGuidelines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "projectID")
	p, err := s.store.Get(ctx, id)
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("get project: %w", err))
		return
	}
	if p.ClientProfile == nil || p.PropertyInfo == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("client profile and property info required before generating guidelines"))
		return
	}
	content, err := s.chat(ctx, llm.GuidelinesPrompt(p))
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("generate guidelines: %w", err))
		return
	}
	updated, err := s.store.Update(ctx, id, func(p domain.Project) domain.Project {
		p.Guidelines = domain.NewSection("Design Guidelines", content, domain.FormatMarkdown, domain.SourceAI)
		return p
	})
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("store guidelines: %w", err))
		return
	}
	common.Logger().Info("api: guidelines generated", "project", id, "provider", s.provider.Name())
	writeJSON(w, http.StatusOK, updated)
}

// handleGenerateAnalysis runs the comparative flow. The reply is stored
// verbatim with the json format tag; whether it actually parses is decided at
// render time, so a malformed reply degrades the report instead of blocking
// the save.
func (s *Server) handleGenerateAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "projectID")
	p, err := s.store.Get(ctx, id)
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("get project: %w", err))
		return
	}
	if p.PlanA == nil || p.PlanB == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("both plan alternatives required before comparing"))
		return
	}
	content, err := s.chat(ctx, llm.ComparativePrompt(p))
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("generate analysis: %w", err))
		return
	}
	structured := analysis.Parse(content) != nil
	if !structured {
		common.Logger().Warn("api: comparative reply is not structured", "project", id, "provider", s.provider.Name())
	}
	updated, err := s.store.Update(ctx, id, func(p domain.Project) domain.Project {
		if p.Comparison == nil {
			p.Comparison = &domain.PlanComparison{}
		}
		p.Comparison.Analysis = domain.NewSection("Comparative Analysis", content, domain.FormatJSON, domain.SourceAI)
		return p
	})
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("store analysis: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"project":    updated,
		"structured": structured,
	})
}

// handleGenerateTemplate runs the four-part room study for one template input
// and appends the result set.
func (s *Server) handleGenerateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "projectID")
	var input domain.TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode template input: %w", err))
		return
	}
	if input.TemplateType == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("template type required"))
		return
	}
	if input.ID == "" {
		input.ID = uuid.NewString()
	}
	if input.CreatedAt.IsZero() {
		input.CreatedAt = time.Now().UTC()
	}
	p, err := s.store.Get(ctx, id)
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("get project: %w", err))
		return
	}
	content, err := s.chat(ctx, llm.TemplatePrompt(input, p.ClientProfile))
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("generate template: %w", err))
		return
	}
	result := domain.TemplateResult{
		ID:              uuid.NewString(),
		TemplateInputID: input.ID,
		Recommendations: domain.NewSection(string(input.TemplateType), content, domain.FormatMarkdown, domain.SourceAI),
	}
	updated, err := s.store.Update(ctx, id, func(p domain.Project) domain.Project {
		p.TemplateInputs = append(p.TemplateInputs, input)
		p.TemplateResults = append(p.TemplateResults, result)
		return p
	})
	if err != nil {
		writeError(w, storeStatus(err), fmt.Errorf("store template result: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
