// File path: internal/store/store_test.go
package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/plandeck/plandeck/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenWithConfig(Config{Path: filepath.Join(t.TempDir(), "plandeck.db"), BusyTimeout: time.Second})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateGetRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Casa do Lago", "Joana", time.Now().UTC(), "first briefing done")
	p.ClientProfile = &domain.ClientProfile{ClientType: domain.ClientCouple, Priorities: []string{"light"}}
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != p.Name || got.Client != p.Client || got.Version != 1 {
		t.Fatalf("unexpected roundtrip: %+v", got)
	}
	if got.ClientProfile == nil || got.ClientProfile.ClientType != domain.ClientCouple {
		t.Fatalf("nested profile lost: %+v", got.ClientProfile)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestUpdateIncrementsVersionOnce(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Casa do Lago", "Joana", time.Now().UTC(), "")
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	before := p.UpdatedAt

	next, err := s.Update(ctx, p.ID, func(prev domain.Project) domain.Project {
		prev.Notes = "updated notes"
		prev.Version = 99 // the store owns versioning; this must be overwritten
		return prev
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if next.Version != 2 {
		t.Fatalf("expected version 2, got %d", next.Version)
	}
	if next.Notes != "updated notes" {
		t.Fatalf("mutation lost: %q", next.Notes)
	}
	if !next.UpdatedAt.After(before) {
		t.Fatalf("updatedAt not refreshed: %v vs %v", next.UpdatedAt, before)
	}

	stored, err := s.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Version != 2 {
		t.Fatalf("persisted version mismatch: %d", stored.Version)
	}
}

func TestUpdateReceivesIndependentSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Casa do Lago", "Joana", time.Now().UTC(), "")
	p.PlanA = &domain.PlanAlternative{ID: "a", Name: "Alpha", Rooms: []domain.RoomArea{{ID: "r1", Name: "Living", Area: 20}}}
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	var leaked *domain.PlanAlternative
	if _, err := s.Update(ctx, p.ID, func(prev domain.Project) domain.Project {
		leaked = prev.PlanA
		return prev
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	// Mutating the snapshot after the update must not corrupt stored state.
	leaked.Rooms[0].Name = "mutated"
	stored, err := s.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.PlanA.Rooms[0].Name != "Living" {
		t.Fatalf("stored state aliased with updater snapshot")
	}
}

func TestDuplicateDropsReports(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Casa do Lago", "Joana", time.Now().UTC(), "")
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.AppendReport(ctx, p.ID, domain.ReportMeta{ID: "rep1", Filename: "REPORT_CASA_DO_LAGO.pdf", GeneratedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("append report: %v", err)
	}

	dup, err := s.Duplicate(ctx, p.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.ID == p.ID {
		t.Fatalf("duplicate must have a fresh id")
	}
	if dup.Name != "Casa do Lago (copy)" {
		t.Fatalf("unexpected duplicate name: %q", dup.Name)
	}
	if len(dup.Reports) != 0 {
		t.Fatalf("report history must not be copied")
	}
	if dup.Version != 1 {
		t.Fatalf("duplicate version must restart at 1, got %d", dup.Version)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(all))
	}
}

func TestAppendReportIsAppendOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Vila Aurora", "Rui", time.Now().UTC(), "")
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	for i, name := range []string{"one.pdf", "two.pdf"} {
		if _, err := s.AppendReport(ctx, p.ID, domain.ReportMeta{ID: name, Filename: name, GeneratedAt: time.Now().UTC()}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	got, err := s.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Reports) != 2 || got.Reports[0].Filename != "one.pdf" || got.Reports[1].Filename != "two.pdf" {
		t.Fatalf("unexpected history: %+v", got.Reports)
	}
	if got.Version != 3 {
		t.Fatalf("two appends on version 1 should land on 3, got %d", got.Version)
	}
}

func TestModelConfigRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	cfg, err := s.ModelConfig(ctx)
	if err != nil {
		t.Fatalf("load empty config: %v", err)
	}
	if cfg.Model != "" {
		t.Fatalf("expected zero config, got %+v", cfg)
	}

	if err := s.SetModelConfig(ctx, domain.ModelConfig{Model: "gemini-1.5-pro"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SetModelConfig(ctx, domain.ModelConfig{Model: "gemini-2.0-flash"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	cfg, err = s.ModelConfig(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != "gemini-2.0-flash" {
		t.Fatalf("expected latest model, got %q", cfg.Model)
	}
	if cfg.LastUpdated.IsZero() {
		t.Fatalf("lastUpdated should be set")
	}
}
