// File path: internal/domain/project.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

type ClientType string

const (
	ClientCouple ClientType = "couple"
	ClientFamily ClientType = "family"
	ClientSingle ClientType = "single"
	ClientOther  ClientType = "other"
)

type BudgetTier string

const (
	BudgetLow    BudgetTier = "low"
	BudgetMedium BudgetTier = "medium"
	BudgetHigh   BudgetTier = "high"
)

type PropertyType string

const (
	PropertySingleStory PropertyType = "single_story"
	PropertyMultiStory  PropertyType = "multi_story"
	PropertyApartment   PropertyType = "apartment"
)

type TemplateType string

const (
	TemplateLivingRoom  TemplateType = "living_room"
	TemplateKitchen     TemplateType = "kitchen"
	TemplateBedroom     TemplateType = "bedroom"
	TemplateBathroom    TemplateType = "bathroom"
	TemplateGourmetArea TemplateType = "gourmet_area"
	TemplateFullHouse   TemplateType = "full_house"
)

// SectionSource records whether a text section was typed by the architect or
// produced by the generation backend.
type SectionSource string

const (
	SourceManual SectionSource = "manual"
	SourceAI     SectionSource = "ai-generated"
)

// SectionFormat tags the content encoding of a GeneratedTextSection so the
// analysis parser can dispatch without guessing. Older sections carry no tag
// and are sniffed.
type SectionFormat string

const (
	FormatMarkdown SectionFormat = "markdown"
	FormatJSON     SectionFormat = "json"
)

// ClientProfile captures who will live in the house and how.
type ClientProfile struct {
	ClientType    ClientType `json:"clientType"`
	HouseholdSize int        `json:"householdSize"`
	Pets          string     `json:"pets"`
	Routine       string     `json:"routine"`
	DesiredStyle  string     `json:"desiredStyle"`
	Budget        BudgetTier `json:"budget"`
	Priorities    []string   `json:"priorities"`
}

// PropertyInfo captures the physical facts of the lot or unit.
type PropertyInfo struct {
	TotalArea    float64      `json:"totalArea"`
	Bedrooms     int          `json:"bedrooms"`
	Bathrooms    int          `json:"bathrooms"`
	PropertyType PropertyType `json:"propertyType"`
	Restrictions string       `json:"restrictions"`
}

// GeneratedTextSection is the generic content envelope used for guidelines,
// the comparative analysis, and per-room study write-ups.
type GeneratedTextSection struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Format    SectionFormat `json:"format,omitempty"`
	Source    SectionSource `json:"source"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// RoomArea is one room entry of a plan alternative. The id is stable so the
// front end can edit rows in place.
type RoomArea struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Area float64 `json:"area"`
}

// PlanAlternative is one of the two competing layout proposals. The total
// area is entered independently and is deliberately not derived from the room
// sum; the architect owns both numbers.
type PlanAlternative struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	PlanImage  string     `json:"planImageUrl,omitempty"`
	TotalArea  float64    `json:"totalArea"`
	Rooms      []RoomArea `json:"rooms"`
	Notes      string     `json:"notes"`
	Strengths  string     `json:"strengths"`
	Weaknesses string     `json:"weaknesses"`
}

// ComparisonCriteria selects which aspects the comparative prompt emphasizes.
// Purely advisory; the structured analysis output is not validated against it.
type ComparisonCriteria struct {
	Circulation bool   `json:"circulation"`
	Integration bool   `json:"integration"`
	Privacy     bool   `json:"privacy"`
	Lighting    bool   `json:"lighting"`
	Ventilation bool   `json:"ventilation"`
	Other       string `json:"other,omitempty"`
}

type PlanComparison struct {
	Criteria      ComparisonCriteria    `json:"criteria"`
	TableMarkdown string                `json:"tableMarkdown"`
	Analysis      *GeneratedTextSection `json:"analysis"`
}

type TemplateInput struct {
	ID              string       `json:"id"`
	TemplateType    TemplateType `json:"templateType"`
	ApproximateSize string       `json:"approximateSize"`
	Style           string       `json:"style"`
	Budget          BudgetTier   `json:"budget"`
	Preferences     string       `json:"preferences"`
	CreatedAt       time.Time    `json:"createdAt"`
}

type TemplateResult struct {
	ID              string                `json:"id"`
	TemplateInputID string                `json:"templateInputId"`
	Concept         *GeneratedTextSection `json:"concept"`
	Recommendations *GeneratedTextSection `json:"recommendations"`
	Cautions        *GeneratedTextSection `json:"cautions"`
	BudgetOptions   *GeneratedTextSection `json:"budgetOptions"`
}

// ReportMeta records one generated report. Entries are append-only on the
// project and never mutated after creation.
type ReportMeta struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generatedAt"`
	Filename    string    `json:"filename"`
	DataURI     string    `json:"dataUri,omitempty"`
}

// ModelConfig is the generation backend configuration record. The core passes
// it through untouched.
type ModelConfig struct {
	Model       string    `json:"model"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Project is the root aggregate. It exclusively owns every nested structure;
// nothing here is shared across projects.
type Project struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Client          string                `json:"client"`
	ProjectDate     time.Time             `json:"projectDate"`
	Notes           string                `json:"notes"`
	ClientProfile   *ClientProfile        `json:"clientProfile"`
	PropertyInfo    *PropertyInfo         `json:"propertyInfo"`
	Guidelines      *GeneratedTextSection `json:"guidelines"`
	PlanA           *PlanAlternative      `json:"planA"`
	PlanB           *PlanAlternative      `json:"planB"`
	Comparison      *PlanComparison       `json:"comparison"`
	TemplateInputs  []TemplateInput       `json:"templateInputs"`
	TemplateResults []TemplateResult      `json:"templateResults"`
	Reports         []ReportMeta          `json:"reports"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
	Version         int                   `json:"version"`
}

// NewProject builds a project with defaults for every optional field.
func NewProject(name, client string, projectDate time.Time, notes string) Project {
	now := time.Now().UTC()
	if projectDate.IsZero() {
		projectDate = now
	}
	if name == "" {
		name = "New Project"
	}
	return Project{
		ID:          uuid.NewString(),
		Name:        name,
		Client:      client,
		ProjectDate: projectDate,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}
}

// NewSection wraps content in a fresh envelope.
func NewSection(title, content string, format SectionFormat, source SectionSource) *GeneratedTextSection {
	now := time.Now().UTC()
	return &GeneratedTextSection{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Format:    format,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep, independent copy of the project. Mutating the copy
// never touches the original.
func (p Project) Clone() Project {
	out := p
	out.ClientProfile = cloneProfile(p.ClientProfile)
	out.PropertyInfo = cloneProperty(p.PropertyInfo)
	out.Guidelines = cloneSection(p.Guidelines)
	out.PlanA = clonePlan(p.PlanA)
	out.PlanB = clonePlan(p.PlanB)
	out.Comparison = cloneComparison(p.Comparison)
	out.TemplateInputs = append([]TemplateInput(nil), p.TemplateInputs...)
	out.TemplateResults = cloneResults(p.TemplateResults)
	out.Reports = append([]ReportMeta(nil), p.Reports...)
	return out
}

func cloneProfile(c *ClientProfile) *ClientProfile {
	if c == nil {
		return nil
	}
	out := *c
	out.Priorities = append([]string(nil), c.Priorities...)
	return &out
}

func cloneProperty(p *PropertyInfo) *PropertyInfo {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

func cloneSection(s *GeneratedTextSection) *GeneratedTextSection {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}

func clonePlan(p *PlanAlternative) *PlanAlternative {
	if p == nil {
		return nil
	}
	out := *p
	out.Rooms = append([]RoomArea(nil), p.Rooms...)
	return &out
}

func cloneComparison(c *PlanComparison) *PlanComparison {
	if c == nil {
		return nil
	}
	out := *c
	out.Analysis = cloneSection(c.Analysis)
	return &out
}

func cloneResults(results []TemplateResult) []TemplateResult {
	if results == nil {
		return nil
	}
	out := make([]TemplateResult, len(results))
	for i, r := range results {
		r.Concept = cloneSection(r.Concept)
		r.Recommendations = cloneSection(r.Recommendations)
		r.Cautions = cloneSection(r.Cautions)
		r.BudgetOptions = cloneSection(r.BudgetOptions)
		out[i] = r
	}
	return out
}

// EmphasisList flattens the criteria toggles into the labels the comparative
// prompt should emphasize.
func (c ComparisonCriteria) EmphasisList() []string {
	var out []string
	if c.Circulation {
		out = append(out, "circulation")
	}
	if c.Integration {
		out = append(out, "integration of spaces")
	}
	if c.Privacy {
		out = append(out, "privacy")
	}
	if c.Lighting {
		out = append(out, "natural lighting")
	}
	if c.Ventilation {
		out = append(out, "ventilation")
	}
	if c.Other != "" {
		out = append(out, c.Other)
	}
	return out
}
