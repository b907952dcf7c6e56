// File path: internal/report/theme.go
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RGB is a color triple usable by the drawing primitive.
type RGB struct {
	R int `yaml:"r"`
	G int `yaml:"g"`
	B int `yaml:"b"`
}

// Theme carries the page metrics and visual constants of the report. The
// defaults reproduce the studio's A4 layout; a YAML file can override any of
// them.
type Theme struct {
	DocTitle   string `yaml:"doc_title"`
	CoverTitle string `yaml:"cover_title"`
	ReportTag  string `yaml:"report_tag"`

	PageWidth   float64 `yaml:"page_width"`
	PageHeight  float64 `yaml:"page_height"`
	Margin      float64 `yaml:"margin"`
	TopOffset   float64 `yaml:"top_offset"`
	BottomLimit float64 `yaml:"bottom_limit"`

	FontFamily string  `yaml:"font_family"`
	FontBody   float64 `yaml:"font_body"`
	FontSmall  float64 `yaml:"font_small"`
	FontH1     float64 `yaml:"font_h1"`
	FontH2     float64 `yaml:"font_h2"`
	FontH3     float64 `yaml:"font_h3"`

	ParagraphSpacing float64 `yaml:"paragraph_spacing"`
	HeadingSpacing   float64 `yaml:"heading_spacing"`
	ColumnGutter     float64 `yaml:"column_gutter"`

	Ink     RGB `yaml:"ink"`
	Muted   RGB `yaml:"muted"`
	Accent  RGB `yaml:"accent"`
	PillWin RGB `yaml:"pill_win"`
	PillTie RGB `yaml:"pill_tie"`
	BandBg  RGB `yaml:"band_bg"`
	WarnBg  RGB `yaml:"warn_bg"`
	OkBg    RGB `yaml:"ok_bg"`
}

// DefaultTheme returns the built-in A4 layout constants.
func DefaultTheme() Theme {
	return Theme{
		DocTitle:   "Decision Support Report",
		CoverTitle: "Decision Support Report",
		ReportTag:  "REPORT",

		PageWidth:   210,
		PageHeight:  297,
		Margin:      20,
		TopOffset:   30,
		BottomLimit: 270,

		FontFamily: "Helvetica",
		FontBody:   11,
		FontSmall:  8,
		FontH1:     16,
		FontH2:     13,
		FontH3:     11,

		ParagraphSpacing: 4,
		HeadingSpacing:   3,
		ColumnGutter:     8,

		Ink:     RGB{30, 30, 35},
		Muted:   RGB{120, 120, 128},
		Accent:  RGB{24, 24, 27},
		PillWin: RGB{24, 24, 27},
		PillTie: RGB{228, 228, 231},
		BandBg:  RGB{244, 244, 245},
		WarnBg:  RGB{254, 243, 199},
		OkBg:    RGB{220, 252, 231},
	}
}

// ContentWidth is the printable width between the margins.
func (t Theme) ContentWidth() float64 {
	return t.PageWidth - 2*t.Margin
}

// LoadTheme overlays a YAML theme file on the defaults. A missing path keeps
// the defaults.
func LoadTheme(path string) (Theme, error) {
	theme := DefaultTheme()
	if path == "" {
		return theme, nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Theme{}, fmt.Errorf("read theme: %w", err)
	}
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return Theme{}, fmt.Errorf("parse theme: %w", err)
	}
	return theme, nil
}
