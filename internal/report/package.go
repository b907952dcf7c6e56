// File path: internal/report/package.go
package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plandeck/plandeck/internal/domain"
)

// Artifact is the finished document payload handed to the caller for
// download.
type Artifact struct {
	Filename string
	Data     []byte
}

// Package serializes a finalized composition into the download artifact and
// the report history record. Packaging is atomic: on error nothing is
// returned and no partial payload exists. Appending the meta record to the
// project is the caller's responsibility.
func Package(p domain.Project, eng *Engine) (Artifact, domain.ReportMeta, error) {
	theme := eng.theme
	var buf bytes.Buffer
	if err := eng.Output(&buf); err != nil {
		return Artifact{}, domain.ReportMeta{}, fmt.Errorf("render document: %w", err)
	}
	filename := Filename(theme.ReportTag, p.Name)
	meta := domain.ReportMeta{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Filename:    filename,
		DataURI:     "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}
	return Artifact{Filename: filename, Data: buf.Bytes()}, meta, nil
}

// Filename derives the deterministic suggested filename from the project
// name: whitespace runs collapse to single underscores and the result is
// uppercased under the fixed report tag.
func Filename(tag, projectName string) string {
	fields := strings.Fields(projectName)
	if len(fields) == 0 {
		fields = []string{"PROJECT"}
	}
	name := strings.ToUpper(strings.Join(fields, "_"))
	if tag == "" {
		tag = DefaultTheme().ReportTag
	}
	return fmt.Sprintf("%s_%s.pdf", tag, name)
}

// Generate composes and packages a report for the project in one call.
func Generate(p domain.Project, theme Theme) (Artifact, domain.ReportMeta, error) {
	eng, err := NewComposer(theme).Compose(p)
	if err != nil {
		return Artifact{}, domain.ReportMeta{}, err
	}
	return Package(p, eng)
}
