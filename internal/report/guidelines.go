// File path: internal/report/guidelines.go
package report

import "strings"

// The guidelines text arrives as loosely markdown-shaped prose. Instead of a
// real markdown parser we classify each line into a small tagged variant that
// the layout engine consumes uniformly; the heuristic can be swapped for a
// proper parser without touching the engine.

type lineKind int

const (
	linePlain lineKind = iota
	lineHeading
	lineBullet
)

type taggedLine struct {
	kind lineKind
	text string
}

// classifyLines turns raw section content into tagged layout lines. A leading
// heading marker or a short "Label:" line becomes a heading; explicit list
// markers become bullets; everything else stays plain prose.
func classifyLines(content string) []taggedLine {
	var out []taggedLine
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "#"):
			out = append(out, taggedLine{kind: lineHeading, text: strings.TrimSpace(strings.TrimLeft(line, "#"))})
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "), strings.HasPrefix(line, "• "):
			out = append(out, taggedLine{kind: lineBullet, text: strings.TrimSpace(line[2:])})
		case isHeadingLabel(line):
			out = append(out, taggedLine{kind: lineHeading, text: strings.TrimSuffix(line, ":")})
		default:
			out = append(out, taggedLine{kind: linePlain, text: strings.Trim(line, "*_")})
		}
	}
	return out
}

// isHeadingLabel treats a short line ending in a colon as a subheading, the
// shape the generation backend uses for section labels.
func isHeadingLabel(line string) bool {
	if !strings.HasSuffix(line, ":") {
		return false
	}
	return len(line) <= 60 && !strings.Contains(strings.TrimSuffix(line, ":"), ":")
}

// placeTaggedLines feeds classified lines to the engine. Consecutive bullets
// are grouped so the list keeps its own spacing rhythm.
func placeTaggedLines(eng *Engine, lines []taggedLine) {
	var bullets []string
	flush := func() {
		if len(bullets) > 0 {
			eng.PlaceBulletList(bullets)
			bullets = nil
		}
	}
	for _, line := range lines {
		switch line.kind {
		case lineHeading:
			flush()
			eng.PlaceHeading(line.text, 3)
		case lineBullet:
			bullets = append(bullets, line.text)
		default:
			flush()
			eng.PlaceParagraph(line.text)
		}
	}
	flush()
}
