// File path: internal/report/guidelines_test.go
package report

import "testing"

func TestClassifyLines(t *testing.T) {
	content := "# Light and Air\n" +
		"Prioritize cross ventilation in the social wing.\n" +
		"\n" +
		"Materials:\n" +
		"- warm woods\n" +
		"* matte stone\n" +
		"Budget note: keep finishes within the medium tier.\n"

	lines := classifyLines(content)
	want := []struct {
		kind lineKind
		text string
	}{
		{lineHeading, "Light and Air"},
		{linePlain, "Prioritize cross ventilation in the social wing."},
		{lineHeading, "Materials"},
		{lineBullet, "warm woods"},
		{lineBullet, "matte stone"},
		{linePlain, "Budget note: keep finishes within the medium tier."},
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %+v", len(want), len(lines), lines)
	}
	for i, w := range want {
		if lines[i].kind != w.kind {
			t.Fatalf("line %d: expected kind %d, got %d (%q)", i, w.kind, lines[i].kind, lines[i].text)
		}
		if lines[i].text != w.text {
			t.Fatalf("line %d: expected %q, got %q", i, w.text, lines[i].text)
		}
	}
}

func TestClassifyLinesEmpty(t *testing.T) {
	if got := classifyLines(""); len(got) != 0 {
		t.Fatalf("expected no lines, got %+v", got)
	}
	if got := classifyLines("\n\n  \n"); len(got) != 0 {
		t.Fatalf("expected no lines for blank content, got %+v", got)
	}
}

func TestHeadingLabelHeuristic(t *testing.T) {
	if !isHeadingLabel("Materials:") {
		t.Fatalf("short label line should be a heading")
	}
	if isHeadingLabel("Budget note: keep finishes within the medium tier, avoid imported stone, and review the lighting plan with the client before detailing:") {
		t.Fatalf("long prose ending in a colon is not a heading")
	}
	if isHeadingLabel("a: b: c:") {
		t.Fatalf("lines with interior colons are prose")
	}
}
