// File path: internal/report/layout.go
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// The engine walks a vertical cursor down fixed-size pages, placing one block
// at a time and breaking to a fresh page whenever the next block would cross
// the bottom limit. Blocks are atomic for break purposes: wrapping happens
// first, then the whole wrapped block is placed.

type stage int

const (
	stageNotStarted stage = iota
	stageCover
	stageBody
	stageFinalized
)

const (
	lineHeightFactor = 0.5
	bulletIndent     = 5.0
	bulletSpacing    = 1.5
	bandPadding      = 3.0
	pillWidth        = 30.0
	pillHeight       = 6.0
	scoreRowHeight   = 8.0
	keyColumnWidth   = 52.0
)

// Placement is one emitted layout operation, kept for diagnostics.
type Placement struct {
	Op     string
	Detail string
	Page   int
}

// CoverData feeds the full-bleed first page.
type CoverData struct {
	Title    string
	Project  string
	Client   string
	DateText string
}

// Engine owns the layout cursor and the underlying document. One engine
// composes exactly one document; it is not safe for concurrent use and never
// rewinds to an earlier page.
type Engine struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	theme Theme

	y          float64
	stage      stage
	footerLeft string
	trace      []Placement
}

// NewEngine builds an engine for a single composition run.
func NewEngine(theme Theme) *Engine {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: theme.PageWidth, Ht: theme.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(theme.DocTitle, true)
	return &Engine{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		theme: theme,
	}
}

func (e *Engine) lineHeight(size float64) float64 {
	return size * lineHeightFactor
}

func (e *Engine) setFont(style string, size float64) {
	e.pdf.SetFont(e.theme.FontFamily, style, size)
}

// wrap translates and word-wraps text to the given width using the metrics of
// the currently selected font.
func (e *Engine) wrap(text string, width float64) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return e.pdf.SplitText(e.tr(text), width)
}

func (e *Engine) record(op, detail string) {
	e.trace = append(e.trace, Placement{Op: op, Detail: detail, Page: e.pdf.PageNo()})
}

// Cover opens the document with the full-bleed first page. No pagination
// decoration is drawn here; every subsequent page carries it.
func (e *Engine) Cover(data CoverData) error {
	if e.stage != stageNotStarted {
		return errors.New("cover already composed")
	}
	t := e.theme
	e.pdf.AddPage()

	e.pdf.SetFillColor(t.Accent.R, t.Accent.G, t.Accent.B)
	e.pdf.Rect(0, 0, 8, t.PageHeight, "F")

	e.pdf.SetTextColor(t.Muted.R, t.Muted.G, t.Muted.B)
	e.setFont("", t.FontSmall)
	e.pdf.Text(t.Margin, 40, e.tr(strings.ToUpper(data.DateText)))

	e.pdf.SetTextColor(t.Ink.R, t.Ink.G, t.Ink.B)
	e.setFont("B", 26)
	title := data.Title
	if title == "" {
		title = t.CoverTitle
	}
	for i, line := range e.wrap(title, t.ContentWidth()) {
		e.pdf.Text(t.Margin, 90+float64(i)*13, line)
	}

	e.setFont("", 16)
	e.pdf.Text(t.Margin, 120, e.tr(fmt.Sprintf("Project: %s", data.Project)))
	e.pdf.Text(t.Margin, 130, e.tr(fmt.Sprintf("Client: %s", data.Client)))

	e.pdf.SetDrawColor(t.Muted.R, t.Muted.G, t.Muted.B)
	e.pdf.SetLineWidth(0.3)
	e.pdf.Line(t.Margin, 140, t.Margin+60, 140)

	e.footerLeft = data.Project
	e.stage = stageCover
	e.record("cover", data.Project)
	return nil
}

// BeginBody starts the paginated section flow on a fresh decorated page.
func (e *Engine) BeginBody() error {
	if e.stage != stageCover {
		return errors.New("body must follow the cover")
	}
	e.stage = stageBody
	e.pdf.AddPage()
	e.drawDecoration()
	e.y = e.theme.TopOffset
	e.record("page", "")
	return nil
}

// NewPage forces an explicit page advance, redrawing the repeating
// header/footer decoration and resetting the cursor to the top offset.
func (e *Engine) NewPage() {
	if e.stage != stageBody {
		return
	}
	e.pdf.AddPage()
	e.drawDecoration()
	e.y = e.theme.TopOffset
	e.record("page", "")
}

func (e *Engine) drawDecoration() {
	t := e.theme
	e.setFont("", t.FontSmall)
	e.pdf.SetTextColor(t.Muted.R, t.Muted.G, t.Muted.B)
	e.pdf.Text(t.Margin, 12, e.tr(strings.ToUpper(t.DocTitle)))
	e.pdf.SetDrawColor(t.Muted.R, t.Muted.G, t.Muted.B)
	e.pdf.SetLineWidth(0.2)
	e.pdf.Line(t.Margin, 15, t.PageWidth-t.Margin, 15)

	footerY := t.PageHeight - 12
	e.pdf.Line(t.Margin, footerY-4, t.PageWidth-t.Margin, footerY-4)
	e.pdf.Text(t.Margin, footerY, e.tr(e.footerLeft))
	pageLabel := fmt.Sprintf("Page %d", e.pdf.PageNo())
	e.pdf.Text(t.PageWidth-t.Margin-e.pdf.GetStringWidth(pageLabel), footerY, pageLabel)
	e.pdf.SetTextColor(t.Ink.R, t.Ink.G, t.Ink.B)
}

// ensureSpace breaks to a new page when the next block of height h would
// cross the printable limit.
func (e *Engine) ensureSpace(h float64) {
	if e.y+h > e.theme.BottomLimit {
		e.NewPage()
	}
}

// PlaceHeading places a level 1..3 heading. Headings are never split across a
// page break.
func (e *Engine) PlaceHeading(text string, level int) {
	if e.stage != stageBody || strings.TrimSpace(text) == "" {
		return
	}
	t := e.theme
	size := t.FontH1
	switch level {
	case 2:
		size = t.FontH2
	case 3:
		size = t.FontH3
	}
	e.setFont("B", size)
	lines := e.wrap(text, t.ContentWidth())
	lh := e.lineHeight(size)
	h := float64(len(lines)) * lh
	e.ensureSpace(h)
	e.setFont("B", size)
	for i, line := range lines {
		e.pdf.Text(t.Margin, e.y+float64(i)*lh, line)
	}
	e.y += h + t.HeadingSpacing
	e.record("heading", text)
}

// PlaceParagraph word-wraps text to the content width and places the whole
// wrapped block, breaking the page first if it does not fit.
func (e *Engine) PlaceParagraph(text string) {
	if e.stage != stageBody || strings.TrimSpace(text) == "" {
		return
	}
	t := e.theme
	e.setFont("", t.FontBody)
	lines := e.wrap(text, t.ContentWidth())
	lh := e.lineHeight(t.FontBody)
	h := float64(len(lines)) * lh
	e.ensureSpace(h)
	e.setFont("", t.FontBody)
	for i, line := range lines {
		e.pdf.Text(t.Margin, e.y+float64(i)*lh, line)
	}
	e.y += h + t.ParagraphSpacing
	e.record("paragraph", text)
}

// PlaceBulletList places one bullet per item. Items are wrapped and
// break-checked independently, so a long list may span pages between bullets.
func (e *Engine) PlaceBulletList(items []string) {
	if e.stage != stageBody || len(items) == 0 {
		return
	}
	t := e.theme
	lh := e.lineHeight(t.FontBody)
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		e.setFont("", t.FontBody)
		lines := e.wrap(item, t.ContentWidth()-bulletIndent)
		h := float64(len(lines)) * lh
		e.ensureSpace(h)
		e.setFont("", t.FontBody)
		e.pdf.Text(t.Margin, e.y, e.tr("•"))
		for i, line := range lines {
			e.pdf.Text(t.Margin+bulletIndent, e.y+float64(i)*lh, line)
		}
		e.y += h + bulletSpacing
		e.record("bullet", item)
	}
	e.y += t.ParagraphSpacing - bulletSpacing
}

// PlaceTwoColumnBlock renders two labelled columns side by side. The cursor
// advances by the taller column: both columns start on the same line and the
// block ends below whichever side wrapped to more lines.
func (e *Engine) PlaceTwoColumnBlock(leftLabel, leftText, rightLabel, rightText string) {
	if e.stage != stageBody {
		return
	}
	t := e.theme
	colWidth := (t.ContentWidth() - t.ColumnGutter) / 2
	rightX := t.Margin + colWidth + t.ColumnGutter
	lh := e.lineHeight(t.FontBody)
	labelLh := e.lineHeight(t.FontBody)

	e.setFont("", t.FontBody)
	left := e.wrap(leftText, colWidth)
	right := e.wrap(rightText, colWidth)
	rows := len(left)
	if len(right) > rows {
		rows = len(right)
	}
	h := labelLh + float64(rows)*lh
	e.ensureSpace(h)

	e.setFont("B", t.FontBody)
	e.pdf.Text(t.Margin, e.y, e.tr(leftLabel))
	e.pdf.Text(rightX, e.y, e.tr(rightLabel))
	e.setFont("", t.FontBody)
	for i, line := range left {
		e.pdf.Text(t.Margin, e.y+labelLh+float64(i)*lh, line)
	}
	for i, line := range right {
		e.pdf.Text(rightX, e.y+labelLh+float64(i)*lh, line)
	}
	e.y += h + t.ParagraphSpacing
	e.record("columns", fmt.Sprintf("%s|%s", leftLabel, rightLabel))
}

// PlaceScorePill renders a criterion label with a right-aligned winner badge
// on the same line. The badge has two visual states: explicit winner and tie.
func (e *Engine) PlaceScorePill(label, winner string) {
	if e.stage != stageBody {
		return
	}
	t := e.theme
	e.ensureSpace(scoreRowHeight)

	e.setFont("", t.FontBody)
	e.pdf.Text(t.Margin, e.y+4.5, e.tr(label))

	tie := strings.EqualFold(winner, "tie")
	if tie {
		e.pdf.SetFillColor(t.PillTie.R, t.PillTie.G, t.PillTie.B)
		e.pdf.SetTextColor(t.Muted.R, t.Muted.G, t.Muted.B)
	} else {
		e.pdf.SetFillColor(t.PillWin.R, t.PillWin.G, t.PillWin.B)
		e.pdf.SetTextColor(255, 255, 255)
	}
	e.setFont("B", t.FontSmall)
	e.pdf.SetXY(t.PageWidth-t.Margin-pillWidth, e.y)
	e.pdf.CellFormat(pillWidth, pillHeight, e.tr(strings.ToUpper(winner)), "", 0, "CM", true, 0, "")
	e.pdf.SetTextColor(t.Ink.R, t.Ink.G, t.Ink.B)

	e.pdf.SetDrawColor(t.PillTie.R, t.PillTie.G, t.PillTie.B)
	e.pdf.SetLineWidth(0.2)
	e.pdf.Line(t.Margin, e.y+scoreRowHeight-0.8, t.PageWidth-t.Margin, e.y+scoreRowHeight-0.8)

	e.y += scoreRowHeight
	e.record("pill", winner)
}

// KeyValue is one row of a fact band.
type KeyValue struct {
	Key   string
	Value string
}

// PlaceKeyValueBand renders label/value rows, used for checklists and
// property facts. Empty values still render so gaps stay visible.
func (e *Engine) PlaceKeyValueBand(items []KeyValue) {
	if e.stage != stageBody || len(items) == 0 {
		return
	}
	t := e.theme
	rowH := e.lineHeight(t.FontBody) + 1.5
	for _, item := range items {
		e.ensureSpace(rowH)
		e.setFont("B", t.FontBody)
		e.pdf.Text(t.Margin, e.y, e.tr(item.Key))
		e.setFont("", t.FontBody)
		e.pdf.Text(t.Margin+keyColumnWidth, e.y, e.tr(item.Value))
		e.y += rowH
		e.record("kv", item.Key)
	}
	e.y += t.ParagraphSpacing
}

// PlaceBand renders a filled highlight band around wrapped text. The band is
// atomic for break purposes.
func (e *Engine) PlaceBand(text string, bg RGB) {
	if e.stage != stageBody || strings.TrimSpace(text) == "" {
		return
	}
	t := e.theme
	e.setFont("", t.FontBody)
	lines := e.wrap(text, t.ContentWidth()-2*bandPadding)
	lh := e.lineHeight(t.FontBody)
	boxH := float64(len(lines))*lh + 2*bandPadding
	e.ensureSpace(boxH + 2)

	e.pdf.SetFillColor(bg.R, bg.G, bg.B)
	e.pdf.Rect(t.Margin, e.y-lh+1, t.ContentWidth(), boxH, "F")
	e.setFont("", t.FontBody)
	for i, line := range lines {
		e.pdf.Text(t.Margin+bandPadding, e.y+bandPadding+float64(i)*lh, line)
	}
	e.y += boxH + t.ParagraphSpacing
	e.record("band", text)
}

// PlaceSignature renders the sign-off rule and attribution placeholder.
func (e *Engine) PlaceSignature(label string) {
	if e.stage != stageBody {
		return
	}
	t := e.theme
	e.ensureSpace(24)
	e.y += 12
	e.pdf.SetDrawColor(t.Ink.R, t.Ink.G, t.Ink.B)
	e.pdf.SetLineWidth(0.3)
	e.pdf.Line(t.Margin, e.y, t.Margin+70, e.y)
	e.setFont("", t.FontSmall)
	e.pdf.SetTextColor(t.Muted.R, t.Muted.G, t.Muted.B)
	e.pdf.Text(t.Margin, e.y+4, e.tr(label))
	e.pdf.SetTextColor(t.Ink.R, t.Ink.G, t.Ink.B)
	e.y += 10
	e.record("signature", label)
}

// Finalize seals the composition. No placements are accepted afterwards.
func (e *Engine) Finalize() error {
	if e.stage != stageBody {
		return errors.New("finalize requires a composed body")
	}
	e.stage = stageFinalized
	if e.pdf.Err() {
		return fmt.Errorf("document drawing failed: %w", e.pdf.Error())
	}
	return nil
}

// Output writes the finalized document.
func (e *Engine) Output(w io.Writer) error {
	if e.stage != stageFinalized {
		return errors.New("document not finalized")
	}
	return e.pdf.Output(w)
}

// PageCount reports how many pages have been composed so far.
func (e *Engine) PageCount() int {
	return e.pdf.PageCount()
}

// CursorY exposes the vertical cursor, mainly for layout verification.
func (e *Engine) CursorY() float64 {
	return e.y
}

// Trace returns the emitted placements in order.
func (e *Engine) Trace() []Placement {
	return e.trace
}
