// Package trail renders a run's sequence of visited scenes as a printable PDF
// page styled like a reporter's notebook.
package trail

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf/v2"

	"newsdesk/internal/game"
)

const (
	pageW      = 595
	pageH      = 842
	margin     = 40
	marginLine = 78.0
	ruleStep   = 18.0
	stopStep   = 54.0
	stopRadius = 9.0
	headerH    = 120.0
	footerH    = 90.0
	titleSize  = 18
	labelSize  = 10
	textSize   = 8
	excerptLen = 110
)

// Trail is one run as seen by the player.
type Trail struct {
	Title   string
	Visited []string
	Stats   game.GameState
	Phase   game.Phase
}

// Generate returns PDF bytes listing the visited scenes in order, the final
// stats and, for a finished run, an outcome stamp. A nil story yields nil.
func Generate(st *game.Story, t Trail) ([]byte, error) {
	if st == nil {
		return nil, nil
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle("Reporting trail", false)
	pdf.SetSubject(t.Phase.String(), false)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	newPage := func() float64 {
		pdf.AddPage()
		drawNotebookPage(pdf)
		return margin + headerH
	}

	y := newPage()
	drawHeader(pdf, tr(t.Title), st.InitialState, t.Stats)

	if len(t.Visited) == 0 {
		pdf.SetFont("Helvetica", "I", labelSize)
		pdf.SetTextColor(90, 90, 90)
		pdf.SetXY(marginLine+14, y)
		pdf.CellFormat(300, 14, "No stops yet. The notebook is blank.", "", 0, "L", false, 0, "")
	}

	for i, id := range t.Visited {
		if y+stopStep > pageH-footerH {
			y = newPage()
		}
		if i > 0 {
			drawConnector(pdf, y)
		}
		text := ""
		if sc, err := st.Scene(id); err == nil {
			text = sc.Text
		}
		drawStop(pdf, i+1, y, tr(label(id)), tr(excerpt(text)), i == len(t.Visited)-1)
		y += stopStep
	}

	if t.Phase.Terminal() {
		drawStamp(pdf, outcomeText(t.Phase))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render trail: %w", err)
	}
	return buf.Bytes(), nil
}

// label turns a scene id such as SCENE_ARRIVAL into "Scene Arrival".
func label(id string) string {
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(id), "_", " "))
	for i, w := range words {
		r, n := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[n:]
	}
	return strings.Join(words, " ")
}

func excerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= excerptLen {
		return text
	}
	return strings.TrimSpace(string(r[:excerptLen-3])) + "..."
}

func outcomeText(p game.Phase) string {
	switch p {
	case game.PhaseWon:
		return "FRONT PAGE"
	case game.PhaseLostTime:
		return "MISSED DEADLINE"
	case game.PhaseLostQuality:
		return "SPIKED"
	default:
		return "FILED"
	}
}

// drawNotebookPage paints cream paper, blue rules and the red margin line.
func drawNotebookPage(pdf *gofpdf.Fpdf) {
	pdf.SetFillColor(252, 250, 238)
	pdf.Rect(0, 0, pageW, pageH, "F")

	pdf.SetDrawColor(170, 200, 230)
	pdf.SetLineWidth(0.5)
	for y := margin + headerH - 6; y < pageH-margin; y += ruleStep {
		pdf.Line(0, y, pageW, y)
	}

	pdf.SetDrawColor(220, 90, 90)
	pdf.SetLineWidth(1)
	pdf.Line(marginLine, 0, marginLine, pageH)

	// spiral binding holes
	pdf.SetDrawColor(120, 120, 120)
	for y := 60.0; y < pageH-40; y += 48 {
		pdf.Circle(22, y, 5, "D")
	}
}

func drawHeader(pdf *gofpdf.Fpdf, title string, initial, final game.GameState) {
	pdf.SetTextColor(30, 40, 70)
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(marginLine+10, margin)
	pdf.CellFormat(300, 20, "Reporting trail", "", 0, "L", false, 0, "")
	if title != "" {
		pdf.SetFont("Helvetica", "", labelSize)
		pdf.SetXY(marginLine+10, margin+22)
		pdf.CellFormat(300, 12, title, "", 0, "L", false, 0, "")
	}

	pdf.SetFont("Courier", "", labelSize)
	pdf.SetXY(marginLine+10, margin+44)
	pdf.CellFormat(300, 12, fmt.Sprintf("Time left: %d   Story quality: %d", final.Time, final.Quality), "", 0, "L", false, 0, "")

	drawDeadlineClock(pdf, pageW-margin-45, margin+40, initial.Time, final.Time)
}

// drawDeadlineClock draws a clock face whose red wedge shows the share of the
// starting time already spent.
func drawDeadlineClock(pdf *gofpdf.Fpdf, cx, cy float64, start, left int) {
	const rad = 30.0
	spent := 1.0
	if start > 0 {
		spent = 1 - float64(left)/float64(start)
	}
	spent = math.Max(0, math.Min(1, spent))

	if spent > 0 {
		const steps = 48
		wedge := []gofpdf.PointType{{X: cx, Y: cy}}
		for i := 0; i <= steps; i++ {
			a := spent*2*math.Pi*float64(i)/steps - math.Pi/2
			wedge = append(wedge, gofpdf.PointType{X: cx + rad*math.Cos(a), Y: cy + rad*math.Sin(a)})
		}
		pdf.SetFillColor(230, 120, 110)
		pdf.Polygon(wedge, "F")
	}

	pdf.SetDrawColor(30, 40, 70)
	pdf.SetLineWidth(1.5)
	pdf.Circle(cx, cy, rad, "D")
	pdf.SetLineWidth(1)
	for i := 0; i < 12; i++ {
		a := float64(i) * math.Pi / 6
		pdf.Line(cx+(rad-5)*math.Cos(a), cy+(rad-5)*math.Sin(a), cx+rad*math.Cos(a), cy+rad*math.Sin(a))
	}
	hand := spent*2*math.Pi - math.Pi/2
	pdf.SetLineWidth(2)
	pdf.Line(cx, cy, cx+(rad-8)*math.Cos(hand), cy+(rad-8)*math.Sin(hand))
	pdf.SetLineWidth(1)
}

func drawConnector(pdf *gofpdf.Fpdf, y float64) {
	pdf.SetDrawColor(30, 40, 70)
	pdf.SetLineWidth(1)
	pdf.SetDashPattern([]float64{3, 3}, 0)
	pdf.Line(marginLine, y-stopStep+stopRadius, marginLine, y-stopRadius)
	pdf.SetDashPattern([]float64{}, 0)
}

func drawStop(pdf *gofpdf.Fpdf, n int, y float64, name, text string, current bool) {
	pdf.SetLineWidth(1.2)
	pdf.SetDrawColor(30, 40, 70)
	if current {
		pdf.SetFillColor(255, 220, 120)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	pdf.Circle(marginLine, y, stopRadius, "FD")
	pdf.SetLineWidth(1)

	pdf.SetTextColor(30, 40, 70)
	pdf.SetFont("Helvetica", "B", textSize)
	pdf.SetXY(marginLine-stopRadius, y-4)
	pdf.CellFormat(2*stopRadius, 8, fmt.Sprint(n), "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", labelSize)
	pdf.SetXY(marginLine+16, y-8)
	pdf.CellFormat(pageW-marginLine-margin-16, 12, name, "", 0, "L", false, 0, "")

	pdf.SetFont("Times", "I", textSize)
	pdf.SetTextColor(70, 70, 70)
	pdf.SetXY(marginLine+16, y+5)
	pdf.MultiCell(pageW-marginLine-margin-16, 10, text, "", "L", false)
}

// drawStamp prints a tilted rubber-stamp outcome near the foot of the page.
func drawStamp(pdf *gofpdf.Fpdf, text string) {
	const w, h = 220.0, 44.0
	x, y := pageW-margin-w, pageH-margin-h-10

	pdf.TransformBegin()
	pdf.TransformRotate(12, x+w/2, y+h/2)
	pdf.SetDrawColor(190, 30, 30)
	pdf.SetTextColor(190, 30, 30)
	pdf.SetLineWidth(3)
	pdf.Rect(x, y, w, h, "D")
	pdf.SetFont("Courier", "B", 20)
	pdf.SetXY(x, y+12)
	pdf.CellFormat(w, 20, text, "", 0, "C", false, 0, "")
	pdf.TransformEnd()
	pdf.SetLineWidth(1)
}
