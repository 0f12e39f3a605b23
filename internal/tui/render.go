package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"newsdesk/internal/game"
)

var (
	styleText    = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleTitle   = styleText.Foreground(tcell.ColorYellow).Bold(true)
	styleStats   = styleText.Foreground(tcell.ColorAqua)
	styleChoice  = styleText.Foreground(tcell.ColorGreen)
	styleMessage = styleText.Foreground(tcell.ColorRed)
	styleHelp    = styleText.Foreground(tcell.ColorGray)
)

const maxChoices = 9

type line struct {
	text  string
	style tcell.Style
}

// layout turns a view into screen lines for the given width.
func layout(title string, v game.View, msg string, width int) []line {
	if width < 20 {
		width = 20
	}
	var out []line
	add := func(s string, st tcell.Style) { out = append(out, line{s, st}) }

	add(title, styleTitle)
	add(fmt.Sprintf("Time Left: %d    Story Quality: %d", v.Stats.Time, v.Stats.Quality), styleStats)
	add("", styleText)

	if v.Phase == game.PhaseNotStarted {
		for _, l := range wrap(fmt.Sprintf(
			"You are a reporter on deadline. Every choice costs time and can make your story better or worse. "+
				"Run out of time before you file and you lose. File a story with quality of at least %d to make the front page.",
			game.QualityToWin), width) {
			add(l, styleText)
		}
		add("", styleText)
		add("Press Enter to start reporting.", styleChoice)
	} else {
		for _, l := range wrap(v.Text, width) {
			add(l, styleText)
		}
		add("", styleText)
		for i, c := range v.Choices {
			if i >= maxChoices {
				add(fmt.Sprintf("    (%d more not shown)", len(v.Choices)-maxChoices), styleHelp)
				break
			}
			for j, l := range wrap(c, width-4) {
				prefix := "    "
				if j == 0 {
					prefix = fmt.Sprintf(" %d) ", i+1)
				}
				add(prefix+l, styleChoice)
			}
		}
		if v.Phase.Terminal() && len(v.Choices) == 0 {
			add("The End. Press r to start over.", styleChoice)
		}
	}

	if msg != "" {
		add("", styleText)
		for _, l := range wrap(msg, width) {
			add(l, styleMessage)
		}
	}
	return out
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	cur := ""
	for _, w := range words {
		for len([]rune(w)) > width {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			r := []rune(w)
			lines = append(lines, string(r[:width]))
			w = string(r[width:])
		}
		switch {
		case cur == "":
			cur = w
		case len([]rune(cur))+1+len([]rune(w)) <= width:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func draw(s Surface, lines []line) {
	s.Clear()
	w, h := s.Size()
	for y, l := range lines {
		if y >= h-1 {
			break
		}
		drawString(s, 1, y, w-1, l.text, l.style)
	}
	drawString(s, 1, h-1, w-1, "1-9 choose   Enter start   r restart   q quit", styleHelp)
	s.Show()
}

func drawString(s Surface, x, y, maxX int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= maxX {
			return
		}
		s.SetContent(x, y, r, style)
		x++
	}
}
