package trail

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"newsdesk/internal/game"
)

func testStory() *game.Story {
	return game.NewStory(game.GameState{Time: 10},
		game.Scene{ID: "START", Text: "Deadline at six.", Choices: []game.Choice{{Text: "Go", NextScene: "SCENE_ARRIVAL"}}},
		game.Scene{ID: "SCENE_ARRIVAL", Text: strings.Repeat("Smoke is still rising. ", 20), Choices: []game.Choice{{Text: "File", NextScene: "FINAL_CHECK"}}},
		game.Scene{ID: "WIN", Text: "Front page."},
		game.Scene{ID: "LOSE_QUALITY", Text: "Spiked."},
		game.Scene{ID: "LOSE_TIME", Text: "Too late."},
	)
}

func TestGenerate_NilStory(t *testing.T) {
	b, err := Generate(nil, Trail{Visited: []string{"START"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if b != nil {
		t.Error("expected nil PDF for nil story")
	}
}

func TestGenerate_EmptyTrail(t *testing.T) {
	b, err := Generate(testStory(), Trail{Title: "Warehouse fire"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestGenerate_FinishedRun(t *testing.T) {
	for _, phase := range []game.Phase{game.PhaseWon, game.PhaseLostTime, game.PhaseLostQuality, game.PhasePlaying} {
		t.Run(phase.String(), func(t *testing.T) {
			b, err := Generate(testStory(), Trail{
				Title:   "Warehouse fire",
				Visited: []string{"START", "SCENE_ARRIVAL", "WIN"},
				Stats:   game.GameState{Time: 1, Quality: 6},
				Phase:   phase,
			})
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if len(b) < 100 {
				t.Errorf("PDF too short: %d bytes", len(b))
			}
			if !bytes.HasPrefix(b, []byte("%PDF")) {
				t.Error("output is not a PDF (missing %PDF header)")
			}
			if !bytes.Contains(b, []byte("Reporting trail")) {
				t.Error("expected document title in PDF metadata")
			}
			if !bytes.Contains(b, []byte(phase.String())) {
				t.Errorf("expected subject %q in PDF metadata", phase)
			}
		})
	}
}

func TestGenerate_LongTrailAddsPages(t *testing.T) {
	visited := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		visited = append(visited, "START")
	}
	short, err := Generate(testStory(), Trail{Visited: visited[:2]})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	long, err := Generate(testStory(), Trail{Visited: visited})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if c := bytes.Count(short, []byte("/Type /Page\n")); c != 1 {
		t.Errorf("expected 1 page for short trail, got %d", c)
	}
	if c := bytes.Count(long, []byte("/Type /Page\n")); c < 3 {
		t.Errorf("expected at least 3 pages for 40 stops, got %d", c)
	}
}

func TestGenerate_UnknownSceneInTrail(t *testing.T) {
	_, err := Generate(testStory(), Trail{Visited: []string{"START", "VANISHED"}})
	if err != nil {
		t.Fatalf("Generate should tolerate unknown ids, got %v", err)
	}
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"START":         "Start",
		"SCENE_ARRIVAL": "Scene Arrival",
		"LOSE__TIME":    "Lose Time",
		"ÉDITION_SOIR":  "Édition Soir",
		"_ÜBER":         "Über",
		"":              "",
	}
	for in, want := range tests {
		got := label(in)
		if !utf8.ValidString(got) {
			t.Errorf("label(%q) produced invalid UTF-8 %q", in, got)
		}
		if got != want {
			t.Errorf("label(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExcerpt(t *testing.T) {
	if got := excerpt("  short\n text "); got != "short text" {
		t.Errorf("excerpt collapsed whitespace = %q", got)
	}
	long := strings.Repeat("a", excerptLen+10)
	got := excerpt(long)
	if len([]rune(got)) != excerptLen {
		t.Errorf("excerpt length = %d, want %d", len([]rune(got)), excerptLen)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis, got %q", got)
	}
}

func TestOutcomeText(t *testing.T) {
	for p, want := range map[game.Phase]string{
		game.PhaseWon:         "FRONT PAGE",
		game.PhaseLostTime:    "MISSED DEADLINE",
		game.PhaseLostQuality: "SPIKED",
		game.PhaseEnded:       "FILED",
	} {
		if got := outcomeText(p); got != want {
			t.Errorf("outcomeText(%v) = %q, want %q", p, got, want)
		}
	}
}
