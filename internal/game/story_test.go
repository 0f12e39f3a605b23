package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

const validStoryJSON = `{
  "initialState": {"time": 10, "quality": 0},
  "scenes": [
    {"id": "START", "text": "The editor wants copy by six.",
     "choices": [
       {"text": "Call a source", "effects": {"time": -2, "quality": 3}, "nextScene": "DESK"},
       {"text": "Just write it", "nextScene": "FINAL_CHECK"}
     ]},
    {"id": "DESK", "text": "Back at the desk.",
     "choices": [{"text": "File", "effects": {"time": -1}, "nextScene": "FINAL_CHECK"}]},
    {"id": "WIN", "text": "Front page.", "choices": [{"text": "Again", "nextScene": "RESTART"}]},
    {"id": "LOSE_QUALITY", "text": "Spiked.", "choices": []},
    {"id": "LOSE_TIME", "text": "Missed the deadline.", "choices": []}
  ]
}`

func writeStory(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil { //nolint:gosec // test file permissions are acceptable
		t.Fatalf("Failed to create test story file: %v", err)
	}
	return path
}

func TestLoadStory_ValidJSON(t *testing.T) {
	story, err := LoadStory(writeStory(t, "game.json", validStoryJSON))
	if err != nil {
		t.Fatalf("Unexpected error loading story: %v", err)
	}

	if story.InitialState != (GameState{Time: 10, Quality: 0}) {
		t.Errorf("Expected initial state {10 0}, got %+v", story.InitialState)
	}
	if len(story.Scenes) != 5 {
		t.Fatalf("Expected 5 scenes, got %d", len(story.Scenes))
	}

	start, err := story.Scene(SceneStart)
	if err != nil {
		t.Fatalf("Expected START to exist: %v", err)
	}
	if len(start.Choices) != 2 {
		t.Fatalf("Expected 2 choices in START, got %d", len(start.Choices))
	}

	call := start.Choices[0]
	if call.Effects == nil || call.Effects.Time == nil || *call.Effects.Time != -2 {
		t.Errorf("Expected time effect -2, got %+v", call.Effects)
	}
	if call.Effects.Quality == nil || *call.Effects.Quality != 3 {
		t.Errorf("Expected quality effect 3, got %+v", call.Effects)
	}
	if start.Choices[1].Effects != nil {
		t.Errorf("Expected no effects on second choice, got %+v", start.Choices[1].Effects)
	}
	if start.Choices[1].NextScene != SceneFinalCheck {
		t.Errorf("Expected nextScene FINAL_CHECK, got %q", start.Choices[1].NextScene)
	}

	desk, err := story.Scene("DESK")
	if err != nil {
		t.Fatalf("Expected DESK to exist: %v", err)
	}
	if desk.Choices[0].Effects.Quality != nil {
		t.Error("Expected omitted quality effect to stay nil")
	}
}

func TestLoadStory_ValidYAML(t *testing.T) {
	storyYAML := `initialState:
  time: 4
  quality: 1
scenes:
  - id: START
    text: "Go"
    choices:
      - text: "Out of time"
        effects:
          time: -4
        nextScene: START
  - id: LOSE_TIME
    text: "Too late"
`
	story, err := LoadStory(writeStory(t, "game.yaml", storyYAML))
	if err != nil {
		t.Fatalf("Unexpected error loading story: %v", err)
	}
	if story.InitialState.Time != 4 || story.InitialState.Quality != 1 {
		t.Errorf("Expected initial state {4 1}, got %+v", story.InitialState)
	}
	lose, err := story.Scene(SceneLoseTime)
	if err != nil {
		t.Fatalf("Expected LOSE_TIME: %v", err)
	}
	if !lose.Terminal() {
		t.Error("Expected LOSE_TIME to be terminal")
	}
}

func TestLoadStory_NotFound(t *testing.T) {
	_, err := LoadStory("non_existent_file.json")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("Expected *LoadError, got %v", err)
	}
	if le.Kind != LoadNotFound {
		t.Errorf("Expected kind %v, got %v", LoadNotFound, le.Kind)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("Expected error to wrap os.ErrNotExist")
	}
}

func TestLoadStory_ParseError(t *testing.T) {
	path := writeStory(t, "broken.json", `{"initialState": {"time": 10, "scenes": [unclosed`)

	_, err := LoadStory(path)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("Expected *LoadError, got %v", err)
	}
	if le.Kind != LoadParse {
		t.Errorf("Expected kind %v, got %v", LoadParse, le.Kind)
	}
}

func TestLoadStory_WrongFieldType(t *testing.T) {
	path := writeStory(t, "types.json", `{"initialState": {"time": "soon", "quality": 0}, "scenes": []}`)

	_, err := LoadStory(path)
	var le *LoadError
	if !errors.As(err, &le) || le.Kind != LoadParse {
		t.Fatalf("Expected parse error, got %v", err)
	}
}

func TestLoadStory_JSONEscapedSlash(t *testing.T) {
	body := strings.Replace(validStoryJSON, "copy by six.", `copy by 6\/7.`, 1)
	story, err := LoadStory(writeStory(t, "escaped.json", body))
	if err != nil {
		t.Fatalf("Unexpected error loading story: %v", err)
	}
	start, err := story.Scene(SceneStart)
	if err != nil {
		t.Fatalf("START lookup failed: %v", err)
	}
	if start.Text != "The editor wants copy by 6/7." {
		t.Errorf("Expected unescaped text, got %q", start.Text)
	}
}

func TestLoadStory_FractionalStatsRejected(t *testing.T) {
	tests := map[string]string{
		"initial time": strings.Replace(validStoryJSON, `{"time": 10, "quality": 0}`, `{"time": 10.5, "quality": 0}`, 1),
		"effect":       strings.Replace(validStoryJSON, `{"time": -1}`, `{"time": -0.5}`, 1),
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if body == validStoryJSON {
				t.Fatal("fixture replacement did not apply")
			}
			_, err := LoadStory(writeStory(t, "fraction.json", body))
			var le *LoadError
			if !errors.As(err, &le) || le.Kind != LoadParse {
				t.Fatalf("Expected parse error, got %v", err)
			}
		})
	}
}

func TestLoadStoryFS_JSONWithoutExtension(t *testing.T) {
	fsys := fstest.MapFS{
		"story": {Data: []byte(strings.Replace(validStoryJSON, `{"time": -1}`, `{"time": -0.5}`, 1))},
	}
	_, err := LoadStoryFS(fsys, "story")
	var le *LoadError
	if !errors.As(err, &le) || le.Kind != LoadParse {
		t.Fatalf("Expected JSON content to be decoded strictly, got %v", err)
	}
}

func TestLoadStory_ReadError(t *testing.T) {
	_, err := LoadStory(t.TempDir())
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("Expected *LoadError, got %v", err)
	}
	if le.Kind != LoadRead {
		t.Errorf("Expected kind %v for a directory, got %v", LoadRead, le.Kind)
	}
	if errors.Is(err, os.ErrNotExist) {
		t.Error("A directory path must not be reported as missing")
	}
}

func TestLoadStory_Invalid(t *testing.T) {
	path := writeStory(t, "dangling.json", `{
  "initialState": {"time": 1, "quality": 0},
  "scenes": [{"id": "START", "text": "x", "choices": [{"text": "go", "nextScene": "NOWHERE"}]}]
}`)

	_, err := LoadStory(path)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("Expected *LoadError, got %v", err)
	}
	if le.Kind != LoadInvalid {
		t.Errorf("Expected kind %v, got %v", LoadInvalid, le.Kind)
	}
	var nf *SceneNotFoundError
	if !errors.As(err, &nf) || nf.ID != "NOWHERE" {
		t.Errorf("Expected SceneNotFoundError for NOWHERE, got %v", err)
	}
	if !strings.Contains(err.Error(), "LOSE_TIME") {
		t.Errorf("Expected missing LOSE_TIME to be reported too, got %v", err)
	}
}

func TestLoadStoryFS(t *testing.T) {
	fsys := fstest.MapFS{"stories/game.json": {Data: []byte(validStoryJSON)}}

	story, err := LoadStoryFS(fsys, "stories/game.json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := story.Scene("DESK"); err != nil {
		t.Errorf("Expected DESK: %v", err)
	}

	_, err = LoadStoryFS(fsys, "stories/missing.json")
	var le *LoadError
	if !errors.As(err, &le) || le.Kind != LoadNotFound {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestStoryScene_CaseSensitive(t *testing.T) {
	story := NewStory(GameState{}, Scene{ID: "START", Text: "x"})

	if _, err := story.Scene("start"); err == nil {
		t.Error("Expected lookup to be case-sensitive")
	}
	_, err := story.Scene("MISSING")
	var nf *SceneNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected *SceneNotFoundError, got %v", err)
	}
	if nf.ID != "MISSING" {
		t.Errorf("Expected id MISSING, got %q", nf.ID)
	}
}

func TestStoryScene_Unindexed(t *testing.T) {
	story := &Story{Scenes: []Scene{{ID: "START", Text: "literal"}}}

	sc, err := story.Scene("START")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sc.Text != "literal" {
		t.Errorf("Expected text 'literal', got %q", sc.Text)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		scenes  []Scene
		wantErr []string
	}{
		{
			name: "minimal",
			scenes: []Scene{
				{ID: SceneStart, Choices: []Choice{{Text: "go", NextScene: SceneLoseTime}}},
				{ID: SceneLoseTime},
			},
		},
		{
			name: "final check without outcomes",
			scenes: []Scene{
				{ID: SceneStart, Choices: []Choice{{Text: "file", NextScene: SceneFinalCheck}}},
				{ID: SceneLoseTime},
			},
			wantErr: []string{"WIN", "LOSE_QUALITY"},
		},
		{
			name: "duplicate and empty ids",
			scenes: []Scene{
				{ID: SceneStart},
				{ID: SceneStart},
				{ID: ""},
				{ID: SceneLoseTime},
			},
			wantErr: []string{"duplicate scene id", "has no id"},
		},
		{
			name: "reserved restart id",
			scenes: []Scene{
				{ID: SceneStart},
				{ID: SceneRestart},
				{ID: SceneLoseTime},
			},
			wantErr: []string{"reserved"},
		},
		{
			name: "missing start and empty destination",
			scenes: []Scene{
				{ID: "A", Choices: []Choice{{Text: "nowhere"}}},
				{ID: SceneLoseTime},
			},
			wantErr: []string{"missing entry scene START", "has no nextScene"},
		},
		{
			name: "restart needs no scene",
			scenes: []Scene{
				{ID: SceneStart, Choices: []Choice{{Text: "again", NextScene: SceneRestart}}},
				{ID: SceneLoseTime},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewStory(GameState{Time: 1}, tt.scenes...).Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected validation error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Expected error to mention %q, got %v", want, err)
				}
			}
		})
	}
}
