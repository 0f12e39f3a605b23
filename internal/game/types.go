package game

// Reserved scene ids. START, WIN, LOSE_TIME and LOSE_QUALITY are real scenes
// in the story data; FINAL_CHECK and RESTART are consumed by the engine.
const (
	SceneStart       = "START"
	SceneFinalCheck  = "FINAL_CHECK"
	SceneWin         = "WIN"
	SceneLoseQuality = "LOSE_QUALITY"
	SceneLoseTime    = "LOSE_TIME"
	SceneRestart     = "RESTART"
)

// QualityToWin is the quality a reporter needs at FINAL_CHECK to file a
// winning story.
const QualityToWin = 5

// GameState holds the two counters a run is scored on.
type GameState struct {
	Time    int `yaml:"time" json:"time"`
	Quality int `yaml:"quality" json:"quality"`
}

// Story is the immutable scene collection plus the configured starting stats.
type Story struct {
	InitialState GameState `yaml:"initialState" json:"initialState"`
	Scenes       []Scene   `yaml:"scenes" json:"scenes"`

	index map[string]*Scene
}

// Scene is a narrative unit with display text and ordered choices. A scene
// without choices is an ending.
type Scene struct {
	ID      string   `yaml:"id" json:"id"`
	Text    string   `yaml:"text" json:"text"`
	Choices []Choice `yaml:"choices" json:"choices"`
}

// Choice is a selectable action with optional stat effects.
type Choice struct {
	Text      string   `yaml:"text" json:"text"`
	Effects   *Effects `yaml:"effects" json:"effects,omitempty"`
	NextScene string   `yaml:"nextScene" json:"nextScene"`
}

// Effects are signed deltas applied to the stats. A nil field is a zero delta.
type Effects struct {
	Time    *int `yaml:"time" json:"time,omitempty"`
	Quality *int `yaml:"quality" json:"quality,omitempty"`
}

// Terminal reports whether the scene is an ending.
func (s *Scene) Terminal() bool {
	return len(s.Choices) == 0
}

// Labels returns the choice texts in display order.
func (s *Scene) Labels() []string {
	out := make([]string, len(s.Choices))
	for i := range s.Choices {
		out[i] = s.Choices[i].Text
	}
	return out
}
