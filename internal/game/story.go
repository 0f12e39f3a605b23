package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadStory loads and validates a story from a JSON or YAML file.
func LoadStory(path string) (*Story, error) {
	// Resolve path to prevent directory traversal attacks
	cleanPath := filepath.Clean(path)
	b, err := os.ReadFile(cleanPath) //nolint:gosec // path is cleaned and validated
	if err != nil {
		return nil, &LoadError{Kind: readErrorKind(err), Path: cleanPath, Err: err}
	}
	return parseStory(cleanPath, b)
}

// LoadStoryFS loads and validates a story stored in fsys, typically the
// embedded default game.
func LoadStoryFS(fsys fs.FS, name string) (*Story, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, &LoadError{Kind: readErrorKind(err), Path: name, Err: err}
	}
	return parseStory(name, b)
}

func readErrorKind(err error) LoadErrorKind {
	if errors.Is(err, fs.ErrNotExist) {
		return LoadNotFound
	}
	return LoadRead
}

// parseStory decodes JSON sources with encoding/json, which rejects
// fractional stats, and everything else as YAML.
func parseStory(path string, b []byte) (*Story, error) {
	var s Story
	var err error
	if isJSON(path, b) {
		err = json.Unmarshal(b, &s)
	} else {
		err = yaml.Unmarshal(b, &s)
	}
	if err != nil {
		return nil, &LoadError{Kind: LoadParse, Path: path, Err: err}
	}
	st := NewStory(s.InitialState, s.Scenes...)
	if err := st.Validate(); err != nil {
		return nil, &LoadError{Kind: LoadInvalid, Path: path, Err: err}
	}
	return st, nil
}

func isJSON(path string, b []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return true
	case ".yaml", ".yml":
		return false
	}
	return bytes.HasPrefix(bytes.TrimSpace(b), []byte("{"))
}

// NewStory builds an indexed story. It does not validate.
func NewStory(initial GameState, scenes ...Scene) *Story {
	st := &Story{
		InitialState: initial,
		Scenes:       scenes,
		index:        make(map[string]*Scene, len(scenes)),
	}
	for i := range st.Scenes {
		if _, dup := st.index[st.Scenes[i].ID]; dup {
			continue
		}
		st.index[st.Scenes[i].ID] = &st.Scenes[i]
	}
	return st
}

// Scene looks up a scene by exact, case-sensitive id.
func (s *Story) Scene(id string) (*Scene, error) {
	if s.index != nil {
		if sc := s.index[id]; sc != nil {
			return sc, nil
		}
		return nil, &SceneNotFoundError{ID: id}
	}
	for i := range s.Scenes {
		if s.Scenes[i].ID == id {
			return &s.Scenes[i], nil
		}
	}
	return nil, &SceneNotFoundError{ID: id}
}

func (s *Story) has(id string) bool {
	_, err := s.Scene(id)
	return err == nil
}

// Validate checks the scene graph: START exists, ids are unique and non-empty,
// every destination resolves, and the outcome scenes the engine can produce
// are present. All problems are reported together.
func (s *Story) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(s.Scenes))
	for i := range s.Scenes {
		id := s.Scenes[i].ID
		switch {
		case id == "":
			errs = append(errs, fmt.Errorf("scene #%d has no id", i))
		case id == SceneRestart:
			errs = append(errs, fmt.Errorf("scene id %s is reserved", SceneRestart))
		case seen[id]:
			errs = append(errs, fmt.Errorf("duplicate scene id %q", id))
		}
		seen[id] = true
	}

	if !s.has(SceneStart) {
		errs = append(errs, fmt.Errorf("missing entry scene %s", SceneStart))
	}
	if !s.has(SceneLoseTime) {
		errs = append(errs, fmt.Errorf("missing outcome scene %s", SceneLoseTime))
	}

	finalCheck := false
	for i := range s.Scenes {
		sc := &s.Scenes[i]
		for j, ch := range sc.Choices {
			switch ch.NextScene {
			case SceneRestart:
			case SceneFinalCheck:
				finalCheck = true
			case "":
				errs = append(errs, fmt.Errorf("scene %q choice %d has no nextScene", sc.ID, j))
			default:
				if !s.has(ch.NextScene) {
					errs = append(errs, fmt.Errorf("scene %q choice %d: %w", sc.ID, j, &SceneNotFoundError{ID: ch.NextScene}))
				}
			}
		}
	}
	if finalCheck {
		for _, id := range []string{SceneWin, SceneLoseQuality} {
			if !s.has(id) {
				errs = append(errs, fmt.Errorf("%s is referenced but outcome scene %s is missing", SceneFinalCheck, id))
			}
		}
	}
	return errors.Join(errs...)
}
