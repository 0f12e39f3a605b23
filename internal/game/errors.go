package game

import (
	"errors"
	"fmt"
)

// Player-facing errors. None of them changes the game state.
var (
	ErrNotStarted     = errors.New("game has not started")
	ErrAlreadyStarted = errors.New("game already started")
	ErrGameOver       = errors.New("game is over, restart to play again")
	ErrInvalidChoice  = errors.New("that choice doesn't exist")
)

// LoadErrorKind classifies why story data could not be loaded.
type LoadErrorKind int

const (
	LoadNotFound LoadErrorKind = iota
	LoadParse
	LoadInvalid
	// LoadRead covers read failures other than a missing file, such as a
	// permission error or a directory path.
	LoadRead
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadNotFound:
		return "not found"
	case LoadParse:
		return "parse error"
	case LoadInvalid:
		return "invalid story"
	case LoadRead:
		return "read error"
	default:
		return "unknown"
	}
}

// LoadError is returned when story data is missing, unparseable or breaks the
// scene invariants. It is fatal: the game cannot start.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load story %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SceneNotFoundError reports a reference to a scene id absent from the story.
type SceneNotFoundError struct {
	ID string
}

func (e *SceneNotFoundError) Error() string {
	return fmt.Sprintf("unknown scene: %q", e.ID)
}
