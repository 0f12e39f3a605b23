package game

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"newsdesk/internal/telemetry"
)

// Phase is the position of a run in the game state machine.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhasePlaying
	PhaseWon
	PhaseLostTime
	PhaseLostQuality
	// PhaseEnded covers story-specific endings other than the three outcomes.
	PhaseEnded
)

// String returns a stable lower-case phase name, used in logs and metrics.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhasePlaying:
		return "playing"
	case PhaseWon:
		return "won"
	case PhaseLostTime:
		return "lost_time"
	case PhaseLostQuality:
		return "lost_quality"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Terminal reports whether only a restart can leave this phase.
func (p Phase) Terminal() bool {
	return p >= PhaseWon
}

// View is what a presentation adapter renders. SceneID and Text are empty
// before the game starts.
type View struct {
	Phase   Phase
	SceneID string
	Text    string
	Choices []string
	Stats   GameState
}

// Snapshot is the serialisable state of a Game.
type Snapshot struct {
	State   GameState
	Phase   Phase
	SceneID string
	Visited []string
}

// Game owns a single run: the stats, the phase and the scene on display. It
// is not safe for concurrent use.
type Game struct {
	story   *Story
	state   GameState
	phase   Phase
	sceneID string
	visited []string
	tracer  trace.Tracer
}

// New returns a game in the NotStarted phase.
func New(story *Story) *Game {
	return &Game{
		story:  story,
		state:  story.InitialState,
		tracer: telemetry.Tracer("game"),
	}
}

// Restore rebuilds a game from a snapshot taken with Snapshot.
func Restore(story *Story, snap Snapshot) *Game {
	g := New(story)
	g.state = snap.State
	g.phase = snap.Phase
	g.sceneID = snap.SceneID
	g.visited = slices.Clone(snap.Visited)
	return g
}

func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		State:   g.state,
		Phase:   g.phase,
		SceneID: g.sceneID,
		Visited: slices.Clone(g.visited),
	}
}

func (g *Game) Story() *Story     { return g.story }
func (g *Game) State() GameState  { return g.state }
func (g *Game) Phase() Phase      { return g.phase }
func (g *Game) SceneID() string   { return g.sceneID }
func (g *Game) Visited() []string { return slices.Clone(g.visited) }

// Start resets the stats to the configured initial values and displays START.
func (g *Game) Start(ctx context.Context) (View, error) {
	_, span := g.tracer.Start(ctx, "game.start")
	defer span.End()

	if g.phase != PhaseNotStarted {
		return g.fail(span, ErrAlreadyStarted)
	}
	sc, err := g.story.Scene(SceneStart)
	if err != nil {
		return g.fail(span, err)
	}
	g.state = g.story.InitialState
	g.visited = nil
	g.show(sc)
	g.annotate(span)
	return g.View()
}

// OnChoiceSelected applies the index-th choice of the current scene. It is
// the single entry point presentation adapters bind their input events to.
func (g *Game) OnChoiceSelected(ctx context.Context, index int) (View, error) {
	ctx, span := g.tracer.Start(ctx, "game.choose", trace.WithAttributes(
		attribute.String("scene.id", g.sceneID),
		attribute.Int("choice.index", index),
	))
	defer span.End()

	if g.phase == PhaseNotStarted {
		return g.fail(span, ErrNotStarted)
	}
	cur, err := g.story.Scene(g.sceneID)
	if err != nil {
		return g.fail(span, err)
	}
	if index < 0 || index >= len(cur.Choices) {
		return g.fail(span, ErrInvalidChoice)
	}
	ch := cur.Choices[index]

	if ch.NextScene == SceneRestart {
		return g.Restart(ctx), nil
	}
	if g.phase.Terminal() {
		return g.fail(span, ErrGameOver)
	}

	next, dest := Resolve(g.state, ch)
	sc, err := g.story.Scene(dest)
	if err != nil {
		return g.fail(span, err)
	}
	g.state = next
	g.show(sc)
	g.annotate(span)
	return g.View()
}

// Restart discards the run and returns to NotStarted with the initial stats.
// The story is not reloaded.
func (g *Game) Restart(ctx context.Context) View {
	_, span := g.tracer.Start(ctx, "game.restart", trace.WithAttributes(
		attribute.String("game.phase_before", g.phase.String()),
	))
	defer span.End()

	g.state = g.story.InitialState
	g.phase = PhaseNotStarted
	g.sceneID = ""
	g.visited = nil
	g.annotate(span)
	return View{Phase: g.phase, Stats: g.state}
}

// View describes the scene on display.
func (g *Game) View() (View, error) {
	v := View{Phase: g.phase, SceneID: g.sceneID, Stats: g.state}
	if g.phase == PhaseNotStarted {
		return v, nil
	}
	sc, err := g.story.Scene(g.sceneID)
	if err != nil {
		return v, err
	}
	v.Text = sc.Text
	v.Choices = sc.Labels()
	return v, nil
}

func (g *Game) show(sc *Scene) {
	g.sceneID = sc.ID
	g.visited = append(g.visited, sc.ID)
	g.phase = phaseOf(sc)
}

func phaseOf(sc *Scene) Phase {
	switch sc.ID {
	case SceneWin:
		return PhaseWon
	case SceneLoseTime:
		return PhaseLostTime
	case SceneLoseQuality:
		return PhaseLostQuality
	}
	if sc.Terminal() {
		return PhaseEnded
	}
	return PhasePlaying
}

func (g *Game) annotate(span trace.Span) {
	span.SetAttributes(
		attribute.String("game.phase", g.phase.String()),
		attribute.String("game.scene", g.sceneID),
		attribute.Int("game.time", g.state.Time),
		attribute.Int("game.quality", g.state.Quality),
	)
}

func (g *Game) fail(span trace.Span, err error) (View, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	v, _ := g.View()
	return v, err
}
