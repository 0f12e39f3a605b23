package tui

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"newsdesk/internal/game"
)

// App binds terminal input to a game controller.
type App struct {
	title   string
	surface Surface
	game    *game.Game
	log     *zap.Logger

	message string
	running bool
	err     error
}

// New creates an app drawing on surface. The game must be in NotStarted.
func New(title string, surface Surface, g *game.Game, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	warnHiddenChoices(g.Story(), log)
	return &App{title: title, surface: surface, game: g, log: log, running: true}
}

// warnHiddenChoices logs scenes with more choices than there are number keys.
func warnHiddenChoices(st *game.Story, log *zap.Logger) {
	for i := range st.Scenes {
		if n := len(st.Scenes[i].Choices); n > maxChoices {
			log.Warn("scene has more choices than number keys, extra choices are hidden",
				zap.String("scene", st.Scenes[i].ID),
				zap.Int("choices", n),
				zap.Int("max", maxChoices),
			)
		}
	}
}

// Run renders and handles input until the player quits or a fatal story error
// occurs, which is returned. The surface is closed on return.
func (a *App) Run(ctx context.Context) error {
	defer a.surface.Close()
	for a.running {
		a.render()
		ev := a.surface.PollEvent()
		if ev == nil {
			break
		}
		a.handleEvent(ctx, ev)
	}
	return a.err
}

func (a *App) render() {
	v, err := a.game.View()
	if err != nil {
		a.fail(err)
	}
	w, _ := a.surface.Size()
	draw(a.surface, layout(a.title, v, a.message, w-2))
}

func (a *App) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.handleKey(ctx, ev)
	case *tcell.EventResize:
		a.surface.Sync()
	}
}

func (a *App) handleKey(ctx context.Context, ev *tcell.EventKey) {
	a.message = ""
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.running = false
	case tcell.KeyEnter:
		a.start(ctx)
	case tcell.KeyRune:
		switch r := ev.Rune(); {
		case r == 'q' || r == 'Q':
			a.running = false
		case r == 's' || r == 'S':
			a.start(ctx)
		case r == 'r' || r == 'R':
			a.game.Restart(ctx)
			a.log.Info("game restarted")
		case r >= '1' && r <= '9':
			a.choose(ctx, int(r-'1'))
		}
	}
}

func (a *App) start(ctx context.Context) {
	if a.game.Phase() != game.PhaseNotStarted {
		return
	}
	v, err := a.game.Start(ctx)
	if err != nil {
		a.handleError(err)
		return
	}
	a.log.Info("game started", zap.Int("time", v.Stats.Time), zap.Int("quality", v.Stats.Quality))
}

func (a *App) choose(ctx context.Context, i int) {
	v, err := a.game.OnChoiceSelected(ctx, i)
	if err != nil {
		a.handleError(err)
		return
	}
	a.log.Debug("choice applied", zap.Int("choice", i), zap.String("scene", v.SceneID), zap.Stringer("phase", v.Phase))
	if v.Phase.Terminal() {
		a.log.Info("game over", zap.Stringer("phase", v.Phase), zap.Int("time", v.Stats.Time), zap.Int("quality", v.Stats.Quality))
	}
}

func (a *App) handleError(err error) {
	switch {
	case errors.Is(err, game.ErrNotStarted):
		a.message = "Press Enter to start."
	case errors.Is(err, game.ErrInvalidChoice), errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrAlreadyStarted):
		a.message = err.Error()
	default:
		a.fail(err)
	}
}

func (a *App) fail(err error) {
	a.log.Error("game error", zap.String("scene", a.game.SceneID()), zap.Error(err))
	a.err = err
	a.running = false
}
