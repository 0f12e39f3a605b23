package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"newsdesk/internal/game"
	"newsdesk/internal/session"
	"newsdesk/internal/trail"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ParseTemplates parses the embedded page templates.
func ParseTemplates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.html")
}

// Server is the HTTP presentation adapter. Each cookie session owns one game,
// stored between requests as a snapshot.
type Server struct {
	Story        *game.Story
	Store        session.Store[game.Snapshot]
	Tmpl         *template.Template
	Log          *zap.Logger
	Title        string
	CookieSecure bool
}

const cookieName = "newsdesk_sid"

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)

	mux.HandleFunc("/start", s.handleStart)
	mux.HandleFunc("/choose", s.handleChoose)
	mux.HandleFunc("/restart", s.handleRestart)

	mux.HandleFunc("/trail.pdf", s.handleTrail)
	mux.HandleFunc("/healthz", handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return s.instrument(mux)
}

// ViewModel is the data handed to the layout template.
type ViewModel struct {
	Title        string
	View         game.View
	Message      string
	Started      bool
	Over         bool
	QualityToWin int
}

// GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	g, _ := s.gameFor(r.Context(), w, r)
	v, err := g.View()
	if err != nil {
		s.fatal(w, g, err)
		return
	}
	s.render(w, http.StatusOK, v, "")
}

// POST /start
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	ctx := r.Context()
	g, id := s.gameFor(ctx, w, r)

	v, err := g.Start(ctx)
	if err != nil {
		s.userError(w, g, v, err)
		return
	}
	gamesStarted.Inc()
	s.log().Info("game started", zap.String("session", id), zap.Int("time", v.Stats.Time), zap.Int("quality", v.Stats.Quality))
	s.save(ctx, w, id, g, v)
}

// POST /choose
func (s *Server) handleChoose(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	ctx := r.Context()
	g, id := s.gameFor(ctx, w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	idx, err := strconv.Atoi(strings.TrimSpace(r.FormValue("choice")))
	if err != nil {
		choiceErrors.WithLabelValues("malformed").Inc()
		http.Error(w, "choice must be a number", http.StatusBadRequest)
		return
	}

	from := g.SceneID()
	v, err := g.OnChoiceSelected(ctx, idx)
	if err != nil {
		s.userError(w, g, v, err)
		return
	}
	choicesApplied.Inc()
	s.log().Debug("choice applied",
		zap.String("session", id),
		zap.String("from", from),
		zap.Int("choice", idx),
		zap.String("scene", v.SceneID),
		zap.Stringer("phase", v.Phase),
		zap.Int("time", v.Stats.Time),
		zap.Int("quality", v.Stats.Quality),
	)
	if v.Phase.Terminal() {
		outcomes.WithLabelValues(v.Phase.String()).Inc()
		s.log().Info("game over", zap.String("session", id), zap.Stringer("phase", v.Phase), zap.Int("time", v.Stats.Time), zap.Int("quality", v.Stats.Quality))
	}
	if v.Phase == game.PhaseNotStarted {
		restarts.Inc()
	}
	s.save(ctx, w, id, g, v)
}

// POST /restart drops the old session and issues a fresh one.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	ctx := r.Context()
	if old := s.sessionID(r); old != "" {
		if err := s.Store.Delete(ctx, old); err != nil {
			s.log().Warn("failed to drop session", zap.String("session", old), zap.Error(err))
		}
	}
	g, id := game.New(s.Story), s.issueSession(w)
	v := g.Restart(ctx)
	restarts.Inc()
	s.save(ctx, w, id, g, v)
}

// GET /trail.pdf
func (s *Server) handleTrail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	g, _ := s.gameFor(r.Context(), w, r)
	pdf, err := trail.Generate(s.Story, trail.Trail{
		Title:   s.Title,
		Visited: g.Visited(),
		Stats:   g.State(),
		Phase:   g.Phase(),
	})
	if err != nil {
		s.log().Error("trail render failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="reporting-trail.pdf"`)
	if _, err := w.Write(pdf); err != nil {
		s.log().Warn("trail write failed", zap.Error(err))
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// gameFor restores the session's game, creating a fresh NotStarted game and
// cookie when the request has none or the session is unknown.
func (s *Server) gameFor(ctx context.Context, w http.ResponseWriter, r *http.Request) (*game.Game, string) {
	if id := s.sessionID(r); id != "" {
		snap, ok, err := s.Store.Get(ctx, id)
		if err == nil && ok {
			return game.Restore(s.Story, snap), id
		}
		if err != nil {
			s.log().Warn("session lookup failed", zap.String("session", id), zap.Error(err))
		}
	}

	return game.New(s.Story), s.issueSession(w)
}

func (s *Server) issueSession(w http.ResponseWriter) string {
	id := s.Store.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) save(ctx context.Context, w http.ResponseWriter, id string, g *game.Game, v game.View) {
	if err := s.Store.Put(ctx, id, g.Snapshot()); err != nil {
		s.log().Error("failed to save session", zap.String("session", id), zap.Error(err))
		http.Error(w, "failed to save state", http.StatusInternalServerError)
		return
	}
	s.render(w, http.StatusOK, v, "")
}

// userError maps game errors to responses. A missing scene is a broken story
// and is fatal; everything else leaves the game as it was.
func (s *Server) userError(w http.ResponseWriter, g *game.Game, v game.View, err error) {
	var notFound *game.SceneNotFoundError
	switch {
	case errors.As(err, &notFound):
		s.fatal(w, g, err)
	case errors.Is(err, game.ErrInvalidChoice):
		choiceErrors.WithLabelValues("invalid_choice").Inc()
		s.render(w, http.StatusBadRequest, v, err.Error())
	case errors.Is(err, game.ErrNotStarted):
		choiceErrors.WithLabelValues("not_started").Inc()
		s.render(w, http.StatusConflict, v, "Press start to begin.")
	case errors.Is(err, game.ErrAlreadyStarted):
		choiceErrors.WithLabelValues("already_started").Inc()
		s.render(w, http.StatusConflict, v, err.Error())
	case errors.Is(err, game.ErrGameOver):
		choiceErrors.WithLabelValues("game_over").Inc()
		s.render(w, http.StatusConflict, v, err.Error())
	default:
		s.fatal(w, g, err)
	}
}

func (s *Server) fatal(w http.ResponseWriter, g *game.Game, err error) {
	var notFound *game.SceneNotFoundError
	if errors.As(err, &notFound) {
		sceneLookupFailures.Inc()
	}
	s.log().Error("game error", zap.String("scene", g.SceneID()), zap.Stringer("phase", g.Phase()), zap.Error(err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) render(w http.ResponseWriter, status int, v game.View, msg string) {
	vm := ViewModel{
		Title:        s.title(),
		View:         v,
		Message:      msg,
		Started:      v.Phase != game.PhaseNotStarted,
		Over:         v.Phase.Terminal(),
		QualityToWin: game.QualityToWin,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := s.Tmpl.ExecuteTemplate(w, "layout", vm); err != nil {
		s.log().Error("failed to render template", zap.Error(err))
	}
}

func (s *Server) title() string {
	if s.Title == "" {
		return "Newsdesk"
	}
	return s.Title
}

func (s *Server) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
