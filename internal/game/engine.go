package game

// Resolve applies a choice to the stats and picks the scene to display next.
// Running out of time beats any declared destination; FINAL_CHECK branches on
// quality. RESTART must be intercepted by the caller.
func Resolve(st GameState, ch Choice) (GameState, string) {
	st = applyEffects(st, ch.Effects)

	if st.Time <= 0 {
		return st, SceneLoseTime
	}
	if ch.NextScene == SceneFinalCheck {
		if st.Quality >= QualityToWin {
			return st, SceneWin
		}
		return st, SceneLoseQuality
	}
	return st, ch.NextScene
}

// No clamping: stats may grow or sink without bound.
func applyEffects(st GameState, eff *Effects) GameState {
	if eff == nil {
		return st
	}
	if eff.Time != nil {
		st.Time += *eff.Time
	}
	if eff.Quality != nil {
		st.Quality += *eff.Quality
	}
	return st
}
