package suika

import (
	"sort"

	"github.com/vovakirdan/tui-suika/internal/core"
	"github.com/vovakirdan/tui-suika/internal/physics"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateDropping    GameStateType = "dropping"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StatePausedSmall GameStateType = "paused_small_window"
)

// PieceSnapshot is one piece in the container.
type PieceSnapshot struct {
	ID     physics.BodyID
	Tier   int
	Pos    core.Vec
	Active bool
}

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick   uint64
	Theme  string
	Score  int
	Merges int
	Drops  int
	Max    int // highest tier reached, -1 before the first spawn
	Pieces []PieceSnapshot
	State  GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	if g.session == nil {
		return Snapshot{Theme: g.theme, Max: -1, State: StatePlaying}
	}

	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.session.Terminal():
		state = StateGameOver
	case g.paused:
		state = StatePaused
	case g.session.Locked():
		state = StateDropping
	}

	activeID, _, _ := g.session.Active()
	var pieces []PieceSnapshot
	for _, b := range g.world.Bodies() {
		if b.Tag.Kind != KindPiece {
			continue
		}
		pieces = append(pieces, PieceSnapshot{
			ID:     b.ID,
			Tier:   b.Tag.Value,
			Pos:    b.Pos,
			Active: b.ID == activeID,
		})
	}
	sort.Slice(pieces, func(i, j int) bool { return pieces[i].ID < pieces[j].ID })

	st := g.session.Stats()
	return Snapshot{
		Tick:   g.tick,
		Theme:  g.theme,
		Score:  st.Score,
		Merges: st.Merges,
		Drops:  st.Drops,
		Max:    st.MaxTier,
		Pieces: pieces,
		State:  state,
	}
}
