package round

import (
	"time"

	"github.com/vancomm/minesweeper-arcade/internal/mines"
)

// Snapshot is a consistent copy of a round's state. Mines are only shown
// in Grid once the round is over.
type Snapshot struct {
	ID             string
	Owner          string
	Preset         string
	Rows           int
	Cols           int
	MineCount      int
	Grid           mines.Grid
	Started        bool
	GameOver       bool
	Won            bool
	RemainingMines int
	TimeLeft       int
	Duration       int
	Revealed       int
	Score          int
	StartedAt      time.Time
	EndedAt        *time.Time
	// Board is the full layout and is only set once the round is over.
	Board []byte
}

func (s Snapshot) Elapsed() int {
	return s.Duration - s.TimeLeft
}

func (r *Round) snapshot() Snapshot {
	s := Snapshot{
		ID:             r.id,
		Owner:          r.owner,
		Preset:         r.preset.Name,
		Rows:           r.board.Rows(),
		Cols:           r.board.Cols(),
		MineCount:      r.board.MineCount(),
		Grid:           r.board.View(r.gameOver),
		Started:        r.started,
		GameOver:       r.gameOver,
		Won:            r.won,
		RemainingMines: r.remainingMines,
		TimeLeft:       r.timeLeft,
		Duration:       r.duration,
		Revealed:       r.board.RevealedCount(),
		Score:          r.score,
		StartedAt:      r.startedAt,
	}
	if r.gameOver {
		endedAt := r.endedAt
		s.EndedAt = &endedAt
		// the board has only primitive fields, encoding cannot fail
		s.Board, _ = r.board.Bytes()
	}
	return s
}
