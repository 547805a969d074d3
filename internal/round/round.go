package round

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vancomm/minesweeper-arcade/internal/mines"
)

var ErrOutOfBounds = errors.New("cell position out of bounds")

const DefaultDuration = 180 * time.Second

type Config struct {
	ID       string
	Owner    string
	Preset   mines.Preset
	Duration time.Duration
	// Interval between clock ticks in Run; one second unless set.
	Interval time.Duration
	// OnFinish is called once, outside of the round lock, when the round
	// becomes terminal.
	OnFinish func(Snapshot)
}

// Round is one play session. Every mutation holds mu, so reveals, flags
// and clock ticks are applied one at a time.
type Round struct {
	mu sync.Mutex

	id       string
	owner    string
	preset   mines.Preset
	duration int
	interval time.Duration
	onFinish func(Snapshot)

	board          *mines.Board
	started        bool
	gameOver       bool
	won            bool
	remainingMines int
	timeLeft       int
	score          int
	startedAt      time.Time
	endedAt        time.Time

	done     chan struct{}
	doneOnce sync.Once

	subs      map[int]chan Snapshot
	nextSub   int
	discarded bool
}

// New generates a fresh board for cfg.Preset and starts the round.
func New(cfg Config, r *rand.Rand) (*Round, error) {
	board, err := cfg.Preset.Generate(r)
	if err != nil {
		return nil, fmt.Errorf("unable to generate board: %w", err)
	}
	return FromBoard(cfg, board), nil
}

// FromBoard starts a round on an existing, untouched board.
func FromBoard(cfg Config, board *mines.Board) *Round {
	duration := cfg.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}
	seconds := int(duration / time.Second)

	return &Round{
		id:             cfg.ID,
		owner:          cfg.Owner,
		preset:         cfg.Preset,
		duration:       seconds,
		interval:       interval,
		onFinish:       cfg.OnFinish,
		board:          board,
		started:        true,
		remainingMines: board.MineCount(),
		timeLeft:       seconds,
		startedAt:      time.Now().UTC(),
		done:           make(chan struct{}),
		subs:           make(map[int]chan Snapshot),
	}
}

func (r *Round) ID() string    { return r.id }
func (r *Round) Owner() string { return r.owner }

// Done is closed when the round is over or discarded.
func (r *Round) Done() <-chan struct{} {
	return r.done
}

func (r *Round) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *Round) Over() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gameOver
}

// EndedAt is the zero time while the round is live.
func (r *Round) EndedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.endedAt
}

// Reveal opens a cell. It does nothing once the round is over.
func (r *Round) Reveal(row, col int) (Snapshot, error) {
	return r.mutate(func() (bool, error) {
		if r.gameOver {
			return false, nil
		}
		if !r.board.InBounds(row, col) {
			return false, ErrOutOfBounds
		}

		res := r.board.Reveal(row, col)
		switch {
		case res.NoOp():
			return false, nil
		case res.HitMine:
			r.finish(false)
		case r.board.Cleared():
			r.score = mines.Score(
				r.board.RevealedCount(),
				r.board.TotalCells(),
				r.duration-r.timeLeft,
			)
			r.finish(true)
		}
		return true, nil
	})
}

// ToggleFlag flags or unflags a cell, keeping the remaining mines counter
// in step. It does nothing once the round is over.
func (r *Round) ToggleFlag(row, col int) (Snapshot, error) {
	return r.mutate(func() (bool, error) {
		if r.gameOver {
			return false, nil
		}
		if !r.board.InBounds(row, col) {
			return false, ErrOutOfBounds
		}

		flagged, changed := r.board.ToggleFlag(row, col)
		if !changed {
			return false, nil
		}
		if flagged {
			r.remainingMines--
		} else {
			r.remainingMines++
		}
		return true, nil
	})
}

// Tick advances the clock by one second. Reaching zero loses the round.
func (r *Round) Tick() Snapshot {
	snap, _ := r.mutate(func() (bool, error) {
		if !r.started || r.gameOver {
			return false, nil
		}
		r.timeLeft--
		if r.timeLeft <= 0 {
			r.timeLeft = 0
			r.finish(false)
		}
		return true, nil
	})
	return snap
}

// Forfeit ends a live round as a loss.
func (r *Round) Forfeit() Snapshot {
	snap, _ := r.mutate(func() (bool, error) {
		if r.gameOver {
			return false, nil
		}
		r.finish(false)
		return true, nil
	})
	return snap
}

// Run drives the clock until the round is over, discarded, or ctx ends.
func (r *Round) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case <-ticker.C:
			r.Tick()
		}
	}
}

// Stop discards the round: the clock stops and subscribers are released.
// A live round is left as it is and never reports a finish.
func (r *Round) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closeDone()
	if r.discarded {
		return
	}
	r.discarded = true
	for id, ch := range r.subs {
		close(ch)
		delete(r.subs, id)
	}
}

// Subscribe returns a channel that receives the latest snapshot after
// every change. Slow readers only see the most recent state. The channel
// is closed by cancel or when the round is discarded.
func (r *Round) Subscribe() (<-chan Snapshot, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Snapshot, 1)
	if r.discarded {
		close(ch)
		return ch, func() {}
	}

	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	ch <- r.snapshot()

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if sub, ok := r.subs[id]; ok {
			close(sub)
			delete(r.subs, id)
		}
	}
	return ch, cancel
}

// mutate applies fn under the lock, then notifies subscribers and fires
// the finish hook if fn ended the round.
func (r *Round) mutate(fn func() (changed bool, err error)) (Snapshot, error) {
	r.mu.Lock()
	wasOver := r.gameOver
	changed, err := fn()
	snap := r.snapshot()
	if changed {
		r.publish(snap)
	}
	finished := !wasOver && r.gameOver
	r.mu.Unlock()

	if finished && r.onFinish != nil {
		r.onFinish(snap)
	}
	return snap, err
}

func (r *Round) finish(won bool) {
	r.gameOver = true
	r.won = won
	r.endedAt = time.Now().UTC()
	r.closeDone()
}

func (r *Round) closeDone() {
	r.doneOnce.Do(func() { close(r.done) })
}

func (r *Round) publish(snap Snapshot) {
	for _, ch := range r.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
