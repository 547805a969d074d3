// Package arcade runs rounds for logged in players and keeps their
// credits, stats and leaderboard entries in the store.
package arcade

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-arcade/internal/credits"
	"github.com/vancomm/minesweeper-arcade/internal/mines"
	"github.com/vancomm/minesweeper-arcade/internal/model"
	"github.com/vancomm/minesweeper-arcade/internal/repository"
	"github.com/vancomm/minesweeper-arcade/internal/round"
	"github.com/vancomm/minesweeper-arcade/internal/wallet"
)

var (
	ErrRoundNotFound = errors.New("round not found")
	ErrNotOwner      = errors.New("round belongs to another player")
	ErrUnknownPreset = errors.New("unknown preset")
)

type BoardFactory func(p mines.Preset, r *rand.Rand) (*mines.Board, error)

type Options struct {
	Duration      time.Duration
	DefaultPreset mines.Preset
	// Retention is how long a finished round stays in memory.
	Retention time.Duration
	Policy    credits.Policy
	Rand      *rand.Rand
	// NewBoard defaults to random generation.
	NewBoard BoardFactory
	// TickInterval defaults to one second.
	TickInterval time.Duration
	Now          func() time.Time
}

type Arcade struct {
	log    logrus.FieldLogger
	store  repository.Store
	policy credits.Policy
	opts   Options

	mu     sync.Mutex
	rnd    *rand.Rand
	rounds map[string]*round.Round
	live   map[string]string

	locks playerLocks

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(log logrus.FieldLogger, store repository.Store, opts Options) *Arcade {
	if opts.Duration <= 0 {
		opts.Duration = round.DefaultDuration
	}
	if opts.DefaultPreset.Name == "" {
		opts.DefaultPreset = mines.Classic
	}
	if opts.Retention <= 0 {
		opts.Retention = 10 * time.Minute
	}
	if opts.Policy == (credits.Policy{}) {
		opts.Policy = credits.DefaultPolicy()
	}
	if opts.NewBoard == nil {
		opts.NewBoard = func(p mines.Preset, r *rand.Rand) (*mines.Board, error) {
			return p.Generate(r)
		}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Arcade{
		log:    log,
		store:  store,
		policy: opts.Policy,
		opts:   opts,
		rnd:    rnd,
		rounds: make(map[string]*round.Round),
		live:   make(map[string]string),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (a *Arcade) now() time.Time {
	return a.opts.Now().UTC()
}

// lock serializes read-modify-write cycles on one player's record.
func (a *Arcade) lock(address string) func() {
	return a.locks.acquire(address)
}

// Login normalizes the wallet address and makes sure the player exists,
// with credits refreshed.
func (a *Arcade) Login(ctx context.Context, address string) (*model.Player, error) {
	address, err := wallet.Normalize(address)
	if err != nil {
		return nil, err
	}
	unlock := a.lock(address)
	defer unlock()
	return a.loadPlayer(ctx, address)
}

// loadPlayer fetches or creates the player and applies a due credit reset.
// Callers hold the player's lock.
func (a *Arcade) loadPlayer(ctx context.Context, address string) (*model.Player, error) {
	now := a.now()
	player, err := a.store.GetPlayer(ctx, address)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		a.log.WithField("address", address).Info("new player")
		return a.store.UpsertPlayer(ctx, a.policy.NewPlayer(address, now))
	}
	if err != nil {
		return nil, err
	}
	if a.policy.Refresh(player, now) {
		return a.store.UpsertPlayer(ctx, player)
	}
	return player, nil
}

type Account struct {
	Player    model.Player
	ResetIn   time.Duration
	LiveRound string
}

func (a *Arcade) Account(ctx context.Context, address string) (*Account, error) {
	unlock := a.lock(address)
	player, err := a.loadPlayer(ctx, address)
	unlock()
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	live := a.live[address]
	a.mu.Unlock()

	return &Account{
		Player:    *player,
		ResetIn:   a.policy.TimeUntilReset(player, a.now()),
		LiveRound: live,
	}, nil
}

// Purchase credits amount games. txHash, when given, can only be
// credited once.
func (a *Arcade) Purchase(
	ctx context.Context, address string, amount int, txHash *string,
) (*model.Player, error) {
	unlock := a.lock(address)
	defer unlock()

	player, err := a.loadPlayer(ctx, address)
	if err != nil {
		return nil, err
	}
	now := a.now()
	if err := a.policy.Add(player, amount, now); err != nil {
		return nil, err
	}
	updated, err := a.store.RecordPurchase(ctx, model.Purchase{
		Address: address,
		Amount:  amount,
		TxHash:  txHash,
		Date:    now,
	}, player)
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{
		"address":   address,
		"amount":    amount,
		"remaining": updated.RemainingGames,
	}).Info("games purchased")
	return updated, nil
}

// StartRound spends a credit and starts a round on the named preset (the
// default one when empty). A live round of the same player is discarded.
func (a *Arcade) StartRound(
	ctx context.Context, address, presetName string,
) (round.Snapshot, error) {
	preset := a.opts.DefaultPreset
	if presetName != "" {
		var ok bool
		if preset, ok = mines.LookupPreset(presetName); !ok {
			return round.Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownPreset, presetName)
		}
	}

	unlock := a.lock(address)
	defer unlock()

	player, err := a.loadPlayer(ctx, address)
	if err != nil {
		return round.Snapshot{}, err
	}
	if err := a.policy.Use(player, a.now()); err != nil {
		return round.Snapshot{}, err
	}

	a.mu.Lock()
	board, err := a.opts.NewBoard(preset, a.rnd)
	a.mu.Unlock()
	if err != nil {
		return round.Snapshot{}, fmt.Errorf("unable to generate board: %w", err)
	}

	if _, err := a.store.UpsertPlayer(ctx, player); err != nil {
		return round.Snapshot{}, err
	}

	r := round.FromBoard(round.Config{
		ID:       uuid.NewString(),
		Owner:    address,
		Preset:   preset,
		Duration: a.opts.Duration,
		Interval: a.opts.TickInterval,
		OnFinish: a.finish,
	}, board)

	a.mu.Lock()
	if prev, ok := a.rounds[a.live[address]]; ok {
		prev.Stop()
		delete(a.rounds, prev.ID())
		a.log.WithFields(logrus.Fields{
			"address": address,
			"round":   prev.ID(),
		}).Debug("live round discarded")
	}
	a.rounds[r.ID()] = r
	a.live[address] = r.ID()
	a.mu.Unlock()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		r.Run(a.ctx)
	}()

	a.log.WithFields(logrus.Fields{
		"address": address,
		"round":   r.ID(),
		"preset":  preset.Name,
	}).Info("round started")

	return r.Snapshot(), nil
}

func (a *Arcade) round(address, id string) (*round.Round, error) {
	a.mu.Lock()
	r, ok := a.rounds[id]
	a.mu.Unlock()
	if !ok {
		return nil, ErrRoundNotFound
	}
	if r.Owner() != address {
		return nil, ErrNotOwner
	}
	return r, nil
}

func (a *Arcade) Round(address, id string) (round.Snapshot, error) {
	r, err := a.round(address, id)
	if err != nil {
		return round.Snapshot{}, err
	}
	return r.Snapshot(), nil
}

func (a *Arcade) Reveal(address, id string, row, col int) (round.Snapshot, error) {
	r, err := a.round(address, id)
	if err != nil {
		return round.Snapshot{}, err
	}
	return r.Reveal(row, col)
}

func (a *Arcade) Flag(address, id string, row, col int) (round.Snapshot, error) {
	r, err := a.round(address, id)
	if err != nil {
		return round.Snapshot{}, err
	}
	return r.ToggleFlag(row, col)
}

func (a *Arcade) Forfeit(address, id string) (round.Snapshot, error) {
	r, err := a.round(address, id)
	if err != nil {
		return round.Snapshot{}, err
	}
	return r.Forfeit(), nil
}

// Subscribe streams the round's state; see [round.Round.Subscribe].
func (a *Arcade) Subscribe(address, id string) (<-chan round.Snapshot, func(), error) {
	r, err := a.round(address, id)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := r.Subscribe()
	return ch, cancel, nil
}

// finish persists the outcome of a round. It runs on whichever goroutine
// ended the round.
func (a *Arcade) finish(s round.Snapshot) {
	log := a.log.WithFields(logrus.Fields{
		"address": s.Owner,
		"round":   s.ID,
		"won":     s.Won,
		"score":   s.Score,
	})
	log.Info("round finished")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.mu.Lock()
	if a.live[s.Owner] == s.ID {
		delete(a.live, s.Owner)
	}
	a.mu.Unlock()

	if err := a.recordResult(ctx, s); err != nil {
		log.WithError(err).Error("unable to record round result")
	}

	endedAt := a.now()
	if s.EndedAt != nil {
		endedAt = *s.EndedAt
	}
	err := a.store.SaveRound(ctx, model.RoundRecord{
		RoundID:   s.ID,
		Address:   s.Owner,
		Preset:    s.Preset,
		Rows:      s.Rows,
		Cols:      s.Cols,
		MineCount: s.MineCount,
		Won:       s.Won,
		Score:     s.Score,
		Revealed:  s.Revealed,
		StartedAt: s.StartedAt,
		EndedAt:   endedAt,
		Board:     s.Board,
	})
	if err != nil {
		log.WithError(err).Error("unable to archive round")
	}
}

func (a *Arcade) recordResult(ctx context.Context, s round.Snapshot) error {
	unlock := a.lock(s.Owner)
	defer unlock()

	player, err := a.loadPlayer(ctx, s.Owner)
	if err != nil {
		return err
	}
	player.RecordResult(s.Won, s.Score)
	if _, err := a.store.UpsertPlayer(ctx, player); err != nil {
		return err
	}
	if !s.Won {
		return nil
	}

	date := a.now()
	if s.EndedAt != nil {
		date = *s.EndedAt
	}
	high, err := a.store.UpsertScoreIfHigher(ctx, model.ScoreRecord{
		Address: s.Owner,
		Score:   s.Score,
		Date:    date,
	})
	if err != nil {
		return err
	}
	if high {
		a.log.WithFields(logrus.Fields{
			"address": s.Owner,
			"score":   s.Score,
		}).Info("new high score")
	}
	return nil
}

func (a *Arcade) Leaderboard(ctx context.Context, limit int) ([]model.ScoreRecord, error) {
	return a.store.GetTopScores(ctx, repository.ClampLimit(limit))
}

func (a *Arcade) ResetLeaderboard(ctx context.Context) error {
	if err := a.store.ResetLeaderboard(ctx); err != nil {
		return err
	}
	a.log.Warn("leaderboard reset")
	return nil
}

func (a *Arcade) History(ctx context.Context, address string, limit int) ([]model.RoundRecord, error) {
	return a.store.ListRounds(ctx, address, limit)
}

// Sweep drops rounds that ended more than the retention period ago and
// returns how many were removed.
func (a *Arcade) Sweep() int {
	cutoff := a.now().Add(-a.opts.Retention)

	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for id, r := range a.rounds {
		ended := r.EndedAt()
		if ended.IsZero() || ended.After(cutoff) {
			continue
		}
		r.Stop()
		delete(a.rounds, id)
		n++
	}
	return n
}

// Run sweeps finished rounds until ctx is done, then stops every round.
func (a *Arcade) Run(ctx context.Context) error {
	ticker := time.NewTicker(max(a.opts.Retention/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.Close()
			return nil
		case <-ticker.C:
			if n := a.Sweep(); n > 0 {
				a.log.WithField("count", n).Debug("swept finished rounds")
			}
		}
	}
}

// Close stops all round clocks and waits for them to exit.
func (a *Arcade) Close() {
	a.cancel()
	a.mu.Lock()
	for _, r := range a.rounds {
		r.Stop()
	}
	a.mu.Unlock()
	a.wg.Wait()
}
