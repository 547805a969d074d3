package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/vancomm/minesweeper-arcade/internal/model"
)

// Memory is an in-process [Store] for development and tests. State is lost
// on restart.
type Memory struct {
	mu        sync.RWMutex
	players   map[string]model.Player
	scores    map[string]model.ScoreRecord
	purchases map[string]model.Purchase
	rounds    []model.RoundRecord
	now       func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		players:   make(map[string]model.Player),
		scores:    make(map[string]model.ScoreRecord),
		purchases: make(map[string]model.Purchase),
		now:       time.Now,
	}
}

var _ Store = (*Memory)(nil)

func (m *Memory) GetPlayer(_ context.Context, address string) (*model.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.players[address]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return &p, nil
}

func (m *Memory) UpsertPlayer(_ context.Context, player *model.Player) (*model.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.upsertPlayer(player), nil
}

func (m *Memory) upsertPlayer(player *model.Player) *model.Player {
	p := *player
	now := m.now()
	if existing, ok := m.players[p.Address]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	m.players[p.Address] = p
	return &p
}

func (m *Memory) GetTopScores(_ context.Context, limit int) ([]model.ScoreRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.ScoreRecord, 0, len(m.scores))
	for _, s := range m.scores {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b model.ScoreRecord) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Address, b.Address)
	})
	return out[:min(len(out), ClampLimit(limit))], nil
}

func (m *Memory) UpsertScoreIfHigher(_ context.Context, rec model.ScoreRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.scores[rec.Address]; ok && existing.Score >= rec.Score {
		return false, nil
	}
	m.scores[rec.Address] = rec
	return true, nil
}

func (m *Memory) ResetLeaderboard(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.scores)
	return nil
}

func (m *Memory) RecordPurchase(
	_ context.Context, purchase model.Purchase, player *model.Player,
) (*model.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if purchase.TxHash != nil {
		if _, ok := m.purchases[*purchase.TxHash]; ok {
			return nil, ErrDuplicatePurchase
		}
		m.purchases[*purchase.TxHash] = purchase
	}
	return m.upsertPlayer(player), nil
}

func (m *Memory) SaveRound(_ context.Context, rec model.RoundRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if slices.ContainsFunc(m.rounds, func(r model.RoundRecord) bool {
		return r.RoundID == rec.RoundID
	}) {
		return nil
	}
	m.rounds = append(m.rounds, rec)
	return nil
}

func (m *Memory) ListRounds(
	_ context.Context, address string, limit int,
) ([]model.RoundRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.RoundRecord, 0)
	for _, r := range m.rounds {
		if r.Address == address {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b model.RoundRecord) int {
		return b.EndedAt.Compare(a.EndedAt)
	})
	return out[:min(len(out), ClampLimit(limit))], nil
}
