// Package repository persists players, the leaderboard, purchases and
// finished rounds.
package repository

import (
	"context"
	"errors"

	"github.com/vancomm/minesweeper-arcade/internal/model"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrDuplicatePurchase = errors.New("transaction already credited")
)

const (
	DefaultLeaderboardLimit = 20
	MaxLeaderboardLimit     = 100
)

type Store interface {
	// GetPlayer returns ErrPlayerNotFound for unknown addresses.
	GetPlayer(ctx context.Context, address string) (*model.Player, error)
	UpsertPlayer(ctx context.Context, player *model.Player) (*model.Player, error)

	// GetTopScores lists the best score of each player, highest first and
	// earliest first among equal scores.
	GetTopScores(ctx context.Context, limit int) ([]model.ScoreRecord, error)
	// UpsertScoreIfHigher keeps one record per address and reports whether
	// rec replaced (or created) it.
	UpsertScoreIfHigher(ctx context.Context, rec model.ScoreRecord) (bool, error)
	ResetLeaderboard(ctx context.Context) error

	// RecordPurchase stores the purchase and the credited player together.
	// A transaction hash is credited once; replays give ErrDuplicatePurchase.
	RecordPurchase(
		ctx context.Context, purchase model.Purchase, player *model.Player,
	) (*model.Player, error)

	SaveRound(ctx context.Context, rec model.RoundRecord) error
	ListRounds(ctx context.Context, address string, limit int) ([]model.RoundRecord, error)
}

// ClampLimit maps a requested leaderboard size into [1, MaxLeaderboardLimit],
// using the default for non-positive values.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	return min(limit, MaxLeaderboardLimit)
}
