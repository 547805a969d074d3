package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-arcade/internal/model"
)

const playerColumns = `address, remaining_games, last_reset_time, total_games,
	purchased_games, xp, games_played, games_won, created_at, updated_at`

func (q *Queries) GetPlayer(ctx context.Context, address string) (*model.Player, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT "+playerColumns+" FROM player WHERE address = $1",
		address,
	)
	player, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Player])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

func (q *Queries) UpsertPlayer(ctx context.Context, p *model.Player) (*model.Player, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO player (
			address, remaining_games, last_reset_time, total_games,
			purchased_games, xp, games_played, games_won
		)
		VALUES (
			@address, @remaining_games, @last_reset_time, @total_games,
			@purchased_games, @xp, @games_played, @games_won
		)
		ON CONFLICT (address) DO UPDATE SET
			remaining_games = excluded.remaining_games,
			last_reset_time = excluded.last_reset_time,
			total_games = excluded.total_games,
			purchased_games = excluded.purchased_games,
			xp = excluded.xp,
			games_played = excluded.games_played,
			games_won = excluded.games_won,
			updated_at = now()
		RETURNING `+playerColumns,
		pgx.NamedArgs{
			"address":         p.Address,
			"remaining_games": p.RemainingGames,
			"last_reset_time": p.LastResetTime,
			"total_games":     p.TotalGames,
			"purchased_games": p.PurchasedGames,
			"xp":              p.XP,
			"games_played":    p.GamesPlayed,
			"games_won":       p.GamesWon,
		},
	)
	player, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Player])
	if err != nil {
		return nil, fmt.Errorf("failed to upsert player: %w", err)
	}
	return player, nil
}
