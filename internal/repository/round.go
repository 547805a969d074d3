package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-arcade/internal/model"
)

func (q *Queries) SaveRound(ctx context.Context, rec model.RoundRecord) error {
	_, err := q.db.Exec(
		ctx,
		`INSERT INTO round (
			round_id, address, preset, board_rows, board_cols, mine_count,
			won, score, revealed, started_at, ended_at, board
		)
		VALUES (
			@round_id, @address, @preset, @board_rows, @board_cols, @mine_count,
			@won, @score, @revealed, @started_at, @ended_at, @board
		)
		ON CONFLICT (round_id) DO NOTHING`,
		pgx.NamedArgs{
			"round_id":   rec.RoundID,
			"address":    rec.Address,
			"preset":     rec.Preset,
			"board_rows": rec.Rows,
			"board_cols": rec.Cols,
			"mine_count": rec.MineCount,
			"won":        rec.Won,
			"score":      rec.Score,
			"revealed":   rec.Revealed,
			"started_at": rec.StartedAt,
			"ended_at":   rec.EndedAt,
			"board":      rec.Board,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to save round: %w", err)
	}
	return nil
}

func (q *Queries) ListRounds(
	ctx context.Context, address string, limit int,
) ([]model.RoundRecord, error) {
	rows, err := q.db.Query(
		ctx,
		`SELECT round_id::text AS round_id, address, preset, board_rows, board_cols,
			mine_count, won, score, revealed, started_at, ended_at, board
		FROM round
		WHERE address = @address
		ORDER BY ended_at DESC
		LIMIT @limit`,
		pgx.NamedArgs{"address": address, "limit": ClampLimit(limit)},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.RoundRecord])
}
