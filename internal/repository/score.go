package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-arcade/internal/model"
)

func (q *Queries) GetTopScores(ctx context.Context, limit int) ([]model.ScoreRecord, error) {
	rows, err := q.db.Query(
		ctx,
		`SELECT address, score, date
		FROM score
		ORDER BY score DESC, date ASC
		LIMIT @limit`,
		pgx.NamedArgs{"limit": ClampLimit(limit)},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get top scores: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.ScoreRecord])
}

func (q *Queries) UpsertScoreIfHigher(ctx context.Context, rec model.ScoreRecord) (bool, error) {
	var address string
	err := q.db.QueryRow(
		ctx,
		`INSERT INTO score (address, score, date)
		VALUES (@address, @score, @date)
		ON CONFLICT (address) DO UPDATE SET
			score = excluded.score,
			date = excluded.date
		WHERE score.score < excluded.score
		RETURNING address`,
		pgx.NamedArgs{
			"address": rec.Address,
			"score":   rec.Score,
			"date":    rec.Date,
		},
	).Scan(&address)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to upsert score: %w", err)
	}
	return true, nil
}

func (q *Queries) ResetLeaderboard(ctx context.Context) error {
	if _, err := q.db.Exec(ctx, "DELETE FROM score"); err != nil {
		return fmt.Errorf("failed to reset leaderboard: %w", err)
	}
	return nil
}
