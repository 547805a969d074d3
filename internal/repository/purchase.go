package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/minesweeper-arcade/internal/model"
)

func (q *Queries) RecordPurchase(
	ctx context.Context, purchase model.Purchase, player *model.Player,
) (*model.Player, error) {
	var updated *model.Player
	err := pgx.BeginFunc(ctx, q.db, func(tx pgx.Tx) error {
		txq := q.WithTx(tx)

		_, err := tx.Exec(
			ctx,
			`INSERT INTO purchase (address, amount, tx_hash, date)
			VALUES (@address, @amount, @tx_hash, @date)`,
			pgx.NamedArgs{
				"address": purchase.Address,
				"amount":  purchase.Amount,
				"tx_hash": purchase.TxHash,
				"date":    purchase.Date,
			},
		)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicatePurchase
		}
		if err != nil {
			return fmt.Errorf("failed to insert purchase: %w", err)
		}

		updated, err = txq.UpsertPlayer(ctx, player)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
