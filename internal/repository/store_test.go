package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-arcade/internal/model"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newPlayer(address string) *model.Player {
	return &model.Player{
		Address:        address,
		RemainingGames: 3,
		LastResetTime:  epoch,
		XP:             model.StartingXP,
	}
}

func seedPlayers(t *testing.T, store Store, addresses ...string) {
	t.Helper()
	for _, a := range addresses {
		_, err := store.UpsertPlayer(context.Background(), newPlayer(a))
		require.NoError(t, err)
	}
}

// testStore runs the behaviour every Store implementation must share.
func testStore(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("players", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.GetPlayer(ctx, "0xnobody")
		assert.ErrorIs(t, err, ErrPlayerNotFound)

		created, err := store.UpsertPlayer(ctx, newPlayer("0xa"))
		require.NoError(t, err)
		assert.Equal(t, 3, created.RemainingGames)
		assert.False(t, created.CreatedAt.IsZero())

		update := *created
		update.RemainingGames = 1
		update.TotalGames = 2
		update.GamesPlayed = 2
		update.GamesWon = 1
		update.XP = 180
		_, err = store.UpsertPlayer(ctx, &update)
		require.NoError(t, err)

		got, err := store.GetPlayer(ctx, "0xa")
		require.NoError(t, err)
		assert.Equal(t, 1, got.RemainingGames)
		assert.Equal(t, 2, got.TotalGames)
		assert.Equal(t, 1, got.GamesWon)
		assert.Equal(t, 180, got.XP)
		assert.True(t, epoch.Equal(got.LastResetTime))
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("leaderboard", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		seedPlayers(t, store, "0xa", "0xb", "0xc")

		upsert := func(address string, score int, at time.Duration) bool {
			t.Helper()
			ok, err := store.UpsertScoreIfHigher(ctx, model.ScoreRecord{
				Address: address, Score: score, Date: epoch.Add(at),
			})
			require.NoError(t, err)
			return ok
		}

		assert.True(t, upsert("0xa", 80, 0))
		assert.False(t, upsert("0xa", 50, time.Minute), "lower score kept out")
		assert.False(t, upsert("0xa", 80, time.Minute), "equal score kept out")
		assert.True(t, upsert("0xa", 120, 2*time.Minute))
		assert.True(t, upsert("0xb", 150, 3*time.Minute))
		assert.True(t, upsert("0xc", 120, time.Minute))

		top, err := store.GetTopScores(ctx, 0)
		require.NoError(t, err)
		require.Len(t, top, 3)
		assert.Equal(t, "0xb", top[0].Address)
		assert.Equal(t, "0xc", top[1].Address, "earlier date ranks first on ties")
		assert.Equal(t, "0xa", top[2].Address)
		assert.Equal(t, 120, top[2].Score)
		assert.True(t, epoch.Add(2*time.Minute).Equal(top[2].Date))

		top, err = store.GetTopScores(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, top, 2)

		require.NoError(t, store.ResetLeaderboard(ctx))
		top, err = store.GetTopScores(ctx, 20)
		require.NoError(t, err)
		assert.Empty(t, top)

		assert.True(t, upsert("0xa", 10, 0), "reset clears previous highs")
	})

	t.Run("purchases", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		seedPlayers(t, store, "0xa")

		player, err := store.GetPlayer(ctx, "0xa")
		require.NoError(t, err)
		player.RemainingGames += 5
		player.PurchasedGames += 5

		hash := "0xfeed"
		updated, err := store.RecordPurchase(ctx, model.Purchase{
			Address: "0xa", Amount: 5, TxHash: &hash, Date: epoch,
		}, player)
		require.NoError(t, err)
		assert.Equal(t, 8, updated.RemainingGames)

		player.RemainingGames += 5
		_, err = store.RecordPurchase(ctx, model.Purchase{
			Address: "0xa", Amount: 5, TxHash: &hash, Date: epoch,
		}, player)
		assert.ErrorIs(t, err, ErrDuplicatePurchase)

		got, err := store.GetPlayer(ctx, "0xa")
		require.NoError(t, err)
		assert.Equal(t, 8, got.RemainingGames, "replayed purchase is not credited")

		_, err = store.RecordPurchase(ctx, model.Purchase{
			Address: "0xa", Amount: 1, Date: epoch,
		}, player)
		assert.NoError(t, err, "purchases without a hash are not deduplicated")
	})

	t.Run("rounds", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		seedPlayers(t, store, "0xa", "0xb")

		first := model.RoundRecord{
			RoundID: uuid.NewString(), Address: "0xa", Preset: "classic",
			Rows: 10, Cols: 10, MineCount: 20, Won: true, Score: 80, Revealed: 80,
			StartedAt: epoch, EndedAt: epoch.Add(time.Minute), Board: []byte{1, 2, 3},
		}
		second := first
		second.RoundID = uuid.NewString()
		second.Won = false
		second.Score = 0
		second.EndedAt = epoch.Add(time.Hour)

		require.NoError(t, store.SaveRound(ctx, first))
		require.NoError(t, store.SaveRound(ctx, second))
		require.NoError(t, store.SaveRound(ctx, first), "saving twice is a no-op")

		rounds, err := store.ListRounds(ctx, "0xa", 10)
		require.NoError(t, err)
		require.Len(t, rounds, 2)
		assert.Equal(t, second.RoundID, rounds[0].RoundID)
		assert.Equal(t, first.RoundID, rounds[1].RoundID)
		assert.Equal(t, []byte{1, 2, 3}, rounds[1].Board)
		assert.Equal(t, 80, rounds[1].Score)

		rounds, err = store.ListRounds(ctx, "0xb", 10)
		require.NoError(t, err)
		assert.Empty(t, rounds)
	})
}

func TestMemory(t *testing.T) {
	testStore(t, func(t *testing.T) Store { return NewMemory() })
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLeaderboardLimit, ClampLimit(0))
	assert.Equal(t, DefaultLeaderboardLimit, ClampLimit(-3))
	assert.Equal(t, 5, ClampLimit(5))
	assert.Equal(t, MaxLeaderboardLimit, ClampLimit(1000))
}
