package credits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vancomm/minesweeper-arcade/internal/model"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestNewPlayer(t *testing.T) {
	p := DefaultPolicy().NewPlayer("0xabc", epoch)
	assert.Equal(t, "0xabc", p.Address)
	assert.Equal(t, 3, p.RemainingGames)
	assert.Equal(t, epoch, p.LastResetTime)
	assert.Equal(t, model.StartingXP, p.XP)
}

func TestUse(t *testing.T) {
	policy := DefaultPolicy()
	p := policy.NewPlayer("0xabc", epoch)

	for i := range 3 {
		require.NoError(t, policy.Use(p, epoch.Add(time.Duration(i)*time.Minute)))
	}
	assert.Equal(t, 0, p.RemainingGames)
	assert.Equal(t, 3, p.TotalGames)

	assert.ErrorIs(t, policy.Use(p, epoch.Add(time.Hour)), ErrNoCredits)
	assert.Equal(t, 3, p.TotalGames)

	require.NoError(t, policy.Use(p, epoch.Add(24*time.Hour)))
	assert.Equal(t, 2, p.RemainingGames)
	assert.Equal(t, epoch.Add(24*time.Hour), p.LastResetTime)
}

func TestRefresh(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name      string
		remaining int
		after     time.Duration
		want      int
		changed   bool
	}{
		{"within window", 0, 23 * time.Hour, 0, false},
		{"window passed", 0, 24 * time.Hour, 3, true},
		{"partial allowance", 1, 30 * time.Hour, 3, true},
		{"purchased surplus kept", 7, 48 * time.Hour, 7, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := &model.Player{RemainingGames: test.remaining, LastResetTime: epoch}
			changed := policy.Refresh(p, epoch.Add(test.after))
			assert.Equal(t, test.changed, changed)
			assert.Equal(t, test.want, p.RemainingGames)
		})
	}
}

func TestAdd(t *testing.T) {
	policy := DefaultPolicy()
	p := policy.NewPlayer("0xabc", epoch)

	assert.ErrorIs(t, policy.Add(p, 0, epoch), ErrInvalidAmount)
	assert.ErrorIs(t, policy.Add(p, -5, epoch), ErrInvalidAmount)

	require.NoError(t, policy.Add(p, 7, epoch))
	assert.Equal(t, 10, p.RemainingGames)
	assert.Equal(t, 7, p.PurchasedGames)

	assert.ErrorIs(t, policy.Add(p, 1, epoch), ErrCreditCap)
	assert.Equal(t, 10, p.RemainingGames)
}

func TestTimeUntilReset(t *testing.T) {
	policy := DefaultPolicy()
	p := policy.NewPlayer("0xabc", epoch)

	assert.Equal(t, 24*time.Hour, policy.TimeUntilReset(p, epoch))
	assert.Equal(t, time.Hour, policy.TimeUntilReset(p, epoch.Add(23*time.Hour)))
	assert.Zero(t, policy.TimeUntilReset(p, epoch.Add(25*time.Hour)))
}

func TestRecordResult(t *testing.T) {
	p := DefaultPolicy().NewPlayer("0xabc", epoch)

	p.RecordResult(false, 0)
	p.RecordResult(true, 80)

	assert.Equal(t, 2, p.GamesPlayed)
	assert.Equal(t, 1, p.GamesWon)
	assert.Equal(t, 180, p.XP)
}

func TestPropertyCreditsStayInRange(t *testing.T) {
	policy := DefaultPolicy()

	rapid.Check(t, func(t *rapid.T) {
		p := policy.NewPlayer("0xabc", epoch)
		now := epoch

		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		for range steps {
			now = now.Add(time.Duration(rapid.IntRange(0, 30).Draw(t, "hours")) * time.Hour)
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				_ = policy.Use(p, now)
			case 1:
				_ = policy.Add(p, rapid.IntRange(-1, 12).Draw(t, "amount"), now)
			default:
				policy.Refresh(p, now)
			}
			if p.RemainingGames < 0 || p.RemainingGames > policy.Cap {
				t.Fatalf("remaining games %d out of [0, %d]", p.RemainingGames, policy.Cap)
			}
		}
	})
}
