// Package credits implements the daily play allowance of a player.
package credits

import (
	"errors"
	"fmt"
	"time"

	"github.com/vancomm/minesweeper-arcade/internal/model"
)

var (
	ErrNoCredits     = errors.New("no games left, wait for the daily reset or buy more")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrCreditCap     = errors.New("credit limit reached")
)

const (
	DefaultAllowance = 3
	DefaultCap       = 10
	DefaultWindow    = 24 * time.Hour
)

type Policy struct {
	// Allowance is the number of games granted at every reset.
	Allowance int
	// Cap bounds the credits a player may hold after a purchase.
	Cap    int
	Window time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		Allowance: DefaultAllowance,
		Cap:       DefaultCap,
		Window:    DefaultWindow,
	}
}

// NewPlayer returns a player record as it is created on first login.
func (p Policy) NewPlayer(address string, now time.Time) *model.Player {
	return &model.Player{
		Address:        address,
		RemainingGames: p.Allowance,
		LastResetTime:  now,
		XP:             model.StartingXP,
	}
}

// Refresh tops the player back up to the allowance once the reset window
// has passed. Purchased credits above the allowance are kept. Reports
// whether the record changed.
func (p Policy) Refresh(player *model.Player, now time.Time) bool {
	if now.Sub(player.LastResetTime) < p.Window {
		return false
	}
	player.RemainingGames = max(player.RemainingGames, p.Allowance)
	player.LastResetTime = now
	return true
}

// Use spends one credit on a new round.
func (p Policy) Use(player *model.Player, now time.Time) error {
	p.Refresh(player, now)
	if player.RemainingGames <= 0 {
		return ErrNoCredits
	}
	player.RemainingGames--
	player.TotalGames++
	return nil
}

// Add credits purchased games.
func (p Policy) Add(player *model.Player, amount int, now time.Time) error {
	if amount < 1 {
		return ErrInvalidAmount
	}
	p.Refresh(player, now)
	if player.RemainingGames+amount > p.Cap {
		return fmt.Errorf(
			"%w: holding %d, cap is %d", ErrCreditCap, player.RemainingGames, p.Cap,
		)
	}
	player.RemainingGames += amount
	player.PurchasedGames += amount
	return nil
}

func (p Policy) TimeUntilReset(player *model.Player, now time.Time) time.Duration {
	return max(0, player.LastResetTime.Add(p.Window).Sub(now))
}
