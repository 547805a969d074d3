package model

import "time"

const StartingXP = 100

type Player struct {
	Address        string    `json:"address" db:"address"`
	RemainingGames int       `json:"remaining_games" db:"remaining_games"`
	LastResetTime  time.Time `json:"last_reset_time" db:"last_reset_time"`
	TotalGames     int       `json:"total_games" db:"total_games"`
	PurchasedGames int       `json:"purchased_games" db:"purchased_games"`
	XP             int       `json:"xp" db:"xp"`
	GamesPlayed    int       `json:"games_played" db:"games_played"`
	GamesWon       int       `json:"games_won" db:"games_won"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// RecordResult applies a finished round to the player's stats.
func (p *Player) RecordResult(won bool, score int) {
	p.GamesPlayed++
	if won {
		p.GamesWon++
		p.XP += score
	}
}

type ScoreRecord struct {
	Address string    `json:"address" db:"address"`
	Score   int       `json:"score" db:"score"`
	Date    time.Time `json:"date" db:"date"`
}

type Purchase struct {
	Address string    `json:"address" db:"address"`
	Amount  int       `json:"amount" db:"amount"`
	TxHash  *string   `json:"tx_hash,omitempty" db:"tx_hash"`
	Date    time.Time `json:"date" db:"date"`
}

// RoundRecord is the archived result of a finished round.
type RoundRecord struct {
	RoundID   string    `json:"round_id" db:"round_id"`
	Address   string    `json:"address" db:"address"`
	Preset    string    `json:"preset" db:"preset"`
	Rows      int       `json:"rows" db:"board_rows"`
	Cols      int       `json:"cols" db:"board_cols"`
	MineCount int       `json:"mine_count" db:"mine_count"`
	Won       bool      `json:"won" db:"won"`
	Score     int       `json:"score" db:"score"`
	Revealed  int       `json:"revealed" db:"revealed"`
	StartedAt time.Time `json:"started_at" db:"started_at"`
	EndedAt   time.Time `json:"ended_at" db:"ended_at"`
	Board     []byte    `json:"-" db:"board"`
}
