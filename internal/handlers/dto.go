package handlers

import (
	"time"

	"github.com/vancomm/minesweeper-arcade/internal/arcade"
	"github.com/vancomm/minesweeper-arcade/internal/mines"
	"github.com/vancomm/minesweeper-arcade/internal/round"
)

type CellDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

type StartRoundDTO struct {
	Preset string `schema:"preset"`
}

type PurchaseDTO struct {
	Amount int    `schema:"amount,required"`
	TxHash string `schema:"tx_hash"`
}

type LoginDTO struct {
	Address string `schema:"address,required"`
}

type LimitDTO struct {
	Limit int `schema:"limit"`
}

type RoundDTO struct {
	RoundID        string     `json:"round_id"`
	Preset         string     `json:"preset"`
	Rows           int        `json:"rows"`
	Cols           int        `json:"cols"`
	MineCount      int        `json:"mine_count"`
	Grid           mines.Grid `json:"grid"`
	Started        bool       `json:"started"`
	GameOver       bool       `json:"game_over"`
	Won            bool       `json:"won"`
	RemainingMines int        `json:"remaining_mines"`
	TimeLeft       int        `json:"time_left"`
	Duration       int        `json:"duration"`
	Revealed       int        `json:"revealed"`
	Score          int        `json:"score"`
	StartedAt      int64      `json:"started_at"`
	EndedAt        *int64     `json:"ended_at,omitempty"`
}

func NewRoundDTO(s round.Snapshot) *RoundDTO {
	var endedAt *int64
	if s.EndedAt != nil {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	return &RoundDTO{
		RoundID:        s.ID,
		Preset:         s.Preset,
		Rows:           s.Rows,
		Cols:           s.Cols,
		MineCount:      s.MineCount,
		Grid:           s.Grid,
		Started:        s.Started,
		GameOver:       s.GameOver,
		Won:            s.Won,
		RemainingMines: s.RemainingMines,
		TimeLeft:       s.TimeLeft,
		Duration:       s.Duration,
		Revealed:       s.Revealed,
		Score:          s.Score,
		StartedAt:      s.StartedAt.UnixMilli(),
		EndedAt:        endedAt,
	}
}

type PlayerDTO struct {
	Address        string    `json:"address"`
	RemainingGames int       `json:"remaining_games"`
	TotalGames     int       `json:"total_games"`
	PurchasedGames int       `json:"purchased_games"`
	XP             int       `json:"xp"`
	GamesPlayed    int       `json:"games_played"`
	GamesWon       int       `json:"games_won"`
	LastResetTime  time.Time `json:"last_reset_time"`
	ResetIn        int64     `json:"reset_in_seconds"`
	LiveRound      string    `json:"live_round,omitempty"`
}

func NewPlayerDTO(a *arcade.Account) *PlayerDTO {
	p := a.Player
	return &PlayerDTO{
		Address:        p.Address,
		RemainingGames: p.RemainingGames,
		TotalGames:     p.TotalGames,
		PurchasedGames: p.PurchasedGames,
		XP:             p.XP,
		GamesPlayed:    p.GamesPlayed,
		GamesWon:       p.GamesWon,
		LastResetTime:  p.LastResetTime,
		ResetIn:        int64(a.ResetIn / time.Second),
		LiveRound:      a.LiveRound,
	}
}

type StatusDTO struct {
	LoggedIn bool   `json:"logged_in"`
	Address  string `json:"address,omitempty"`
	Admin    bool   `json:"admin,omitempty"`
}
