package app

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"

	"github.com/vancomm/minesweeper-arcade/internal/handlers"
	"github.com/vancomm/minesweeper-arcade/internal/middleware"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	auth := handlers.NewAuth(a.log, a.arcade, a.cookies, a.cfg.IsAdmin)
	player := handlers.NewPlayer(a.log, a.arcade)
	round := handlers.NewRound(a.log, a.arcade, a.ws)
	leaderboard := handlers.NewLeaderboard(a.log, a.arcade)

	a.router.HandleFunc("POST /v1/login", auth.Login)
	a.router.HandleFunc("POST /v1/logout", auth.Logout)
	a.router.HandleFunc("GET /v1/status", auth.Status)

	private := func(pattern string, h http.HandlerFunc) {
		a.router.Handle(pattern, middleware.RequirePlayer(h))
	}

	private("GET /v1/player", player.Get)
	private("POST /v1/player/credits", player.Purchase)
	private("GET /v1/player/rounds", player.History)

	private("POST /v1/round", round.Start)
	private("GET /v1/round/{id}", round.Get)
	private("POST /v1/round/{id}/reveal", round.Reveal)
	private("POST /v1/round/{id}/flag", round.Flag)
	private("POST /v1/round/{id}/forfeit", round.Forfeit)
	private("GET /v1/round/{id}/connect", round.Connect)

	a.router.HandleFunc("GET /v1/leaderboard", leaderboard.Top)
	a.router.Handle("DELETE /v1/leaderboard", middleware.Admin(a.cfg.IsAdmin)(
		http.HandlerFunc(leaderboard.Reset),
	))
	a.router.HandleFunc("GET /v1/presets", leaderboard.Presets)
}
