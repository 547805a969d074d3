package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-arcade/internal/arcade"
	"github.com/vancomm/minesweeper-arcade/internal/mines"
)

type Leaderboard struct {
	log    logrus.FieldLogger
	arcade *arcade.Arcade
}

func NewLeaderboard(log logrus.FieldLogger, a *arcade.Arcade) *Leaderboard {
	return &Leaderboard{log: log, arcade: a}
}

func (h Leaderboard) Top(w http.ResponseWriter, r *http.Request) {
	var dto LimitDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}
	scores, err := h.arcade.Leaderboard(r.Context(), dto.Limit)
	if err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}
	SendJSONOrLog(w, h.log, http.StatusOK, scores)
}

// Reset is mounted behind the admin middleware.
func (h Leaderboard) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.arcade.ResetLeaderboard(r.Context()); err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h Leaderboard) Presets(w http.ResponseWriter, r *http.Request) {
	SendJSONOrLog(w, h.log, http.StatusOK, mines.Presets())
}
