package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-arcade/internal/arcade"
	"github.com/vancomm/minesweeper-arcade/internal/config"
	"github.com/vancomm/minesweeper-arcade/internal/round"
)

type Round struct {
	log    logrus.FieldLogger
	arcade *arcade.Arcade
	ws     *config.WebSocket
}

func NewRound(log logrus.FieldLogger, a *arcade.Arcade, ws *config.WebSocket) *Round {
	return &Round{log: log, arcade: a, ws: ws}
}

func (h Round) Start(w http.ResponseWriter, r *http.Request) {
	address := playerAddress(r)
	var dto StartRoundDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}
	snap, err := h.arcade.StartRound(r.Context(), address, dto.Preset)
	if err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}
	SendJSONOrLog(w, h.log, http.StatusCreated, NewRoundDTO(snap))
}

func (h Round) Get(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(address, id string) (round.Snapshot, error) {
		return h.arcade.Round(address, id)
	})
}

func (h Round) Reveal(w http.ResponseWriter, r *http.Request) {
	h.actOnCell(w, r, h.arcade.Reveal)
}

func (h Round) Flag(w http.ResponseWriter, r *http.Request) {
	h.actOnCell(w, r, h.arcade.Flag)
}

func (h Round) Forfeit(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.arcade.Forfeit)
}

func (h Round) actOnCell(
	w http.ResponseWriter,
	r *http.Request,
	fn func(address, id string, row, col int) (round.Snapshot, error),
) {
	var cell CellDTO
	if err := decoder.Decode(&cell, r.URL.Query()); err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}
	h.act(w, r, func(address, id string) (round.Snapshot, error) {
		return fn(address, id, cell.Row, cell.Col)
	})
}

func (h Round) act(
	w http.ResponseWriter,
	r *http.Request,
	fn func(address, id string) (round.Snapshot, error),
) {
	snap, err := fn(playerAddress(r), r.PathValue("id"))
	if err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}
	SendJSONOrLog(w, h.log, http.StatusOK, NewRoundDTO(snap))
}
