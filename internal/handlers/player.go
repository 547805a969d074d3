package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-arcade/internal/arcade"
)

type Player struct {
	log    logrus.FieldLogger
	arcade *arcade.Arcade
}

func NewPlayer(log logrus.FieldLogger, a *arcade.Arcade) *Player {
	return &Player{log: log, arcade: a}
}

func (h Player) Get(w http.ResponseWriter, r *http.Request) {
	address := playerAddress(r)
	account, err := h.arcade.Account(r.Context(), address)
	if err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}
	SendJSONOrLog(w, h.log, http.StatusOK, NewPlayerDTO(account))
}

func (h Player) Purchase(w http.ResponseWriter, r *http.Request) {
	address := playerAddress(r)
	if err := r.ParseForm(); err != nil {
		SendErrorOrLog(w, h.log, errBadRequest)
		return
	}
	var dto PurchaseDTO
	if err := decoder.Decode(&dto, r.PostForm); err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}

	var txHash *string
	if dto.TxHash != "" {
		txHash = &dto.TxHash
	}
	if _, err := h.arcade.Purchase(r.Context(), address, dto.Amount, txHash); err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}

	account, err := h.arcade.Account(r.Context(), address)
	if err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}
	SendJSONOrLog(w, h.log, http.StatusOK, NewPlayerDTO(account))
}

func (h Player) History(w http.ResponseWriter, r *http.Request) {
	address := playerAddress(r)
	var dto LimitDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}
	rounds, err := h.arcade.History(r.Context(), address, dto.Limit)
	if err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}
	SendJSONOrLog(w, h.log, http.StatusOK, rounds)
}
