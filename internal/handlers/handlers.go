package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-arcade/internal/arcade"
	"github.com/vancomm/minesweeper-arcade/internal/credits"
	"github.com/vancomm/minesweeper-arcade/internal/middleware"
	"github.com/vancomm/minesweeper-arcade/internal/repository"
	"github.com/vancomm/minesweeper-arcade/internal/round"
	"github.com/vancomm/minesweeper-arcade/internal/wallet"
)

// SendJSONOrLog writes v with status, logging encoding failures.
func SendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).WithField("response", v).Error("unable to encode response")
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		log.WithError(err).Debug("unable to send response")
	}
}

// SendErrorOrLog maps err to a status code. Internal errors are logged
// and replaced with a generic message.
func SendErrorOrLog(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		SendJSONOrLog(w, log, status, wrapError(errors.New("internal server error")))
		return
	}
	SendJSONOrLog(w, log, status, wrapError(err))
}

var errBadRequest = errors.New("bad request")

// playerAddress returns the address of the player middleware.RequirePlayer
// let through.
func playerAddress(r *http.Request) string {
	claims, _ := middleware.PlayerClaims(r.Context())
	return claims.Address
}

func statusOf(err error) int {
	var multi schema.MultiError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, round.ErrOutOfBounds),
		errors.Is(err, arcade.ErrUnknownPreset),
		errors.Is(err, wallet.ErrInvalidAddress),
		errors.Is(err, credits.ErrInvalidAmount),
		errors.As(err, &multi):
		return http.StatusBadRequest
	case errors.Is(err, credits.ErrNoCredits):
		return http.StatusPaymentRequired
	case errors.Is(err, arcade.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, arcade.ErrRoundNotFound),
		errors.Is(err, repository.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicatePurchase),
		errors.Is(err, credits.ErrCreditCap):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}
