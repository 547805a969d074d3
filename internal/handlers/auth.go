package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-arcade/internal/arcade"
	"github.com/vancomm/minesweeper-arcade/internal/config"
	"github.com/vancomm/minesweeper-arcade/internal/middleware"
)

type Auth struct {
	log     logrus.FieldLogger
	arcade  *arcade.Arcade
	cookies *config.Cookies
	isAdmin func(address string) bool
}

func NewAuth(
	log logrus.FieldLogger,
	a *arcade.Arcade,
	cookies *config.Cookies,
	isAdmin func(address string) bool,
) *Auth {
	return &Auth{
		log:     log,
		arcade:  a,
		cookies: cookies,
		isAdmin: isAdmin,
	}
}

// Login trusts the submitted wallet address; proving ownership of the
// wallet is left to the client.
func (h Auth) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		SendErrorOrLog(w, h.log, errBadRequest)
		return
	}
	var dto LoginDTO
	if err := decoder.Decode(&dto, r.PostForm); err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}

	player, err := h.arcade.Login(r.Context(), dto.Address)
	if err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}
	if err := h.cookies.Issue(w, player.Address); err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}

	h.log.WithField("address", player.Address).Debug("player logged in")
	SendJSONOrLog(w, h.log, http.StatusOK, StatusDTO{
		LoggedIn: true,
		Address:  player.Address,
		Admin:    h.isAdmin(player.Address),
	})
}

func (h Auth) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// Status reports the session and extends it when logged in.
func (h Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		SendJSONOrLog(w, h.log, http.StatusOK, StatusDTO{LoggedIn: false})
		return
	}
	if err := h.cookies.Issue(w, claims.Address); err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}
	SendJSONOrLog(w, h.log, http.StatusOK, StatusDTO{
		LoggedIn: true,
		Address:  claims.Address,
		Admin:    h.isAdmin(claims.Address),
	})
}
