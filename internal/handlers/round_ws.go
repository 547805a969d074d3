package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-arcade/internal/arcade"
	"github.com/vancomm/minesweeper-arcade/internal/round"
)

var commandNargs = map[string]int{
	"g": 0,
	"o": 2,
	"f": 2,
	"r": 0,
}

type command struct {
	name     string
	row, col int
}

func parseCommand(s string) (command, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return command{}, errors.New("empty command")
	}

	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q", parts[0])
	}
	if nargs != len(parts)-1 {
		return command{}, fmt.Errorf("%s takes %d arguments", parts[0], nargs)
	}

	c := command{name: parts[0]}
	if nargs == 0 {
		return c, nil
	}
	var err error
	if c.row, err = strconv.Atoi(parts[1]); err != nil {
		return command{}, errors.New("row must be an int")
	}
	if c.col, err = strconv.Atoi(parts[2]); err != nil {
		return command{}, errors.New("col must be an int")
	}
	return c, nil
}

func (h Round) apply(address, id string, c command) (round.Snapshot, error) {
	switch c.name {
	case "o":
		return h.arcade.Reveal(address, id, c.row, c.col)
	case "f":
		return h.arcade.Flag(address, id, c.row, c.col)
	case "r":
		return h.arcade.Forfeit(address, id)
	default:
		return h.arcade.Round(address, id)
	}
}

// Connect streams the round over a WebSocket. Every state change is
// pushed as a round object; the client sends newline separated commands:
// "o row col" reveals, "f row col" toggles a flag, "g" asks for the
// current state and "r" forfeits.
func (h Round) Connect(w http.ResponseWriter, r *http.Request) {
	address := playerAddress(r)
	id := r.PathValue("id")

	updates, unsubscribe, err := h.arcade.Subscribe(address, id)
	if err != nil {
		SendErrorOrLog(w, h.log, err)
		return
	}
	defer unsubscribe()

	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("unable to upgrade")
		return
	}
	defer conn.Close()

	log := h.log.WithFields(logrus.Fields{
		"address": address,
		"round":   id,
	})

	out := make(chan any, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer conn.Close()
		h.writeLoop(conn, updates, out, log)
	}()

	h.readLoop(conn, address, id, out, done, log)

	unsubscribe()
	<-done
}

func (h Round) writeLoop(
	conn *websocket.Conn,
	updates <-chan round.Snapshot,
	out <-chan any,
	log logrus.FieldLogger,
) {
	for {
		var msg any
		select {
		case snap, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "round closed"),
					time.Now().Add(time.Second),
				)
				return
			}
			msg = NewRoundDTO(snap)
		case msg = <-out:
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.WithError(err).Debug("unable to write message")
			return
		}
	}
}

func (h Round) readLoop(
	conn *websocket.Conn,
	address, id string,
	out chan<- any,
	done <-chan struct{},
	log logrus.FieldLogger,
) {
	send := func(msg any) bool {
		select {
		case out <- msg:
			return true
		case <-done:
			return false
		}
	}

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err, websocket.CloseNormalClosure, websocket.CloseGoingAway,
			) {
				log.WithError(err).Warn("abnormal ws break")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		for line := range strings.SplitSeq(strings.TrimSpace(string(message)), "\n") {
			log.WithField("command", line).Debug("ws command")
			c, err := parseCommand(line)
			if err != nil {
				if !send(wrapError(err)) {
					return
				}
				continue
			}
			snap, err := h.apply(address, id, c)
			switch {
			case errors.Is(err, arcade.ErrRoundNotFound):
				send(wrapError(err))
				return
			case err != nil:
				if !send(wrapError(err)) {
					return
				}
			case c.name == "g":
				if !send(NewRoundDTO(snap)) {
					return
				}
			}
		}
	}
}
