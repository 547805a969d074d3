package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper-arcade/internal/round"
)

var errQuit = errors.New("quit")

func parseCell(args []string) (row, col int, err error) {
	if len(args) != 2 {
		return 0, 0, errors.New("expected ROW COL")
	}
	if row, err = strconv.Atoi(args[0]); err != nil {
		return 0, 0, errors.New("row must be an int")
	}
	if col, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, errors.New("col must be an int")
	}
	return row, col, nil
}

func execute(r *round.Round, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	switch parts[0] {
	case "q":
		r.Forfeit()
		return errQuit
	case "o", "f":
		row, col, err := parseCell(parts[1:])
		if err != nil {
			return err
		}
		if parts[0] == "o" {
			_, err = r.Reveal(row, col)
		} else {
			_, err = r.ToggleFlag(row, col)
		}
		return err
	default:
		return fmt.Errorf("unknown command %q", parts[0])
	}
}

func render(w io.Writer, s round.Snapshot) {
	fmt.Fprintf(w, "mines left: %d  time left: %ds\n", s.RemainingMines, s.TimeLeft)
	fmt.Fprint(w, s.Grid.ToString(s.Cols))
}

// play reads commands from in until the round is over, ctx is done or
// input runs out.
func play(ctx context.Context, in io.Reader, out io.Writer, r *round.Round) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-r.Done():
				return
			}
		}
	}()

	render(out, r.Snapshot())
	for {
		select {
		case <-ctx.Done():
			r.Forfeit()
		case <-r.Done():
		case line, ok := <-lines:
			if !ok {
				r.Forfeit()
				break
			}
			err := execute(r, line)
			if err != nil && !errors.Is(err, errQuit) {
				fmt.Fprintln(out, "error:", err)
			}
			if !r.Over() {
				render(out, r.Snapshot())
				continue
			}
		}

		s := r.Snapshot()
		render(out, s)
		if s.Won {
			fmt.Fprintf(out, "you won, score %d\n", s.Score)
		} else {
			fmt.Fprintln(out, "game over")
		}
		return nil
	}
}
