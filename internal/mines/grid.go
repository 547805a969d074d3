package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// CellState is what a player is allowed to know about a cell.
type CellState int8

const (
	Unknown          CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
	/*
	 * 0 to 8 mean the cell is open and hold its adjacent mine count.
	 *
	 * The values from 64 up are only produced for a finished round, when
	 * the mines are shown: 64 is a flagged mine, 65 is the mine that was
	 * hit, 66 is a flag on a safe cell, 67 is a mine nobody flagged.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return "."
	case s == Flagged, s == CorrectlyFlagged:
		return "F"
	case s == ExplodedMine:
		return "X"
	case s == FalselyFlagged:
		return "x"
	case s == UnflaggedMine:
		return "*"
	case s == 0:
		return " "
	case 0 < s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "?"
	}
}

type Grid []CellState

// View renders the board from the player's side. Mines stay hidden unless
// showMines is set.
func (b *Board) View(showMines bool) Grid {
	grid := make(Grid, len(b.cells))
	for i, c := range b.cells {
		switch {
		case c.Revealed && c.HasMine:
			grid[i] = ExplodedMine
		case c.Revealed:
			grid[i] = CellState(c.AdjacentMines)
		case !showMines && c.Flagged:
			grid[i] = Flagged
		case !showMines:
			grid[i] = Unknown
		case c.Flagged && c.HasMine:
			grid[i] = CorrectlyFlagged
		case c.Flagged:
			grid[i] = FalselyFlagged
		case c.HasMine:
			grid[i] = UnflaggedMine
		default:
			grid[i] = Unknown
		}
	}
	return grid
}

func (g Grid) ToString(cols int) string {
	var b strings.Builder
	for row := range len(g) / cols {
		for col := range cols {
			fmt.Fprint(&b, g[row*cols+col].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
