package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand/v2"
)

type Cell struct {
	Revealed      bool `json:"revealed"`
	Flagged       bool `json:"flagged"`
	HasMine       bool `json:"has_mine"`
	AdjacentMines int  `json:"adjacent_mines"`
}

// Board is a rows x cols grid stored row-major. A Board is not safe for
// concurrent use; callers serialize access (see package round).
type Board struct {
	rows, cols int
	mineCount  int
	revealed   int
	cells      []Cell
}

// Generate places mineCount mines by rejection sampling and computes the
// adjacency counts of every safe cell.
func Generate(rows, cols, mineCount int, r *rand.Rand) (*Board, error) {
	params := Params{Rows: rows, Cols: cols, MineCount: mineCount}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	b := &Board{
		rows:      rows,
		cols:      cols,
		mineCount: mineCount,
		cells:     make([]Cell, rows*cols),
	}

	for placed := 0; placed < mineCount; {
		i := b.index(r.IntN(rows), r.IntN(cols))
		if !b.cells[i].HasMine {
			b.cells[i].HasMine = true
			placed++
		}
	}

	b.countAdjacent()

	return b, nil
}

// FromLayout builds a board with mines exactly at the given row:col
// positions.
func FromLayout(rows, cols int, mines [][2]int) (*Board, error) {
	params := Params{Rows: rows, Cols: cols, MineCount: len(mines)}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	b := &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
	for _, m := range mines {
		if !b.InBounds(m[0], m[1]) {
			return nil, fmt.Errorf(
				"%w: mine %d:%d is outside the board", ErrInvalidConfiguration, m[0], m[1],
			)
		}
		i := b.index(m[0], m[1])
		if b.cells[i].HasMine {
			return nil, fmt.Errorf(
				"%w: duplicate mine at %d:%d", ErrInvalidConfiguration, m[0], m[1],
			)
		}
		b.cells[i].HasMine = true
		b.mineCount++
	}

	b.countAdjacent()

	return b, nil
}

func (b *Board) countAdjacent() {
	for i := range b.cells {
		if b.cells[i].HasMine {
			continue
		}
		row, col := b.coords(i)
		n := 0
		b.eachNeighbour(row, col, func(j int) {
			if b.cells[j].HasMine {
				n++
			}
		})
		b.cells[i].AdjacentMines = n
	}
}

func (b *Board) Rows() int      { return b.rows }
func (b *Board) Cols() int      { return b.cols }
func (b *Board) MineCount() int { return b.mineCount }

func (b *Board) TotalCells() int { return b.rows * b.cols }

func (b *Board) SafeCells() int { return b.rows*b.cols - b.mineCount }

// RevealedCount is the number of cells with Revealed set, including a
// detonated mine.
func (b *Board) RevealedCount() int { return b.revealed }

// Cleared reports whether every safe cell has been revealed. Flags are not
// taken into account.
func (b *Board) Cleared() bool {
	return b.revealed == b.SafeCells()
}

func (b *Board) InBounds(row, col int) bool {
	return 0 <= row && row < b.rows && 0 <= col && col < b.cols
}

// Cell returns a copy of the cell at row:col.
//
// panics [AssertionError]
func (b *Board) Cell(row, col int) Cell {
	b.mustBeInBounds(row, col)
	return b.cells[b.index(row, col)]
}

func (b *Board) index(row, col int) int {
	return row*b.cols + col
}

func (b *Board) coords(i int) (row, col int) {
	return i / b.cols, i % b.cols
}

func (b *Board) mustBeInBounds(row, col int) {
	if !b.InBounds(row, col) {
		panic(outOfBounds(row, col, b))
	}
}

// eachNeighbour calls fn with the index of every Moore neighbour of
// row:col, clipped to the board.
func (b *Board) eachNeighbour(row, col int, fn func(i int)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if b.InBounds(r, c) {
				fn(b.index(r, c))
			}
		}
	}
}

type boardSnapshot struct {
	Rows, Cols, MineCount int
	Cells                 []Cell
}

func (b *Board) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(boardSnapshot{
		Rows:      b.rows,
		Cols:      b.cols,
		MineCount: b.mineCount,
		Cells:     b.cells,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeBoard(data []byte) (*Board, error) {
	var s boardSnapshot
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&s); err != nil {
		return nil, err
	}
	if s.Rows < 1 || s.Cols < 1 || len(s.Cells) != s.Rows*s.Cols {
		return nil, fmt.Errorf("malformed board snapshot %dx%d with %d cells",
			s.Rows, s.Cols, len(s.Cells))
	}
	b := &Board{
		rows:      s.Rows,
		cols:      s.Cols,
		mineCount: s.MineCount,
		cells:     s.Cells,
	}
	mines := 0
	for _, c := range b.cells {
		if c.HasMine {
			mines++
		}
		if c.Revealed {
			b.revealed++
		}
	}
	if mines != s.MineCount {
		return nil, fmt.Errorf("malformed board snapshot: %d mines recorded, %d placed",
			s.MineCount, mines)
	}
	return b, nil
}
