package mines

import (
	"math/rand/v2"
	"testing"

	"pgregory.net/rapid"
)

func drawBoard(t *rapid.T) *Board {
	rows := rapid.IntRange(1, 20).Draw(t, "rows")
	cols := rapid.IntRange(1, 20).Draw(t, "cols")
	if rows*cols < 2 {
		cols = 2
	}
	mineCount := rapid.IntRange(1, rows*cols-1).Draw(t, "mineCount")
	seed := rapid.Uint64().Draw(t, "seed")

	b, err := Generate(rows, cols, mineCount, rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		t.Fatalf("generate %dx%d(%d): %v", rows, cols, mineCount, err)
	}
	return b
}

func drawCell(t *rapid.T, b *Board, label string) (int, int) {
	return rapid.IntRange(0, b.Rows()-1).Draw(t, label+"Row"),
		rapid.IntRange(0, b.Cols()-1).Draw(t, label+"Col")
}

func TestPropertyMineCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := drawBoard(t)
		if got := countMines(b); got != b.MineCount() {
			t.Fatalf("board has %d mines, want %d", got, b.MineCount())
		}
	})
}

func TestPropertyAdjacency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := drawBoard(t)
		for row := range b.Rows() {
			for col := range b.Cols() {
				c := b.Cell(row, col)
				if c.HasMine {
					continue
				}
				n := 0
				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						if (dr != 0 || dc != 0) && b.InBounds(row+dr, col+dc) &&
							b.Cell(row+dr, col+dc).HasMine {
							n++
						}
					}
				}
				if c.AdjacentMines != n {
					t.Fatalf("%d:%d has count %d, want %d", row, col, c.AdjacentMines, n)
				}
			}
		}
	})
}

func TestPropertyFloodFillBoundary(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := drawBoard(t)
		row, col := drawCell(t, b, "reveal")

		res := b.Reveal(row, col)
		if res.HitMine {
			if res.Revealed != 1 || b.RevealedCount() != 1 {
				t.Fatalf("mine hit revealed %d cells", res.Revealed)
			}
			return
		}

		for r := range b.Rows() {
			for c := range b.Cols() {
				cell := b.Cell(r, c)
				if cell.Revealed && cell.HasMine {
					t.Fatalf("flood fill entered mine at %d:%d", r, c)
				}
				if !cell.Revealed || cell.AdjacentMines > 0 {
					continue
				}
				b.eachNeighbour(r, c, func(i int) {
					if !b.cells[i].Revealed {
						nr, nc := b.coords(i)
						t.Fatalf("zero cell %d:%d left neighbour %d:%d closed", r, c, nr, nc)
					}
				})
			}
		}
		if res.Revealed != b.RevealedCount() {
			t.Fatalf("reported %d revealed, board has %d", res.Revealed, b.RevealedCount())
		}
	})
}

func TestPropertyRevealIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := drawBoard(t)
		row, col := drawCell(t, b, "reveal")
		b.Reveal(row, col)

		before, err := b.Bytes()
		if err != nil {
			t.Fatal(err)
		}
		if res := b.Reveal(row, col); !res.NoOp() {
			t.Fatalf("second reveal changed %d cells", res.Revealed)
		}
		after, err := b.Bytes()
		if err != nil {
			t.Fatal(err)
		}
		if string(before) != string(after) {
			t.Fatal("second reveal changed the board")
		}
	})
}

func TestPropertyClearedIgnoresFlags(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := drawBoard(t)
		flags := rapid.IntRange(0, b.TotalCells()).Draw(t, "flags")
		for range flags {
			row, col := drawCell(t, b, "flag")
			b.ToggleFlag(row, col)
		}
		// clear flags off safe cells only, then open everything safe
		for i := range b.cells {
			if !b.cells[i].HasMine {
				b.cells[i].Flagged = false
			}
		}
		for r := range b.Rows() {
			for c := range b.Cols() {
				if b.Cell(r, c).HasMine {
					continue
				}
				b.Reveal(r, c)
				if b.Cleared() != (b.RevealedCount() == b.SafeCells()) {
					t.Fatal("cleared disagrees with revealed count")
				}
			}
		}
		if !b.Cleared() {
			t.Fatalf("revealed %d of %d safe cells", b.RevealedCount(), b.SafeCells())
		}
	})
}

func TestPropertyScoreMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(1, 1000).Draw(t, "total")
		revealed := rapid.IntRange(0, total-1).Draw(t, "revealed")
		elapsed := rapid.IntRange(0, 200).Draw(t, "elapsed")

		s := Score(revealed, total, elapsed)
		if more := Score(revealed+1, total, elapsed); more < s {
			t.Fatalf("score dropped from %d to %d with more cells", s, more)
		}
		if slower := Score(revealed, total, elapsed+1); slower > s {
			t.Fatalf("score rose from %d to %d with more time", s, slower)
		}
	})
}
