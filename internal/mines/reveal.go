package mines

import "github.com/gammazero/deque"

type RevealResult struct {
	HitMine bool
	// Revealed is the number of cells that flipped to revealed.
	Revealed int
}

// NoOp reports whether the reveal left the board untouched.
func (r RevealResult) NoOp() bool {
	return r.Revealed == 0
}

// Reveal opens row:col. Revealing a flagged or already revealed cell does
// nothing. A zero cell opens its whole zero region plus the numbered cells
// bordering it; mines are never entered by the fill.
//
// panics [AssertionError]
func (b *Board) Reveal(row, col int) RevealResult {
	b.mustBeInBounds(row, col)

	start := b.index(row, col)
	cell := &b.cells[start]
	if cell.Revealed || cell.Flagged {
		return RevealResult{}
	}

	cell.Revealed = true
	b.revealed++
	if cell.HasMine {
		return RevealResult{HitMine: true, Revealed: 1}
	}

	result := RevealResult{Revealed: 1}
	if cell.AdjacentMines > 0 {
		return result
	}

	var queue deque.Deque[int]
	queue.PushBack(start)
	for queue.Len() > 0 {
		r, c := b.coords(queue.PopFront())
		b.eachNeighbour(r, c, func(i int) {
			n := &b.cells[i]
			if n.Revealed || n.Flagged || n.HasMine {
				return
			}
			n.Revealed = true
			b.revealed++
			result.Revealed++
			if n.AdjacentMines == 0 {
				queue.PushBack(i)
			}
		})
	}

	return result
}

// ToggleFlag flips the flag on an unrevealed cell. changed is false when
// the cell is already revealed.
//
// panics [AssertionError]
func (b *Board) ToggleFlag(row, col int) (flagged, changed bool) {
	b.mustBeInBounds(row, col)

	cell := &b.cells[b.index(row, col)]
	if cell.Revealed {
		return cell.Flagged, false
	}
	cell.Flagged = !cell.Flagged
	return cell.Flagged, true
}
