package mines

import (
	"errors"
	"fmt"
)

var ErrInvalidConfiguration = errors.New("invalid board configuration")

// AssertionError is raised (as a panic value) when the engine is driven
// with coordinates that are outside the board.
type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}

func outOfBounds(row, col int, b *Board) AssertionError {
	return AssertionError{fmt.Sprintf(
		"cell %d:%d is outside of %dx%d board", row, col, b.rows, b.cols,
	)}
}
