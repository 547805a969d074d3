package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-arcade/internal/mines"
	"github.com/vancomm/minesweeper-arcade/internal/round"
)

func newRound(t *testing.T) *round.Round {
	t.Helper()
	board, err := mines.FromLayout(3, 3, [][2]int{{0, 0}})
	require.NoError(t, err)
	r := round.FromBoard(round.Config{ID: "test", Preset: mines.Classic}, board)
	t.Cleanup(r.Stop)
	return r
}

func TestPlay(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
		won   bool
	}{
		{
			name:  "win",
			input: "x\no 5 5\no 1\nf 0 0\no 2 2\n",
			want: []string{
				`error: unknown command "x"`,
				"error: cell position out of bounds",
				"error: expected ROW COL",
				"mines left: 0",
				"you won, score",
			},
			won: true,
		},
		{
			name:  "mine",
			input: "o 0 0\n",
			want:  []string{"X ", "game over"},
		},
		{
			name:  "quit",
			input: "f 1 1\nq\n",
			want:  []string{"game over"},
		},
		{
			name:  "input runs out",
			input: "",
			want:  []string{"game over"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRound(t)
			var out bytes.Buffer

			err := play(context.Background(), strings.NewReader(tt.input), &out, r)
			require.NoError(t, err)

			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
			s := r.Snapshot()
			assert.True(t, s.GameOver)
			assert.Equal(t, tt.won, s.Won)
		})
	}
}

func TestPlayStopsOnCancel(t *testing.T) {
	r := newRound(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	require.NoError(t, play(ctx, strings.NewReader(""), &out, r))
	assert.True(t, r.Over())
}
