package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-arcade/internal/mines"
	"github.com/vancomm/minesweeper-arcade/internal/round"
)

var (
	preset   string
	board    string
	params   mines.Params
	seed     uint64
	duration time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Play a timed Minesweeper round in the terminal",
	Long: `sweep plays one arcade round against the board engine.

Commands, one per line:
	o ROW COL   reveal a cell
	f ROW COL   toggle a flag
	q           give up

Pick a preset or set the board up yourself
	sweep --preset hard
	sweep --rows 8 --cols 8 --mines 10 --seed 42
	sweep --board 8:8:10 --seed 42
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := choosePreset(preset, board, params, cmd.Flags().Changed)
		if err != nil {
			return err
		}

		if seed == 0 {
			seed = rand.Uint64()
		}
		r, err := round.New(round.Config{
			ID:       fmt.Sprintf("%s-%d", p.Seed(), seed),
			Preset:   p,
			Duration: duration,
		}, rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()

		go r.Run(ctx)
		defer r.Stop()

		return play(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), r)
	},
}

// choosePreset resolves the named preset, then applies the --board spec
// and any of the rows, cols and mines flags that changed.
func choosePreset(
	name, board string,
	overrides mines.Params,
	changed func(flag string) bool,
) (mines.Preset, error) {
	p, ok := mines.LookupPreset(name)
	if !ok {
		return mines.Preset{}, fmt.Errorf("unknown preset %q", name)
	}
	if board != "" {
		bp, err := mines.ParseSeed(board)
		if err != nil {
			return mines.Preset{}, fmt.Errorf("--board: %w", err)
		}
		p = mines.Preset{Name: "custom", Params: *bp}
	}
	if changed("rows") || changed("cols") || changed("mines") {
		p = mines.Preset{Name: "custom", Params: p.Params}
		if changed("rows") {
			p.Rows = overrides.Rows
		}
		if changed("cols") {
			p.Cols = overrides.Cols
		}
		if changed("mines") {
			p.MineCount = overrides.MineCount
		}
	}
	return p, nil
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&preset, "preset", "p", mines.Classic.Name, "difficulty preset (classic, easy, medium, hard)")
	rootCmd.Flags().StringVarP(&board, "board", "b", "", "board as ROWS:COLS:MINES, overrides the preset")
	rootCmd.Flags().IntVarP(&params.Rows, "rows", "r", 0, "board rows, overrides the preset")
	rootCmd.Flags().IntVarP(&params.Cols, "cols", "c", 0, "board columns, overrides the preset")
	rootCmd.Flags().IntVarP(&params.MineCount, "mines", "m", 0, "number of mines, overrides the preset")
	rootCmd.Flags().Uint64VarP(&seed, "seed", "s", 0, "random seed, 0 picks one")
	rootCmd.Flags().DurationVarP(&duration, "duration", "d", round.DefaultDuration, "time limit of the round")
}
