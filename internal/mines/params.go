package mines

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

type Params struct {
	Rows      int `json:"rows"`
	Cols      int `json:"cols"`
	MineCount int `json:"mine_count"`
}

func (p Params) Validate() error {
	if p.Rows < 1 || p.Cols < 1 {
		return fmt.Errorf(
			"%w: dimensions must be positive, got %dx%d",
			ErrInvalidConfiguration, p.Rows, p.Cols,
		)
	}
	if p.MineCount <= 0 || p.MineCount >= p.Rows*p.Cols {
		return fmt.Errorf(
			"%w: mine count must be in (0, %d), got %d",
			ErrInvalidConfiguration, p.Rows*p.Cols, p.MineCount,
		)
	}
	return nil
}

func (p Params) Generate(r *rand.Rand) (*Board, error) {
	return Generate(p.Rows, p.Cols, p.MineCount, r)
}

func (p Params) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Rows, p.Cols, p.MineCount)
}

func ParseSeed(seed string) (*Params, error) {
	p := &Params{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Rows, &p.Cols, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid board params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	return p, p.Validate()
}

type Preset struct {
	Name string `json:"name"`
	Params
}

var (
	Classic = Preset{"classic", Params{Rows: 10, Cols: 10, MineCount: 20}}
	Easy    = Preset{"easy", Params{Rows: 9, Cols: 9, MineCount: 10}}
	Medium  = Preset{"medium", Params{Rows: 16, Cols: 16, MineCount: 40}}
	Hard    = Preset{"hard", Params{Rows: 16, Cols: 30, MineCount: 99}}
)

func Presets() []Preset {
	return []Preset{Classic, Easy, Medium, Hard}
}

func LookupPreset(name string) (Preset, bool) {
	i := slices.IndexFunc(Presets(), func(p Preset) bool {
		return strings.EqualFold(p.Name, name)
	})
	if i < 0 {
		return Preset{}, false
	}
	return Presets()[i], true
}
