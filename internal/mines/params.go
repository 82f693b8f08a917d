package mines

import (
	"fmt"
	"iter"
	"strings"
)

type GameParams struct {
	Height, Width, MineCount int
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Height, p.Width, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Height, &p.Width, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p GameParams) Validate() error {
	if p.Height <= 0 || p.Width <= 0 {
		return fmt.Errorf("%w: board must be at least 1x1, got %dx%d",
			ErrInvalidParams, p.Height, p.Width)
	}
	if p.MineCount < 0 || p.MineCount > p.Height*p.Width {
		return fmt.Errorf("%w: cannot place %d mines on %d cells",
			ErrInvalidParams, p.MineCount, p.Height*p.Width)
	}
	return nil
}

func (p GameParams) InBounds(c Cell) bool {
	return 0 <= c.Row && c.Row < p.Height && 0 <= c.Col && c.Col < p.Width
}

// All yields every cell of the grid in row-major order.
func (p GameParams) All() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for row := range p.Height {
			for col := range p.Width {
				if !yield(Cell{Row: row, Col: col}) {
					return
				}
			}
		}
	}
}
