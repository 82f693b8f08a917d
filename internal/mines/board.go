package mines

import (
	"math/rand/v2"
	"strings"
)

// Board holds the real mine layout of a game.
type Board struct {
	GameParams
	grid  []bool
	mines CellSet
}

/*
NewBoard places exactly p.MineCount mines uniformly at random.

Placement draws random cells and skips the ones already mined, so very
dense boards take a little longer to set up.
*/
func NewBoard(p GameParams, r *rand.Rand) (*Board, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	b := &Board{
		GameParams: p,
		grid:       make([]bool, p.Height*p.Width),
		mines:      make(CellSet, p.MineCount),
	}
	for len(b.mines) != p.MineCount {
		c := Cell{Row: r.IntN(p.Height), Col: r.IntN(p.Width)}
		if !b.grid[b.index(c)] {
			b.grid[b.index(c)] = true
			b.mines.Add(c)
		}
	}
	return b, nil
}

// NewBoardWithMines builds a board with a fixed layout. MineCount is
// taken from the number of distinct cells given.
func NewBoardWithMines(height, width int, mines ...Cell) (*Board, error) {
	set := NewCellSet(mines...)
	p := GameParams{Height: height, Width: width, MineCount: set.Len()}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	b := &Board{
		GameParams: p,
		grid:       make([]bool, height*width),
		mines:      set,
	}
	for c := range set {
		if err := CheckBounds(c, height, width); err != nil {
			return nil, err
		}
		b.grid[b.index(c)] = true
	}
	return b, nil
}

func (b *Board) index(c Cell) int {
	return c.Row*b.Width + c.Col
}

func (b *Board) IsMine(c Cell) bool {
	return b.grid[b.index(c)]
}

// NearbyMines counts the mines orthogonally adjacent to c.
func (b *Board) NearbyMines(c Cell) int {
	count := 0
	for _, n := range c.Neighbors(b.Height, b.Width) {
		if b.IsMine(n) {
			count++
		}
	}
	return count
}

// Mines returns a copy of the real mine layout.
func (b *Board) Mines() CellSet {
	return b.mines.Clone()
}

// Won reports whether flagged is exactly the set of mines.
func (b *Board) Won(flagged CellSet) bool {
	return b.mines.Equal(flagged)
}

// Board implements [fmt.Stringer]
func (b *Board) String() string {
	var sb strings.Builder
	line := strings.Repeat("--", b.Width) + "-\n"
	for row := range b.Height {
		sb.WriteString(line)
		for col := range b.Width {
			if b.IsMine(Cell{Row: row, Col: col}) {
				sb.WriteString("|X")
			} else {
				sb.WriteString("| ")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(line)
	return sb.String()
}
