package mines

import (
	"cmp"
	"fmt"
)

type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Cell implements [fmt.Stringer]
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// CompareCells orders cells row-major.
func CompareCells(a, b Cell) int {
	if r := cmp.Compare(a.Row, b.Row); r != 0 {
		return r
	}
	return cmp.Compare(a.Col, b.Col)
}

/*
Neighbors returns the cells orthogonally adjacent to c that lie on an
h x w grid: up, down, left and right, in that order.

Diagonal cells are never neighbours. Mine counts reported by [Board]
and the sentences built by the agent both rely on this rule.
*/
func (c Cell) Neighbors(height, width int) []Cell {
	candidates := [4]Cell{
		{c.Row - 1, c.Col},
		{c.Row + 1, c.Col},
		{c.Row, c.Col - 1},
		{c.Row, c.Col + 1},
	}
	ret := make([]Cell, 0, len(candidates))
	for _, n := range candidates {
		if 0 <= n.Row && n.Row < height && 0 <= n.Col && n.Col < width {
			ret = append(ret, n)
		}
	}
	return ret
}
