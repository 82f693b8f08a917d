package knowledge

import (
	"github.com/vancomm/minesweeper-agent/internal/mines"
)

/*
MakeSafeMove returns a cell known to be safe that has not been revealed
yet. Of several candidates the first in row-major order is returned.
ok is false when no such cell is known.

MakeSafeMove does not modify the knowledge base.
*/
func (kb *KnowledgeBase) MakeSafeMove() (cell mines.Cell, ok bool) {
	for c := range kb.safes {
		if kb.movesMade.Has(c) {
			continue
		}
		if !ok || mines.CompareCells(c, cell) < 0 {
			cell, ok = c, true
		}
	}
	return cell, ok
}

/*
MakeRandomMove returns a uniformly random cell that has not been revealed
and is not known to be a mine. ok is false when every cell is either.

Only the agent's own knowledge is consulted, never the board.
*/
func (kb *KnowledgeBase) MakeRandomMove() (cell mines.Cell, ok bool) {
	params := mines.GameParams{Height: kb.height, Width: kb.width}
	candidates := make([]mines.Cell, 0, kb.height*kb.width)
	for c := range params.All() {
		if !kb.mines.Has(c) && !kb.movesMade.Has(c) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return mines.Cell{}, false
	}
	return candidates[kb.rnd.IntN(len(candidates))], true
}
