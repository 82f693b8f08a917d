package knowledge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

/*
Sentence is a logical statement about a game: exactly Count of Cells are
mines.

A well-formed sentence has 0 <= Count <= len(Cells). Sentences have no
identity beyond their value; two sentences with the same cells and count
say the same thing.
*/
type Sentence struct {
	Cells mines.CellSet `json:"cells"`
	Count int           `json:"count"`
}

func NewSentence(cells mines.CellSet, count int) *Sentence {
	return &Sentence{Cells: cells.Clone(), Count: count}
}

func (s *Sentence) Equal(other *Sentence) bool {
	return s.Count == other.Count && s.Cells.Equal(other.Cells)
}

func (s *Sentence) Empty() bool {
	return len(s.Cells) == 0
}

// Valid reports whether the count is achievable with the cells left.
func (s *Sentence) Valid() bool {
	return 0 <= s.Count && s.Count <= len(s.Cells)
}

// KnownMines returns all cells when every one of them must be a mine.
func (s *Sentence) KnownMines() mines.CellSet {
	if len(s.Cells) == s.Count {
		return s.Cells.Clone()
	}
	return mines.CellSet{}
}

// KnownSafes returns all cells when none of them can be a mine.
func (s *Sentence) KnownSafes() mines.CellSet {
	if s.Count == 0 {
		return s.Cells.Clone()
	}
	return mines.CellSet{}
}

func (s *Sentence) MarkMine(c mines.Cell) {
	if s.Cells.Has(c) {
		s.Cells.Remove(c)
		s.Count--
	}
}

func (s *Sentence) MarkSafe(c mines.Cell) {
	s.Cells.Remove(c)
}

func (s *Sentence) Clone() *Sentence {
	return NewSentence(s.Cells, s.Count)
}

// cellsKey normalises the cell set so equal sets share a key.
func (s *Sentence) cellsKey() string {
	var b strings.Builder
	for _, c := range s.Cells.Sorted() {
		b.WriteString(strconv.Itoa(c.Row))
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(c.Col))
		b.WriteByte(' ')
	}
	return b.String()
}

func (s *Sentence) key() string {
	return s.cellsKey() + "= " + strconv.Itoa(s.Count)
}

// Sentence implements [fmt.Stringer]
func (s *Sentence) String() string {
	return fmt.Sprintf("%s = %d", s.Cells, s.Count)
}
