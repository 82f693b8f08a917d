package mines

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"iter"
	"maps"
	"slices"
	"strings"
)

// CellSet is an unordered set of cells.
type CellSet map[Cell]struct{}

func NewCellSet(cells ...Cell) CellSet {
	s := make(CellSet, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}

func (s CellSet) Add(c Cell) {
	s[c] = struct{}{}
}

func (s CellSet) Remove(c Cell) {
	delete(s, c)
}

func (s CellSet) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

func (s CellSet) Len() int {
	return len(s)
}

func (s CellSet) Clone() CellSet {
	if s == nil {
		return CellSet{}
	}
	return maps.Clone(s)
}

func (s CellSet) All() iter.Seq[Cell] {
	return maps.Keys(s)
}

func (s CellSet) Equal(other CellSet) bool {
	if len(s) != len(other) {
		return false
	}
	return s.IsSubset(other)
}

// IsSubset reports whether every cell of s is also in other.
func (s CellSet) IsSubset(other CellSet) bool {
	if len(s) > len(other) {
		return false
	}
	for c := range s {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// Difference returns s - other as a new set.
func (s CellSet) Difference(other CellSet) CellSet {
	ret := make(CellSet, len(s))
	for c := range s {
		if !other.Has(c) {
			ret[c] = struct{}{}
		}
	}
	return ret
}

func (s CellSet) Intersects(other CellSet) bool {
	a, b := s, other
	if len(a) > len(b) {
		a, b = b, a
	}
	for c := range a {
		if b.Has(c) {
			return true
		}
	}
	return false
}

// Sorted returns the cells of s in row-major order.
func (s CellSet) Sorted() []Cell {
	return slices.SortedFunc(maps.Keys(s), CompareCells)
}

// CellSet implements [fmt.Stringer]
func (s CellSet) String() string {
	parts := make([]string, 0, len(s))
	for _, c := range s.Sorted() {
		parts = append(parts, c.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// CellSet implements [json.Marshaler]
func (s CellSet) MarshalJSON() ([]byte, error) {
	cells := s.Sorted()
	if cells == nil {
		cells = []Cell{}
	}
	return json.Marshal(cells)
}

func (s *CellSet) UnmarshalJSON(data []byte) error {
	var cells []Cell
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	*s = NewCellSet(cells...)
	return nil
}

type gobCells struct {
	Cells []Cell
}

// gob cannot encode the empty struct values, so sets travel as sorted slices.
func (s CellSet) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobCells{s.Sorted()}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *CellSet) GobDecode(data []byte) error {
	var g gobCells
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	*s = NewCellSet(g.Cells...)
	return nil
}
