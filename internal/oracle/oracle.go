/*
Package oracle decides by SAT solving which cells are forced to be mines
or safe by a set of observations.

It is independent of the agent's inference rule and is used to audit the
facts the agent claims to have proven.
*/
package oracle

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

type Status int8

const (
	Unknown Status = iota
	Safe
	Mine
	Inconsistent
)

func (s Status) String() string {
	switch s {
	case Safe:
		return "safe"
	case Mine:
		return "mine"
	case Inconsistent:
		return "inconsistent"
	default:
		return "unknown"
	}
}

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// Builder collects constraints; every constraint must be added before
// Build is called.
type Builder struct {
	c     *logic.C
	lits  map[mines.Cell]z.Lit
	roots []z.Lit
}

func NewBuilder() *Builder {
	return &Builder{
		c:    logic.NewC(),
		lits: make(map[mines.Cell]z.Lit),
	}
}

func (b *Builder) lit(c mines.Cell) z.Lit {
	if m, ok := b.lits[c]; ok {
		return m
	}
	m := b.c.Lit()
	b.lits[c] = m
	return m
}

// Exactly asserts that exactly count of cells are mines.
func (b *Builder) Exactly(cells []mines.Cell, count int) *Builder {
	if len(cells) == 0 {
		if count != 0 {
			b.roots = append(b.roots, b.c.F)
		}
		return b
	}
	ms := make([]z.Lit, len(cells))
	for i, c := range cells {
		ms[i] = b.lit(c)
	}
	cs := b.c.CardSort(ms)
	b.roots = append(b.roots, cs.Leq(count), cs.Geq(count))
	return b
}

func (b *Builder) Mine(c mines.Cell) *Builder {
	b.roots = append(b.roots, b.lit(c))
	return b
}

func (b *Builder) Safe(c mines.Cell) *Builder {
	b.roots = append(b.roots, b.lit(c).Not())
	return b
}

// Observe adds what revealing c with the given count tells: c is safe and
// exactly count of its orthogonal neighbours are mines.
func (b *Builder) Observe(c mines.Cell, count, height, width int) *Builder {
	return b.Safe(c).Exactly(c.Neighbors(height, width), count)
}

func (b *Builder) Build() *Oracle {
	g := gini.New()
	b.c.ToCnf(g)
	for _, m := range b.roots {
		g.Add(m)
		g.Add(0)
	}
	return &Oracle{
		g:          g,
		lits:       b.lits,
		consistent: g.Solve() == satisfiable,
	}
}

type Oracle struct {
	g          *gini.Gini
	lits       map[mines.Cell]z.Lit
	consistent bool
}

func (o *Oracle) Consistent() bool {
	return o.consistent
}

// Entails reports what the constraints force about c.
func (o *Oracle) Entails(c mines.Cell) Status {
	if !o.consistent {
		return Inconsistent
	}
	m, ok := o.lits[c]
	if !ok {
		return Unknown
	}
	o.g.Assume(m)
	canBeMine := o.g.Solve() != unsatisfiable
	o.g.Assume(m.Not())
	canBeSafe := o.g.Solve() != unsatisfiable
	switch {
	case canBeMine && !canBeSafe:
		return Mine
	case canBeSafe && !canBeMine:
		return Safe
	default:
		return Unknown
	}
}
