package game

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/mines"
	"github.com/vancomm/minesweeper-agent/internal/oracle"
)

type observation struct {
	cell  mines.Cell
	count int
}

// auditor replays the observations into the SAT oracle and checks that
// each newly learned fact is entailed by them.
type auditor struct {
	height, width int
	observed      []observation
	mines         mines.CellSet
	safes         mines.CellSet
}

func newAuditor(height, width int) *auditor {
	return &auditor{
		height: height,
		width:  width,
		mines:  mines.CellSet{},
		safes:  mines.CellSet{},
	}
}

func (a *auditor) check(move Move, agent *knowledge.KnowledgeBase) error {
	a.observed = append(a.observed, observation{move.Cell, move.Count})

	b := oracle.NewBuilder()
	for _, o := range a.observed {
		b.Observe(o.cell, o.count, a.height, a.width)
	}
	o := b.Build()
	if !o.Consistent() {
		return fmt.Errorf("%w: observations are inconsistent", ErrUnsoundDeduction)
	}

	for want, known := range map[oracle.Status]mines.CellSet{
		oracle.Mine: agent.Mines().Difference(a.mines),
		oracle.Safe: agent.Safes().Difference(a.safes),
	} {
		for _, c := range known.Sorted() {
			if got := o.Entails(c); got != want {
				return fmt.Errorf("%w: agent holds %s to be %s, oracle says %s",
					ErrUnsoundDeduction, c, want, got)
			}
			if want == oracle.Mine {
				a.mines.Add(c)
			} else {
				a.safes.Add(c)
			}
		}
	}
	Log.WithFields(logrus.Fields{
		"move":  len(a.observed),
		"mines": a.mines.Len(),
		"safes": a.safes.Len(),
	}).Trace("audit passed")
	return nil
}
