package knowledge

import (
	"errors"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper-agent/internal/mines"
)

// Closure selects how far AddKnowledge propagates after each observation.
type Closure int8

const (
	// Fixpoint repeats resolution, subset inference over every pair of
	// sentences and deduplication until nothing new is learned.
	Fixpoint Closure = iota
	// Bounded runs one resolution pass, subset inference against the new
	// sentence only, deduplication and a second resolution pass.
	// Some facts are then only found on a later turn.
	Bounded
)

func (c Closure) String() string {
	switch c {
	case Fixpoint:
		return "fixpoint"
	case Bounded:
		return "bounded"
	default:
		return fmt.Sprintf("Closure(%d)", int8(c))
	}
}

func ParseClosure(s string) (Closure, error) {
	switch s {
	case "fixpoint", "":
		return Fixpoint, nil
	case "bounded":
		return Bounded, nil
	default:
		return Fixpoint, fmt.Errorf("unknown closure %q (want fixpoint or bounded)", s)
	}
}

// Stats counts the work done by the inference engine.
type Stats struct {
	Observations int `json:"observations"`
	Passes       int `json:"passes"`
	Inferred     int `json:"inferred"`
	Collapsed    int `json:"collapsed"`
}

/*
KnowledgeBase is the playing agent of a single game.

It owns the moves made so far, the cells proven to be mines or safe, and
the active sentences. Every fact learned is applied to all live sentences
so they never mention known cells once an update returns.

A KnowledgeBase is not safe for concurrent use; run one per game.
*/
type KnowledgeBase struct {
	height, width int

	movesMade mines.CellSet
	mines     mines.CellSet
	safes     mines.CellSet
	knowledge []*Sentence

	closure Closure
	rnd     *rand.Rand
	stats   Stats
	err     error // set once a contradiction is found
}

type Option func(*KnowledgeBase)

func WithClosure(c Closure) Option {
	return func(kb *KnowledgeBase) {
		kb.closure = c
	}
}

// WithRand sets the source used by MakeRandomMove.
func WithRand(r *rand.Rand) Option {
	return func(kb *KnowledgeBase) {
		kb.rnd = r
	}
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func New(height, width int, opts ...Option) *KnowledgeBase {
	kb := &KnowledgeBase{
		height:    height,
		width:     width,
		movesMade: mines.CellSet{},
		mines:     mines.CellSet{},
		safes:     mines.CellSet{},
		closure:   Fixpoint,
	}
	for _, opt := range opts {
		opt(kb)
	}
	if kb.rnd == nil {
		kb.rnd = createRand()
	}
	return kb
}

func (kb *KnowledgeBase) Height() int { return kb.height }

func (kb *KnowledgeBase) Width() int { return kb.width }

func (kb *KnowledgeBase) Closure() Closure { return kb.closure }

func (kb *KnowledgeBase) Stats() Stats { return kb.stats }

func (kb *KnowledgeBase) Mines() mines.CellSet { return kb.mines.Clone() }

func (kb *KnowledgeBase) Safes() mines.CellSet { return kb.safes.Clone() }

func (kb *KnowledgeBase) MovesMade() mines.CellSet { return kb.movesMade.Clone() }

// Sentences returns copies of the active sentences.
func (kb *KnowledgeBase) Sentences() []Sentence {
	ret := make([]Sentence, len(kb.knowledge))
	for i, s := range kb.knowledge {
		ret[i] = *s.Clone()
	}
	return ret
}

// Err returns the contradiction that stopped the knowledge base, if any.
func (kb *KnowledgeBase) Err() error {
	return kb.err
}

// MarkMine records c as a mine and removes it from every sentence.
func (kb *KnowledgeBase) MarkMine(c mines.Cell) error {
	if kb.safes.Has(c) {
		return conflictingCell(c, "cell is known to be safe")
	}
	if !kb.mines.Has(c) {
		Log.WithField("cell", c).Debug("marking mine")
	}
	kb.mines.Add(c)
	for _, s := range kb.knowledge {
		s.MarkMine(c)
	}
	return nil
}

// MarkSafe records c as safe and removes it from every sentence.
func (kb *KnowledgeBase) MarkSafe(c mines.Cell) error {
	if kb.mines.Has(c) {
		return conflictingCell(c, "cell is known to be a mine")
	}
	if !kb.safes.Has(c) {
		Log.WithField("cell", c).Debug("adding safe cell")
	}
	kb.safes.Add(c)
	for _, s := range kb.knowledge {
		s.MarkSafe(c)
	}
	return nil
}

/*
neighbors returns the unresolved orthogonal neighbours of c and the
observed count minus the neighbours already known to be mines.
*/
func (kb *KnowledgeBase) neighbors(c mines.Cell, count int) (mines.CellSet, int) {
	cells := mines.CellSet{}
	for _, n := range c.Neighbors(kb.height, kb.width) {
		switch {
		case kb.mines.Has(n):
			count--
		case kb.safes.Has(n):
		default:
			cells.Add(n)
		}
	}
	return cells, count
}

/*
AddKnowledge is called when the board reports, for a revealed safe cell,
how many orthogonal neighbours hold mines.

It records the move, marks the cell safe, adds a sentence about its
unresolved neighbours and propagates until the configured closure is
reached. A contradiction leaves the knowledge base stopped: this and
every later call returns an error matching [ErrContradiction].
*/
func (kb *KnowledgeBase) AddKnowledge(c mines.Cell, count int) error {
	if kb.err != nil {
		return kb.err
	}
	if err := mines.CheckBounds(c, kb.height, kb.width); err != nil {
		return err
	}
	if kb.movesMade.Has(c) {
		return fmt.Errorf("%w: %s", ErrDuplicateMove, c)
	}
	if kb.mines.Has(c) {
		return kb.fail(conflictingCell(c, "revealed cell is known to be a mine"))
	}

	kb.stats.Observations++
	kb.movesMade.Add(c)
	if err := kb.MarkSafe(c); err != nil {
		return kb.fail(err)
	}

	cells, adjusted := kb.neighbors(c, count)
	s := &Sentence{Cells: cells, Count: adjusted}
	if !s.Valid() {
		return kb.fail(invalidSentence(StageObservation, s))
	}
	Log.WithFields(logrus.Fields{
		"cell":     c,
		"count":    count,
		"sentence": s.String(),
	}).Debug("adding new knowledge")

	return kb.fail(kb.integrate(s))
}

func (kb *KnowledgeBase) fail(err error) error {
	var ce ContradictionError
	if errors.As(err, &ce) {
		kb.err = err
	}
	return err
}

// integrate appends s and runs the closure.
func (kb *KnowledgeBase) integrate(s *Sentence) error {
	kb.knowledge = append(kb.knowledge, s)

	if kb.closure == Bounded {
		if _, err := kb.resolve(); err != nil {
			return err
		}
		derived, err := kb.inferFrom(s)
		if err != nil {
			return err
		}
		kb.knowledge = append(kb.knowledge, derived...)
		if err := kb.dedup(); err != nil {
			return err
		}
		if _, err := kb.resolve(); err != nil {
			return err
		}
		if err := kb.dedup(); err != nil {
			return err
		}
		return kb.validate()
	}

	for {
		learned, err := kb.resolve()
		if err != nil {
			return err
		}
		if err := kb.dedup(); err != nil {
			return err
		}
		derived, err := kb.inferAll()
		if err != nil {
			return err
		}
		kb.knowledge = append(kb.knowledge, derived...)
		if err := kb.dedup(); err != nil {
			return err
		}
		if learned == 0 && len(derived) == 0 {
			return nil
		}
	}
}

/*
resolve applies every fact readable off a single sentence and drops the
sentences left empty.

The pass iterates over a snapshot since each mark rewrites sentences
further down the list; removals happen once the pass is over. A sentence
emptied by a mark while its count is not zero is a contradiction, and it
is reported before the removal can hide it.
*/
func (kb *KnowledgeBase) resolve() (learned int, err error) {
	kb.stats.Passes++
	for _, s := range slices.Clone(kb.knowledge) {
		if !s.Valid() {
			return learned, invalidSentence(StageResolution, s)
		}
		if s.Empty() {
			continue
		}
		for c := range s.KnownSafes() {
			if kb.safes.Has(c) {
				continue
			}
			if err := kb.MarkSafe(c); err != nil {
				return learned, err
			}
			learned++
		}
		for c := range s.KnownMines() {
			if kb.mines.Has(c) {
				continue
			}
			if err := kb.MarkMine(c); err != nil {
				return learned, err
			}
			learned++
		}
	}
	if err := kb.validate(); err != nil {
		return learned, err
	}
	kb.knowledge = slices.DeleteFunc(kb.knowledge, (*Sentence).Empty)
	return learned, nil
}

// validate catches sentences broken by marks made after they were visited.
func (kb *KnowledgeBase) validate() error {
	for _, s := range kb.knowledge {
		if !s.Valid() {
			return invalidSentence(StageResolution, s)
		}
	}
	return nil
}

/*
dedup collapses sentences equal by value, keeping the first of each.
Two sentences over the same cells with different counts contradict.
*/
func (kb *KnowledgeBase) dedup() error {
	counts := make(map[string]int, len(kb.knowledge))
	unique := kb.knowledge[:0]
	for _, s := range kb.knowledge {
		key := s.cellsKey()
		if count, ok := counts[key]; ok {
			if count != s.Count {
				return ContradictionError{
					Stage:    StageDeduplication,
					Sentence: s.Clone(),
					Reason:   fmt.Sprintf("same cells already claim %d mines", count),
				}
			}
			kb.stats.Collapsed++
			continue
		}
		counts[key] = s.Count
		unique = append(unique, s)
	}
	clear(kb.knowledge[len(unique):])
	kb.knowledge = unique
	return nil
}
