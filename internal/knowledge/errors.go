package knowledge

import (
	"errors"
	"fmt"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

var (
	ErrContradiction = errors.New("contradictory knowledge")
	ErrDuplicateMove = errors.New("cell already revealed")
)

type Stage string

const (
	StageObservation   Stage = "observation"
	StageResolution    Stage = "resolution"
	StageInference     Stage = "inference"
	StageDeduplication Stage = "deduplication"
	StageMarking       Stage = "marking"
)

/*
ContradictionError means the observations fed to the knowledge base
cannot all be true, usually because a count did not match the board.

Once returned, the knowledge base refuses further updates.
*/
type ContradictionError struct {
	Stage    Stage
	Sentence *Sentence   // offending sentence, if any
	Cell     *mines.Cell // offending cell, if any
	Reason   string
}

// [ContradictionError] implements [error]
func (e ContradictionError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrContradiction, e.Stage)
	if e.Sentence != nil {
		msg += fmt.Sprintf(" (sentence %s)", e.Sentence)
	}
	if e.Cell != nil {
		msg += fmt.Sprintf(" (cell %s)", e.Cell)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e ContradictionError) Is(target error) bool {
	return target == ErrContradiction
}

func invalidSentence(stage Stage, s *Sentence) ContradictionError {
	return ContradictionError{
		Stage:    stage,
		Sentence: s.Clone(),
		Reason: fmt.Sprintf(
			"count %d is outside [0, %d]", s.Count, len(s.Cells),
		),
	}
}

func conflictingCell(c mines.Cell, reason string) ContradictionError {
	return ContradictionError{Stage: StageMarking, Cell: &c, Reason: reason}
}
