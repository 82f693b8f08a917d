package knowledge

import (
	"github.com/sirupsen/logrus"
)

/*
subtract derives a new sentence from two sentences where the cells of
sub are contained in the cells of super:

	cells(super) - cells(sub) = count(super) - count(sub)

ok is false when sub is not a subset, or when the difference would be
empty and so says nothing.
*/
func subtract(super, sub *Sentence) (derived *Sentence, ok bool, err error) {
	if !sub.Cells.IsSubset(super.Cells) {
		return nil, false, nil
	}
	if len(sub.Cells) == len(super.Cells) {
		if sub.Count != super.Count {
			return nil, false, ContradictionError{
				Stage:    StageInference,
				Sentence: super.Clone(),
				Reason:   "same cells claim a different count",
			}
		}
		return nil, false, nil
	}
	derived = &Sentence{
		Cells: super.Cells.Difference(sub.Cells),
		Count: super.Count - sub.Count,
	}
	if !derived.Valid() {
		return nil, false, invalidSentence(StageInference, derived)
	}
	return derived, true, nil
}

// resolvePair applies the subset rule in whichever direction holds.
func resolvePair(a, b *Sentence) (*Sentence, bool, error) {
	if len(a.Cells) <= len(b.Cells) {
		return subtract(b, a)
	}
	return subtract(a, b)
}

/*
inferFrom compares pivot against every other sentence and returns the
sentences derived by the subset rule.
*/
func (kb *KnowledgeBase) inferFrom(pivot *Sentence) ([]*Sentence, error) {
	if pivot.Empty() {
		return nil, nil
	}
	var derived []*Sentence
	for _, s := range kb.knowledge {
		if s == pivot || s.Empty() {
			continue
		}
		d, ok, err := resolvePair(pivot, s)
		if err != nil {
			return nil, err
		}
		if ok {
			kb.traceInferred(d)
			derived = append(derived, d)
		}
	}
	kb.stats.Inferred += len(derived)
	return derived, nil
}

/*
inferAll applies the subset rule to every pair of sentences and returns
the derived sentences not already known.
*/
func (kb *KnowledgeBase) inferAll() ([]*Sentence, error) {
	seen := make(map[string]struct{}, len(kb.knowledge))
	for _, s := range kb.knowledge {
		seen[s.key()] = struct{}{}
	}

	var derived []*Sentence
	for i, a := range kb.knowledge {
		for _, b := range kb.knowledge[i+1:] {
			if !a.Cells.Intersects(b.Cells) {
				continue
			}
			d, ok, err := resolvePair(a, b)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			key := d.key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			kb.traceInferred(d)
			derived = append(derived, d)
		}
	}
	kb.stats.Inferred += len(derived)
	return derived, nil
}

func (kb *KnowledgeBase) traceInferred(s *Sentence) {
	if Log.IsLevelEnabled(logrus.DebugLevel) {
		Log.WithField("sentence", s.String()).Debug("inferred sentence")
	}
}
