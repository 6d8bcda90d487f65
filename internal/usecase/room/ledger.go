package usecase_room

import "github.com/shree5k/swipematch/internal/model"

// Ledger records one player's decisions, keyed by movie id.
// The first decision for a movie is final.
type Ledger struct {
	decisions map[int64]model.Decision
}

func NewLedger() *Ledger {
	return &Ledger{
		decisions: make(map[int64]model.Decision),
	}
}

// Record stores the decision unless one already exists for this movie.
// Reports whether the write happened.
func (l *Ledger) Record(movieID int64, d model.Decision) bool {
	if _, ok := l.decisions[movieID]; ok {
		return false
	}
	l.decisions[movieID] = d
	return true
}

func (l *Ledger) Decision(movieID int64) (model.Decision, bool) {
	d, ok := l.decisions[movieID]
	return d, ok
}

func (l *Ledger) Count() int {
	return len(l.decisions)
}
