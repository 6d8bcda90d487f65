package usecase_room

import "github.com/shree5k/swipematch/internal/model"

// mutualLike reports whether both ledgers hold a like for the movie.
//
// RecordDecision calls this only for the like it just wrote, so the pair is
// detected exactly once: the first like finds the opponent's ledger empty for
// that movie, the second like completes it. Evaluating the predicate after
// both writes have landed would report true for either side.
func mutualLike(a, b *Ledger, movieID int64) bool {
	if d, ok := a.Decision(movieID); !ok || d != model.DecisionLike {
		return false
	}
	if d, ok := b.Decision(movieID); !ok || d != model.DecisionLike {
		return false
	}
	return true
}
