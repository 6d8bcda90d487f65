package usecase_room

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shree5k/swipematch/internal/model"
)

func TestLedgerFirstWriteWins(t *testing.T) {
	l := NewLedger()

	assert.True(t, l.Record(7, model.DecisionLike))
	assert.False(t, l.Record(7, model.DecisionDislike))

	d, ok := l.Decision(7)
	assert.True(t, ok)
	assert.Equal(t, model.DecisionLike, d)
	assert.Equal(t, 1, l.Count())
}

func TestLedgerCountGrowsPerMovie(t *testing.T) {
	l := NewLedger()

	for id := int64(1); id <= 5; id++ {
		l.Record(id, model.DecisionDislike)
	}
	l.Record(3, model.DecisionLike)

	assert.Equal(t, 5, l.Count())
}

func TestMutualLike(t *testing.T) {
	a, b := NewLedger(), NewLedger()

	a.Record(1, model.DecisionLike)
	assert.False(t, mutualLike(a, b, 1))

	b.Record(1, model.DecisionLike)
	assert.True(t, mutualLike(a, b, 1))

	a.Record(2, model.DecisionLike)
	b.Record(2, model.DecisionDislike)
	assert.False(t, mutualLike(a, b, 2))

	assert.False(t, mutualLike(a, b, 99))
}
