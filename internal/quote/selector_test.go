package quote

import (
	"testing"

	"github.com/dori/slowly/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeQuotes() []model.Quote {
	return []model.Quote{
		{ID: "q0", Text: "zero"},
		{ID: "q1", Text: "one"},
		{ID: "q2", Text: "two"},
	}
}

func TestFixedMode(t *testing.T) {
	s := NewSelector(ModeFixed, 2)
	for i := 0; i < 5; i++ {
		s.Recompute(threeQuotes())
		assert.Equal(t, "q2", s.Current().ID)
	}
}

func TestFixedModeClampsAfterDelete(t *testing.T) {
	s := NewSelector(ModeFixed, 2)
	s.Recompute(threeQuotes())

	s.Recompute(threeQuotes()[:2])
	assert.Equal(t, "q0", s.Current().ID)
	assert.Equal(t, 0, s.Index())
}

func TestQuoteDeletedShiftsFixedIndex(t *testing.T) {
	s := NewSelector(ModeFixed, 2)
	s.Recompute(threeQuotes())

	s.QuoteDeleted(0)
	assert.Equal(t, 1, s.FixedIndex())
	s.Recompute([]model.Quote{{ID: "q1"}, {ID: "q2"}})
	assert.Equal(t, "q2", s.Current().ID, "the same quote stays selected")

	s.QuoteDeleted(1)
	s.QuoteDeleted(0)
	s.QuoteDeleted(0)
	assert.Equal(t, 0, s.FixedIndex(), "never below zero")
}

func TestRandomModeDrawsEachRecompute(t *testing.T) {
	s := NewSelector(ModeRandom, 0)
	var draws []int
	next := 0
	s.SetRand(func(n int) int {
		draws = append(draws, n)
		next = (next + 1) % n
		return next
	})

	s.Recompute(threeQuotes())
	assert.Equal(t, "q1", s.Current().ID)
	s.Recompute(threeQuotes())
	assert.Equal(t, "q2", s.Current().ID)
	assert.Equal(t, []int{3, 3}, draws)

	// Reading the quote never redraws
	s.Current()
	s.Current()
	assert.Len(t, draws, 2)
}

func TestRandomPoolIncludesNewQuote(t *testing.T) {
	s := NewSelector(ModeRandom, 0)
	var pool int
	s.SetRand(func(n int) int {
		pool = n
		return n - 1
	})

	s.Recompute(nil)
	assert.Equal(t, 3, pool, "defaults when nothing is stored")
	assert.Equal(t, "default-quote-3", s.Current().ID)

	s.Recompute([]model.Quote{{ID: "mine", Text: "custom"}})
	assert.Equal(t, 1, pool)
	assert.Equal(t, "custom", s.Current().Text)
}

func TestSelectSwitchesToFixed(t *testing.T) {
	s := NewSelector(ModeRandom, 0)
	s.Recompute(threeQuotes())

	require.NoError(t, s.Select(1))
	assert.Equal(t, ModeFixed, s.Mode())
	assert.Equal(t, "q1", s.Current().ID)

	assert.ErrorIs(t, s.Select(3), model.ErrInvalidIndex)
	assert.ErrorIs(t, s.Select(-1), model.ErrInvalidIndex)
}

func TestEditPreview(t *testing.T) {
	s := NewSelector(ModeFixed, 1)
	s.Recompute(threeQuotes())

	s.BeginEdit("q1", "one")
	s.SetEditText("one, revised")
	assert.Equal(t, "one, revised", s.Current().Text)
	assert.Equal(t, "one, revised", s.Quotes()[1].Text)

	id, editing := s.Editing()
	assert.True(t, editing)
	assert.Equal(t, "q1", id)

	s.EndEdit()
	assert.Equal(t, "one", s.Current().Text)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("fixed")
	require.NoError(t, err)
	assert.Equal(t, ModeFixed, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeRandom, m)

	_, err = ParseMode("daily")
	assert.Error(t, err)
}
