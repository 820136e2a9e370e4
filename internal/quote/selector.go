// Package quote picks the line shown at the top of the dashboard
package quote

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/dori/slowly/internal/model"
)

// Mode controls how the quote is chosen
type Mode string

const (
	ModeRandom Mode = "random"
	ModeFixed  Mode = "fixed"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeRandom, ModeFixed:
		return Mode(s), nil
	case "":
		return ModeRandom, nil
	}
	return "", fmt.Errorf("unknown quote mode %q (want random or fixed)", s)
}

// Selector holds the displayed quote. It only changes when Recompute or one
// of the edit preview calls runs; there is no timer.
type Selector struct {
	mu         sync.Mutex
	mode       Mode
	fixedIndex int
	intn       func(n int) int

	quotes  []model.Quote
	current int

	editID   string
	editText string
}

// NewSelector creates a selector in the given mode
func NewSelector(mode Mode, fixedIndex int) *Selector {
	if fixedIndex < 0 {
		fixedIndex = 0
	}
	return &Selector{
		mode:       mode,
		fixedIndex: fixedIndex,
		intn:       rand.IntN,
		quotes:     model.DefaultQuotes(),
	}
}

// SetRand replaces the random source, for tests
func (s *Selector) SetRand(intn func(n int) int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intn = intn
}

// Mode returns the current mode
func (s *Selector) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// FixedIndex returns the last explicit selection
func (s *Selector) FixedIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fixedIndex
}

// Recompute picks the quote from the stored quotes, falling back to the
// built-in defaults when there are none. Call it when the quote collection
// changes, when the mode changes and when the dashboard is shown again.
func (s *Selector) Recompute(stored []model.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotes = model.EffectiveQuotes(stored)
	s.pick()
}

func (s *Selector) pick() {
	switch s.mode {
	case ModeFixed:
		s.current = s.fixedIndex
		if s.current < 0 || s.current >= len(s.quotes) {
			s.current = 0
		}
	default:
		s.current = s.intn(len(s.quotes))
	}
}

// SetMode switches modes and recomputes
func (s *Selector) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.pick()
}

// Select pins the quote at index and switches to fixed mode
func (s *Selector) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.quotes) {
		return model.ErrInvalidIndex
	}
	s.fixedIndex = index
	s.mode = ModeFixed
	s.pick()
	return nil
}

// QuoteDeleted adjusts the fixed index after the quote at index was removed
// so the same quote stays selected when an earlier one goes away.
func (s *Selector) QuoteDeleted(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index <= s.fixedIndex && s.fixedIndex > 0 {
		s.fixedIndex--
	}
}

// Current returns the quote to display, with any in-progress edit applied
func (s *Selector) Current() model.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.quotes) == 0 {
		return model.Quote{}
	}
	q := s.quotes[s.current]
	if s.editID != "" && q.ID == s.editID {
		q.Text = s.editText
	}
	return q
}

// Index returns the position of the displayed quote in the effective list
func (s *Selector) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Quotes returns the effective list with any in-progress edit applied
func (s *Selector) Quotes() []model.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]model.Quote(nil), s.quotes...)
	for i := range out {
		if s.editID != "" && out[i].ID == s.editID {
			out[i].Text = s.editText
		}
	}
	return out
}

// BeginEdit starts a live preview for the quote with id
func (s *Selector) BeginEdit(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editID = id
	s.editText = text
}

// SetEditText updates the preview text
func (s *Selector) SetEditText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editID != "" {
		s.editText = text
	}
}

// EndEdit drops the preview. The stored text shows again until the next
// snapshot carries the saved edit.
func (s *Selector) EndEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editID = ""
	s.editText = ""
}

// Editing returns the id of the quote being previewed
func (s *Selector) Editing() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editID, s.editID != ""
}
