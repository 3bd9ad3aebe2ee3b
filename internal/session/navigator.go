// Package session implements the live-session state: the card
// navigator, the completion/assignment state keyed by step id, and the
// completion detector that triggers meal finalization exactly once.
package session

import (
	"math"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

// Gesture thresholds, in card-widths. A drag moves the pointer when
// either the normalized distance or the release velocity clears its
// threshold; otherwise the navigator snaps back.
const (
	dragThreshold     = 0.3
	velocityThreshold = 0.5 // card-widths per second
)

// Navigator holds the current step pointer over the latest deck.
// MoveBy and JumpToID never fail: out-of-range moves clamp, unknown ids
// are a no-op. Not safe for concurrent use; the session loop owns it.
type Navigator struct {
	deck []domain.Step
	idx  int
	log  *logger.Logger
}

// NewNavigator creates a navigator positioned on the first step.
func NewNavigator(deck []domain.Step, log *logger.Logger) *Navigator {
	return &Navigator{deck: deck, log: log}
}

// Deck returns the deck the navigator is currently bound to.
func (n *Navigator) Deck() []domain.Step { return n.deck }

// Len returns the deck length.
func (n *Navigator) Len() int { return len(n.deck) }

// Index returns the current position. Valid only against the deck the
// navigator is currently bound to; never persist it across rebuilds.
func (n *Navigator) Index() int { return n.idx }

// Current returns the step under the pointer.
func (n *Navigator) Current() domain.Step {
	if len(n.deck) == 0 {
		return domain.Step{}
	}
	return n.deck[n.idx]
}

// MoveBy shifts the pointer by delta, clamped to [0, len-1].
func (n *Navigator) MoveBy(delta int) {
	n.idx = clamp(n.idx+delta, 0, len(n.deck)-1)
}

// JumpToID resolves the step's index in the latest deck and moves
// there. Unknown ids are a silent no-op — they cannot normally happen
// since step ids are stable.
func (n *Navigator) JumpToID(stepID string) {
	for i, s := range n.deck {
		if s.ID == stepID {
			n.idx = i
			return
		}
	}
	n.log.Debug("navigator: jump to unknown step id %q ignored", stepID)
}

// Swipe translates a directional gesture into a single-card move.
// offset is the normalized drag distance in card-widths (positive
// toward the next card), velocity the release speed in card-widths per
// second. Returns true if the pointer moved, false on snap-back.
func (n *Navigator) Swipe(offset, velocity float64) bool {
	if math.Abs(offset) <= dragThreshold && math.Abs(velocity) <= velocityThreshold {
		return false
	}

	dir := offset
	if dir == 0 {
		dir = velocity
	}
	before := n.idx
	if dir > 0 {
		n.MoveBy(1)
	} else {
		n.MoveBy(-1)
	}
	return n.idx != before
}

// Rebind points the navigator at a freshly built deck, preserving the
// logical position by step id. The deck can (in theory) change size;
// if the current id vanished the index is clamped instead.
func (n *Navigator) Rebind(deck []domain.Step) {
	currentID := ""
	if len(n.deck) > 0 {
		currentID = n.deck[n.idx].ID
	}

	n.deck = deck
	n.idx = clamp(n.idx, 0, len(deck)-1)
	if currentID != "" {
		n.JumpToID(currentID)
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
