package game

import (
	"encoding/json"
	"strings"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
)

// Turn is one resolved player action. Narrative only grows while the turn is
// streaming and is left alone once committed.
type Turn struct {
	Action     string         `json:"action"`
	Narrative  string         `json:"narrative"`
	Directives directive.List `json:"directives,omitempty"`
}

// History is the append-only story log. The only removal it supports is
// retracting the last, still optimistic, entry.
type History struct {
	turns []Turn
}

func NewHistory(turns ...Turn) *History {
	h := &History{turns: make([]Turn, 0, len(turns))}
	h.turns = append(h.turns, turns...)
	return h
}

func (h *History) Append(t Turn) {
	h.turns = append(h.turns, t)
}

// SetNarrative replaces the narrative of the last entry.
func (h *History) SetNarrative(narrative string) bool {
	if len(h.turns) == 0 {
		return false
	}
	h.turns[len(h.turns)-1].Narrative = narrative
	return true
}

func (h *History) Attach(ds directive.List) bool {
	if len(h.turns) == 0 {
		return false
	}
	h.turns[len(h.turns)-1].Directives = ds
	return true
}

func (h *History) RetractLast() (Turn, bool) {
	if len(h.turns) == 0 {
		return Turn{}, false
	}
	last := h.turns[len(h.turns)-1]
	h.turns = h.turns[:len(h.turns)-1]
	return last, true
}

func (h *History) Len() int {
	return len(h.turns)
}

func (h *History) Last() (Turn, bool) {
	if len(h.turns) == 0 {
		return Turn{}, false
	}
	return h.turns[len(h.turns)-1], true
}

func (h *History) Turns() []Turn {
	result := make([]Turn, len(h.turns))
	copy(result, h.turns)
	return result
}

func (h *History) Clone() *History {
	return NewHistory(h.turns...)
}

// Transcript renders the most recent turns as prompt text. A window of zero
// or less includes everything.
func (h *History) Transcript(window int) string {
	turns := h.turns
	if window > 0 && len(turns) > window {
		turns = turns[len(turns)-window:]
	}
	blocks := make([]string, 0, len(turns))
	for _, t := range turns {
		blocks = append(blocks, "> "+t.Action+"\n"+t.Narrative)
	}
	return strings.Join(blocks, "\n\n")
}

func (h *History) MarshalJSON() ([]byte, error) {
	if h == nil || h.turns == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h.turns)
}

func (h *History) UnmarshalJSON(data []byte) error {
	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return err
	}
	h.turns = turns
	return nil
}
