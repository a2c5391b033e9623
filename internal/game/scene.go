package game

import (
	"strings"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

// NeutralLean marks a choice that favours no personality axis.
const NeutralLean ledger.Axis = "Neutral"

type Choice struct {
	Text string      `json:"text"`
	Lean ledger.Axis `json:"lean,omitempty"`
}

// Scene is the presentational part of a turn's payload.
type Scene struct {
	ImagePrompt       string   `json:"imagePrompt,omitempty"`
	Choices           []Choice `json:"choices,omitempty"`
	GameOver          bool     `json:"gameOver,omitempty"`
	EndingDescription string   `json:"endingDescription,omitempty"`
	AllowCustomAction bool     `json:"allowCustomAction,omitempty"`
	Image             []byte   `json:"image,omitempty"`
}

// LeanFor returns the personality axis of the choice whose text matches
// action, if that choice carries one.
func (s Scene) LeanFor(action string) (ledger.Axis, bool) {
	action = strings.TrimSpace(action)
	for _, c := range s.Choices {
		if strings.EqualFold(strings.TrimSpace(c.Text), action) && c.Lean.Valid() {
			return c.Lean, true
		}
	}
	return "", false
}

// WantsImage reports whether the scene should be illustrated.
func (s Scene) WantsImage() bool {
	return !s.GameOver && strings.TrimSpace(s.ImagePrompt) != ""
}

func (s Scene) Clone() Scene {
	out := s
	out.Choices = append([]Choice(nil), s.Choices...)
	out.Image = append([]byte(nil), s.Image...)
	return out
}
