package game

import (
	"fmt"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

// Character is the player profile fixed at creation time. Evolving
// personality scores live in the vitals ledger, not here.
type Character struct {
	Name             string      `json:"name"`
	Gender           string      `json:"gender"`
	Background       string      `json:"background"`
	AwakenedAffinity string      `json:"awakenedAffinity"`
	DormantAffinity  string      `json:"dormantAffinity"`
	InitialLean      ledger.Axis `json:"initialLean"`
	VisualMark       string      `json:"visualMark"`
}

var affinityRarity = map[string]string{
	"Emberflow":   "Common",
	"Stoneflow":   "Common",
	"Tideflow":    "Common",
	"Zephyrflow":  "Common",
	"Bloomflow":   "Uncommon",
	"Stormflow":   "Uncommon",
	"Shadeflow":   "Uncommon",
	"Crystalflow": "Uncommon",
	"Aetherflow":  "Rare",
	"Chronoflow":  "Rare",
	"Soulflow":    "Rare",
}

// Rarity reports how uncommon an affinity is, or "Unknown".
func Rarity(affinity string) string {
	if r, ok := affinityRarity[affinity]; ok {
		return r
	}
	return "Unknown"
}

func (c Character) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("character has no name")
	}
	if !c.InitialLean.Valid() {
		return fmt.Errorf("character %s: unknown initial lean %q", c.Name, c.InitialLean)
	}
	return nil
}

// DefaultCharacter is used when no save exists and no profile was supplied.
func DefaultCharacter() Character {
	return Character{
		Name:             "Kael",
		Gender:           "Nonbinary",
		Background:       "Wanderer's Child",
		AwakenedAffinity: "Zephyrflow",
		DormantAffinity:  "Chronoflow",
		InitialLean:      ledger.Cunning,
		VisualMark:       "Arms",
	}
}
