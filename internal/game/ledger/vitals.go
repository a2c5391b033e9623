package ledger

import (
	"maps"
	"slices"
)

// Axis is one of the four personality dimensions.
type Axis string

const (
	Empathy Axis = "Empathy"
	Cunning Axis = "Cunning"
	Resolve Axis = "Resolve"
	Lore    Axis = "Lore"
)

var Axes = []Axis{Empathy, Cunning, Resolve, Lore}

func (a Axis) Valid() bool {
	return slices.Contains(Axes, a)
}

const (
	VitalMin = 0
	VitalMax = 100

	BasePersonalityScore = 5
	InitialLeanBonus     = 2
)

// Vitals tracks the bounded vein strain and echo exposure counters and the
// unbounded, non-negative personality scores.
type Vitals struct {
	Strain      int          `json:"strain"`
	Exposure    int          `json:"exposure"`
	Personality map[Axis]int `json:"personality"`
}

func NewVitals(initialLean Axis) Vitals {
	v := Vitals{Personality: make(map[Axis]int, len(Axes))}
	for _, a := range Axes {
		v.Personality[a] = BasePersonalityScore
	}
	if initialLean.Valid() {
		v.Personality[initialLean] += InitialLeanBonus
	}
	return v
}

func (v Vitals) clone() Vitals {
	v.Personality = maps.Clone(v.Personality)
	if v.Personality == nil {
		v.Personality = map[Axis]int{}
	}
	return v
}

func clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}
