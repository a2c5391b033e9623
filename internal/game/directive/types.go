// Package directive defines the structured state changes that follow a
// turn's narrative. Every kind is its own type; payloads are decoded and
// validated here so later stages only ever see well-formed values or an
// explicit Invalid placeholder.
package directive

import (
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

type Kind string

const (
	KindJournal      Kind = "journal-update"
	KindReputation   Kind = "reputation-update"
	KindLocation     Kind = "location-update"
	KindAct          Kind = "act-transition"
	KindPerson       Kind = "person-update"
	KindItem         Kind = "item-update"
	KindStats        Kind = "stats-update"
	KindKnowledge    Kind = "knowledge-unlock"
	KindSound        Kind = "sound-cue"
	KindAmbient      Kind = "ambient-cue"
	KindVisualEffect Kind = "visual-effect-cue"
	KindInvalid      Kind = "invalid"
)

// Directive is implemented only by the types in this package.
type Directive interface {
	Kind() Kind
	Validate() error
	sealed()
}

// Cue is a directive aimed at the audio and animation surfaces rather than a
// ledger.
type Cue interface {
	Directive
	cue()
}

type JournalUpdate struct {
	Thread string              `json:"thread"`
	Entry  string              `json:"entry"`
	Status ledger.ThreadStatus `json:"status,omitempty"`
}

type ReputationUpdate struct {
	Faction string `json:"faction"`
	Change  int    `json:"change"`
	Reason  string `json:"reason,omitempty"`
}

type LocationUpdate struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

type ActTransition struct {
	NewAct int    `json:"newAct"`
	Reason string `json:"reason,omitempty"`
}

type PersonStatus string

const (
	PersonNew     PersonStatus = "new"
	PersonUpdated PersonStatus = "updated"
)

type PersonUpdate struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Faction     string       `json:"faction,omitempty"`
	Role        string       `json:"role,omitempty"`
	Disposition string       `json:"disposition,omitempty"`
	Motivation  string       `json:"motivation,omitempty"`
	Status      PersonStatus `json:"status,omitempty"`
}

// Profile returns the ledger entry described by the directive.
func (p PersonUpdate) Profile() ledger.Person {
	faction := p.Faction
	if faction == "" {
		faction = "Unknown"
	}
	return ledger.Person{
		Description: p.Description,
		Faction:     faction,
		Role:        p.Role,
		Disposition: p.Disposition,
		Motivation:  p.Motivation,
	}
}

type ItemAction string

const (
	ItemAdd    ItemAction = "add"
	ItemRemove ItemAction = "remove"
)

type ItemUpdate struct {
	Action      ItemAction          `json:"action"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Category    ledger.ItemCategory `json:"category,omitempty"`
}

// StatsUpdate carries relative changes to the character's vitals.
type StatsUpdate struct {
	StrainChange   int                 `json:"strainChange,omitempty"`
	ExposureChange int                 `json:"exposureChange,omitempty"`
	Personality    map[ledger.Axis]int `json:"personality,omitempty"`
	Reason         string              `json:"reason,omitempty"`
}

type KnowledgeUnlock struct {
	Category ledger.KnowledgeCategory `json:"category"`
	Key      string                   `json:"key"`
}

type SoundCue struct {
	Name string `json:"name"`
}

type AmbientCue struct {
	Track string `json:"track"`
}

type Intensity string

const (
	IntensitySubtle   Intensity = "subtle"
	IntensityPowerful Intensity = "powerful"
)

type VisualEffectCue struct {
	Intensity Intensity `json:"intensity"`
}

// Invalid stands in for a payload entry that could not be decoded into a
// directive. It keeps its position in the batch so the dispatcher can report
// it in order.
type Invalid struct {
	Declared Kind   `json:"declared,omitempty"`
	Reason   string `json:"reason"`
}

func (JournalUpdate) Kind() Kind    { return KindJournal }
func (ReputationUpdate) Kind() Kind { return KindReputation }
func (LocationUpdate) Kind() Kind   { return KindLocation }
func (ActTransition) Kind() Kind    { return KindAct }
func (PersonUpdate) Kind() Kind     { return KindPerson }
func (ItemUpdate) Kind() Kind       { return KindItem }
func (StatsUpdate) Kind() Kind      { return KindStats }
func (KnowledgeUnlock) Kind() Kind  { return KindKnowledge }
func (SoundCue) Kind() Kind         { return KindSound }
func (AmbientCue) Kind() Kind       { return KindAmbient }
func (VisualEffectCue) Kind() Kind  { return KindVisualEffect }
func (Invalid) Kind() Kind          { return KindInvalid }

func (JournalUpdate) sealed()    {}
func (ReputationUpdate) sealed() {}
func (LocationUpdate) sealed()   {}
func (ActTransition) sealed()    {}
func (PersonUpdate) sealed()     {}
func (ItemUpdate) sealed()       {}
func (StatsUpdate) sealed()      {}
func (KnowledgeUnlock) sealed()  {}
func (SoundCue) sealed()         {}
func (AmbientCue) sealed()       {}
func (VisualEffectCue) sealed()  {}
func (Invalid) sealed()          {}

func (SoundCue) cue()        {}
func (AmbientCue) cue()      {}
func (VisualEffectCue) cue() {}
