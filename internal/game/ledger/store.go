// Package ledger holds the game's persistent collections: journal, faction
// reputation, registry of people, inventory, world map, character vitals,
// unlocked knowledge and the current act.
//
// A Store has no locking of its own. The orchestrator owns the live store and
// replaces it wholesale with the snapshot returned by the dispatcher.
package ledger

import (
	"maps"
	"slices"
)

type ThreadStatus string

const (
	ThreadNew       ThreadStatus = "new"
	ThreadUpdated   ThreadStatus = "updated"
	ThreadCompleted ThreadStatus = "completed"
)

func (s ThreadStatus) Valid() bool {
	switch s {
	case ThreadNew, ThreadUpdated, ThreadCompleted:
		return true
	}
	return false
}

type Thread struct {
	Entries []string     `json:"entries"`
	Status  ThreadStatus `json:"status"`
}

type Standing struct {
	Score   int      `json:"score"`
	History []string `json:"history"`
}

// Person is the player's current understanding of someone they have met.
type Person struct {
	Description string `json:"description"`
	Faction     string `json:"faction"`
	Role        string `json:"role,omitempty"`
	Disposition string `json:"disposition,omitempty"`
	Motivation  string `json:"motivation,omitempty"`
}

type ItemCategory string

const (
	CategoryKeyItem    ItemCategory = "Key Item"
	CategoryConsumable ItemCategory = "Consumable"
	CategoryDocument   ItemCategory = "Document"
)

func (c ItemCategory) Valid() bool {
	switch c {
	case CategoryKeyItem, CategoryConsumable, CategoryDocument:
		return true
	}
	return false
}

type Item struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    ItemCategory `json:"category"`
}

// Location is a discovered place. X and Y are map percentages in [0,100].
type Location struct {
	Description string  `json:"description"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

type KnowledgeCategory string

const (
	KnowledgeFaction  KnowledgeCategory = "faction"
	KnowledgeNation   KnowledgeCategory = "nation"
	KnowledgeAffinity KnowledgeCategory = "affinity"
)

func (k KnowledgeCategory) Valid() bool {
	switch k {
	case KnowledgeFaction, KnowledgeNation, KnowledgeAffinity:
		return true
	}
	return false
}

const FirstAct = 1

type Store struct {
	Journal    map[string]Thread              `json:"journal"`
	Reputation map[string]Standing            `json:"reputation"`
	People     map[string]Person              `json:"people"`
	Inventory  []Item                         `json:"inventory"`
	World      map[string]Location            `json:"world"`
	Vitals     Vitals                         `json:"vitals"`
	Knowledge  map[KnowledgeCategory][]string `json:"knowledge"`
	Act        int                            `json:"act"`
}

// New returns a fresh store for the start of a game. Every faction starts at
// a score of zero; initialLean, when set, receives the creation bonus.
func New(factions []string, initialLean Axis) *Store {
	s := &Store{
		Journal:    map[string]Thread{},
		Reputation: make(map[string]Standing, len(factions)),
		People:     map[string]Person{},
		Inventory:  []Item{},
		World:      map[string]Location{},
		Vitals:     NewVitals(initialLean),
		Knowledge: map[KnowledgeCategory][]string{
			KnowledgeFaction:  {},
			KnowledgeNation:   {},
			KnowledgeAffinity: {},
		},
		Act: FirstAct,
	}
	for _, f := range factions {
		s.Reputation[f] = Standing{Score: 0, History: []string{}}
	}
	return s
}

// Clone returns a deep copy; mutating the copy never affects s.
func (s *Store) Clone() *Store {
	c := &Store{
		Journal:    make(map[string]Thread, len(s.Journal)),
		Reputation: make(map[string]Standing, len(s.Reputation)),
		People:     maps.Clone(s.People),
		Inventory:  slices.Clone(s.Inventory),
		World:      maps.Clone(s.World),
		Vitals:     s.Vitals.clone(),
		Knowledge:  make(map[KnowledgeCategory][]string, len(s.Knowledge)),
		Act:        s.Act,
	}
	for k, t := range s.Journal {
		c.Journal[k] = Thread{Entries: slices.Clone(t.Entries), Status: t.Status}
	}
	for k, r := range s.Reputation {
		c.Reputation[k] = Standing{Score: r.Score, History: slices.Clone(r.History)}
	}
	for k, keys := range s.Knowledge {
		c.Knowledge[k] = slices.Clone(keys)
	}
	if c.People == nil {
		c.People = map[string]Person{}
	}
	if c.World == nil {
		c.World = map[string]Location{}
	}
	return c
}
