package ledger

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrUnknownFaction  = errors.New("unknown faction")
	ErrUnknownAxis     = errors.New("unknown personality axis")
	ErrActRegression   = errors.New("act cannot move backwards")
	ErrUnknownCategory = errors.New("unknown knowledge category")
)

// AppendJournal adds entry to thread, creating the thread if needed, and sets
// its status. It reports whether the thread was created.
func (s *Store) AppendJournal(thread, entry string, status ThreadStatus) bool {
	t, exists := s.Journal[thread]
	if !exists {
		t = Thread{Entries: []string{}, Status: ThreadNew}
	}
	if entry != "" {
		t.Entries = append(slices.Clip(t.Entries), entry)
	}
	if status != "" {
		t.Status = status
	}
	s.Journal[thread] = t
	return !exists
}

// AdjustReputation applies a signed delta to a tracked faction. Scores are
// unbounded.
func (s *Store) AdjustReputation(faction string, delta int, reason string) (Standing, error) {
	r, exists := s.Reputation[faction]
	if !exists {
		return Standing{}, fmt.Errorf("%w: %q", ErrUnknownFaction, faction)
	}
	r.Score += delta
	if reason != "" {
		r.History = append(slices.Clip(r.History), reason)
	}
	s.Reputation[faction] = r
	return r, nil
}

// PutPerson inserts or fully replaces a profile.
func (s *Store) PutPerson(name string, p Person) bool {
	_, exists := s.People[name]
	s.People[name] = p
	return !exists
}

func (s *Store) ItemIndex(name string) int {
	return slices.IndexFunc(s.Inventory, func(it Item) bool { return it.Name == name })
}

// AddItem inserts an item or replaces the one with the same name in place.
func (s *Store) AddItem(it Item) bool {
	if i := s.ItemIndex(it.Name); i >= 0 {
		s.Inventory = slices.Clone(s.Inventory)
		s.Inventory[i] = it
		return false
	}
	s.Inventory = append(slices.Clip(s.Inventory), it)
	return true
}

// RemoveItem deletes an item by name. Removing an absent item does nothing.
func (s *Store) RemoveItem(name string) bool {
	i := s.ItemIndex(name)
	if i < 0 {
		return false
	}
	s.Inventory = slices.Delete(slices.Clone(s.Inventory), i, i+1)
	return true
}

// PutLocation inserts or replaces a map location, pinning its coordinates to
// the map bounds.
func (s *Store) PutLocation(name string, loc Location) bool {
	loc.X = min(max(loc.X, 0), 100)
	loc.Y = min(max(loc.Y, 0), 100)
	_, exists := s.World[name]
	s.World[name] = loc
	return !exists
}

// AdjustVitals applies relative deltas and clamps both counters to
// [VitalMin, VitalMax].
func (s *Store) AdjustVitals(strainDelta, exposureDelta int) {
	s.Vitals.Strain = clamp(s.Vitals.Strain+strainDelta, VitalMin, VitalMax)
	s.Vitals.Exposure = clamp(s.Vitals.Exposure+exposureDelta, VitalMin, VitalMax)
}

// AdjustPersonality applies a relative delta to one axis. Scores never drop
// below zero.
func (s *Store) AdjustPersonality(axis Axis, delta int) (int, error) {
	if !axis.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAxis, axis)
	}
	if s.Vitals.Personality == nil {
		s.Vitals.Personality = map[Axis]int{}
	}
	n := max(s.Vitals.Personality[axis]+delta, 0)
	s.Vitals.Personality[axis] = n
	return n, nil
}

// Unlock adds key to the category's set and reports whether it was new.
func (s *Store) Unlock(category KnowledgeCategory, key string) (bool, error) {
	if !category.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	keys := s.Knowledge[category]
	if slices.Contains(keys, key) {
		return false, nil
	}
	s.Knowledge[category] = append(slices.Clip(keys), key)
	return true, nil
}

func (s *Store) Unlocked(category KnowledgeCategory, key string) bool {
	return slices.Contains(s.Knowledge[category], key)
}

// AdvanceAct moves the story to act n. Staying in the current act is a no-op;
// going back is an error.
func (s *Store) AdvanceAct(n int) (bool, error) {
	switch {
	case n < s.Act:
		return false, fmt.Errorf("%w: act %d is behind act %d", ErrActRegression, n, s.Act)
	case n == s.Act:
		return false, nil
	}
	s.Act = n
	return true, nil
}
