package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFactions = []string{"The Harmonists", "The Purists"}

func TestNewSeedsFactionsAndPersonality(t *testing.T) {
	s := New(testFactions, Cunning)

	assert.Equal(t, FirstAct, s.Act)
	assert.Equal(t, Standing{Score: 0, History: []string{}}, s.Reputation["The Harmonists"])
	assert.Equal(t, BasePersonalityScore+InitialLeanBonus, s.Vitals.Personality[Cunning])
	assert.Equal(t, BasePersonalityScore, s.Vitals.Personality[Lore])
	assert.Empty(t, s.Knowledge[KnowledgeNation])
}

func TestCloneIsDeep(t *testing.T) {
	s := New(testFactions, "")
	s.AppendJournal("An Unwelcome Awakening", "I woke in the rain.", ThreadNew)
	s.AddItem(Item{Name: "Torn Cloak", Category: CategoryConsumable})

	c := s.Clone()
	c.AppendJournal("An Unwelcome Awakening", "Someone is following me.", ThreadUpdated)
	_, err := c.AdjustReputation("The Purists", -3, "I defied them")
	require.NoError(t, err)
	c.RemoveItem("Torn Cloak")
	_, err = c.AdjustPersonality(Lore, 4)
	require.NoError(t, err)
	_, err = c.Unlock(KnowledgeNation, "Veyra")
	require.NoError(t, err)

	assert.Len(t, s.Journal["An Unwelcome Awakening"].Entries, 1)
	assert.Equal(t, ThreadNew, s.Journal["An Unwelcome Awakening"].Status)
	assert.Equal(t, 0, s.Reputation["The Purists"].Score)
	assert.Empty(t, s.Reputation["The Purists"].History)
	assert.Len(t, s.Inventory, 1)
	assert.Equal(t, BasePersonalityScore, s.Vitals.Personality[Lore])
	assert.False(t, s.Unlocked(KnowledgeNation, "Veyra"))
}

func TestAppendJournal(t *testing.T) {
	s := New(nil, "")

	assert.True(t, s.AppendJournal("Ledger of Debts", "I owe the broker.", ThreadNew))
	assert.False(t, s.AppendJournal("Ledger of Debts", "The debt is paid.", ThreadCompleted))

	th := s.Journal["Ledger of Debts"]
	assert.Equal(t, []string{"I owe the broker.", "The debt is paid."}, th.Entries)
	assert.Equal(t, ThreadCompleted, th.Status)
}

func TestReputationIsUnbounded(t *testing.T) {
	s := New(testFactions, "")
	s.Reputation["The Harmonists"] = Standing{Score: 10, History: []string{}}

	r, err := s.AdjustReputation("The Harmonists", -150, "betrayal")
	require.NoError(t, err)
	assert.Equal(t, -140, r.Score)
	assert.Equal(t, []string{"betrayal"}, r.History)

	_, err = s.AdjustReputation("The Gardeners", 1, "")
	assert.ErrorIs(t, err, ErrUnknownFaction)
}

func TestVitalsClamp(t *testing.T) {
	s := New(nil, "")
	s.Vitals.Strain = 10
	s.Vitals.Exposure = 95

	s.AdjustVitals(-150, 20)
	assert.Equal(t, 0, s.Vitals.Strain)
	assert.Equal(t, VitalMax, s.Vitals.Exposure)

	n, err := s.AdjustPersonality(Empathy, -50)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = s.AdjustPersonality(Empathy, 300)
	require.NoError(t, err)
	assert.Equal(t, 300, n)

	_, err = s.AdjustPersonality("Charm", 1)
	assert.ErrorIs(t, err, ErrUnknownAxis)
}

func TestInventory(t *testing.T) {
	s := New(nil, "")

	assert.True(t, s.AddItem(Item{Name: "Sealed Letter", Description: "wax", Category: CategoryDocument}))
	assert.True(t, s.AddItem(Item{Name: "Vial", Category: CategoryConsumable}))
	assert.False(t, s.AddItem(Item{Name: "Sealed Letter", Description: "opened", Category: CategoryDocument}))

	require.Len(t, s.Inventory, 2)
	assert.Equal(t, "opened", s.Inventory[0].Description)

	assert.False(t, s.RemoveItem("Ghost"))
	assert.True(t, s.RemoveItem("Sealed Letter"))
	assert.Equal(t, []Item{{Name: "Vial", Category: CategoryConsumable}}, s.Inventory)
}

func TestPutLocationPinsCoordinates(t *testing.T) {
	s := New(nil, "")

	assert.True(t, s.PutLocation("Ardelane Docks", Location{Description: "wet", X: 120, Y: -4}))
	assert.Equal(t, Location{Description: "wet", X: 100, Y: 0}, s.World["Ardelane Docks"])
	assert.False(t, s.PutLocation("Ardelane Docks", Location{Description: "drier", X: 40, Y: 60}))
}

func TestUnlockIsIdempotent(t *testing.T) {
	s := New(nil, "")

	added, err := s.Unlock(KnowledgeAffinity, "Chronoflow")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Unlock(KnowledgeAffinity, "Chronoflow")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []string{"Chronoflow"}, s.Knowledge[KnowledgeAffinity])

	_, err = s.Unlock("recipe", "x")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestAdvanceAct(t *testing.T) {
	s := New(nil, "")

	changed, err := s.AdvanceAct(1)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = s.AdvanceAct(3)
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = s.AdvanceAct(2)
	assert.ErrorIs(t, err, ErrActRegression)
	assert.Equal(t, 3, s.Act)
}
