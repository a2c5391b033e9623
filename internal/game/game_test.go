package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

func TestHistoryOptimisticTurn(t *testing.T) {
	h := NewHistory(Turn{Action: "Wake", Narrative: "Rain."})
	h.Append(Turn{Action: "Flee into the alley"})

	require.True(t, h.SetNarrative("You run"))
	require.True(t, h.SetNarrative("You run into the dark."))
	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, "You run into the dark.", last.Narrative)

	retracted, ok := h.RetractLast()
	require.True(t, ok)
	assert.Equal(t, "Flee into the alley", retracted.Action)
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, "Rain.", h.Turns()[0].Narrative)
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory()
	assert.False(t, h.SetNarrative("x"))
	assert.False(t, h.Attach(nil))
	_, ok := h.RetractLast()
	assert.False(t, ok)
	assert.Equal(t, "", h.Transcript(0))
}

func TestHistoryTurnsIsCopy(t *testing.T) {
	h := NewHistory(Turn{Action: "a"})
	turns := h.Turns()
	turns[0].Action = "changed"
	assert.Equal(t, "a", h.Turns()[0].Action)
}

func TestTranscriptWindow(t *testing.T) {
	h := NewHistory(
		Turn{Action: "one", Narrative: "1"},
		Turn{Action: "two", Narrative: "2"},
		Turn{Action: "three", Narrative: "3"},
	)
	assert.Equal(t, "> two\n2\n\n> three\n3", h.Transcript(2))
	assert.Equal(t, "> one\n1\n\n> two\n2\n\n> three\n3", h.Transcript(0))
}

func TestSceneLeanFor(t *testing.T) {
	s := Scene{Choices: []Choice{
		{Text: "Comfort the child", Lean: ledger.Empathy},
		{Text: "Walk away", Lean: NeutralLean},
	}}

	lean, ok := s.LeanFor("  comfort the child ")
	require.True(t, ok)
	assert.Equal(t, ledger.Empathy, lean)

	_, ok = s.LeanFor("Walk away")
	assert.False(t, ok)
	_, ok = s.LeanFor("Dance")
	assert.False(t, ok)
}

func TestSceneWantsImage(t *testing.T) {
	assert.True(t, Scene{ImagePrompt: "alley"}.WantsImage())
	assert.False(t, Scene{ImagePrompt: "  "}.WantsImage())
	assert.False(t, Scene{ImagePrompt: "alley", GameOver: true}.WantsImage())
}

func TestSaveRoundTrip(t *testing.T) {
	store := ledger.New([]string{"The Harmonists"}, ledger.Resolve)
	store.AddItem(ledger.Item{Name: "Torn Cloak", Category: ledger.CategoryConsumable})

	in := Save{
		SessionID: "s-1",
		Character: DefaultCharacter(),
		History: NewHistory(Turn{
			Action:    "Flee into the alley",
			Narrative: "You run.",
			Directives: directive.List{
				directive.ItemUpdate{Action: directive.ItemAdd, Name: "Torn Cloak", Category: ledger.CategoryConsumable},
			},
		}),
		Ledgers: store,
		Scene:   Scene{ImagePrompt: "alley", Choices: []Choice{{Text: "Hide", Lean: ledger.Cunning}}},
		SavedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Save
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.History.Turns(), out.History.Turns())
	assert.Equal(t, in.Ledgers, out.Ledgers)
	assert.Equal(t, in.Scene, out.Scene)
	assert.Equal(t, in.Character, out.Character)
	assert.True(t, in.SavedAt.Equal(out.SavedAt))
}

func TestCharacterValidate(t *testing.T) {
	assert.NoError(t, DefaultCharacter().Validate())
	assert.Error(t, Character{Name: "x", InitialLean: "Charm"}.Validate())
	assert.Equal(t, "Rare", Rarity("Chronoflow"))
	assert.Equal(t, "Unknown", Rarity("Pastaflow"))
}
