package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

func newSaves(t *testing.T) *Saves {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s, err := NewSaves(db)
	require.NoError(t, err)
	return s
}

func sampleSave(id string, at time.Time) game.Save {
	store := ledger.New([]string{"The Harmonists", "The Purists"}, ledger.Cunning)
	store.AddItem(ledger.Item{Name: "Torn Cloak", Description: "Frayed", Category: ledger.CategoryConsumable})
	_, _ = store.AdjustReputation("The Harmonists", 1, "sheltered a stranger")
	store.AppendJournal("Debts", "I owe Ilse.", ledger.ThreadNew)
	store.PutLocation("Docks", ledger.Location{Description: "Wet", X: 12.5, Y: 80})
	store.PutPerson("Ilse", ledger.Person{Description: "Courier", Faction: "The Harmonists"})
	_, _ = store.Unlock(ledger.KnowledgeNation, "Veyra")
	store.AdjustVitals(15, 3)
	store.Act = 2

	return game.Save{
		SessionID: id,
		Character: game.DefaultCharacter(),
		History: game.NewHistory(game.Turn{
			Action:    "Flee into the alley",
			Narrative: "You run into the dark alley.",
			Directives: directive.List{
				directive.ItemUpdate{Action: directive.ItemAdd, Name: "Torn Cloak", Category: ledger.CategoryConsumable},
				directive.ReputationUpdate{Faction: "The Harmonists", Change: 1},
				directive.SoundCue{Name: "sword_clash"},
			},
		}),
		Ledgers: store,
		Scene: game.Scene{
			ImagePrompt: "alley",
			Choices:     []game.Choice{{Text: "Hide", Lean: ledger.Cunning}},
			Image:       []byte{0x89, 0x50, 0x4e, 0x47},
		},
		SavedAt: at,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newSaves(t)
	ctx := context.Background()
	in := sampleSave("session-1", time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))

	require.NoError(t, s.Save(ctx, in))
	out, err := s.Load(ctx, "session-1")
	require.NoError(t, err)

	assert.Equal(t, in.SessionID, out.SessionID)
	assert.Equal(t, in.Character, out.Character)
	assert.Equal(t, in.History.Turns(), out.History.Turns())
	assert.Equal(t, in.Ledgers, out.Ledgers)
	assert.Equal(t, in.Scene, out.Scene)
	assert.True(t, in.SavedAt.Equal(out.SavedAt))
}

func TestSaveOverwritesSession(t *testing.T) {
	s := newSaves(t)
	ctx := context.Background()

	first := sampleSave("session-1", time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, s.Save(ctx, first))

	second := sampleSave("session-1", time.Date(2025, 5, 1, 11, 0, 0, 0, time.UTC))
	second.History.Append(game.Turn{Action: "Hide", Narrative: "You wait."})
	require.NoError(t, s.Save(ctx, second))

	out, err := s.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 2, out.History.Len())

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Turns)
	assert.Equal(t, 2, list[0].Act)
	assert.Equal(t, "Kael", list[0].Character)
}

func TestLatest(t *testing.T) {
	s := newSaves(t)
	ctx := context.Background()

	_, err := s.Latest(ctx)
	assert.ErrorIs(t, err, ErrNoSave)

	require.NoError(t, s.Save(ctx, sampleSave("old", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, s.Save(ctx, sampleSave("new", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))))

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", latest.SessionID)
}

func TestLoadMissing(t *testing.T) {
	s := newSaves(t)
	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNoSave)
	assert.ErrorIs(t, s.Delete(context.Background(), "nope"), ErrNoSave)
}

func TestSaveRequiresSession(t *testing.T) {
	s := newSaves(t)
	assert.Error(t, s.Save(context.Background(), game.Save{}))
}
