package narration

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

func chunks(parts ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, p := range parts {
			if !yield(p, nil) {
				return
			}
		}
	}
}

func run(t *testing.T, parts ...string) ([]string, *Payload, error) {
	t.Helper()
	var yields []string
	p, err := Decode(context.Background(), chunks(parts...), func(s string) {
		yields = append(yields, s)
	})
	return yields, p, err
}

func TestDecodeFleeIntoTheAlley(t *testing.T) {
	yields, p, err := run(t,
		"You run",
		" into the dark alley.|||JSON",
		`_START|||{"directives":[`,
		`{"kind":"item-update","action":"add","name":"Torn Cloak","category":"Consumable"},`,
		`{"kind":"reputation-update","faction":"The Harmonists","change":1}]}`,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"You run", "You run into the dark alley."}, yields)
	assert.Equal(t, directive.List{
		directive.ItemUpdate{Action: directive.ItemAdd, Name: "Torn Cloak", Category: ledger.CategoryConsumable},
		directive.ReputationUpdate{Faction: "The Harmonists", Change: 1},
	}, p.Directives)
}

func TestDecodeMarkerOneByteAtATime(t *testing.T) {
	text := "The lamps gutter.\n\n" + Marker + `[{"kind":"ambient-cue","track":"rainstorm"}]`
	parts := strings.Split(text, "")

	yields, p, err := run(t, parts...)
	require.NoError(t, err)
	require.NotEmpty(t, yields)
	for i, y := range yields {
		assert.NotContains(t, y, "|", "marker text leaked into narrative")
		if i > 0 {
			assert.True(t, strings.HasPrefix(y, yields[i-1]), "yield %d retracted text", i)
			assert.Greater(t, len(y), len(yields[i-1]))
		}
	}
	assert.Equal(t, "The lamps gutter.", yields[len(yields)-1])
	assert.Equal(t, directive.List{directive.AmbientCue{Track: "rainstorm"}}, p.Directives)
}

func TestDecodeNearMissIsNarrative(t *testing.T) {
	yields, p, err := run(t, "a |", "| b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a || b"}, yields)
	assert.Empty(t, p.Directives)
}

func TestDecodeWithoutMarker(t *testing.T) {
	yields, p, err := run(t, "Just prose |||JSON")
	require.NoError(t, err)
	assert.Equal(t, []string{"Just prose", "Just prose |||JSON"}, yields)
	assert.Empty(t, p.Directives)
	assert.Equal(t, "", p.Scene.ImagePrompt)
}

func TestDecodeMalformedPayload(t *testing.T) {
	yields, p, err := run(t, "Shadows move.", Marker, `{"directives": [`)
	assert.ErrorIs(t, err, ErrMalformedDirectiveStream)
	assert.Nil(t, p)
	assert.Equal(t, []string{"Shadows move."}, yields)
}

func TestDecodeEmptyPayload(t *testing.T) {
	_, _, err := run(t, "Shadows move."+Marker+"   \n")
	assert.ErrorIs(t, err, ErrMalformedDirectiveStream)
}

func TestDecodeTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	seq := func(yield func(string, error) bool) {
		if !yield("abc", nil) {
			return
		}
		yield("", boom)
	}

	var yields []string
	_, err := Decode(context.Background(), seq, func(s string) { yields = append(yields, s) })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"abc"}, yields)
}

func TestDecodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Decode(ctx, chunks("abc"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecoderFeedAfterMarker(t *testing.T) {
	d := NewDecoder()
	s, grew := d.Feed("Hi" + Marker)
	assert.True(t, grew)
	assert.Equal(t, "Hi", s)
	assert.True(t, d.Marked())

	s, grew = d.Feed("more words")
	assert.False(t, grew)
	assert.Equal(t, "Hi", s)
}

func TestHeldBack(t *testing.T) {
	assert.Equal(t, 0, heldBack("abc"))
	assert.Equal(t, 1, heldBack("abc|"))
	assert.Equal(t, 7, heldBack("abc|||JSON"))
	assert.Equal(t, len(Marker)-1, heldBack(Marker[:len(Marker)-1]))
}
