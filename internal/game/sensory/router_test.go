package sensory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JPClow3/Veins-of-Erid-n/internal/config"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
)

type recordingOutput struct {
	calls []string
}

func (r *recordingOutput) PlaySound(name string)   { r.calls = append(r.calls, "sound:"+name) }
func (r *recordingOutput) SetAmbient(track string) { r.calls = append(r.calls, "ambient:"+track) }
func (r *recordingOutput) VisualEffect(i directive.Intensity) {
	r.calls = append(r.calls, "visual:"+string(i))
}

func newRouter(t *testing.T) (*Router, *recordingOutput) {
	t.Helper()
	catalog, err := config.DefaultCatalog()
	require.NoError(t, err)
	out := &recordingOutput{}
	return NewRouter(out, catalog, nil), out
}

func TestRouteForwardsKnownCues(t *testing.T) {
	r, out := newRouter(t)

	played := r.Route([]directive.Cue{
		directive.SoundCue{Name: "sword_clash"},
		directive.AmbientCue{Track: "rainstorm"},
		directive.VisualEffectCue{Intensity: directive.IntensitySubtle},
	})

	assert.Equal(t, []string{"sound:sword_clash", "ambient:rainstorm", "visual:subtle"}, out.calls)
	assert.Equal(t, []SensoryEvent{
		{Type: EventSound, Name: "sword_clash"},
		{Type: EventAmbient, Name: "rainstorm"},
		{Type: EventVisual, Name: "subtle"},
	}, played)
	assert.Equal(t, "rainstorm", r.Ambient())
}

func TestRouteDropsUnknownSounds(t *testing.T) {
	r, out := newRouter(t)
	played := r.Route([]directive.Cue{
		directive.SoundCue{Name: "kazoo"},
		directive.AmbientCue{Track: "elevator_music"},
	})
	assert.Empty(t, played)
	assert.Empty(t, out.calls)
	assert.Equal(t, "", r.Ambient())
}

func TestRouteSameAmbientIsNoop(t *testing.T) {
	r, out := newRouter(t)
	r.Route([]directive.Cue{directive.AmbientCue{Track: "tense_drone"}})
	r.Route([]directive.Cue{directive.AmbientCue{Track: "tense_drone"}})
	r.Route([]directive.Cue{directive.AmbientCue{Track: "royal_court"}})
	assert.Equal(t, []string{"ambient:tense_drone", "ambient:royal_court"}, out.calls)
}

func TestNilCatalogDropsAudio(t *testing.T) {
	out := &recordingOutput{}
	r := NewRouter(out, nil, nil)
	r.Route([]directive.Cue{
		directive.SoundCue{Name: "sword_clash"},
		directive.VisualEffectCue{Intensity: directive.IntensityPowerful},
	})
	assert.Equal(t, []string{"visual:powerful"}, out.calls)
}
