// Package sensory forwards audio and animation cues to whatever surface can
// render them.
package sensory

import (
	"sync"

	"github.com/JPClow3/Veins-of-Erid-n/internal/config"
	"github.com/JPClow3/Veins-of-Erid-n/internal/debug"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
)

// Output is the external audio and animation surface.
type Output interface {
	PlaySound(name string)
	SetAmbient(track string)
	VisualEffect(intensity directive.Intensity)
}

type EventType string

const (
	EventSound   EventType = "sound"
	EventAmbient EventType = "ambient"
	EventVisual  EventType = "visual"
)

// SensoryEvent records a cue that reached the output.
type SensoryEvent struct {
	Type EventType `json:"type"`
	Name string    `json:"name"`
}

// Router filters cues against the catalog and remembers the ambient track so
// repeating it does not restart playback.
type Router struct {
	mu          sync.Mutex
	out         Output
	catalog     *config.Catalog
	ambient     string
	debugLogger *debug.Logger
}

// NewRouter creates a Router. With a nil catalog every sound and ambient cue
// is dropped.
func NewRouter(out Output, catalog *config.Catalog, debugLogger *debug.Logger) *Router {
	return &Router{out: out, catalog: catalog, debugLogger: debugLogger}
}

// Route forwards cues in order and returns the ones that were played.
func (r *Router) Route(cues []directive.Cue) []SensoryEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	var played []SensoryEvent
	for _, c := range cues {
		switch cue := c.(type) {
		case directive.SoundCue:
			if !r.catalog.KnownSound(cue.Name) {
				r.debugLogger.Printf("dropping unknown sound effect %q", cue.Name)
				continue
			}
			r.out.PlaySound(cue.Name)
			played = append(played, SensoryEvent{Type: EventSound, Name: cue.Name})
		case directive.AmbientCue:
			if !r.catalog.KnownAmbient(cue.Track) {
				r.debugLogger.Printf("dropping unknown ambient track %q", cue.Track)
				continue
			}
			if cue.Track == r.ambient {
				continue
			}
			r.ambient = cue.Track
			r.out.SetAmbient(cue.Track)
			played = append(played, SensoryEvent{Type: EventAmbient, Name: cue.Track})
		case directive.VisualEffectCue:
			r.out.VisualEffect(cue.Intensity)
			played = append(played, SensoryEvent{Type: EventVisual, Name: string(cue.Intensity)})
		}
	}
	return played
}

// Ambient is the track currently playing, if any.
func (r *Router) Ambient() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ambient
}

// LogOutput writes cues to the log; it stands in for an audio device.
type LogOutput struct {
	Logger *debug.Logger
}

func (o LogOutput) PlaySound(name string) {
	o.Logger.Info("sound effect", "name", name)
}

func (o LogOutput) SetAmbient(track string) {
	o.Logger.Info("ambient track", "track", track)
}

func (o LogOutput) VisualEffect(intensity directive.Intensity) {
	o.Logger.Info("visual effect", "intensity", string(intensity))
}
