package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/events"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/orchestrator"
)

type statusMsg struct{ status orchestrator.Status }

type narrativeMsg struct{ narrative string }

type sceneMsg struct{ scene game.Scene }

type updatesMsg struct{ updates []events.Update }

type cueMsg struct{ text string }

type turnDoneMsg struct {
	accepted bool
	err      error
}

// Bridge turns orchestrator callbacks and sensory cues into tea messages.
// Callbacks never block: messages are queued in order and forwarded by a
// pump goroutine. Messages sent before Attach are dropped.
type Bridge struct {
	mu       sync.Mutex
	attached bool
	queue    []tea.Msg
	ready    chan struct{}
}

func NewBridge() *Bridge {
	return &Bridge{ready: make(chan struct{}, 1)}
}

// Attach forwards queued messages to send, typically p.Send, until ctx is
// cancelled.
func (b *Bridge) Attach(ctx context.Context, send func(tea.Msg)) {
	b.mu.Lock()
	if b.attached {
		b.mu.Unlock()
		return
	}
	b.attached = true
	b.mu.Unlock()
	go b.pump(ctx, send)
}

func (b *Bridge) pump(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.ready:
		}
		b.mu.Lock()
		batch := b.queue
		b.queue = nil
		b.mu.Unlock()
		for _, msg := range batch {
			if ctx.Err() != nil {
				return
			}
			send(msg)
		}
	}
}

func (b *Bridge) emit(msg tea.Msg) {
	b.mu.Lock()
	if !b.attached {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, msg)
	b.mu.Unlock()
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

func (b *Bridge) StatusChanged(s orchestrator.Status) { b.emit(statusMsg{s}) }
func (b *Bridge) NarrativeChanged(n string)           { b.emit(narrativeMsg{n}) }
func (b *Bridge) SceneChanged(s game.Scene)           { b.emit(sceneMsg{s}) }
func (b *Bridge) Notify(us []events.Update)           { b.emit(updatesMsg{us}) }

func (b *Bridge) PlaySound(name string)   { b.emit(cueMsg{"♪ " + name}) }
func (b *Bridge) SetAmbient(track string) { b.emit(cueMsg{"♫ " + track}) }
func (b *Bridge) VisualEffect(intensity directive.Intensity) {
	b.emit(cueMsg{"✦ the Veins flare (" + string(intensity) + ")"})
}
