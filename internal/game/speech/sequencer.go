// Package speech narrates turns aloud. A single actor goroutine owns
// playback, so at most one synthesis and playback is ever in flight.
package speech

import (
	"context"
	"strings"
	"sync"

	"github.com/JPClow3/Veins-of-Erid-n/internal/debug"
)

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Player plays audio until it finishes or ctx is cancelled.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

type command struct {
	text string
	stop bool
}

// Sequencer accepts speak and stop commands from any goroutine without
// blocking. Only the latest unprocessed command is kept. Speak cancels the
// active narration and waits for it to exit before starting the new one.
type Sequencer struct {
	synth       Synthesizer
	player      Player
	debugLogger *debug.Logger

	mu      sync.Mutex
	pending *command
	wake    chan struct{}
}

func NewSequencer(synth Synthesizer, player Player, debugLogger *debug.Logger) *Sequencer {
	return &Sequencer{
		synth:       synth,
		player:      player,
		debugLogger: debugLogger,
		wake:        make(chan struct{}, 1),
	}
}

// Speak queues text for narration. Blank text is ignored.
func (s *Sequencer) Speak(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.send(command{text: text})
}

// Stop cancels whatever is being narrated.
func (s *Sequencer) Stop() {
	s.send(command{stop: true})
}

func (s *Sequencer) send(cmd command) {
	s.mu.Lock()
	s.pending = &cmd
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Sequencer) take() (command, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return command{}, false
	}
	cmd := *s.pending
	s.pending = nil
	return cmd, true
}

// Run processes commands until ctx is cancelled. Active playback is
// cancelled and awaited before Run returns.
func (s *Sequencer) Run(ctx context.Context) {
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)
	halt := func() {
		if cancel == nil {
			return
		}
		cancel()
		<-done
		cancel, done = nil, nil
	}
	defer halt()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			cancel()
			cancel, done = nil, nil
		case <-s.wake:
			cmd, ok := s.take()
			if !ok {
				continue
			}
			halt()
			if cmd.stop {
				continue
			}
			var playCtx context.Context
			playCtx, cancel = context.WithCancel(ctx)
			done = make(chan struct{})
			go s.narrate(playCtx, cmd.text, done)
		}
	}
}

func (s *Sequencer) narrate(ctx context.Context, text string, done chan<- struct{}) {
	defer close(done)

	audio, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		if ctx.Err() == nil {
			s.debugLogger.Warn("speech synthesis failed", "error", err)
		}
		return
	}
	if err := s.player.Play(ctx, audio); err != nil && ctx.Err() == nil {
		s.debugLogger.Warn("speech playback failed", "error", err)
	}
}
