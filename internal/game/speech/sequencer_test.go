package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoSynth struct {
	fail map[string]bool
}

func (e echoSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if e.fail[text] {
		return nil, errors.New("voice unavailable")
	}
	return []byte(text), nil
}

// blockingPlayer plays until cancelled and records the order of starts and
// ends.
type blockingPlayer struct {
	mu      sync.Mutex
	log     []string
	started chan string
	ended   chan string
}

func newBlockingPlayer() *blockingPlayer {
	return &blockingPlayer{started: make(chan string, 16), ended: make(chan string, 16)}
}

func (p *blockingPlayer) Play(ctx context.Context, audio []byte) error {
	name := string(audio)
	p.record("start " + name)
	p.started <- name
	<-ctx.Done()
	p.record("end " + name)
	p.ended <- name
	return ctx.Err()
}

func (p *blockingPlayer) record(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log = append(p.log, s)
}

func (p *blockingPlayer) entries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.log...)
}

// stubbornPlayer ignores cancellation and plays until released.
type stubbornPlayer struct {
	started chan string
	release chan struct{}
}

func (p *stubbornPlayer) Play(_ context.Context, audio []byte) error {
	p.started <- string(audio)
	<-p.release
	return nil
}

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for player")
		return ""
	}
}

func start(t *testing.T, s *Sequencer) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	exited := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(exited)
	}()
	return func() {
		cancel()
		<-exited
	}
}

func TestSpeakPreemptsActiveNarration(t *testing.T) {
	player := newBlockingPlayer()
	s := NewSequencer(echoSynth{}, player, nil)
	shutdown := start(t, s)

	s.Speak("first")
	assert.Equal(t, "first", receive(t, player.started))

	s.Speak("second")
	assert.Equal(t, "first", receive(t, player.ended))
	assert.Equal(t, "second", receive(t, player.started))

	shutdown()
	assert.Equal(t, "second", receive(t, player.ended))
	assert.Equal(t, []string{"start first", "end first", "start second", "end second"}, player.entries())
}

func TestStopCancelsPlayback(t *testing.T) {
	player := newBlockingPlayer()
	s := NewSequencer(echoSynth{}, player, nil)
	shutdown := start(t, s)
	defer shutdown()

	s.Speak("words")
	receive(t, player.started)
	s.Stop()
	assert.Equal(t, "words", receive(t, player.ended))
}

func TestSynthesisFailureDoesNotStopSequencer(t *testing.T) {
	player := newBlockingPlayer()
	s := NewSequencer(echoSynth{fail: map[string]bool{"bad": true}}, player, nil)
	shutdown := start(t, s)
	defer shutdown()

	s.Speak("bad")
	s.Speak("good")
	assert.Equal(t, "good", receive(t, player.started))
}

func TestSpeakAfterRunExitsDoesNotBlock(t *testing.T) {
	s := NewSequencer(echoSynth{}, newBlockingPlayer(), nil)
	shutdown := start(t, s)
	shutdown()

	done := make(chan struct{})
	go func() {
		for range 20 {
			s.Speak("late")
		}
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "Speak blocked after Run returned")
	}
}

func TestBlankTextIgnored(t *testing.T) {
	player := newBlockingPlayer()
	s := NewSequencer(echoSynth{}, player, nil)
	shutdown := start(t, s)
	defer shutdown()

	s.Speak("   ")
	s.Speak("real")
	assert.Equal(t, "real", receive(t, player.started))
}

func TestCommandsDoNotBlockOnStuckPlayback(t *testing.T) {
	player := &stubbornPlayer{started: make(chan string, 4), release: make(chan struct{})}
	s := NewSequencer(echoSynth{}, player, nil)
	shutdown := start(t, s)
	defer shutdown()

	s.Speak("first")
	assert.Equal(t, "first", receive(t, player.started))

	done := make(chan struct{})
	go func() {
		for range 50 {
			s.Stop()
			s.Speak("late")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "commands blocked behind stuck playback")
	}

	close(player.release)
	assert.Equal(t, "late", receive(t, player.started))
}
