package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/ssestream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JPClow3/Veins-of-Erid-n/internal/debug"
)

// scriptedDecoder replays fixed server-sent events.
type scriptedDecoder struct {
	events []ssestream.Event
	pos    int
	err    error
	closed bool
}

func (d *scriptedDecoder) Event() ssestream.Event { return d.events[d.pos-1] }

func (d *scriptedDecoder) Next() bool {
	if d.pos >= len(d.events) {
		return false
	}
	d.pos++
	return true
}

func (d *scriptedDecoder) Close() error { d.closed = true; return nil }
func (d *scriptedDecoder) Err() error   { return d.err }

func deltaEvent(text string) ssestream.Event {
	return ssestream.Event{Data: []byte(`{"id":"c1","object":"chat.completion.chunk","created":1,"model":"m","choices":[{"index":0,"delta":{"content":` + quote(text) + `}}]}`)}
}

func quote(s string) string {
	b := []byte{'"'}
	for _, r := range s {
		if r == '"' || r == '\\' {
			b = append(b, '\\')
		}
		b = append(b, string(r)...)
	}
	return string(append(b, '"'))
}

func collect(t *testing.T, ch <-chan StreamChunk) []StreamChunk {
	t.Helper()
	var got []StreamChunk
	timeout := time.After(2 * time.Second)
	for {
		select {
		case c, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, c)
		case <-timeout:
			t.Fatal("stream did not close")
		}
	}
}

func TestReadStreamChunks(t *testing.T) {
	dec := &scriptedDecoder{events: []ssestream.Event{
		deltaEvent("The alley "),
		deltaEvent(""),
		deltaEvent("narrows."),
		{Data: []byte("[DONE]")},
	}}
	stream := ssestream.NewStream[openai.ChatCompletionChunk](dec, nil)

	var output string
	var finished error = errors.New("unset")
	got := collect(t, ReadStreamChunks(context.Background(), stream, debug.Nop(), func(out string, _ openai.CompletionUsage, err error) {
		output = out
		finished = err
	}))

	require.Len(t, got, 3)
	assert.Equal(t, "The alley ", got[0].Text)
	assert.Equal(t, "narrows.", got[1].Text)
	assert.True(t, got[2].Done)
	assert.NoError(t, got[2].Error)
	assert.Equal(t, "The alley narrows.", output)
	assert.NoError(t, finished)
	assert.True(t, dec.closed)
}

func TestReadStreamChunksTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	dec := &scriptedDecoder{events: []ssestream.Event{deltaEvent("Half a sent")}, err: boom}
	stream := ssestream.NewStream[openai.ChatCompletionChunk](dec, nil)

	got := collect(t, ReadStreamChunks(context.Background(), stream, nil, nil))

	require.Len(t, got, 2)
	assert.Equal(t, "Half a sent", got[0].Text)
	assert.True(t, got[1].Done)
	assert.ErrorIs(t, got[1].Error, boom)
}

func TestReadStreamChunksStopsWhenCancelled(t *testing.T) {
	dec := &scriptedDecoder{events: []ssestream.Event{deltaEvent("one"), deltaEvent("two")}}
	stream := ssestream.NewStream[openai.ChatCompletionChunk](dec, nil)
	ctx, cancel := context.WithCancel(context.Background())

	finished := make(chan error, 1)
	ch := ReadStreamChunks(ctx, stream, nil, func(_ string, _ openai.CompletionUsage, err error) {
		finished <- err
	})
	cancel()

	select {
	case err := <-finished:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("reader kept blocking after cancel")
	}
	for range ch {
	}
}

func TestTexts(t *testing.T) {
	ch := make(chan StreamChunk, 4)
	ch <- StreamChunk{Text: "a"}
	ch <- StreamChunk{Text: ""}
	ch <- StreamChunk{Text: "b"}
	ch <- StreamChunk{Done: true}
	close(ch)

	var got []string
	for s, err := range Texts(context.Background(), ch) {
		require.NoError(t, err)
		got = append(got, s)
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestTextsYieldsErrorOnce(t *testing.T) {
	boom := errors.New("boom")
	ch := make(chan StreamChunk, 2)
	ch <- StreamChunk{Text: "a"}
	ch <- StreamChunk{Error: boom, Done: true}
	close(ch)

	var errs []error
	for _, err := range Texts(context.Background(), ch) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
}

func TestTextsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var errs []error
	for _, err := range Texts(ctx, make(chan StreamChunk)) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
}
