package llm

import (
	"context"
	"iter"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/ssestream"

	"github.com/JPClow3/Veins-of-Erid-n/internal/debug"
)

type StreamChunk struct {
	Text  string
	Error error
	Done  bool
}

// FinishFunc is told the full output and usage once a stream ends.
type FinishFunc func(output string, usage openai.CompletionUsage, err error)

// ReadStreamChunks forwards the text deltas of stream on the returned
// channel. The last chunk has Done set and carries the stream error, if
// any. Cancelling ctx stops the reader even when nobody is receiving.
func ReadStreamChunks(ctx context.Context, stream *ssestream.Stream[openai.ChatCompletionChunk], debug *debug.Logger, finish FinishFunc) <-chan StreamChunk {
	chunks := make(chan StreamChunk)

	send := func(c StreamChunk) bool {
		select {
		case chunks <- c:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(chunks)
		defer stream.Close()

		var (
			output strings.Builder
			usage  openai.CompletionUsage
		)
		done := func(err error) {
			if finish != nil {
				finish(output.String(), usage, err)
			}
		}

		for stream.Next() {
			chunk := stream.Current()
			if chunk.Usage.TotalTokens > 0 {
				usage = chunk.Usage
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			debug.Printf("Stream chunk: %q", delta)
			output.WriteString(delta)
			if !send(StreamChunk{Text: delta}) {
				done(ctx.Err())
				return
			}
		}

		if err := stream.Err(); err != nil {
			debug.Printf("Stream error: %v", err)
			done(err)
			send(StreamChunk{Error: err, Done: true})
			return
		}

		debug.Println("Stream finished")
		done(nil)
		send(StreamChunk{Done: true})
	}()

	return chunks
}

// Texts adapts a chunk channel to the sequence the narration decoder reads.
// A chunk error is yielded once and ends the sequence.
func Texts(ctx context.Context, ch <-chan StreamChunk) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			select {
			case <-ctx.Done():
				yield("", ctx.Err())
				return
			case c, ok := <-ch:
				if !ok {
					return
				}
				if c.Error != nil {
					yield("", c.Error)
					return
				}
				if c.Text != "" && !yield(c.Text, nil) {
					return
				}
				if c.Done {
					return
				}
			}
		}
	}
}
