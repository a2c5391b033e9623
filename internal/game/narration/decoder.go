// Package narration turns the generative stream of a turn into a growing
// narrative and, once the stream ends, the structured payload that follows it.
package narration

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Marker separates the narrative from the structured payload.
const Marker = "|||JSON_START|||"

var ErrMalformedDirectiveStream = errors.New("malformed directive stream")

// Decoder is the incremental form of the two-phase protocol. Narrative text
// is released as soon as it cannot be the start of the marker, so a value
// returned by Feed is never retracted by a later call.
type Decoder struct {
	narrative strings.Builder
	pending   string
	payload   strings.Builder
	marked    bool
	last      string
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed consumes one chunk. It returns the cumulative narrative and whether it
// grew since the previous call.
func (d *Decoder) Feed(chunk string) (string, bool) {
	if d.marked {
		d.payload.WriteString(chunk)
		return d.last, false
	}

	s := d.pending + chunk
	if i := strings.Index(s, Marker); i >= 0 {
		d.narrative.WriteString(s[:i])
		d.payload.WriteString(s[i+len(Marker):])
		d.pending = ""
		d.marked = true
		return d.publish()
	}

	keep := heldBack(s)
	d.narrative.WriteString(s[:len(s)-keep])
	d.pending = s[len(s)-keep:]
	return d.publish()
}

// Narrative is the narrative released so far.
func (d *Decoder) Narrative() string {
	return d.last
}

// Marked reports whether the marker has been seen.
func (d *Decoder) Marked() bool {
	return d.marked
}

// Finish ends the stream. Without a marker the held-back text is released as
// narrative and the payload is empty. With one, the buffered tail must hold a
// well-formed payload.
func (d *Decoder) Finish() (*Payload, bool, error) {
	if !d.marked {
		d.narrative.WriteString(d.pending)
		d.pending = ""
		_, grew := d.publish()
		return &Payload{}, grew, nil
	}
	p, err := ParsePayload(d.payload.String())
	return p, false, err
}

func (d *Decoder) publish() (string, bool) {
	next := strings.TrimSpace(d.narrative.String())
	if next == d.last {
		return d.last, false
	}
	d.last = next
	return next, true
}

// heldBack returns the length of the longest suffix of s that is a proper
// prefix of the marker.
func heldBack(s string) int {
	for n := min(len(s), len(Marker)-1); n > 0; n-- {
		if strings.HasSuffix(s, Marker[:n]) {
			return n
		}
	}
	return 0
}

// Decode drives a Decoder over chunks, calling onNarrative with the
// cumulative narrative every time it grows. Narrative delivered before an
// error stays valid.
func Decode(ctx context.Context, chunks iter.Seq2[string, error], onNarrative func(string)) (*Payload, error) {
	ctx, span := otel.Tracer("narration").Start(ctx, "narration.decode")
	defer span.End()

	d := NewDecoder()
	emit := func(s string, grew bool) {
		if grew && onNarrative != nil {
			onNarrative(s)
		}
	}

	var chunkCount int
	for chunk, err := range chunks {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "stream failed")
			return nil, fmt.Errorf("narrative stream failed: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunkCount++
		emit(d.Feed(chunk))
	}

	p, grew, err := d.Finish()
	emit(d.Narrative(), grew)

	span.SetAttributes(
		attribute.Int("narration.chunks", chunkCount),
		attribute.Int("narration.length", len(d.Narrative())),
		attribute.Bool("narration.marker_seen", d.Marked()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payload rejected")
		return nil, err
	}
	span.SetAttributes(attribute.Int("narration.directives", len(p.Directives)))
	return p, nil
}
