// Package illustrator turns scene prompts into images on a single actor
// goroutine. Requests carry their own reply channel and are served one at a
// time.
package illustrator

import (
	"context"
	"errors"
	"strings"

	"github.com/JPClow3/Veins-of-Erid-n/internal/debug"
)

var (
	ErrStopped     = errors.New("illustrator is not running")
	ErrEmptyPrompt = errors.New("image prompt is empty")
)

type Generator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

type result struct {
	image []byte
	err   error
}

type request struct {
	ctx    context.Context
	prompt string
	reply  chan result
}

type Illustrator struct {
	gen         Generator
	debugLogger *debug.Logger
	reqs        chan request
	stopped     chan struct{}
}

func New(gen Generator, debugLogger *debug.Logger) *Illustrator {
	return &Illustrator{
		gen:         gen,
		debugLogger: debugLogger,
		reqs:        make(chan request),
		stopped:     make(chan struct{}),
	}
}

// Run serves requests until ctx is cancelled.
func (il *Illustrator) Run(ctx context.Context) {
	defer close(il.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-il.reqs:
			if err := req.ctx.Err(); err != nil {
				req.reply <- result{err: err}
				continue
			}
			img, err := il.gen.GenerateImage(req.ctx, req.prompt)
			if err != nil {
				il.debugLogger.Printf("image generation failed: %v", err)
			}
			req.reply <- result{image: img, err: err}
		}
	}
}

// Illustrate asks the actor for one image and waits for the answer.
func (il *Illustrator) Illustrate(ctx context.Context, prompt string) ([]byte, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	req := request{ctx: ctx, prompt: prompt, reply: make(chan result, 1)}
	select {
	case il.reqs <- req:
	case <-il.stopped:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.image, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
