package illustrator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	err      error
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte("png:" + prompt), nil
}

func run(t *testing.T, il *Illustrator) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go il.Run(ctx)
	t.Cleanup(cancel)
}

func TestIllustrate(t *testing.T) {
	gen := &fakeGenerator{}
	il := New(gen, nil)
	run(t, il)

	img, err := il.Illustrate(context.Background(), "a rain-slicked alley")
	require.NoError(t, err)
	assert.Equal(t, []byte("png:a rain-slicked alley"), img)
}

func TestIllustrateOneAtATime(t *testing.T) {
	gen := &fakeGenerator{}
	il := New(gen, nil)
	run(t, il)

	errs := make(chan error, 5)
	for range 5 {
		go func() {
			_, err := il.Illustrate(context.Background(), "scene")
			errs <- err
		}()
	}
	for range 5 {
		require.NoError(t, <-errs)
	}
	assert.Equal(t, int32(5), gen.calls.Load())
	assert.Equal(t, int32(1), gen.maxSeen.Load())
}

func TestIllustrateFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	il := New(&fakeGenerator{err: boom}, nil)
	run(t, il)

	img, err := il.Illustrate(context.Background(), "scene")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, img)
}

func TestIllustrateEmptyPrompt(t *testing.T) {
	gen := &fakeGenerator{}
	il := New(gen, nil)
	_, err := il.Illustrate(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Zero(t, gen.calls.Load())
}

func TestIllustrateAfterStop(t *testing.T) {
	il := New(&fakeGenerator{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	exited := make(chan struct{})
	go func() {
		il.Run(ctx)
		close(exited)
	}()
	cancel()
	<-exited

	_, err := il.Illustrate(context.Background(), "scene")
	assert.ErrorIs(t, err, ErrStopped)
}

func TestIllustrateCancelledCaller(t *testing.T) {
	il := New(&fakeGenerator{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := il.Illustrate(ctx, "scene")
	assert.ErrorIs(t, err, context.Canceled)
}
