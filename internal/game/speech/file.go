package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FilePlayer writes each narration clip to Path, replacing the previous one,
// for an external audio player to pick up.
type FilePlayer struct {
	Path string
}

func (p FilePlayer) Play(ctx context.Context, audio []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p.Path), ".narration-*")
	if err != nil {
		return fmt.Errorf("failed to create narration file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write narration: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write narration: %w", err)
	}
	// A newer narration may have cancelled this one while it was written.
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p.Path)
}
