// Package appliers holds one applier per ledger directive kind. Each applier
// checks a directive against the current store, applies it, and describes
// the change for the player.
package appliers

import (
	"errors"
	"fmt"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
)

var ErrWrongKind = errors.New("directive routed to the wrong applier")

// Outcome is what an applied directive changed.
type Outcome struct {
	Created bool
	Noop    bool
}

var (
	created = Outcome{Created: true}
	changed = Outcome{}
	noop    = Outcome{Noop: true}
)

func as[T directive.Directive](d directive.Directive) (T, error) {
	v, ok := d.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s applier got %s", ErrWrongKind, zero.Kind(), d.Kind())
	}
	return v, nil
}
