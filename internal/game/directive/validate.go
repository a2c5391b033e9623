package directive

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDirective = errors.New("invalid directive")

func invalid(k Kind, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidDirective, k, fmt.Sprintf(format, args...))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func (d JournalUpdate) Validate() error {
	if blank(d.Thread) {
		return invalid(d.Kind(), "thread is required")
	}
	if blank(d.Entry) {
		return invalid(d.Kind(), "entry is required")
	}
	if d.Status != "" && !d.Status.Valid() {
		return invalid(d.Kind(), "unknown status %q", d.Status)
	}
	return nil
}

func (d ReputationUpdate) Validate() error {
	if blank(d.Faction) {
		return invalid(d.Kind(), "faction is required")
	}
	return nil
}

func (d LocationUpdate) Validate() error {
	if blank(d.Name) {
		return invalid(d.Kind(), "name is required")
	}
	return nil
}

func (d ActTransition) Validate() error {
	if d.NewAct < 1 {
		return invalid(d.Kind(), "act %d is not a valid act", d.NewAct)
	}
	return nil
}

func (d PersonUpdate) Validate() error {
	if blank(d.Name) {
		return invalid(d.Kind(), "name is required")
	}
	switch d.Status {
	case "", PersonNew, PersonUpdated:
	default:
		return invalid(d.Kind(), "unknown status %q", d.Status)
	}
	return nil
}

func (d ItemUpdate) Validate() error {
	if blank(d.Name) {
		return invalid(d.Kind(), "name is required")
	}
	switch d.Action {
	case ItemAdd:
		if !d.Category.Valid() {
			return invalid(d.Kind(), "unknown category %q", d.Category)
		}
	case ItemRemove:
	default:
		return invalid(d.Kind(), "unknown action %q", d.Action)
	}
	return nil
}

func (d StatsUpdate) Validate() error {
	for axis := range d.Personality {
		if !axis.Valid() {
			return invalid(d.Kind(), "unknown personality axis %q", axis)
		}
	}
	return nil
}

func (d KnowledgeUnlock) Validate() error {
	if !d.Category.Valid() {
		return invalid(d.Kind(), "unknown category %q", d.Category)
	}
	if blank(d.Key) {
		return invalid(d.Kind(), "key is required")
	}
	return nil
}

func (d SoundCue) Validate() error {
	if blank(d.Name) {
		return invalid(d.Kind(), "name is required")
	}
	return nil
}

func (d AmbientCue) Validate() error {
	if blank(d.Track) {
		return invalid(d.Kind(), "track is required")
	}
	return nil
}

func (d VisualEffectCue) Validate() error {
	switch d.Intensity {
	case IntensitySubtle, IntensityPowerful:
		return nil
	}
	return invalid(d.Kind(), "unknown intensity %q", d.Intensity)
}

// Validate always fails: an Invalid directive records why decoding rejected
// the original entry.
func (d Invalid) Validate() error {
	return fmt.Errorf("%w: %s", ErrInvalidDirective, d.Reason)
}
