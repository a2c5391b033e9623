package appliers

import (
	"context"
	"fmt"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/events"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

type Stats struct{}

func (a *Stats) Kind() directive.Kind {
	return directive.KindStats
}

func (a *Stats) Validate(s *ledger.Store, d directive.Directive) error {
	st, err := as[directive.StatsUpdate](d)
	if err != nil {
		return err
	}
	for axis := range st.Personality {
		if !axis.Valid() {
			return fmt.Errorf("%w: %q", ledger.ErrUnknownAxis, axis)
		}
	}
	return nil
}

func (a *Stats) Apply(ctx context.Context, s *ledger.Store, d directive.Directive) (Outcome, error) {
	st, err := as[directive.StatsUpdate](d)
	if err != nil {
		return noop, err
	}
	s.AdjustVitals(st.StrainChange, st.ExposureChange)
	for _, axis := range ledger.Axes {
		if delta, ok := st.Personality[axis]; ok {
			if _, err := s.AdjustPersonality(axis, delta); err != nil {
				return noop, err
			}
		}
	}
	if len(a.SuccessMessages(d, changed)) == 0 {
		return noop, nil
	}
	return changed, nil
}

// SuccessMessages reports the requested deltas, in axis order.
func (a *Stats) SuccessMessages(d directive.Directive, o Outcome) []events.Update {
	st := d.(directive.StatsUpdate)
	var out []events.Update
	if st.StrainChange != 0 {
		out = append(out, events.Info(events.LedgerVitals, "Vein Strain %s", events.Signed(st.StrainChange)))
	}
	if st.ExposureChange != 0 {
		out = append(out, events.Info(events.LedgerVitals, "Echo Exposure %s", events.Signed(st.ExposureChange)))
	}
	for _, axis := range ledger.Axes {
		if delta := st.Personality[axis]; delta != 0 {
			out = append(out, events.Info(events.LedgerVitals, "%s %s", axis, events.Signed(delta)))
		}
	}
	return out
}
