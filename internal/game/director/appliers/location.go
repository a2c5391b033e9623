package appliers

import (
	"context"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/events"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

type Location struct{}

func (a *Location) Kind() directive.Kind {
	return directive.KindLocation
}

func (a *Location) Validate(s *ledger.Store, d directive.Directive) error {
	_, err := as[directive.LocationUpdate](d)
	return err
}

// Apply pins out-of-range coordinates to the map edge.
func (a *Location) Apply(ctx context.Context, s *ledger.Store, d directive.Directive) (Outcome, error) {
	l, err := as[directive.LocationUpdate](d)
	if err != nil {
		return noop, err
	}
	if s.PutLocation(l.Name, ledger.Location{Description: l.Description, X: l.X, Y: l.Y}) {
		return created, nil
	}
	return changed, nil
}

func (a *Location) SuccessMessages(d directive.Directive, o Outcome) []events.Update {
	l := d.(directive.LocationUpdate)
	if o.Created {
		return []events.Update{events.Info(events.LedgerWorld, "New Location: %s", l.Name)}
	}
	return []events.Update{events.Info(events.LedgerWorld, "Location Updated: %s", l.Name)}
}
