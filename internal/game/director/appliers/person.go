package appliers

import (
	"context"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/events"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

type Person struct{}

func (a *Person) Kind() directive.Kind {
	return directive.KindPerson
}

func (a *Person) Validate(s *ledger.Store, d directive.Directive) error {
	_, err := as[directive.PersonUpdate](d)
	return err
}

// Apply replaces every described attribute; the last update for a name wins.
func (a *Person) Apply(ctx context.Context, s *ledger.Store, d directive.Directive) (Outcome, error) {
	p, err := as[directive.PersonUpdate](d)
	if err != nil {
		return noop, err
	}
	if s.PutPerson(p.Name, p.Profile()) {
		return created, nil
	}
	return changed, nil
}

func (a *Person) SuccessMessages(d directive.Directive, o Outcome) []events.Update {
	p := d.(directive.PersonUpdate)
	if o.Created {
		return []events.Update{events.Info(events.LedgerPeople, "New Acquaintance: %s", p.Name)}
	}
	return []events.Update{events.Info(events.LedgerPeople, "Profile Updated: %s", p.Name)}
}
