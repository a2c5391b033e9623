package appliers

import (
	"context"
	"fmt"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/events"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

type Act struct{}

func (a *Act) Kind() directive.Kind {
	return directive.KindAct
}

func (a *Act) Validate(s *ledger.Store, d directive.Directive) error {
	t, err := as[directive.ActTransition](d)
	if err != nil {
		return err
	}
	if t.NewAct < s.Act {
		return fmt.Errorf("%w: act %d is behind act %d", ledger.ErrActRegression, t.NewAct, s.Act)
	}
	return nil
}

func (a *Act) Apply(ctx context.Context, s *ledger.Store, d directive.Directive) (Outcome, error) {
	t, err := as[directive.ActTransition](d)
	if err != nil {
		return noop, err
	}
	advanced, err := s.AdvanceAct(t.NewAct)
	if err != nil {
		return noop, err
	}
	if !advanced {
		return noop, nil
	}
	return changed, nil
}

func (a *Act) SuccessMessages(d directive.Directive, o Outcome) []events.Update {
	t := d.(directive.ActTransition)
	return []events.Update{events.Info(events.LedgerAct, "Act %d Begins", t.NewAct)}
}
