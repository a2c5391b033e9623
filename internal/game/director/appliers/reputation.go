package appliers

import (
	"context"
	"fmt"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/events"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

type Reputation struct{}

func (a *Reputation) Kind() directive.Kind {
	return directive.KindReputation
}

// Validate only accepts factions the ledger already tracks.
func (a *Reputation) Validate(s *ledger.Store, d directive.Directive) error {
	r, err := as[directive.ReputationUpdate](d)
	if err != nil {
		return err
	}
	if _, ok := s.Reputation[r.Faction]; !ok {
		return fmt.Errorf("%w: %q", ledger.ErrUnknownFaction, r.Faction)
	}
	return nil
}

func (a *Reputation) Apply(ctx context.Context, s *ledger.Store, d directive.Directive) (Outcome, error) {
	r, err := as[directive.ReputationUpdate](d)
	if err != nil {
		return noop, err
	}
	if _, err := s.AdjustReputation(r.Faction, r.Change, r.Reason); err != nil {
		return noop, err
	}
	return changed, nil
}

func (a *Reputation) SuccessMessages(d directive.Directive, o Outcome) []events.Update {
	r := d.(directive.ReputationUpdate)
	return []events.Update{
		events.Info(events.LedgerReputation, "%s %s Reputation", events.Signed(r.Change), r.Faction),
	}
}
