package appliers

import (
	"context"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/events"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

type Knowledge struct{}

func (a *Knowledge) Kind() directive.Kind {
	return directive.KindKnowledge
}

func (a *Knowledge) Validate(s *ledger.Store, d directive.Directive) error {
	_, err := as[directive.KnowledgeUnlock](d)
	return err
}

func (a *Knowledge) Apply(ctx context.Context, s *ledger.Store, d directive.Directive) (Outcome, error) {
	k, err := as[directive.KnowledgeUnlock](d)
	if err != nil {
		return noop, err
	}
	added, err := s.Unlock(k.Category, k.Key)
	if err != nil {
		return noop, err
	}
	if !added {
		return noop, nil
	}
	return created, nil
}

func (a *Knowledge) SuccessMessages(d directive.Directive, o Outcome) []events.Update {
	k := d.(directive.KnowledgeUnlock)
	return []events.Update{events.Info(events.LedgerKnowledge, "Lore Unlocked: %s", k.Key)}
}
