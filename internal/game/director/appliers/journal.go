package appliers

import (
	"context"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/events"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

type Journal struct{}

func (a *Journal) Kind() directive.Kind {
	return directive.KindJournal
}

func (a *Journal) Validate(s *ledger.Store, d directive.Directive) error {
	_, err := as[directive.JournalUpdate](d)
	return err
}

func (a *Journal) Apply(ctx context.Context, s *ledger.Store, d directive.Directive) (Outcome, error) {
	j, err := as[directive.JournalUpdate](d)
	if err != nil {
		return noop, err
	}
	if s.AppendJournal(j.Thread, j.Entry, j.Status) {
		return created, nil
	}
	return changed, nil
}

func (a *Journal) SuccessMessages(d directive.Directive, o Outcome) []events.Update {
	j := d.(directive.JournalUpdate)
	if j.Status == ledger.ThreadCompleted {
		return []events.Update{events.Info(events.LedgerJournal, "Journal Completed: %s", j.Thread)}
	}
	return []events.Update{events.Info(events.LedgerJournal, "Journal Updated: %s", j.Thread)}
}
