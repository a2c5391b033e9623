package appliers

import (
	"context"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/events"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

type Item struct{}

func (a *Item) Kind() directive.Kind {
	return directive.KindItem
}

func (a *Item) Validate(s *ledger.Store, d directive.Directive) error {
	_, err := as[directive.ItemUpdate](d)
	return err
}

// Apply treats removal of an item the player does not hold as a no-op.
func (a *Item) Apply(ctx context.Context, s *ledger.Store, d directive.Directive) (Outcome, error) {
	it, err := as[directive.ItemUpdate](d)
	if err != nil {
		return noop, err
	}
	if it.Action == directive.ItemRemove {
		if !s.RemoveItem(it.Name) {
			return noop, nil
		}
		return changed, nil
	}
	if s.AddItem(ledger.Item{Name: it.Name, Description: it.Description, Category: it.Category}) {
		return created, nil
	}
	return changed, nil
}

func (a *Item) SuccessMessages(d directive.Directive, o Outcome) []events.Update {
	it := d.(directive.ItemUpdate)
	if it.Action == directive.ItemRemove {
		return []events.Update{events.Info(events.LedgerInventory, "Item Used: %s", it.Name)}
	}
	return []events.Update{events.Info(events.LedgerInventory, "Item Acquired: %s", it.Name)}
}
