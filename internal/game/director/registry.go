package director

import (
	"context"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/director/appliers"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/events"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

// Applier handles one ledger directive kind.
type Applier interface {
	Kind() directive.Kind
	Validate(s *ledger.Store, d directive.Directive) error
	Apply(ctx context.Context, s *ledger.Store, d directive.Directive) (appliers.Outcome, error)
	SuccessMessages(d directive.Directive, o appliers.Outcome) []events.Update
}

var applierRegistry = make(map[directive.Kind]Applier)

func init() {
	RegisterApplier(&appliers.Journal{})
	RegisterApplier(&appliers.Reputation{})
	RegisterApplier(&appliers.Location{})
	RegisterApplier(&appliers.Act{})
	RegisterApplier(&appliers.Person{})
	RegisterApplier(&appliers.Item{})
	RegisterApplier(&appliers.Stats{})
	RegisterApplier(&appliers.Knowledge{})
}

func RegisterApplier(a Applier) {
	applierRegistry[a.Kind()] = a
}

func GetApplier(kind directive.Kind) (Applier, bool) {
	a, exists := applierRegistry[kind]
	return a, exists
}
