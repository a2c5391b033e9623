// Package director applies a turn's directives to the ledgers. Dispatching is
// pure with respect to its input: it works on a clone of the snapshot and
// hands back a new store together with the notifications and cues the batch
// produced.
package director

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/JPClow3/Veins-of-Erid-n/internal/debug"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/events"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
	"github.com/JPClow3/Veins-of-Erid-n/internal/observability"
)

// Dispatcher routes each directive to its registered applier. A directive
// that cannot be applied is skipped with a warning; only cancellation of the
// context aborts the batch.
type Dispatcher struct {
	debugLogger *debug.Logger
	tracer      trace.Tracer
}

// NewDispatcher creates a Dispatcher that reports skipped directives to
// debugLogger.
func NewDispatcher(debugLogger *debug.Logger) *Dispatcher {
	return &Dispatcher{
		debugLogger: debugLogger,
		tracer:      otel.Tracer("director"),
	}
}

// Result is the outcome of one batch.
type Result struct {
	Store   *ledger.Store
	Updates []events.Update
	Cues    []directive.Cue
	Applied int
	Skipped int
}

func (r *Result) Warnings() []events.Update {
	return events.Warnings(r.Updates)
}

// Dispatch applies ds in order to a clone of snapshot. snapshot itself is
// never modified.
func (d *Dispatcher) Dispatch(ctx context.Context, snapshot *ledger.Store, ds []directive.Directive) (*Result, error) {
	attrs := []attribute.KeyValue{
		attribute.Int("directive_count", len(ds)),
		attribute.Int("act", snapshot.Act),
	}
	if sessionID := observability.GetSessionIDFromContext(ctx); sessionID != "" {
		attrs = append(attrs, observability.SessionAttributes(sessionID)...)
	}
	ctx, span := d.tracer.Start(ctx, "director.dispatch", trace.WithAttributes(attrs...))
	defer span.End()

	res := &Result{Store: snapshot.Clone()}

	for i, dir := range ds {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "dispatch cancelled")
			return nil, fmt.Errorf("dispatch aborted at directive %d: %w", i, err)
		}

		if cue, ok := dir.(directive.Cue); ok {
			res.Cues = append(res.Cues, cue)
			continue
		}

		updates, err := d.apply(ctx, res.Store, i, dir)
		if err != nil {
			res.Skipped++
			d.debugLogger.Warn("directive skipped", "index", i, "kind", string(dir.Kind()), "error", err)
			res.Updates = append(res.Updates, events.Warning(ledgerFor(dir.Kind()), "Skipped %s: %v", dir.Kind(), err))
			continue
		}
		res.Applied++
		res.Updates = append(res.Updates, updates...)
	}

	span.SetAttributes(
		attribute.Int("applied_count", res.Applied),
		attribute.Int("skipped_count", res.Skipped),
		attribute.Int("cue_count", len(res.Cues)),
	)
	return res, nil
}

// apply runs one directive against a trial copy so that a failing applier
// leaves store untouched.
func (d *Dispatcher) apply(ctx context.Context, store *ledger.Store, i int, dir directive.Directive) ([]events.Update, error) {
	_, span := d.tracer.Start(ctx, "director.apply",
		trace.WithAttributes(
			attribute.String("directive_kind", string(dir.Kind())),
			attribute.Int("directive_index", i),
		),
	)
	defer span.End()

	if inv, ok := dir.(directive.Invalid); ok {
		span.SetAttributes(attribute.String("error_type", "invalid_directive"))
		return nil, inv.Validate()
	}

	a, exists := GetApplier(dir.Kind())
	if !exists {
		span.SetAttributes(attribute.String("error_type", "applier_not_found"))
		return nil, fmt.Errorf("no applier for %s", dir.Kind())
	}

	if err := a.Validate(store, dir); err != nil {
		span.SetAttributes(attribute.String("error_type", "validation_failed"))
		span.RecordError(err)
		return nil, err
	}

	trial := store.Clone()
	outcome, err := a.Apply(ctx, trial, dir)
	if err != nil {
		span.SetAttributes(attribute.String("error_type", "apply_failed"))
		span.RecordError(err)
		return nil, err
	}
	*store = *trial

	if outcome.Noop {
		span.SetAttributes(attribute.String("result", "noop"))
		return nil, nil
	}
	span.SetAttributes(attribute.String("result", "success"))
	return a.SuccessMessages(dir, outcome), nil
}

func ledgerFor(k directive.Kind) events.Ledger {
	switch k {
	case directive.KindJournal:
		return events.LedgerJournal
	case directive.KindReputation:
		return events.LedgerReputation
	case directive.KindLocation:
		return events.LedgerWorld
	case directive.KindAct:
		return events.LedgerAct
	case directive.KindPerson:
		return events.LedgerPeople
	case directive.KindItem:
		return events.LedgerInventory
	case directive.KindStats:
		return events.LedgerVitals
	case directive.KindKnowledge:
		return events.LedgerKnowledge
	}
	return events.LedgerNone
}
