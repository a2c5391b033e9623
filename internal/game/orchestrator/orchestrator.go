package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/JPClow3/Veins-of-Erid-n/internal/config"
	"github.com/JPClow3/Veins-of-Erid-n/internal/debug"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/directive"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/director"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/events"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/narration"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/sensory"
	"github.com/JPClow3/Veins-of-Erid-n/internal/llm"
	"github.com/JPClow3/Veins-of-Erid-n/internal/logging"
	"github.com/JPClow3/Veins-of-Erid-n/internal/observability"
)

// InterferencePrefix opens every error message shown to the player.
const InterferencePrefix = "An unexpected magical interference occurred. "

var (
	ErrBusy          = errors.New("a turn is already in progress")
	ErrTurnPanicked  = errors.New("turn panicked")
	ErrNoStream      = errors.New("generator returned no stream")
	ErrMissingLedger = errors.New("save has no ledgers")
)

type Generator interface {
	StreamTurn(ctx context.Context, req narration.TurnRequest) (<-chan llm.StreamChunk, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, snapshot *ledger.Store, ds []directive.Directive) (*director.Result, error)
}

// Notifier receives the updates of a committed turn. It must not block.
type Notifier interface {
	Notify(updates []events.Update)
}

type Narrator interface {
	Speak(text string)
	Stop()
}

type Illustrator interface {
	Illustrate(ctx context.Context, prompt string) ([]byte, error)
}

type CueRouter interface {
	Route(cues []directive.Cue) []sensory.SensoryEvent
}

type Persister interface {
	Save(ctx context.Context, sv game.Save) error
}

type TurnLog interface {
	LogCompletion(ctx context.Context, c logging.Completion) error
}

// Observer is told about progress so a front-end can redraw. Callbacks run
// on the turn goroutine without the orchestrator lock held.
type Observer interface {
	StatusChanged(status Status)
	NarrativeChanged(narrative string)
	SceneChanged(scene game.Scene)
}

// Deps are the collaborators of an Orchestrator. Generator and Dispatcher
// are required; the rest may be nil.
type Deps struct {
	Generator   Generator
	Dispatcher  Dispatcher
	Notifier    Notifier
	Narrator    Narrator
	Illustrator Illustrator
	Cues        CueRouter
	Persister   Persister
	TurnLog     TurnLog
	Observer    Observer
	Catalog     *config.Catalog
	Model       string
	MaxTokens   int
	Logger      *debug.Logger
}

// Orchestrator resolves one player turn at a time.
type Orchestrator struct {
	deps   Deps
	tracer trace.Tracer

	mu         sync.Mutex
	status     Status
	sessionID  string
	character  game.Character
	store      *ledger.Store
	history    *game.History
	scene      game.Scene
	lastAction string
	errMsg     string
	narration  bool
}

// New starts a session for character on store. A nil store starts from the
// catalog's factions.
func New(sessionID string, character game.Character, store *ledger.Store, deps Deps) *Orchestrator {
	if store == nil {
		var factions []string
		if deps.Catalog != nil {
			factions = deps.Catalog.Factions
		}
		store = ledger.New(factions, character.InitialLean)
	}
	return &Orchestrator{
		deps:      deps,
		tracer:    otel.Tracer("orchestrator"),
		status:    StatusIdle,
		sessionID: sessionID,
		character: character,
		store:     store,
		history:   game.NewHistory(),
		narration: true,
	}
}

// Submit resolves action as the next turn. It returns false without doing
// anything when the action is blank or a turn is already in flight. When it
// returns true the turn has finished, successfully or not.
func (o *Orchestrator) Submit(ctx context.Context, action string) (bool, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return false, nil
	}

	o.mu.Lock()
	if o.status.Busy() {
		o.mu.Unlock()
		return false, nil
	}
	o.status = StatusProcessingAction
	o.lastAction = action
	o.errMsg = ""
	o.mu.Unlock()
	o.observeStatus(StatusProcessingAction)

	return true, o.resolve(ctx, action)
}

// Retry resubmits the last action unchanged.
func (o *Orchestrator) Retry(ctx context.Context) (bool, error) {
	o.mu.Lock()
	action, busy := o.lastAction, o.status.Busy()
	o.mu.Unlock()
	if busy || action == "" {
		return false, nil
	}
	return o.Submit(ctx, action)
}

func (o *Orchestrator) resolve(ctx context.Context, action string) (err error) {
	ctx = observability.WithSessionID(ctx, o.sessionID)
	ctx, span := o.tracer.Start(ctx, "turn.resolve", trace.WithAttributes(
		observability.CreateLangfuseAttributes("turn", o.sessionID, []string{"turn"})...,
	))
	defer span.End()
	span.SetAttributes(attribute.String("game.action", action))

	var appended, committed bool
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTurnPanicked, r)
		}
		if err == nil {
			return
		}
		span.RecordError(err)
		if committed {
			// The ledgers already moved on; only side effects were lost.
			o.deps.Logger.Error("turn side effects failed", "action", action, "error", err)
			o.setStatus(StatusIdle)
			err = nil
			return
		}
		span.SetStatus(codes.Error, "turn failed")
		o.fail(action, appended, err)
	}()

	if o.deps.Narrator != nil {
		o.deps.Narrator.Stop()
	}

	o.mu.Lock()
	req := narration.TurnRequest{
		SessionID: o.sessionID,
		Character: o.character,
		Ledgers:   o.store,
		History:   o.history.Transcript(narration.HistoryWindow),
		Action:    action,
	}
	if c := o.deps.Catalog; c != nil {
		req.Sounds, req.Ambient = c.SoundEffects, c.AmbientTracks
	}
	var lead []directive.Directive
	if axis, ok := o.scene.LeanFor(action); ok {
		lead = append(lead, directive.StatsUpdate{
			Personality: map[ledger.Axis]int{axis: 1},
			Reason:      fmt.Sprintf("Chose a %s path", axis),
		})
	}
	snapshot := o.store
	o.history.Append(game.Turn{Action: action})
	appended = true
	o.status = StatusStreamingNarrative
	o.mu.Unlock()
	o.observeStatus(StatusStreamingNarrative)

	span.SetAttributes(
		attribute.Int("game.act", snapshot.Act),
		attribute.Bool("game.lean_bonus", len(lead) > 0),
	)

	startTime := time.Now()
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	streamCtx = llm.WithOperationType(streamCtx, "turn.stream")
	streamCtx = llm.WithGameContext(streamCtx, map[string]interface{}{
		"act":     snapshot.Act,
		"action":  action,
		"session": o.sessionID,
	})

	chunks, err := o.deps.Generator.StreamTurn(streamCtx, req)
	if err != nil {
		return fmt.Errorf("failed to start narrative stream: %w", err)
	}
	if chunks == nil {
		return ErrNoStream
	}

	var raw strings.Builder
	payload, err := narration.Decode(streamCtx, tee(llm.Texts(streamCtx, chunks), &raw), o.publishNarrative)
	if err != nil {
		return err
	}

	o.setStatus(StatusProcessingUpdates)

	ds := append(lead, payload.Directives...)
	res, err := o.deps.Dispatcher.Dispatch(ctx, snapshot, ds)
	if err != nil {
		return fmt.Errorf("failed to apply directives: %w", err)
	}

	o.mu.Lock()
	o.store = res.Store
	o.history.Attach(payload.Directives)
	o.scene = payload.Scene.Clone()
	scene := o.scene.Clone()
	last, _ := o.history.Last()
	speak := o.narration
	o.mu.Unlock()
	committed = true

	span.SetAttributes(
		attribute.Int("directives.applied", res.Applied),
		attribute.Int("directives.skipped", res.Skipped),
		attribute.Int("game.act.after", res.Store.Act),
	)
	o.deps.Logger.Info("turn committed",
		"action", action, "applied", res.Applied, "skipped", res.Skipped, "cues", len(res.Cues))

	if len(res.Updates) > 0 && o.deps.Notifier != nil {
		o.deps.Notifier.Notify(res.Updates)
	}
	if len(res.Cues) > 0 && o.deps.Cues != nil {
		o.deps.Cues.Route(res.Cues)
	}
	if o.deps.Observer != nil {
		o.deps.Observer.SceneChanged(scene)
	}

	if speak && o.deps.Narrator != nil {
		o.deps.Narrator.Speak(last.Narrative)
	}

	if scene.WantsImage() && o.deps.Illustrator != nil {
		o.setStatus(StatusGeneratingImage)
		o.illustrate(ctx, scene.ImagePrompt)
	}

	o.setStatus(StatusIdle)

	o.persist(ctx)
	o.logTurn(ctx, req, raw.String(), res, time.Since(startTime))
	return nil
}

func (o *Orchestrator) publishNarrative(narrative string) {
	o.mu.Lock()
	o.history.SetNarrative(narrative)
	o.mu.Unlock()
	if o.deps.Observer != nil {
		o.deps.Observer.NarrativeChanged(narrative)
	}
}

func (o *Orchestrator) illustrate(ctx context.Context, prompt string) {
	img, err := o.deps.Illustrator.Illustrate(ctx, prompt)
	if err != nil {
		o.deps.Logger.Warn("scene illustration failed", "error", err)
	}

	o.mu.Lock()
	o.scene.Image = img
	if err != nil {
		o.scene.Image = nil
	}
	scene := o.scene.Clone()
	o.mu.Unlock()

	if err == nil && o.deps.Observer != nil {
		o.deps.Observer.SceneChanged(scene)
	}
}

// fail rolls back the optimistic turn. Ledgers were never touched.
func (o *Orchestrator) fail(action string, appended bool, err error) {
	o.deps.Logger.Error("turn failed", "action", action, "error", err)

	o.mu.Lock()
	if appended {
		o.history.RetractLast()
	}
	o.errMsg = InterferencePrefix + err.Error()
	o.status = StatusError
	o.mu.Unlock()
	o.observeStatus(StatusError)
}

func (o *Orchestrator) persist(ctx context.Context) {
	if o.deps.Persister == nil {
		return
	}
	if err := o.deps.Persister.Save(ctx, o.Save()); err != nil {
		o.deps.Logger.Warn("failed to persist session", "session", o.sessionID, "error", err)
	}
}

func (o *Orchestrator) logTurn(ctx context.Context, req narration.TurnRequest, response string, res *director.Result, elapsed time.Duration) {
	if o.deps.TurnLog == nil {
		return
	}
	var warnings []string
	for _, w := range res.Warnings() {
		warnings = append(warnings, w.Message)
	}
	err := o.deps.TurnLog.LogCompletion(ctx, logging.Completion{
		SessionID:    o.sessionID,
		WorldState:   req.Ledgers,
		UserInput:    req.Action,
		SystemPrompt: req.SystemPrompt(),
		Response:     response,
		Metadata: logging.CompletionMetadata{
			Model:         o.deps.Model,
			MaxTokens:     o.deps.MaxTokens,
			ResponseTime:  elapsed,
			StreamingUsed: true,
			Directives:    res.Applied + res.Skipped + len(res.Cues),
			Warnings:      warnings,
		},
	})
	if err != nil {
		o.deps.Logger.Warn("failed to log completion", "error", err)
	}
}

func (o *Orchestrator) setStatus(s Status) {
	o.mu.Lock()
	o.status = s
	o.mu.Unlock()
	o.observeStatus(s)
}

func (o *Orchestrator) observeStatus(s Status) {
	if o.deps.Observer != nil {
		o.deps.Observer.StatusChanged(s)
	}
}

// SetNarration turns spoken narration on or off. Turning it off silences
// whatever is playing.
func (o *Orchestrator) SetNarration(on bool) {
	o.mu.Lock()
	o.narration = on
	o.mu.Unlock()
	if !on && o.deps.Narrator != nil {
		o.deps.Narrator.Stop()
	}
}

// Restore replaces the session with sv. It is refused while a turn is in
// flight.
func (o *Orchestrator) Restore(sv game.Save) error {
	if sv.Ledgers == nil {
		return ErrMissingLedger
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status.Busy() {
		return ErrBusy
	}
	o.sessionID = sv.SessionID
	o.character = sv.Character
	o.store = sv.Ledgers.Clone()
	o.history = game.NewHistory()
	if sv.History != nil {
		o.history = sv.History.Clone()
	}
	o.scene = sv.Scene.Clone()
	o.lastAction = ""
	o.errMsg = ""
	o.status = StatusIdle
	return nil
}

// Save captures the session for persistence.
func (o *Orchestrator) Save() game.Save {
	o.mu.Lock()
	defer o.mu.Unlock()
	return game.Save{
		SessionID: o.sessionID,
		Character: o.character,
		History:   o.history.Clone(),
		Ledgers:   o.store.Clone(),
		Scene:     o.scene.Clone(),
		SavedAt:   time.Now().UTC(),
	}
}

// Snapshot is a deep copy of everything a front-end renders.
type Snapshot struct {
	SessionID  string
	Status     Status
	Character  game.Character
	Ledgers    *ledger.Store
	History    []game.Turn
	Scene      game.Scene
	LastAction string
	Error      string
	Narration  bool
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		SessionID:  o.sessionID,
		Status:     o.status,
		Character:  o.character,
		Ledgers:    o.store.Clone(),
		History:    o.history.Turns(),
		Scene:      o.scene.Clone(),
		LastAction: o.lastAction,
		Error:      o.errMsg,
		Narration:  o.narration,
	}
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Orchestrator) SessionID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sessionID
}

// tee copies every chunk of seq into b.
func tee(seq iter.Seq2[string, error], b *strings.Builder) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for s, err := range seq {
			if err == nil {
				b.WriteString(s)
			}
			if !yield(s, err) {
				return
			}
		}
	}
}
