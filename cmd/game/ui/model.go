package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JPClow3/Veins-of-Erid-n/internal/debug"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/events"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/orchestrator"
)

const maxToasts = 6

// Game is the part of the orchestrator the front-end drives.
type Game interface {
	Submit(ctx context.Context, action string) (bool, error)
	Retry(ctx context.Context) (bool, error)
	Snapshot() orchestrator.Snapshot
	SetNarration(on bool)
}

type Model struct {
	ctx            context.Context
	game           Game
	debugLogger    *debug.Logger
	snap           orchestrator.Snapshot
	narrative      string
	toasts         []events.Update
	cue            string
	input          string
	width          int
	height         int
	loading        bool
	animationFrame int
}

func NewModel(ctx context.Context, g Game, debugLogger *debug.Logger) Model {
	return Model{
		ctx:         ctx,
		game:        g,
		debugLogger: debugLogger,
		snap:        g.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	if len(m.snap.History) == 0 {
		return m.submit("Look around")
	}
	return nil
}

type animationTickMsg struct{}

func animationTimer() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// submit runs a whole turn off the UI goroutine; progress arrives through
// the Bridge.
func (m Model) submit(action string) tea.Cmd {
	g, ctx := m.game, m.ctx
	return func() tea.Msg {
		accepted, err := g.Submit(ctx, action)
		return turnDoneMsg{accepted: accepted, err: err}
	}
}

func (m Model) retry() tea.Cmd {
	g, ctx := m.game, m.ctx
	return func() tea.Msg {
		accepted, err := g.Retry(ctx)
		return turnDoneMsg{accepted: accepted, err: err}
	}
}
