package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/JPClow3/Veins-of-Erid-n/internal/debug"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game/ledger"
)

const (
	serverName    = "veins-ledger-inspector"
	serverVersion = "v1.0.0"
)

// Source yields the session the tools report on.
type Source interface {
	Current(ctx context.Context) (game.Save, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (game.Save, error)

func (f SourceFunc) Current(ctx context.Context) (game.Save, error) { return f(ctx) }

// Server exposes read-only views of a session's ledgers, history and scene.
type Server struct {
	mcpServer *mcp.Server
	source    Source
	debug     *debug.Logger
}

func NewServer(source Source, debug *debug.Logger) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	s := &Server{mcpServer: mcpServer, source: source, debug: debug}

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "get_ledgers",
		Description: "Returns every ledger of the session: journal, reputation, people, inventory, world map, vitals, knowledge and act",
	}, s.getLedgers)
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "get_history",
		Description: "Returns the resolved turns of the session, oldest first",
	}, s.getHistory)
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "get_scene",
		Description: "Returns the choices and illustration prompt of the current scene",
	}, s.getScene)

	return s
}

// Serve runs the server over stdio until ctx is cancelled or the client
// disconnects.
func (s *Server) Serve(ctx context.Context) error {
	return s.ServeTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) ServeTransport(ctx context.Context, transport mcp.Transport) error {
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

type LedgersInput struct{}

type LedgersResult struct {
	SessionID string        `json:"session_id"`
	Act       int           `json:"act"`
	Ledgers   *ledger.Store `json:"ledgers"`
}

type HistoryInput struct {
	Last int `json:"last,omitempty" jsonschema:"only return this many of the most recent turns"`
}

type TurnView struct {
	Action     string `json:"action"`
	Narrative  string `json:"narrative"`
	Directives int    `json:"directives"`
}

type HistoryResult struct {
	SessionID string     `json:"session_id"`
	Total     int        `json:"total"`
	Turns     []TurnView `json:"turns"`
}

type SceneInput struct{}

type ChoiceView struct {
	Text string `json:"text"`
	Lean string `json:"lean,omitempty"`
}

type SceneResult struct {
	SessionID         string       `json:"session_id"`
	ImagePrompt       string       `json:"image_prompt"`
	Choices           []ChoiceView `json:"choices"`
	GameOver          bool         `json:"game_over"`
	EndingDescription string       `json:"ending_description,omitempty"`
	AllowCustomAction bool         `json:"allow_custom_action"`
	HasImage          bool         `json:"has_image"`
}

func (s *Server) current(ctx context.Context, tool string) (game.Save, error) {
	sv, err := s.source.Current(ctx)
	if err != nil {
		s.debug.Printf("MCP %s failed: %v", tool, err)
		return game.Save{}, fmt.Errorf("load session: %w", err)
	}
	s.debug.Printf("MCP %s for session %s", tool, sv.SessionID)
	return sv, nil
}

func (s *Server) getLedgers(ctx context.Context, _ *mcp.CallToolRequest, _ LedgersInput) (*mcp.CallToolResult, LedgersResult, error) {
	sv, err := s.current(ctx, "get_ledgers")
	if err != nil {
		return nil, LedgersResult{}, err
	}
	store := sv.Ledgers
	if store == nil {
		store = ledger.New(nil, "")
	}
	return nil, LedgersResult{SessionID: sv.SessionID, Act: store.Act, Ledgers: store}, nil
}

func (s *Server) getHistory(ctx context.Context, _ *mcp.CallToolRequest, in HistoryInput) (*mcp.CallToolResult, HistoryResult, error) {
	sv, err := s.current(ctx, "get_history")
	if err != nil {
		return nil, HistoryResult{}, err
	}
	var turns []game.Turn
	if sv.History != nil {
		turns = sv.History.Turns()
	}
	out := HistoryResult{SessionID: sv.SessionID, Total: len(turns), Turns: []TurnView{}}
	if in.Last > 0 && len(turns) > in.Last {
		turns = turns[len(turns)-in.Last:]
	}
	for _, t := range turns {
		out.Turns = append(out.Turns, TurnView{Action: t.Action, Narrative: t.Narrative, Directives: len(t.Directives)})
	}
	return nil, out, nil
}

func (s *Server) getScene(ctx context.Context, _ *mcp.CallToolRequest, _ SceneInput) (*mcp.CallToolResult, SceneResult, error) {
	sv, err := s.current(ctx, "get_scene")
	if err != nil {
		return nil, SceneResult{}, err
	}
	sc := sv.Scene
	out := SceneResult{
		SessionID:         sv.SessionID,
		ImagePrompt:       sc.ImagePrompt,
		Choices:           make([]ChoiceView, 0, len(sc.Choices)),
		GameOver:          sc.GameOver,
		EndingDescription: sc.EndingDescription,
		AllowCustomAction: sc.AllowCustomAction,
		HasImage:          len(sc.Image) > 0,
	}
	for _, c := range sc.Choices {
		out.Choices = append(out.Choices, ChoiceView{Text: c.Text, Lean: string(c.Lean)})
	}
	return nil, out, nil
}
