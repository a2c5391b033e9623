package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/JPClow3/Veins-of-Erid-n/cmd/game/ui"
	"github.com/JPClow3/Veins-of-Erid-n/internal/config"
)

var (
	resumeSession string
	noNarration   bool
)

// rootCmd plays the game when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "veins",
	Short: "Veins of Eridûn, an AI-narrated text adventure",
	Long: `Veins of Eridûn streams a story from a language model, keeps the
journal, reputation, people, inventory, world map and vitals ledgers in sync
with what the narrator says, and illustrates and voices each scene.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start or resume a game",
	Args:  cobra.NoArgs,
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if noNarration {
		cfg.SpeechEnabled = false
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	a, err := createApp(ctx, cfg, resumeSession)
	if err != nil {
		return err
	}
	defer a.Close()
	a.start(ctx)

	p := tea.NewProgram(ui.NewModel(ctx, a.orch, a.debugLogger), tea.WithAltScreen(), tea.WithContext(ctx))
	a.bridge.Attach(ctx, p.Send)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, playCmd} {
		c.Flags().StringVar(&resumeSession, "resume", "", `resume a saved session by id, or "latest"`)
		c.Flags().BoolVar(&noNarration, "no-narration", false, "disable spoken narration")
	}
	rootCmd.AddCommand(playCmd, reviewCmd, rateCmd, savesCmd, mcpCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
