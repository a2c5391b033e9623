package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JPClow3/Veins-of-Erid-n/internal/config"
	"github.com/JPClow3/Veins-of-Erid-n/internal/debug"
	"github.com/JPClow3/Veins-of-Erid-n/internal/game"
	"github.com/JPClow3/Veins-of-Erid-n/internal/logging"
	"github.com/JPClow3/Veins-of-Erid-n/internal/mcp"
)

var reviewLimit int

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Show recent story completions and their ratings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, _, completions, err := openStores(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		recent, err := completions.GetRecentCompletions(cmd.Context(), reviewLimit)
		if err != nil {
			return err
		}
		printCompletions(cmd.OutOrStdout(), recent)
		return nil
	},
}

func printCompletions(w io.Writer, completions []logging.CompletionLog) {
	if len(completions) == 0 {
		fmt.Fprintln(w, "No completions found. Play the game first to generate data!")
		return
	}

	fmt.Fprintf(w, "Recent completions (%d):\n\n", len(completions))
	for _, comp := range completions {
		if metadata, err := comp.DecodeMetadata(); err == nil {
			fmt.Fprintf(w, "[%d] %s | %v | %d directives | %s\n",
				comp.ID,
				comp.Timestamp.Format("2006-01-02 15:04:05"),
				metadata.ResponseTime,
				metadata.Directives,
				comp.UserInput)
			for _, warning := range metadata.Warnings {
				fmt.Fprintf(w, "  ! %s\n", warning)
			}
		} else {
			fmt.Fprintf(w, "[%d] %s | %s\n", comp.ID, comp.Timestamp.Format("2006-01-02 15:04:05"), comp.UserInput)
		}

		fmt.Fprintf(w, "Response: %s\n", comp.Response)
		if comp.Rating != nil {
			fmt.Fprintf(w, "Rating: %d/5", *comp.Rating)
			if comp.Notes != nil {
				fmt.Fprintf(w, " - %s", *comp.Notes)
			}
		} else {
			fmt.Fprint(w, "Rating: not rated")
		}
		fmt.Fprintln(w, "\n"+strings.Repeat("-", 50))
	}

	fmt.Fprintln(w, "\nTo rate a completion: veins rate <id> <rating> [notes]")
}

var rateCmd = &cobra.Command{
	Use:   "rate <id> <rating> [notes...]",
	Short: "Rate a completion from 1 to 5",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID: %w", err)
		}
		rating, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid rating: %w", err)
		}
		notes := strings.Join(args[2:], " ")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, _, completions, err := openStores(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := completions.RateCompletion(cmd.Context(), id, rating, notes); err != nil {
			return fmt.Errorf("failed to rate completion: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Rated completion %d as %d/5", id, rating)
		if notes != "" {
			fmt.Fprintf(out, " with notes: %s", notes)
		}
		fmt.Fprintln(out)
		return nil
	},
}

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List saved sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, saves, _, err := openStores(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		summaries, err := saves.List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(summaries) == 0 {
			fmt.Fprintln(out, "No saved sessions.")
			return nil
		}
		for _, s := range summaries {
			fmt.Fprintf(out, "%s  %-12s  Act %d  %3d turns  %s\n",
				s.SessionID, s.Character, s.Act, s.Turns, s.SavedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, saves, _, err := openStores(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := saves.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var mcpSession string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve a saved session's ledgers over MCP on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, saves, _, err := openStores(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		// stdout belongs to the protocol.
		debugLogger := debug.NewLogger(cfg.Debug, cfg.LogPath)
		source := mcp.SourceFunc(func(ctx context.Context) (game.Save, error) {
			if mcpSession == "" {
				return saves.Latest(ctx)
			}
			return saves.Load(ctx, mcpSession)
		})
		return mcp.NewServer(source, debugLogger).Serve(cmd.Context())
	},
}

func init() {
	reviewCmd.Flags().IntVarP(&reviewLimit, "limit", "n", 10, "number of completions to show")
	mcpCmd.Flags().StringVar(&mcpSession, "session", "", "session to inspect (default: most recently saved)")
	savesCmd.AddCommand(savesDeleteCmd)
}
