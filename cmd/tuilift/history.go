package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuilift/internal/api"
	"github.com/verte-zerg/tuilift/internal/historyui"
	"github.com/verte-zerg/tuilift/internal/stats"
)

const defaultWindow = 5

var (
	historySince  string
	historyUntil  string
	historyLimit  int
	historyMonths int
	historyWindow int

	historyDeleteYes bool
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past workouts and body weight",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.PersistentFlags().StringVar(&historySince, "since", "", "first date (YYYY-MM-DD)")
	cmd.PersistentFlags().StringVar(&historyUntil, "until", "", "last date (YYYY-MM-DD)")
	cmd.PersistentFlags().IntVar(&historyLimit, "limit", api.DefaultSessionLimit, "maximum number of workouts")
	cmd.PersistentFlags().IntVar(&historyMonths, "months", api.DefaultWeightMonths, "months of body weight")
	cmd.PersistentFlags().IntVar(&historyWindow, "window", defaultWindow, "moving average window")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print workouts as a table",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	})
	deleteCmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a workout",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDeleteCmd,
	}
	deleteCmd.Flags().BoolVarP(&historyDeleteYes, "yes", "y", false, "do not ask for confirmation")
	cmd.AddCommand(deleteCmd)
	return cmd
}

func historyConfig(cmd *cobra.Command, env *appEnv) (stats.HistoryConfig, error) {
	applyIntConfig(cmd, "limit", &historyLimit, env.file.History.Limit)
	applyIntConfig(cmd, "months", &historyMonths, env.file.History.Months)
	applyIntConfig(cmd, "window", &historyWindow, env.file.History.Window)
	if historyLimit < 1 {
		return stats.HistoryConfig{}, fmt.Errorf("--limit must be > 0")
	}
	if historyMonths < 1 {
		return stats.HistoryConfig{}, fmt.Errorf("--months must be > 0")
	}
	if historyWindow < 1 {
		return stats.HistoryConfig{}, fmt.Errorf("--window must be > 0")
	}
	start, err := parseDateFlag("since", historySince)
	if err != nil {
		return stats.HistoryConfig{}, err
	}
	end, err := parseDateFlag("until", historyUntil)
	if err != nil {
		return stats.HistoryConfig{}, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return stats.HistoryConfig{}, fmt.Errorf("--until must not be before --since")
	}
	return stats.HistoryConfig{Start: start, End: end, Limit: historyLimit, Months: historyMonths}, nil
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer env.Close()

	cfg, err := historyConfig(cmd, env)
	if err != nil {
		return err
	}
	model := historyui.NewModel(env.client, historyui.Config{History: cfg, Window: historyWindow})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	cfg, err := historyConfig(cmd, env)
	if err != nil {
		return err
	}
	report, err := stats.BuildReport(cmd.Context(), env.client, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Sessions); err != nil {
		return err
	}
	if err := stats.RenderHistory(out, report.Sessions); err != nil {
		return err
	}
	if len(report.Sessions) < 2 {
		return nil
	}
	if _, err := fmt.Fprintln(out, ""); err != nil {
		return err
	}
	return stats.RenderVolumeTrend(out, report.Chronological(), plotOptions())
}

func runHistoryDeleteCmd(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	id := args[0]
	name := sessionLabel(cmd.Context(), env.client, id)
	if err := confirmDelete(cmd, name, historyDeleteYes); err != nil {
		return err
	}
	if err := env.client.DeleteSession(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
	return err
}

// sessionLabel names a session for the confirmation prompt, falling back to
// its id when it is not among the recent ones.
func sessionLabel(ctx context.Context, client *api.Client, id string) string {
	sessions, err := client.ListSessions(ctx, api.SessionFilter{})
	if err != nil {
		return id
	}
	for _, s := range sessions {
		if s.ID == id {
			return fmt.Sprintf("%s on %s", s.Title(), s.Date)
		}
	}
	return id
}

// plotOptions leaves width and colour to the plotter, which checks the
// terminal itself.
func plotOptions() stats.RenderOptions {
	return stats.RenderOptions{Window: historyWindow, Height: 10}
}
