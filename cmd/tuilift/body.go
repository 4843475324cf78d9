package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuilift/internal/api"
	"github.com/verte-zerg/tuilift/internal/model"
	"github.com/verte-zerg/tuilift/internal/stats"
)

var (
	weightMonths int
	weightDate   string
	weightNotes  string
	weightYes    bool

	profileDisplayName string
	profileHeight      float64
)

func newWeightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weight",
		Short: "Track body weight",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show body weight logs with the trend",
		Args:  cobra.NoArgs,
		RunE:  runWeightListCmd,
	}
	listCmd.Flags().IntVar(&weightMonths, "months", api.DefaultWeightMonths, "months to show")

	logCmd := &cobra.Command{
		Use:   "log <kg>",
		Short: "Record body weight",
		Args:  cobra.ExactArgs(1),
		RunE:  runWeightLogCmd,
	}
	logCmd.Flags().StringVar(&weightDate, "date", "", "date of the measurement (default: today)")
	logCmd.Flags().StringVar(&weightNotes, "notes", "", "free-form notes")

	deleteCmd := &cobra.Command{
		Use:   "delete <log-id>",
		Short: "Delete a body weight log",
		Args:  cobra.ExactArgs(1),
		RunE:  runWeightDeleteCmd,
	}
	deleteCmd.Flags().BoolVarP(&weightYes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(listCmd, logCmd, deleteCmd)
	return cmd
}

func runWeightListCmd(cmd *cobra.Command, _ []string) error {
	if weightMonths < 1 {
		return fmt.Errorf("--months must be > 0")
	}
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	logs, err := env.client.ListWeightLogs(cmd.Context(), weightMonths)
	if err != nil {
		return fmt.Errorf("failed to list weight logs: %w", err)
	}
	stats.SortWeightLogs(logs)
	return stats.RenderWeight(cmd.OutOrStdout(), logs, plotOptions())
}

func parseWeightLog(rawWeight, rawDate, notes string, today time.Time) (model.WeightLogInput, error) {
	weight, err := strconv.ParseFloat(rawWeight, 64)
	if err != nil {
		return model.WeightLogInput{}, fmt.Errorf("invalid weight %q", rawWeight)
	}
	date := model.DateOf(today)
	if rawDate != "" {
		d, err := parseDateFlag("date", rawDate)
		if err != nil {
			return model.WeightLogInput{}, err
		}
		date = *d
	}
	in := model.WeightLogInput{Weight: weight, Date: date, Notes: optionalString(notes)}
	return in, in.Validate()
}

func runWeightLogCmd(cmd *cobra.Command, args []string) error {
	in, err := parseWeightLog(args[0], weightDate, weightNotes, time.Now())
	if err != nil {
		return err
	}
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	created, err := env.client.CreateWeightLog(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("failed to log weight: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged %s kg on %s (%s)\n", stats.FormatNumber(created.Weight), created.Date, created.ID)
	return err
}

func runWeightDeleteCmd(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	id := args[0]
	name := id
	if logs, err := env.client.ListWeightLogs(cmd.Context(), 12); err == nil {
		for _, l := range logs {
			if l.ID == id {
				name = fmt.Sprintf("%s kg on %s", stats.FormatNumber(l.Weight), l.Date)
			}
		}
	}
	if err := confirmDelete(cmd, name, weightYes); err != nil {
		return err
	}
	if err := env.client.DeleteWeightLog(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete weight log: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
	return err
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the user profile",
	}
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		Args:  cobra.NoArgs,
		RunE:  runProfileShowCmd,
	}
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change display name or height",
		Args:  cobra.NoArgs,
		RunE:  runProfileSetCmd,
	}
	setCmd.Flags().StringVar(&profileDisplayName, "display-name", "", "display name")
	setCmd.Flags().Float64Var(&profileHeight, "height", 0, "height in cm")
	cmd.AddCommand(showCmd, setCmd)
	return cmd
}

func runProfileShowCmd(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	p, err := env.client.GetProfile(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	return printProfile(cmd, p)
}

func runProfileSetCmd(cmd *cobra.Command, _ []string) error {
	var patch model.ProfilePatch
	if cmd.Flags().Changed("display-name") {
		name := profileDisplayName
		patch.DisplayName = &name
	}
	if cmd.Flags().Changed("height") {
		height := profileHeight
		patch.HeightCm = &height
	}
	if patch.DisplayName == nil && patch.HeightCm == nil {
		return fmt.Errorf("nothing to change: pass --display-name or --height")
	}
	if err := patch.Validate(); err != nil {
		return err
	}
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	p, err := env.client.UpdateProfile(cmd.Context(), patch)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return printProfile(cmd, p)
}

func printProfile(cmd *cobra.Command, p *model.UserProfile) error {
	name, height := "-", "-"
	if p.DisplayName != nil && *p.DisplayName != "" {
		name = *p.DisplayName
	}
	if p.HeightCm != nil {
		height = stats.FormatNumber(*p.HeightCm) + " cm"
	}
	rows := [][]string{
		{"Email", p.Email},
		{"Name", name},
		{"Height", height},
		{"Member since", p.CreatedAt.Local().Format("2006-01-02")},
	}
	return stats.WriteTable(cmd.OutOrStdout(), nil, rows, nil)
}
