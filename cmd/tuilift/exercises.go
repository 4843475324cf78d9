package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuilift/internal/api"
	"github.com/verte-zerg/tuilift/internal/model"
	"github.com/verte-zerg/tuilift/internal/stats"
)

var (
	exerciseName        string
	exerciseMuscleGroup string
	exerciseCategory    string
	exerciseNotes       string
	exerciseYes         bool
)

func newExercisesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exercises",
		Aliases: []string{"exercise", "ex"},
		Short:   "Manage the exercise catalog",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List exercises",
		Args:  cobra.NoArgs,
		RunE:  runExercisesListCmd,
	}
	listCmd.Flags().StringVar(&exerciseMuscleGroup, "muscle-group", "", "only this muscle group")

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an exercise",
		Args:  cobra.NoArgs,
		RunE:  runExercisesAddCmd,
	}
	addCmd.Flags().StringVar(&exerciseName, "name", "", "exercise name")
	addCmd.Flags().StringVar(&exerciseMuscleGroup, "muscle-group", "", "muscle group ("+muscleGroupNames()+")")
	addCmd.Flags().StringVar(&exerciseCategory, "category", "", "category ("+categoryNames()+")")
	addCmd.Flags().StringVar(&exerciseNotes, "notes", "", "free-form notes")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("muscle-group")

	editCmd := &cobra.Command{
		Use:   "edit <exercise-id>",
		Short: "Change an exercise",
		Args:  cobra.ExactArgs(1),
		RunE:  runExercisesEditCmd,
	}
	editCmd.Flags().StringVar(&exerciseName, "name", "", "new name")
	editCmd.Flags().StringVar(&exerciseMuscleGroup, "muscle-group", "", "new muscle group")
	editCmd.Flags().StringVar(&exerciseCategory, "category", "", "new category")
	editCmd.Flags().StringVar(&exerciseNotes, "notes", "", "new notes")

	deleteCmd := &cobra.Command{
		Use:   "delete <exercise-id>",
		Short: "Delete an exercise",
		Args:  cobra.ExactArgs(1),
		RunE:  runExercisesDeleteCmd,
	}
	deleteCmd.Flags().BoolVarP(&exerciseYes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(listCmd, addCmd, editCmd, deleteCmd)
	return cmd
}

func runExercisesListCmd(cmd *cobra.Command, _ []string) error {
	var group model.MuscleGroup
	if exerciseMuscleGroup != "" {
		g, err := model.ParseMuscleGroup(exerciseMuscleGroup)
		if err != nil {
			return fmt.Errorf("invalid --muscle-group: %w", err)
		}
		group = g
	}
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	exercises, err := env.client.ListExercises(cmd.Context(), group)
	if err != nil {
		return fmt.Errorf("failed to list exercises: %w", err)
	}
	if len(exercises) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No exercises found.")
		return err
	}
	rows := make([][]string, 0, len(exercises))
	for _, e := range exercises {
		rows = append(rows, []string{stats.TruncateCell(e.Name), string(e.MuscleGroup), string(e.Category), e.ID})
	}
	return stats.WriteTable(cmd.OutOrStdout(), []string{"Name", "Muscle Group", "Category", "ID"}, rows, nil)
}

func runExercisesAddCmd(cmd *cobra.Command, _ []string) error {
	in := model.ExerciseInput{
		Name:        strings.TrimSpace(exerciseName),
		MuscleGroup: model.MuscleGroup(strings.ToLower(strings.TrimSpace(exerciseMuscleGroup))),
		Category:    model.Category(strings.ToLower(strings.TrimSpace(exerciseCategory))),
		Notes:       optionalString(exerciseNotes),
	}
	if err := in.Validate(); err != nil {
		return err
	}
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	created, err := env.client.CreateExercise(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("failed to create exercise: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", created.Name, created.ID)
	return err
}

func exercisePatchFromFlags(cmd *cobra.Command) (model.ExercisePatch, error) {
	var patch model.ExercisePatch
	flags := cmd.Flags()
	if flags.Changed("name") {
		name := strings.TrimSpace(exerciseName)
		if err := model.ValidateName(name); err != nil {
			return patch, err
		}
		patch.Name = &name
	}
	if flags.Changed("muscle-group") {
		g, err := model.ParseMuscleGroup(exerciseMuscleGroup)
		if err != nil {
			return patch, fmt.Errorf("invalid --muscle-group: %w", err)
		}
		patch.MuscleGroup = &g
	}
	if flags.Changed("category") {
		c, err := model.ParseCategory(exerciseCategory)
		if err != nil {
			return patch, fmt.Errorf("invalid --category: %w", err)
		}
		patch.Category = &c
	}
	if flags.Changed("notes") {
		notes := exerciseNotes
		patch.Notes = &notes
	}
	if patch.Empty() {
		return patch, fmt.Errorf("nothing to change: pass --name, --muscle-group, --category or --notes")
	}
	return patch, nil
}

func runExercisesEditCmd(cmd *cobra.Command, args []string) error {
	patch, err := exercisePatchFromFlags(cmd)
	if err != nil {
		return err
	}
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	updated, err := env.client.UpdateExercise(cmd.Context(), args[0], patch)
	if err != nil {
		return fmt.Errorf("failed to update exercise: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", updated.Name)
	return err
}

func runExercisesDeleteCmd(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	id := args[0]
	name := exerciseLabel(cmd.Context(), env.client, id)
	if err := confirmDelete(cmd, name, exerciseYes); err != nil {
		return err
	}
	if err := env.client.DeleteExercise(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
	return err
}

func exerciseLabel(ctx context.Context, client *api.Client, id string) string {
	names, err := exerciseNames(ctx, client)
	if err != nil {
		return id
	}
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

func exerciseNames(ctx context.Context, client *api.Client) (map[string]string, error) {
	exercises, err := client.ListExercises(ctx, "")
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(exercises))
	for _, e := range exercises {
		names[e.ID] = e.Name
	}
	return names, nil
}

func muscleGroupNames() string {
	names := make([]string, len(model.MuscleGroups))
	for i, g := range model.MuscleGroups {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}

func categoryNames() string {
	names := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
