package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuilift/internal/model"
	"github.com/verte-zerg/tuilift/internal/routine"
	"github.com/verte-zerg/tuilift/internal/stats"
)

var (
	routineName        string
	routineDescription string
	routineStart       string
	routineEnd         string
	routineExercises   []string
	routineRemove      []int
	routineMoves       []string
	routineAll         bool
	routineYes         bool
)

func newRoutinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "routines",
		Aliases: []string{"routine"},
		Short:   "Manage workout routines",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List routines",
		Args:  cobra.NoArgs,
		RunE:  runRoutinesListCmd,
	}
	listCmd.Flags().BoolVar(&routineAll, "all", false, "include routines outside their schedule")

	showCmd := &cobra.Command{
		Use:   "show <routine-id>",
		Short: "Show a routine and its planned exercises",
		Args:  cobra.ExactArgs(1),
		RunE:  runRoutinesShowCmd,
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a routine",
		Args:  cobra.NoArgs,
		RunE:  runRoutinesCreateCmd,
	}
	addRoutineFlags(createCmd)
	_ = createCmd.MarkFlagRequired("name")

	editCmd := &cobra.Command{
		Use:   "edit <routine-id>",
		Short: "Change a routine",
		Long: "Change a routine. Removals run first, then moves, then new exercises are appended.\n" +
			"Positions are 1-based as printed by `tuilift routines show`.",
		Args: cobra.ExactArgs(1),
		RunE: runRoutinesEditCmd,
	}
	addRoutineFlags(editCmd)
	editCmd.Flags().IntSliceVar(&routineRemove, "remove", nil, "remove the provision at position N (repeatable)")
	editCmd.Flags().StringArrayVar(&routineMoves, "move", nil, "move a provision, FROM:TO (repeatable)")

	deleteCmd := &cobra.Command{
		Use:   "delete <routine-id>",
		Short: "Delete a routine",
		Args:  cobra.ExactArgs(1),
		RunE:  runRoutinesDeleteCmd,
	}
	deleteCmd.Flags().BoolVarP(&routineYes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(listCmd, showCmd, createCmd, editCmd, deleteCmd)
	return cmd
}

func addRoutineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&routineName, "name", "", "routine name")
	cmd.Flags().StringVar(&routineDescription, "description", "", "description")
	cmd.Flags().StringVar(&routineStart, "start", "", "schedule start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&routineEnd, "end", "", "schedule end date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&routineExercises, "exercise", nil, "add an exercise, ID[:sets[:reps[:rest]]] (repeatable)")
}

func runRoutinesListCmd(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	routines, err := env.client.ListRoutines(cmd.Context(), !routineAll)
	if err != nil {
		return fmt.Errorf("failed to list routines: %w", err)
	}
	if len(routines) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No routines found.")
		return err
	}
	rows := make([][]string, 0, len(routines))
	for _, r := range routines {
		rows = append(rows, []string{stats.TruncateCell(r.Name), strconv.Itoa(r.ExerciseCount()), scheduleLabel(r.ScheduleStartDate, r.ScheduleEndDate), r.ID})
	}
	return stats.WriteTable(cmd.OutOrStdout(), []string{"Name", "Exercises", "Schedule", "ID"}, rows, map[int]bool{1: true})
}

func runRoutinesShowCmd(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	r, err := env.client.GetRoutine(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load routine: %w", err)
	}
	names, err := exerciseNames(cmd.Context(), env.client)
	if err != nil {
		return fmt.Errorf("failed to list exercises: %w", err)
	}
	return renderRoutine(cmd.OutOrStdout(), *r, names)
}

func renderRoutine(w io.Writer, r model.Routine, names map[string]string) error {
	lines := []string{r.Name}
	if r.Description != nil && *r.Description != "" {
		lines = append(lines, *r.Description)
	}
	lines = append(lines, "Schedule: "+scheduleLabel(r.ScheduleStartDate, r.ScheduleEndDate), "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(r.Provisions) == 0 {
		_, err := fmt.Fprintln(w, "No exercises planned.")
		return err
	}
	rows := make([][]string, 0, len(r.Provisions))
	for i, p := range r.Provisions {
		switch v := p.(type) {
		case model.ExerciseProvision:
			rows = append(rows, itemRow(strconv.Itoa(i+1), v.RoutineItem, names))
		case model.SupersetProvision:
			label := "Superset"
			if v.Name != nil && *v.Name != "" {
				label = *v.Name
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), label, "", "", "", "", strconv.Itoa(v.RestSeconds) + "s"})
			for _, item := range v.Items {
				rows = append(rows, itemRow("", item, names))
			}
		default:
			return fmt.Errorf("unhandled provision type %T", p)
		}
	}
	headers := []string{"#", "Exercise", "Sets", "Reps", "Weight", "RPE", "Rest"}
	return stats.WriteTable(w, headers, rows, map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true, 6: true})
}

func itemRow(position string, it model.RoutineItem, names map[string]string) []string {
	name, ok := names[it.ExerciseID]
	if !ok {
		name = it.ExerciseID
	}
	if position == "" {
		name = "  " + name
	}
	return []string{
		position,
		stats.TruncateCell(name),
		strconv.Itoa(it.TargetSets),
		strconv.Itoa(it.TargetReps),
		optionalNumber(it.TargetWeight),
		optionalNumber(it.TargetRPE),
		strconv.Itoa(it.RestSeconds) + "s",
	}
}

func optionalNumber(v *float64) string {
	if v == nil {
		return "-"
	}
	return stats.FormatNumber(*v)
}

func scheduleLabel(start, end *model.Date) string {
	switch {
	case start == nil && end == nil:
		return "always"
	case end == nil:
		return "from " + start.String()
	case start == nil:
		return "until " + end.String()
	default:
		return start.String() + " to " + end.String()
	}
}

// appendExercises adds every --exercise arg to the editor.
func appendExercises(ed *routine.Editor, args []string) error {
	for _, raw := range args {
		arg, err := parseExerciseArg(raw)
		if err != nil {
			return err
		}
		if _, err := ed.AddExercise(arg.ExerciseID); err != nil {
			return err
		}
		if err := ed.SetTargets(ed.Len()-1, arg.Targets); err != nil {
			return fmt.Errorf("--exercise %q: %w", raw, err)
		}
	}
	return nil
}

func runRoutinesCreateCmd(cmd *cobra.Command, _ []string) error {
	start, err := parseDateFlag("start", routineStart)
	if err != nil {
		return err
	}
	end, err := parseDateFlag("end", routineEnd)
	if err != nil {
		return err
	}
	ed := routine.NewEditor(nil)
	if err := appendExercises(ed, routineExercises); err != nil {
		return err
	}
	in := model.RoutineInput{
		Name:              strings.TrimSpace(routineName),
		Description:       optionalString(routineDescription),
		ScheduleStartDate: start,
		ScheduleEndDate:   end,
		Provisions:        ed.Provisions(),
	}
	if err := in.Validate(); err != nil {
		return err
	}

	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	created, err := env.client.CreateRoutine(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("failed to create routine: %w", err)
	}
	warnUnsavedProvisions(cmd.ErrOrStderr(), ed, created.Provisions)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", created.Name, created.ID)
	return err
}

// warnUnsavedProvisions loads the saved provisions into ed and warns when
// the server kept any locally assigned id.
func warnUnsavedProvisions(w io.Writer, ed *routine.Editor, saved model.Provisions) {
	ed.Load(saved)
	if !ed.HasTemporaryIDs() {
		return
	}
	_, _ = fmt.Fprintln(w, "warning: the server kept temporary provision ids; run \"routines show\" to check the saved plan")
}

// editProvisions applies --remove, --move and --exercise to ed, in that
// order. Removals go from the highest position down so earlier positions
// stay valid.
func editProvisions(ed *routine.Editor, remove []int, moves, add []string) error {
	positions := append([]int(nil), remove...)
	sort.Sort(sort.Reverse(sort.IntSlice(positions)))
	for i, pos := range positions {
		if i > 0 && positions[i-1] == pos {
			continue
		}
		if err := ed.Remove(pos - 1); err != nil {
			return fmt.Errorf("--remove %d: %w", pos, err)
		}
	}
	for _, raw := range moves {
		from, to, err := parseMove(raw)
		if err != nil {
			return err
		}
		if err := ed.Move(from, to); err != nil {
			return fmt.Errorf("--move %s: %w", raw, err)
		}
	}
	return appendExercises(ed, add)
}

func runRoutinesEditCmd(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	flags := cmd.Flags()
	var patch model.RoutinePatch
	if flags.Changed("name") {
		name := strings.TrimSpace(routineName)
		patch.Name = &name
	}
	if flags.Changed("description") {
		desc := routineDescription
		patch.Description = &desc
	}
	if flags.Changed("start") {
		if patch.ScheduleStartDate, err = parseDateFlag("start", routineStart); err != nil {
			return err
		}
	}
	if flags.Changed("end") {
		if patch.ScheduleEndDate, err = parseDateFlag("end", routineEnd); err != nil {
			return err
		}
	}

	if len(routineRemove) > 0 || len(routineMoves) > 0 || len(routineExercises) > 0 {
		current, err := env.client.GetRoutine(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load routine: %w", err)
		}
		ed := routine.NewEditor(current.Provisions)
		if err := editProvisions(ed, routineRemove, routineMoves, routineExercises); err != nil {
			return err
		}
		provisions := ed.Provisions()
		patch.Provisions = &provisions
	}

	if patch == (model.RoutinePatch{}) {
		return fmt.Errorf("nothing to change")
	}
	if err := patch.Validate(); err != nil {
		return err
	}
	updated, err := env.client.UpdateRoutine(cmd.Context(), args[0], patch)
	if err != nil {
		return fmt.Errorf("failed to update routine: %w", err)
	}
	if patch.Provisions != nil {
		warnUnsavedProvisions(cmd.ErrOrStderr(), routine.NewEditor(nil), updated.Provisions)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", updated.Name)
	return err
}

func runRoutinesDeleteCmd(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	id := args[0]
	name := id
	if r, err := env.client.GetRoutine(cmd.Context(), id); err == nil {
		name = r.Name
	}
	if err := confirmDelete(cmd, name, routineYes); err != nil {
		return err
	}
	if err := env.client.DeleteRoutine(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete routine: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
	return err
}
