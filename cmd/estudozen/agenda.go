package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"estudozen/internal/bootstrap"
	agendadto "estudozen/internal/modules/agenda/dto"
)

type itemFlags struct {
	title        string
	description  string
	itemType     string
	at           string
	remindBefore time.Duration
	remindAt     string
	noReminder   bool
}

func (f *itemFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "item title")
	cmd.Flags().StringVar(&f.description, "desc", "", "item description")
	cmd.Flags().StringVar(&f.itemType, "type", "", "item type, e.g. study|exam|task")
	cmd.Flags().StringVar(&f.at, "at", "", `start time: "2006-01-02 15:04" or "15:04" (next occurrence)`)
	cmd.Flags().DurationVar(&f.remindBefore, "remind-before", 0, "remind this long before the start, e.g. 10m")
	cmd.Flags().StringVar(&f.remindAt, "remind-at", "", "remind at an explicit time, same formats as --at")
	cmd.Flags().BoolVar(&f.noReminder, "no-reminder", false, "clear the reminder")
}

func newAgendaCmd(opts *rootOptions) *cobra.Command {
	agenda := &cobra.Command{Use: "agenda", Short: "Scheduled study items"}

	var addFlags itemFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Schedule an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addFlags.title == "" && len(args) > 0 {
				addFlags.title = strings.Join(args, " ")
			}
			now := time.Now()
			start, err := parseWhen(addFlags.at, now)
			if err != nil {
				return err
			}
			in := agendadto.CreateItemInput{
				Title:       addFlags.title,
				Description: addFlags.description,
				Type:        addFlags.itemType,
				StartTime:   start,
			}
			switch {
			case addFlags.remindAt != "":
				at, err := parseWhen(addFlags.remindAt, now)
				if err != nil {
					return err
				}
				in.Reminder, in.ReminderTime = true, at
			case addFlags.remindBefore > 0:
				in.Reminder, in.ReminderTime = true, start.Add(-addFlags.remindBefore)
			}
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.AgendaCLI.Add(ctx, in)
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "scheduled %s (%s)", out.Title, out.ID)
				return nil
			})
		},
	}
	addFlags.register(add)

	var editFlags itemFlags
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an item; only the given flags are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := editInput(cmd, args[0], editFlags, time.Now())
			if err != nil {
				return err
			}
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.AgendaCLI.Edit(ctx, in)
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "updated %s", out.Title)
				return nil
			})
		},
	}
	editFlags.register(edit)

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an item and its reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				if err := app.AgendaCLI.Remove(ctx, args[0]); err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "removed %s", args[0])
				return nil
			})
		},
	}

	var undo bool
	done := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark an item completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.AgendaCLI.Done(ctx, args[0], !undo)
				if err != nil {
					return err
				}
				if out.IsCompleted {
					success(cmd.OutOrStdout(), "completed %s", out.Title)
				} else {
					success(cmd.OutOrStdout(), "reopened %s", out.Title)
				}
				return nil
			})
		},
	}
	done.Flags().BoolVar(&undo, "undo", false, "mark as not completed")

	list := &cobra.Command{
		Use:   "list",
		Short: "List items by start time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				items, err := app.AgendaCLI.List(ctx)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "agenda is empty")
					return nil
				}
				table := newTable(cmd.OutOrStdout(), "ID", "Start", "Title", "Type", "Reminder", "")
				for _, it := range items {
					reminder := "-"
					if it.Reminder {
						reminder = it.ReminderTime.Local().Format("01-02 15:04")
					}
					status := ""
					if it.IsCompleted {
						status = green("done")
					}
					_ = table.Append([]string{
						it.ID,
						it.StartTime.Local().Format("Mon 01-02 15:04"),
						it.Title,
						it.Type,
						reminder,
						status,
					})
				}
				return table.Render()
			})
		},
	}

	agenda.AddCommand(add, edit, rm, done, list)
	return agenda
}

func editInput(cmd *cobra.Command, id string, f itemFlags, now time.Time) (agendadto.UpdateItemInput, error) {
	in := agendadto.UpdateItemInput{ID: id}
	changed := cmd.Flags().Changed
	if changed("title") {
		in.Title = &f.title
	}
	if changed("desc") {
		in.Description = &f.description
	}
	if changed("type") {
		in.Type = &f.itemType
	}
	if changed("at") {
		start, err := parseWhen(f.at, now)
		if err != nil {
			return in, err
		}
		in.StartTime = &start
	}
	switch {
	case f.noReminder:
		off := false
		in.Reminder = &off
	case changed("remind-at"):
		at, err := parseWhen(f.remindAt, now)
		if err != nil {
			return in, err
		}
		on := true
		in.Reminder, in.ReminderTime = &on, &at
	case changed("remind-before"):
		if in.StartTime == nil {
			return in, fmt.Errorf("--remind-before needs --at when editing")
		}
		at := in.StartTime.Add(-f.remindBefore)
		on := true
		in.Reminder, in.ReminderTime = &on, &at
	}
	return in, nil
}

// parseWhen reads a local date-time, or a bare clock time meaning its next
// occurrence after now.
func parseWhen(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("a time is required (--at)")
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", value, now.Location()); err == nil {
		return t, nil
	}
	clock, err := time.ParseInLocation("15:04", value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised time %q", value)
	}
	t := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}
