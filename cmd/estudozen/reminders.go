package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"estudozen/internal/bootstrap"
)

func newRemindersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reminders",
		Short: "List reminders that will fire",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				pending, err := app.ReminderCLI.Pending(ctx)
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no pending reminders")
					return nil
				}
				table := newTable(cmd.OutOrStdout(), "Fires", "In", "Title", "Item")
				now := time.Now()
				for _, p := range pending {
					_ = table.Append([]string{
						p.FireAt.Local().Format("Mon 01-02 15:04"),
						p.FireAt.Sub(now).Round(time.Minute).String(),
						p.Title,
						p.ItemID,
					})
				}
				return table.Render()
			})
		},
	}
}
