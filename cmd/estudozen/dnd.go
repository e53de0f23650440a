package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"estudozen/internal/bootstrap"
	focusdto "estudozen/internal/modules/focus/dto"
)

func newDNDCmd(opts *rootOptions) *cobra.Command {
	dnd := &cobra.Command{Use: "dnd", Short: "Do-not-disturb override for reminders"}

	on := &cobra.Command{
		Use:   "on",
		Short: "Block reminders until dnd off",
		Long:  "Block reminders until dnd off. A manual block stays in place when a study session ends.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				st, err := app.FocusCLI.On(ctx)
				if err != nil {
					return err
				}
				if !st.IsBlocked {
					warning(cmd.ErrOrStderr(), "alerts are not granted (%s); nothing to block", st.EffectivePermission)
				}
				printFocus(cmd.OutOrStdout(), st)
				return nil
			})
		},
	}

	off := &cobra.Command{
		Use:   "off",
		Short: "Allow reminders again",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				st, err := app.FocusCLI.Off(ctx)
				if err != nil {
					return err
				}
				printFocus(cmd.OutOrStdout(), st)
				return nil
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the override and alert permission",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				printFocus(cmd.OutOrStdout(), app.FocusCLI.Status(ctx))
				return nil
			})
		},
	}

	var set string
	permission := &cobra.Command{
		Use:   "permission",
		Short: "Request alert permission, or --set it explicitly",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				var (
					st  focusdto.StateOutput
					err error
				)
				if set != "" {
					st, err = app.FocusCLI.SetPermission(ctx, set)
				} else {
					st, err = app.FocusCLI.RequestPermission(ctx)
				}
				if err != nil {
					return err
				}
				printFocus(cmd.OutOrStdout(), st)
				return nil
			})
		},
	}
	permission.Flags().StringVar(&set, "set", "", "granted|denied|default")

	dnd.AddCommand(on, off, status, permission)
	return dnd
}

func printFocus(w io.Writer, st focusdto.StateOutput) {
	blocked := green("off")
	if st.IsBlocked {
		blocked = yellow("on")
		if st.IsManual {
			blocked += " (manual)"
		}
	}
	_, _ = fmt.Fprintf(w, "do not disturb: %s\n", blocked)
	_, _ = fmt.Fprintf(w, "permission:     %s", st.Permission)
	if st.EffectivePermission != st.Permission {
		_, _ = fmt.Fprintf(w, " (effective %s)", st.EffectivePermission)
	}
	_, _ = fmt.Fprintln(w)
	if st.IsSessionActive {
		_, _ = fmt.Fprintln(w, "a study session is running")
	}
}
