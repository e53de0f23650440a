package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"estudozen/internal/platform/alert"
	"estudozen/internal/platform/kv"
)

// RunDaemon keeps reminders scheduled and the timer ticking until ctx is
// done, following changes other invocations make to the store.
func RunDaemon(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := app.reminders.Start(ctx); err != nil {
		return fmt.Errorf("start reminders: %w", err)
	}
	defer app.reminders.Stop()

	if err := app.follow(ctx); err != nil {
		return err
	}

	pending := app.reminders.Pending(ctx)
	app.Logger.Info("daemon running", "data_dir", app.Config.DataDir, "reminders", len(pending))

	g, gctx := errgroup.WithContext(ctx)
	if addr := app.Config.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", app.Metrics.Handler())
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			app.Logger.Info("serving metrics", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})
	return g.Wait()
}

// follow reloads each module whose key changes on disk. Our own writes come
// back through here too; reloading them is idempotent.
func (a *App) follow(ctx context.Context) error {
	changes, err := a.store.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch store: %w", err)
	}
	go func() {
		for key := range changes {
			if err := a.reload(ctx, key); err != nil {
				a.Logger.Warn("reload after external change failed", "key", key, "error", err)
			}
		}
	}()
	return nil
}

func (a *App) reload(ctx context.Context, key string) error {
	switch key {
	case kv.KeyAgendaItems:
		return a.agenda.Reload(ctx)
	case kv.KeyFocusState:
		return a.focus.Reload(ctx)
	case kv.KeyStats:
		return a.stats.Reload(ctx)
	case kv.KeyTimerSnapshot, kv.KeyTimerDefault:
		return a.timer.Reload(ctx)
	case kv.KeyAlertPermission:
		var stored alert.Permission
		found, err := a.store.Get(ctx, kv.KeyAlertPermission, &stored)
		if err != nil || !found || stored == a.terminal.Permission() {
			return err
		}
		_, err = a.focus.SetPermission(ctx, string(stored))
		return err
	}
	return nil
}
