package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"

	agendainadapter "estudozen/internal/modules/agenda/adapter/in"
	agendaoutadapter "estudozen/internal/modules/agenda/adapter/out"
	agendain "estudozen/internal/modules/agenda/port/in"
	agendaservice "estudozen/internal/modules/agenda/service"
	agendausecase "estudozen/internal/modules/agenda/usecase"
	focusinadapter "estudozen/internal/modules/focus/adapter/in"
	focusoutadapter "estudozen/internal/modules/focus/adapter/out"
	focusin "estudozen/internal/modules/focus/port/in"
	focusservice "estudozen/internal/modules/focus/service"
	focususecase "estudozen/internal/modules/focus/usecase"
	reminderinadapter "estudozen/internal/modules/reminder/adapter/in"
	reminderoutadapter "estudozen/internal/modules/reminder/adapter/out"
	reminderin "estudozen/internal/modules/reminder/port/in"
	reminderservice "estudozen/internal/modules/reminder/service"
	reminderusecase "estudozen/internal/modules/reminder/usecase"
	statsinadapter "estudozen/internal/modules/stats/adapter/in"
	statsoutadapter "estudozen/internal/modules/stats/adapter/out"
	statsin "estudozen/internal/modules/stats/port/in"
	statsout "estudozen/internal/modules/stats/port/out"
	statsservice "estudozen/internal/modules/stats/service"
	statsusecase "estudozen/internal/modules/stats/usecase"
	timerinadapter "estudozen/internal/modules/timer/adapter/in"
	timeroutadapter "estudozen/internal/modules/timer/adapter/out"
	timerin "estudozen/internal/modules/timer/port/in"
	timerout "estudozen/internal/modules/timer/port/out"
	timerservice "estudozen/internal/modules/timer/service"
	timerusecase "estudozen/internal/modules/timer/usecase"
	"estudozen/internal/platform/alert"
	"estudozen/internal/platform/clock"
	"estudozen/internal/platform/config"
	"estudozen/internal/platform/id"
	"estudozen/internal/platform/kv"
	"estudozen/internal/platform/logging"
	"estudozen/internal/platform/metrics"
)

type App struct {
	Config  config.Config
	Logger  hclog.Logger
	Metrics *metrics.Metrics

	TimerCLI    timerinadapter.CLIHandler
	StatsCLI    statsinadapter.CLIHandler
	AgendaCLI   agendainadapter.CLIHandler
	FocusCLI    focusinadapter.CLIHandler
	ReminderCLI reminderinadapter.CLIHandler

	store     *kv.Store
	terminal  *alert.Terminal
	timer     timerin.Usecase
	stats     statsin.Usecase
	agenda    agendain.Usecase
	focus     focusin.Usecase
	reminders reminderin.Usecase
	index     *statsoutadapter.SQLiteSessionIndex
}

// New wires every module against the data dir in cfg and restores persisted
// state. The caller must Close the App.
func New(cfg config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	m := metrics.New()
	sched := clock.SystemScheduler{}
	ids := id.ULID{}

	store, err := kv.Open(cfg.KVPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	terminal, err := newTerminal(ctx, cfg, store, logger)
	if err != nil {
		return nil, err
	}

	gateSvc := focusservice.NewGateService(terminal, focusoutadapter.NewKVStateStore(store), logger)
	if err := gateSvc.Load(ctx); err != nil {
		logger.Warn("focus state not restored", "error", err)
	}
	focusUC := focususecase.NewInteractor(gateSvc)

	agendaSvc := agendaservice.NewAgendaService(sched, ids, agendaoutadapter.NewKVItemStore(store), logger)
	agendaUC := agendausecase.NewInteractor(agendaSvc)

	var index statsout.SessionIndex
	sqliteIndex, err := statsoutadapter.NewSQLiteSessionIndex(cfg.DBPath)
	if err != nil {
		logger.Warn("session index unavailable; history reads the ledger", "error", err)
		sqliteIndex = nil
	} else {
		index = sqliteIndex
	}
	ledgerSvc := statsservice.NewLedgerService(
		sched,
		ids,
		statsoutadapter.NewKVAggregateStore(store),
		statsoutadapter.NewMarkdownJournal(cfg.DataDir, time.Local),
		index,
		statsoutadapter.NewAgendaReader(agendaUC),
		m,
		logger,
	)
	if err := ledgerSvc.Load(ctx); err != nil {
		logger.Warn("ledger not restored", "error", err)
	}
	statsUC := statsusecase.NewInteractor(ledgerSvc)

	var gate timerout.FocusGate
	if cfg.AutoDoNotDisturb {
		gate = timeroutadapter.NewFocusGate(focusUC)
	}
	snapshots := timeroutadapter.NewKVSnapshotStore(store)
	timerSvc := timerservice.NewTimerService(
		sched,
		ids,
		snapshots,
		snapshots,
		timeroutadapter.NewLedgerSink(statsUC),
		gate,
		logger,
		cfg.DefaultCountDownSeconds,
	)
	if _, err := timerSvc.Restore(ctx); err != nil {
		logger.Warn("timer not restored", "error", err)
	}
	timerUC := timerusecase.NewInteractor(timerSvc)

	reminderUC := reminderusecase.NewInteractor(reminderservice.NewSchedulerService(
		sched,
		reminderoutadapter.NewAgendaSource(agendaUC),
		reminderoutadapter.NewFocusGate(focusUC),
		terminal,
		m,
		logger,
		cfg.SweepInterval,
	))

	return &App{
		Config:      cfg,
		Logger:      logger,
		Metrics:     m,
		TimerCLI:    timerinadapter.NewCLIHandler(timerUC),
		StatsCLI:    statsinadapter.NewCLIHandler(statsUC),
		AgendaCLI:   agendainadapter.NewCLIHandler(agendaUC),
		FocusCLI:    focusinadapter.NewCLIHandler(focusUC),
		ReminderCLI: reminderinadapter.NewCLIHandler(reminderUC),
		store:       store,
		terminal:    terminal,
		timer:       timerUC,
		stats:       statsUC,
		agenda:      agendaUC,
		focus:       focusUC,
		reminders:   reminderUC,
		index:       sqliteIndex,
	}, nil
}

// newTerminal builds the alert channel. A permission the user chose earlier
// wins over the configured default.
func newTerminal(ctx context.Context, cfg config.Config, store *kv.Store, logger hclog.Logger) (*alert.Terminal, error) {
	perm, err := alert.ParsePermission(cfg.AlertPermission)
	if err != nil {
		return nil, err
	}
	var stored alert.Permission
	found, err := store.Get(ctx, kv.KeyAlertPermission, &stored)
	switch {
	case err != nil:
		logger.Warn("stored alert permission unreadable", "error", err)
	case found:
		if p, err := alert.ParsePermission(string(stored)); err == nil {
			perm = p
		}
	}
	save := func(ctx context.Context, p alert.Permission) error {
		return store.Set(ctx, kv.KeyAlertPermission, p)
	}
	return alert.NewTerminal(os.Stdout, perm, save), nil
}

func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.reminders.Stop()
	var errs []error
	if err := a.timer.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("save timer: %w", err))
	}
	if a.index != nil {
		if err := a.index.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close session index: %w", err))
		}
	}
	return errors.Join(errs...)
}
