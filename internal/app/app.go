// Package app wires configuration, the Telegram adapter, the spreadsheet
// repository and the services into one lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"monebot/internal/bot"
	"monebot/internal/config"
	"monebot/internal/drive"
	"monebot/internal/repository"
	rtsup "monebot/internal/runtime/supervisor"
	"monebot/internal/services/broadcast"
	"monebot/internal/services/health"
	"monebot/internal/services/notify"
	"monebot/internal/storage"
	"monebot/internal/transport"
	telegram "monebot/internal/transport/telegram/adapter"
	logx "monebot/pkg/logx"
)

type App struct {
	cfgPath string

	cfgm *config.Manager
	sup  *rtsup.Supervisor

	log  logx.Logger
	logs *logx.Service

	store   storage.Store
	adapter transport.Adapter
	repo    repository.Store

	handler *bot.Handler
	bcast   *broadcast.Service
	notif   *notify.Service
	health  *health.Service

	updates chan transport.Update
}

func New(ctx context.Context, cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", cfgPath, err)
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfgm.Commit(cfg)

	if cfg.Telegram.Token == "" {
		return nil, errors.New("telegram token is required (config telegram.token or BOT_TOKEN)")
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log = log.With(logx.String("comp", "app"))

	adCfg, err := mapAdapterConfig(cfg)
	if err != nil {
		return nil, err
	}
	ad, err := telegram.New(adCfg, log.With(logx.String("comp", "telegram")))
	if err != nil {
		return nil, err
	}

	repo, err := repository.NewSheets(ctx, mapRepositoryConfig(cfg), log.With(logx.String("comp", "sheets")))
	if err != nil {
		return nil, err
	}

	var store storage.Store
	if sc, enabled, err := mapStorageConfig(cfg); err != nil {
		return nil, err
	} else if enabled {
		store, err = storage.Open(sc, log.With(logx.String("comp", "storage")))
		if err != nil {
			return nil, err
		}
		log.Info("storage enabled", logx.String("driver", sc.Driver))
	}

	loc, err := notifyLocation(cfg)
	if err != nil {
		return nil, err
	}
	ncfg, err := mapNotifyConfig(cfg)
	if err != nil {
		return nil, err
	}

	bcast := broadcast.New(mapBroadcastConfig(cfg), ad, log.With(logx.String("comp", "broadcast")))
	notif := notify.New(ncfg, repo, bcast, store, loc, log.With(logx.String("comp", "notify")))
	healthSvc := health.New(mapHealthConfig(cfg), log.With(logx.String("comp", "health")))

	handler := bot.New(bot.Config{AdminChatID: cfg.Telegram.AdminChatID},
		repo, drive.NewFetcher(), ad, store, log.With(logx.String("comp", "bot")))

	return &App{
		cfgPath: cfgPath,
		cfgm:    cfgm,
		log:     log,
		logs:    logSvc,
		store:   store,
		adapter: ad,
		repo:    repo,
		handler: handler,
		bcast:   bcast,
		notif:   notif,
		health:  healthSvc,
		updates: make(chan transport.Update, 256),
	}, nil
}

// Done is closed when the app supervisor context is canceled (fatal error or Stop()).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor (if any).
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Start(ctx context.Context) error {
	a.sup = rtsup.New(ctx, rtsup.WithLogger(a.log), rtsup.WithCancelOnError(true))

	// Transactional config reload: validate before commit/publish.
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(c context.Context, cfg *config.Config) error {
		if _, err := mapAdapterConfig(cfg); err != nil {
			return err
		}
		if _, err := mapNotifyConfig(cfg); err != nil {
			return err
		}
		if _, _, err := mapStorageConfig(cfg); err != nil {
			return err
		}
		if _, err := notifyLocation(cfg); err != nil {
			return err
		}
		return nil
	})

	if err := a.adapter.Start(a.sup.Context(), a.updates); err != nil {
		return err
	}

	if a.health.Enabled() {
		a.health.Start(a.sup.Context())
	}
	if err := a.notif.Start(a.sup.Context()); err != nil {
		return err
	}

	a.sup.Go0("updates.dispatch", func(c context.Context) {
		for {
			select {
			case <-c.Done():
				return
			case u, ok := <-a.updates:
				if !ok {
					return
				}
				go a.dispatch(c, u)
			}
		}
	})

	// Hot reload fan-out: logging and notify thresholds apply live, the
	// rest (token, sheets, storage) needs a restart.
	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		for {
			select {
			case <-c.Done():
				return
			case newCfg, ok := <-sub:
				if !ok {
					return
				}
				a.applyReload(newCfg)
			}
		}
	})

	a.sup.Go("config.watch", func(c context.Context) error {
		return a.cfgm.Watch(c)
	})

	// Tell systemd (when present) that we are serving.
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		a.log.Debug("sd_notify ready failed", logx.Err(err))
	}

	a.log.Info("app started")
	return nil
}

func (a *App) dispatch(ctx context.Context, u transport.Update) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("panic in update handler", logx.Any("panic", r))
		}
	}()
	// Bound each update: file downloads dominate the worst case.
	dctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()
	a.handler.Dispatch(dctx, u)
}

func (a *App) applyReload(cfg *config.Config) {
	a.logs.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})

	ncfg, err := mapNotifyConfig(cfg)
	if err != nil {
		a.log.Warn("invalid notify config; keeping previous", logx.Err(err))
	} else {
		a.notif.Apply(ncfg)
	}
	a.log.Info("config reloaded")
}

func (a *App) Stop(ctx context.Context) error {
	if a.sup == nil {
		return nil
	}
	a.log.Info("stopping")
	if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		a.log.Debug("sd_notify stopping failed", logx.Err(err))
	}

	// Cancel the run context first so background loops start unwinding.
	a.sup.Cancel()

	// Each shutdown step gets an upper bound so one component can't stall
	// the whole stop.
	step := func(name string, max time.Duration, fn func(context.Context) error) {
		stepCtx, cancel := context.WithTimeout(ctx, max)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- fmt.Errorf("panic in stop step %s: %v", name, r)
				}
			}()
			done <- fn(stepCtx)
		}()

		select {
		case err := <-done:
			if err != nil {
				a.log.Warn("stop step error", logx.String("name", name), logx.Err(err))
			}
		case <-stepCtx.Done():
			a.log.Warn("stop step deadline reached (continuing)", logx.String("name", name))
		}
	}

	step("notify", 2*time.Second, func(c context.Context) error { a.notif.Stop(c); return nil })
	step("adapter", 2*time.Second, func(c context.Context) error { return a.adapter.Stop(c) })
	step("health", 1*time.Second, func(c context.Context) error { a.health.Stop(c); return nil })
	step("storage", 1*time.Second, func(c context.Context) error {
		if a.store != nil {
			return a.store.Close()
		}
		return nil
	})
	step("supervisor", 2*time.Second, func(c context.Context) error { return a.sup.Wait(c) })

	a.log.Info("stopped")
	if a.logs != nil {
		a.logs.Close()
	}
	return nil
}
