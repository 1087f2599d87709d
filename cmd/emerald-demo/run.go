package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MRamiBalles/emerald/internal/engine"
	"github.com/MRamiBalles/emerald/internal/events"
	"github.com/MRamiBalles/emerald/internal/infra/storage"
	"github.com/MRamiBalles/emerald/internal/network"
	"github.com/MRamiBalles/emerald/internal/platform/config"
	"github.com/MRamiBalles/emerald/internal/platform/ebitenhost"
	"github.com/MRamiBalles/emerald/internal/platform/logger"
	"github.com/MRamiBalles/emerald/internal/platform/metrics"
)

// profileEvery is how many updates pass between profile broadcasts.
const profileEvery = 60

func run(ctx context.Context, settings config.Settings, configPath string) error {
	appLogger, err := logger.New(logger.Options{Level: settings.Log.Level, File: settings.Log.File})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	collector := metrics.New()
	hub := network.NewHub(appLogger, collector, settings.Diagnostics.MaxMessagesPerSecond)

	var (
		db       *sql.DB
		journal  *events.Journal
		profiles storage.ProfileRepository
		journals storage.JournalRepository
	)
	if path := settings.Diagnostics.ProfileDB; path != "" {
		appLogger.Info("Opening session store", logger.WithField("path", path))
		db, err = storage.InitSQLite(path)
		if err != nil {
			return err
		}
		defer db.Close()
		profiles = storage.NewSQLiteProfileRepository(db)
		jr := storage.NewSQLiteJournalRepository(db)
		journals = jr
		if settings.Diagnostics.RecordInput {
			journal = events.NewJournal(jr)
		}
	}

	var reloads <-chan config.Settings
	if configPath != "" {
		watcher, err := config.Watch(configPath, settings, 250*time.Millisecond)
		if err != nil {
			return err
		}
		defer watcher.Close()
		reloads = watcher.Updates()
		go func() {
			for err := range watcher.Errors() {
				appLogger.Warn("Settings reload rejected", logger.WithField("error", err))
			}
		}()
	}

	host := ebitenhost.New(settings)
	opts := engine.Options{
		Renderer:        host.Renderer(),
		Audio:           ebitenhost.NewAudioBackend(),
		Logger:          appLogger,
		AssetObserver:   collector.ObserveAssetLoad,
		ProfileObserver: collector.ObserveProfile,
		Reloads:         reloads,
	}
	if journal != nil {
		opts.Recorder = journal
		appLogger.Info("Recording input", logger.WithField("session", journal.Session()))
	}

	eng, err := engine.New(newDemo(), settings, host, opts)
	if err != nil {
		return err
	}
	defer eng.Close()
	host.Attach(eng)

	eng.AddFrameObserver(func(stats engine.FrameStats) {
		collector.ObserveFrame(stats.Delta, stats.FPS)
		hub.PublishFrame(stats)
		if stats.Frame%profileEvery == 0 {
			hub.PublishProfile(eng.ProfileSnapshot())
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	if addr := settings.Diagnostics.HubAddr; addr != "" {
		srv := diagnosticsServer(addr, appLogger, hub, collector, profiles, journals)
		g.Go(func() error {
			appLogger.Info("Diagnostics listening", logger.WithField("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
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
	if addr := settings.Diagnostics.MetricsAddr; addr != "" && addr != settings.Diagnostics.HubAddr {
		srv := &http.Server{Addr: addr, Handler: collector.Handler(), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return srv.Shutdown(context.Background())
		})
	}
	go func() {
		<-gctx.Done()
		host.Quit()
	}()

	runErr := host.Run()
	if !eng.Quitting() {
		eng.Quit()
	}
	cancel()
	runErr = errors.Join(runErr, g.Wait())

	// The run context is gone by now; persistence gets its own deadline.
	saveCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if journal != nil {
		if err := journal.Flush(saveCtx); err != nil {
			appLogger.Error("Failed to persist input journal", logger.WithField("error", err))
		}
	}
	if profiles != nil {
		id, err := profiles.SaveSession(saveCtx, settings.Title, eng.FrameStats().Frame, eng.ProfileSnapshot())
		if err != nil {
			appLogger.Error("Failed to save profile session", logger.WithField("error", err))
		} else {
			appLogger.Info("Profile session saved", logger.WithField("id", id))
		}
	}
	return errors.Join(runErr, appLogger.Update())
}

// diagnosticsServer serves the live hub, the latest stats, saved sessions
// and, on the same port, the metrics endpoint.
func diagnosticsServer(addr string, log *logger.Logger, hub *network.Hub, collector *metrics.Collector, profiles storage.ProfileRepository, journals storage.JournalRepository) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/api/stats", hub.HandleLatest)
	mux.Handle("/metrics", collector.Handler())
	if profiles != nil {
		network.NewSessionsHandler(profiles, journals, log).RegisterRoutes(mux)
	}
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}
