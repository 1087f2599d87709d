package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MRamiBalles/emerald/internal/engine"
	"github.com/MRamiBalles/emerald/internal/events"
	"github.com/MRamiBalles/emerald/internal/infra/storage"
	"github.com/MRamiBalles/emerald/internal/platform/config"
	"github.com/MRamiBalles/emerald/internal/platform/logger"
	"github.com/MRamiBalles/emerald/internal/profiling"
	"github.com/MRamiBalles/emerald/internal/render"
)

var errNoStore = errors.New("diagnostics.profile_db is not set")

// replayPlatform is a windowless platform whose clock only moves when
// frames are replayed.
type replayPlatform struct {
	w, h float64
	now  time.Time
}

func (p *replayPlatform) ScreenSize() (float64, float64) { return p.w, p.h }
func (p *replayPlatform) DPIScale() float64              { return 1 }
func (p *replayPlatform) Now() time.Time                 { return p.now }
func (p *replayPlatform) CommitFrame() error             { return nil }
func (p *replayPlatform) Quit()                          {}

// replayDriver draws after every replayed update so render failures surface
// the same way they would in a window.
type replayDriver struct {
	*engine.Engine
	platform *replayPlatform
}

func (d replayDriver) Advance(delta float64) error {
	d.platform.now = d.platform.now.Add(time.Duration(delta * float64(time.Second)))
	if err := d.Engine.Advance(delta); err != nil {
		return err
	}
	return d.OnFrameDraw()
}

func replaySession(ctx context.Context, settings config.Settings, session string) error {
	if settings.Diagnostics.ProfileDB == "" {
		return errNoStore
	}
	db, err := storage.InitSQLite(settings.Diagnostics.ProfileDB)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := storage.NewSQLiteJournalRepository(db).GetBySession(ctx, session)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("session %s has no recorded entries", session)
	}

	appLogger, err := logger.New(logger.Options{Level: settings.Log.Level, File: settings.Log.File})
	if err != nil {
		return err
	}
	platform := &replayPlatform{
		w:   float64(settings.Render.Width),
		h:   float64(settings.Render.Height),
		now: time.Unix(0, 0),
	}
	headless := render.NewHeadless()
	eng, err := engine.New(newDemo(), settings, platform, engine.Options{
		Renderer: headless,
		Logger:   appLogger,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	frames, err := events.Replay(entries, replayDriver{Engine: eng, platform: platform})
	if err != nil {
		return fmt.Errorf("replay stopped after %d frames: %w", frames, err)
	}

	stats := eng.FrameStats()
	out := os.Stdout
	fmt.Fprintf(out, "session %s: %d entries, %d frames replayed, %d drawn\n", session, len(entries), frames, headless.Frames)
	fmt.Fprintf(out, "final frame %d delta=%.4fs fps=%.1f\n", stats.Frame, stats.Delta, stats.FPS)
	printScopes(out, eng.ProfileSnapshot())
	return appLogger.Update()
}

func listSessions(ctx context.Context, settings config.Settings, out io.Writer) error {
	if settings.Diagnostics.ProfileDB == "" {
		return errNoStore
	}
	db, err := storage.InitSQLite(settings.Diagnostics.ProfileDB)
	if err != nil {
		return err
	}
	defer db.Close()

	journals, err := storage.NewSQLiteJournalRepository(db).Sessions(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "journals:")
	for _, id := range journals {
		fmt.Fprintln(out, "  "+id)
	}

	profiles, err := storage.NewSQLiteProfileRepository(db).ListSessions(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "profiles:")
	for _, p := range profiles {
		fmt.Fprintf(out, "  %s  %s  %d frames  %s\n", p.ID, p.CreatedAt.Format(time.RFC3339), p.Frames, p.Title)
	}
	return nil
}

func printScopes(out io.Writer, scopes []profiling.Stats) {
	for _, s := range scopes {
		fmt.Fprintf(out, "  %-20s n=%-6d mean=%-12s min=%-12s max=%s\n", s.Name, s.Count, s.Mean, s.Min, s.Max)
	}
}
