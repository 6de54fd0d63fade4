// Package app wires the editing core together: the session store, the
// command dispatcher, the preview mapper and mixer, and the export pipeline.
// It owns the subscriptions that keep playback state in step with commits.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cutroom/cutroom/internal/config"
	"github.com/cutroom/cutroom/internal/dispatcher"
	"github.com/cutroom/cutroom/internal/event"
	"github.com/cutroom/cutroom/internal/export"
	"github.com/cutroom/cutroom/internal/player"
	"github.com/cutroom/cutroom/internal/project"
	"github.com/cutroom/cutroom/internal/session"
	"github.com/cutroom/cutroom/internal/timeline"
)

// ErrNotRunning is returned by operations on a shut-down application.
var ErrNotRunning = errors.New("app: not running")

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the TOML configuration file. A missing
	// file yields defaults.
	ConfigPath string

	// Logger overrides the default stderr logger.
	Logger *Logger

	// Decoder supplies PCM audio for preview mixing. Nil disables the
	// mixer (headless export-only runs).
	Decoder player.Decoder

	// Encoder overrides the export encoder. Nil selects ffmpeg with the
	// configured binary and temp dir.
	Encoder export.Encoder

	// Transport receives play, pause, and seek commands. Nil selects a
	// no-op transport.
	Transport dispatcher.Transport
}

// Application is the central coordinator for the editing core.
type Application struct {
	cfg    config.Config
	logger *Logger

	store      *session.Store
	bus        *event.Bus
	dispatcher *dispatcher.Dispatcher
	mapper     *player.Mapper
	mixer      *player.Mixer
	pipeline   *export.Pipeline

	projectName string
	running     atomic.Bool
}

// New creates and wires an application. The returned application is running;
// call Shutdown when done.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(DefaultLoggerConfig())
	}
	logger.SetLevel(ParseLogLevel(cfg.Log.Level))

	enc := opts.Encoder
	if enc == nil {
		ffmpeg := export.NewFFmpegEncoder(cfg.Export.TempDir)
		ffmpeg.Bin = cfg.Export.FFmpegBin
		enc = ffmpeg
	}

	a := &Application{
		cfg:      cfg,
		logger:   logger,
		store:    session.NewStore(cfg.History.MaxEntries),
		bus:      event.NewBus(),
		mapper:   player.NewMapper(),
		pipeline: export.NewPipeline(enc, export.WithWorkers(cfg.Export.Workers)),
	}
	a.dispatcher = dispatcher.New(a.store, &announcingTransport{inner: opts.Transport, bus: a.bus})
	if opts.Decoder != nil {
		a.mixer = player.NewMixer(opts.Decoder)
	}

	// Every store notification rebuilds the playback structures before the
	// commit is announced on the bus, so bus observers always see playback
	// state that matches the session they were handed.
	a.store.Subscribe(func(sess timeline.Session) {
		a.mapper.Rebuild(sess)
		if a.mixer != nil {
			a.mixer.Update(sess)
		}
		_ = a.bus.Publish(event.SessionCommitted{Session: sess})
	})

	a.running.Store(true)
	logger.Info("application started")
	return a, nil
}

// Config returns the loaded configuration.
func (a *Application) Config() config.Config { return a.cfg }

// Logger returns the application logger.
func (a *Application) Logger() *Logger { return a.logger }

// Store returns the session store.
func (a *Application) Store() *session.Store { return a.store }

// Bus returns the event bus.
func (a *Application) Bus() *event.Bus { return a.bus }

// Mapper returns the playback position mapper.
func (a *Application) Mapper() *player.Mapper { return a.mapper }

// Mixer returns the preview audio mixer, or nil when no decoder was
// configured.
func (a *Application) Mixer() *player.Mixer { return a.mixer }

// NewSession seeds a fresh composition from media sources laid end-to-end
// and loads it into the store.
func (a *Application) NewSession(sources []timeline.SourceRef, durations []int64) error {
	if !a.running.Load() {
		return ErrNotRunning
	}
	a.projectName = ""
	a.store.Load(timeline.NewSession(sources, durations))
	a.logger.Info("new session with %d sources", len(sources))
	return nil
}

// OpenProject loads a project file into the store.
func (a *Application) OpenProject(path string) error {
	if !a.running.Load() {
		return ErrNotRunning
	}
	sess, name, err := project.Load(path)
	if err != nil {
		return err
	}
	a.projectName = name
	a.store.Load(sess)
	a.logger.Info("opened project %q from %s", name, path)
	return nil
}

// SaveProject writes the current composition to a project file.
func (a *Application) SaveProject(path string) error {
	if !a.running.Load() {
		return ErrNotRunning
	}
	sess, active := a.store.Current()
	if !active {
		return fmt.Errorf("app: save: no active session")
	}
	return project.Save(path, a.projectName, sess)
}

// Dispatch routes one command through the dispatcher. Edit failures are
// logged and reported in the result, not returned.
func (a *Application) Dispatch(cmd dispatcher.Command) dispatcher.Result {
	if !a.running.Load() {
		return dispatcher.Result{Status: dispatcher.StatusError, Err: ErrNotRunning}
	}
	res := a.dispatcher.Dispatch(cmd)
	if res.Err != nil {
		a.logger.Warn("command %T failed: %v", cmd, res.Err)
	}
	return res
}

// Export renders the current composition with the named preset, blocking
// until the export completes, fails, or ctx is canceled. Progress is
// republished on the bus as export events.
func (a *Application) Export(ctx context.Context, presetName, outPath string) error {
	if !a.running.Load() {
		return ErrNotRunning
	}
	sess, active := a.store.Current()
	if !active {
		return fmt.Errorf("app: export: no active session")
	}
	preset, err := a.cfg.ResolvePreset(presetName)
	if err != nil {
		return err
	}

	a.logger.Info("export started: preset=%s out=%s", preset.Name, outPath)
	progress, done := a.pipeline.Export(ctx, sess, preset, outPath)
	for pct := range progress {
		_ = a.bus.Publish(event.ExportProgress{Percent: int(pct)})
	}
	err = <-done
	_ = a.bus.Publish(event.ExportFinished{Err: err})
	if err != nil {
		a.logger.Error("export failed: %v", err)
		return err
	}
	a.logger.Info("export finished: %s", outPath)
	return nil
}

// CloseSession discards the composition and announces the cleared state on
// the bus.
func (a *Application) CloseSession() error {
	if !a.running.Load() {
		return ErrNotRunning
	}
	a.projectName = ""
	a.store.Clear()
	_ = a.bus.Publish(event.SessionCleared{})
	a.logger.Info("session closed")
	return nil
}

// Shutdown stops the application. Further operations return ErrNotRunning.
func (a *Application) Shutdown() {
	if !a.running.Swap(false) {
		return
	}
	a.store.Clear()
	_ = a.bus.Publish(event.SessionCleared{})
	a.logger.Info("application stopped")
}

// announcingTransport forwards transport commands and publishes the
// resulting playback state on the bus.
type announcingTransport struct {
	inner dispatcher.Transport
	bus   *event.Bus

	mu       sync.Mutex
	playing  bool
	position int64
}

func (t *announcingTransport) Play() {
	if t.inner != nil {
		t.inner.Play()
	}
	t.announce(func() { t.playing = true })
}

func (t *announcingTransport) Pause() {
	if t.inner != nil {
		t.inner.Pause()
	}
	t.announce(func() { t.playing = false })
}

func (t *announcingTransport) Seek(positionMs int64) {
	if t.inner != nil {
		t.inner.Seek(positionMs)
	}
	t.announce(func() { t.position = positionMs })
}

func (t *announcingTransport) announce(apply func()) {
	t.mu.Lock()
	apply()
	ev := event.PlaybackChanged{Playing: t.playing, Position: t.position}
	t.mu.Unlock()
	_ = t.bus.Publish(ev)
}
