package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gofrs/flock"
	prom "github.com/prometheus/client_golang/prometheus"

	"voxtype/internal/config"
	"voxtype/internal/consumer/overlay"
	"voxtype/internal/consumer/tray"
	"voxtype/internal/logging"
	"voxtype/internal/metrics"
	"voxtype/internal/notifications"
	"voxtype/internal/statusbus"
)

const (
	// LockFileName guards against a second ui client per user.
	LockFileName = "ui.lock"
	// LogFileName receives ui logs while the overlay owns the terminal.
	LogFileName = "ui.log"

	consumerOverlay = "overlay"
	consumerTray    = "tray"

	trayRefreshInterval = 30 * time.Second
)

var (
	// ErrAlreadyRunning is returned when another ui client holds the lock.
	ErrAlreadyRunning = errors.New("voxtype ui is already running")
	// ErrNoConsumers is returned when both the overlay and tray are disabled.
	ErrNoConsumers = errors.New("nothing to run: overlay and tray are both disabled")
)

// Options configures Launch.
type Options struct {
	Config     *config.Config
	ConfigPath string
	Overlay    bool
	Tray       bool
	// Executable is the voxtype binary used for the status follower and for
	// record commands. Defaults to the running binary.
	Executable     string
	Logger         *slog.Logger
	Host           tray.Host
	Notifier       notifications.Service
	Registry       *prom.Registry
	ProgramOptions []tea.ProgramOption
}

// Launch runs the ui client until ctx is cancelled, the overlay quits, or
// the tray requests quit. The overlay runs on the calling goroutine; the
// tray runs on its own goroutine fed by the shared status bus.
func Launch(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		return errors.New("ui: config is required")
	}
	if !opts.Overlay && !opts.Tray {
		return ErrNoConsumers
	}
	if err := cfg.EnsureRuntimeDir(); err != nil {
		return err
	}

	lockPath := filepath.Join(cfg.RuntimeDir, LockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire ui lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}
	defer func() { _ = lock.Unlock() }()

	logger, closeLog := launchLogger(cfg, opts)
	defer closeLog()
	logger = logging.NewComponentLogger(logger, "ui")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.UI.MetricsAddr != "" {
		reg := opts.Registry
		if reg == nil {
			reg = prom.NewRegistry()
		}
		recorder = metrics.NewPrometheusRecorder(reg)
		server := newMetricsServer(cfg.UI.MetricsAddr, reg, logger)
		if err := server.start(); err != nil {
			return err
		}
		defer server.stop()
	}

	var names []string
	if opts.Overlay {
		names = append(names, consumerOverlay)
	}
	if opts.Tray {
		names = append(names, consumerTray)
	}
	bus := statusbus.Start(ctx, statusbus.Options{
		Executable: opts.Executable,
		ConfigPath: opts.ConfigPath,
		Logger:     logger,
		Metrics:    recorder,
	}, names...)
	logger.Info("ui started",
		logging.Bool("overlay", opts.Overlay),
		logging.Bool("tray", opts.Tray),
		logging.String(logging.FieldPath, lockPath),
	)

	var trayQuit <-chan struct{}
	if opts.Tray {
		trayQuit = startTray(ctx, opts, cfg, bus.Queue(consumerTray), logger)
	}

	if opts.Overlay {
		err := runOverlay(ctx, opts, bus.Queue(consumerOverlay), trayQuit)
		cancel()
		<-bus.Done()
		return err
	}

	select {
	case <-ctx.Done():
	case <-trayQuit:
		logger.Info("quit requested from tray")
	case <-bus.Done():
	}
	cancel()
	<-bus.Done()
	return nil
}

func startTray(ctx context.Context, opts Options, cfg *config.Config, queue *statusbus.Queue, logger *slog.Logger) <-chan struct{} {
	host := opts.Host
	if host == nil {
		host = tray.LogHost{Logger: logger}
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	t := tray.New(tray.Options{
		Host:     host,
		Notifier: notifier,
		Toggle:   SelfCommand(opts.Executable, opts.ConfigPath, "record", "toggle"),
		Logger:   logger,
	})
	quit := t.Quit()

	// Re-announce the view so a restarted status notifier host catches up.
	Every(ctx, trayRefreshInterval, t, func(t *tray.Tray) bool {
		if t.Quitting() {
			return false
		}
		t.Refresh()
		return true
	})

	go func() {
		if err := t.Run(ctx, queue); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("tray stopped", logging.Error(err))
		}
		queue.Close()
	}()
	return quit
}

func runOverlay(ctx context.Context, opts Options, queue *statusbus.Queue, trayQuit <-chan struct{}) error {
	defer queue.Close()

	model := overlay.New(overlay.Options{
		Source: queue,
		Cancel: SelfCommand(opts.Executable, opts.ConfigPath, "record", "cancel"),
	})
	programOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, opts.ProgramOptions...)
	program := tea.NewProgram(model, programOpts...)

	if trayQuit != nil {
		go func() {
			select {
			case <-trayQuit:
				program.Send(overlay.QuitMsg{})
			case <-ctx.Done():
			}
		}()
	}

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("overlay: %w", err)
	}
	return nil
}

// launchLogger routes logs to <runtime_dir>/ui.log. While the overlay owns
// the terminal the file is the only destination.
func launchLogger(cfg *config.Config, opts Options) (*slog.Logger, func()) {
	base := opts.Logger
	if base == nil {
		base = logging.NewNop()
	}
	handler, closeFile, err := logging.NewFileHandler(filepath.Join(cfg.RuntimeDir, LogFileName), cfg.Logging.Level)
	if err != nil {
		if opts.Overlay {
			return logging.NewNop(), func() {}
		}
		return base, func() {}
	}
	closeFn := func() { _ = closeFile() }
	if opts.Overlay {
		return slog.New(handler), closeFn
	}
	return logging.TeeLogger(base, handler), closeFn
}
