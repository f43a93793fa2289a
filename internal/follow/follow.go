package follow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"voxtype/internal/logging"
	"voxtype/internal/pidlock"
	"voxtype/internal/statefile"
	"voxtype/internal/status"
)

const (
	// RecordingInterval bounds the wait between wakes while recording so level
	// updates reach consumers at roughly 20 per second.
	RecordingInterval = 50 * time.Millisecond
	// IdleInterval bounds the wait between wakes in every other state.
	IdleInterval = 500 * time.Millisecond
)

// Format selects how records are written.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat validates an output format name.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatJSON, FormatText:
		return Format(value), nil
	default:
		return "", fmt.Errorf("unsupported format %q (use text or json)", value)
	}
}

// Options configures a Reader.
type Options struct {
	StatePath string
	PIDPath   string
	Format    Format
	Formatter status.Formatter
	Extended  *status.ExtendedInfo
	// Alive overrides the liveness probe. Defaults to a signal-0 probe of the
	// process named in PIDPath.
	Alive             func() bool
	RecordingInterval time.Duration
	IdleInterval      time.Duration
	Logger            *slog.Logger
}

// Reader produces status records from the daemon's state and level files.
type Reader struct {
	opts   Options
	alive  func() bool
	logger *slog.Logger
}

// New builds a Reader with defaults applied.
func New(opts Options) *Reader {
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	if opts.RecordingInterval <= 0 {
		opts.RecordingInterval = RecordingInterval
	}
	if opts.IdleInterval <= 0 {
		opts.IdleInterval = IdleInterval
	}
	alive := opts.Alive
	if alive == nil {
		pidPath := opts.PIDPath
		alive = func() bool { return pidlock.Running(pidPath) }
	}
	return &Reader{
		opts:   opts,
		alive:  alive,
		logger: logging.NewComponentLogger(opts.Logger, "follow"),
	}
}

// Snapshot observes the daemon once. A dead daemon or a missing state file
// both read as stopped.
func (r *Reader) Snapshot() status.Snapshot {
	snap := status.Snapshot{State: status.Stopped, Extended: r.opts.Extended}
	if !r.alive() {
		return snap
	}
	state, ok := statefile.ReadState(r.opts.StatePath)
	if !ok {
		return snap
	}
	snap.State = state
	if state == status.Recording {
		snap.Level = statefile.ReadLevel(r.opts.StatePath)
	}
	return snap
}

// Render formats snap according to the configured output format.
func (r *Reader) Render(snap status.Snapshot) string {
	if r.opts.Format == FormatText {
		return r.opts.Formatter.Text(snap)
	}
	return r.opts.Formatter.JSON(snap)
}

// Once writes a single record for the current state.
func (r *Reader) Once(w io.Writer) error {
	return r.emit(w, r.Snapshot())
}

// Follow writes the current state, then one record per observed change until
// ctx is cancelled or the watcher's event channel closes. Liveness is
// re-checked on every wake; losing the daemon emits exactly one stopped
// record until it comes back.
func (r *Reader) Follow(ctx context.Context, w io.Writer) error {
	last := r.Snapshot()
	if err := r.emit(w, last); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(r.opts.StatePath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	levelPath := statefile.LevelPath(r.opts.StatePath)
	r.watchIfExists(watcher, r.opts.StatePath)
	r.watchIfExists(watcher, levelPath)

	timer := time.NewTimer(r.interval(last.State))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && (event.Name == r.opts.StatePath || event.Name == levelPath) {
				r.watchIfExists(watcher, event.Name)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Debug("watch error", logging.Error(werr))
			continue
		case <-timer.C:
		}

		next, changed := r.wake(last)
		if changed {
			if err := r.emit(w, next); err != nil {
				return err
			}
			last = next
		}
		timer.Reset(r.interval(last.State))
	}
}

// wake re-reads state and liveness and reports whether next differs from
// last in a way the current format can show.
func (r *Reader) wake(last status.Snapshot) (status.Snapshot, bool) {
	next := r.Snapshot()
	if next.State == status.Stopped {
		return next, last.State != status.Stopped
	}
	if next.State != last.State {
		return next, true
	}
	if r.opts.Format == FormatText {
		return next, false
	}
	return next, !statefile.SameLevel(next.Level, last.Level)
}

func (r *Reader) interval(state status.State) time.Duration {
	if state == status.Recording {
		return r.opts.RecordingInterval
	}
	return r.opts.IdleInterval
}

func (r *Reader) watchIfExists(watcher *fsnotify.Watcher, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := watcher.Add(path); err != nil {
		r.logger.Debug("watch file failed", logging.String(logging.FieldPath, path), logging.Error(err))
	}
}

func (r *Reader) emit(w io.Writer, snap status.Snapshot) error {
	if _, err := io.WriteString(w, r.Render(snap)+"\n"); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return nil
}
