package control

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"voxtype/internal/config"
	"voxtype/internal/logging"
	"voxtype/internal/mailbox"
	"voxtype/internal/pidlock"
	"voxtype/internal/statefile"
	"voxtype/internal/status"
)

const (
	// SignalStart asks the daemon to begin recording.
	SignalStart = syscall.SIGUSR1
	// SignalStop asks the daemon to stop recording and transcribe.
	SignalStop = syscall.SIGUSR2
)

var (
	// ErrNotRunning means no PID lock exists.
	ErrNotRunning = errors.New("voxtype daemon is not running")
	// ErrStaleLock means the PID lock named a dead process and was removed.
	ErrStaleLock = errors.New("voxtype daemon is not running (stale PID file removed)")
	// ErrUnknownProfile is matched by UnknownProfileError.
	ErrUnknownProfile = errors.New("profile not found")
)

// UnknownProfileError reports a profile override that is not configured.
type UnknownProfileError struct {
	Name      string
	Available []string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("profile %q not found", e.Name)
}

func (e *UnknownProfileError) Is(target error) bool { return target == ErrUnknownProfile }

// Action is a record subcommand.
type Action string

const (
	ActionStart  Action = "start"
	ActionStop   Action = "stop"
	ActionToggle Action = "toggle"
	ActionCancel Action = "cancel"
)

// ParseAction validates a record subcommand name.
func ParseAction(value string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(value))) {
	case ActionStart:
		return ActionStart, nil
	case ActionStop:
		return ActionStop, nil
	case ActionToggle:
		return ActionToggle, nil
	case ActionCancel:
		return ActionCancel, nil
	default:
		return "", fmt.Errorf("unknown record action %q (use start, stop, toggle, or cancel)", value)
	}
}

// Overrides are one-shot settings applied to the next recording.
type Overrides struct {
	OutputMode string
	Model      string
	Profile    string
}

// Empty reports whether no override is set.
func (o Overrides) Empty() bool {
	return o.OutputMode == "" && o.Model == "" && o.Profile == ""
}

// Signaler delivers a signal to a process.
type Signaler interface {
	Signal(pid int, sig syscall.Signal) error
}

// SignalerFunc adapts a function to Signaler.
type SignalerFunc func(pid int, sig syscall.Signal) error

func (f SignalerFunc) Signal(pid int, sig syscall.Signal) error { return f(pid, sig) }

// Result describes what a dispatch did.
type Result struct {
	PID    int
	Signal syscall.Signal
	// Wrote lists the mailbox kinds written, in order.
	Wrote []mailbox.Kind
}

// Dispatcher sends record commands to the daemon.
type Dispatcher struct {
	cfg      *config.Config
	signaler Signaler
	logger   *slog.Logger
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithSignaler replaces unix.Kill as the signal transport.
func WithSignaler(s Signaler) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.signaler = s
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logging.NewComponentLogger(logger, "control")
	}
}

// New builds a dispatcher for cfg.
func New(cfg *config.Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cfg:      cfg,
		signaler: SignalerFunc(func(pid int, sig syscall.Signal) error { return unix.Kill(pid, sig) }),
		logger:   logging.NewComponentLogger(nil, "control"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs action against the daemon. Nothing is written and no signal
// is sent unless the daemon is alive and every override is valid.
func (d *Dispatcher) Dispatch(action Action, overrides Overrides) (Result, error) {
	lock, err := d.liveLock()
	if err != nil {
		return Result{}, err
	}
	result := Result{PID: lock.PID}
	runtimeDir := d.cfg.RuntimeDir

	if action == ActionCancel {
		if err := mailbox.Write(runtimeDir, mailbox.Cancel, mailbox.CancelContent); err != nil {
			return result, err
		}
		result.Wrote = append(result.Wrote, mailbox.Cancel)
		d.logger.Debug("cancel requested", logging.Int(logging.FieldPID, lock.PID))
		return result, nil
	}

	sig, err := d.signalFor(action)
	if err != nil {
		return result, err
	}
	outputMode, err := d.validate(overrides)
	if err != nil {
		return result, err
	}

	writes := []struct {
		kind  mailbox.Kind
		value string
	}{
		{mailbox.OutputMode, outputMode},
		{mailbox.Model, overrides.Model},
		{mailbox.Profile, overrides.Profile},
	}
	for _, w := range writes {
		if w.value == "" {
			continue
		}
		if err := mailbox.Write(runtimeDir, w.kind, w.value); err != nil {
			return result, err
		}
		result.Wrote = append(result.Wrote, w.kind)
	}

	if err := d.signaler.Signal(lock.PID, sig); err != nil {
		return result, fmt.Errorf("send %s to pid %d: %w", unix.SignalName(sig), lock.PID, err)
	}
	result.Signal = sig
	d.logger.Debug("signal sent",
		logging.Int(logging.FieldPID, lock.PID),
		logging.String("signal", unix.SignalName(sig)),
		logging.String("action", string(action)),
	)
	return result, nil
}

func (d *Dispatcher) liveLock() (pidlock.Lock, error) {
	lock, state, err := pidlock.Check(pidlock.Path(d.cfg.RuntimeDir))
	if err != nil {
		return pidlock.Lock{}, fmt.Errorf("check daemon pid file: %w", err)
	}
	switch state {
	case pidlock.Absent:
		return pidlock.Lock{}, ErrNotRunning
	case pidlock.Stale:
		d.logger.Debug("removed stale pid file",
			logging.Int(logging.FieldPID, lock.PID),
			logging.String(logging.FieldPath, lock.Path),
		)
		return pidlock.Lock{}, ErrStaleLock
	default:
		return lock, nil
	}
}

func (d *Dispatcher) signalFor(action Action) (syscall.Signal, error) {
	switch action {
	case ActionStart:
		return SignalStart, nil
	case ActionStop:
		return SignalStop, nil
	case ActionToggle:
		statePath, ok := d.cfg.ResolveStateFile()
		if !ok {
			return 0, config.ErrStateFileUnset
		}
		return ToggleSignal(statePath), nil
	default:
		return 0, fmt.Errorf("unknown record action %q", action)
	}
}

// ToggleSignal picks stop when the persisted state is exactly recording and
// start for anything else, including an empty or missing file.
func ToggleSignal(statePath string) syscall.Signal {
	if state, ok := statefile.ReadState(statePath); ok && state == status.Recording {
		return SignalStop
	}
	return SignalStart
}

func (d *Dispatcher) validate(overrides Overrides) (string, error) {
	outputMode := ""
	if overrides.OutputMode != "" {
		mode, err := mailbox.ParseOutputMode(overrides.OutputMode)
		if err != nil {
			return "", err
		}
		outputMode = mode
	}
	if overrides.Profile != "" {
		if _, ok := d.cfg.Profile(overrides.Profile); !ok {
			return "", &UnknownProfileError{Name: overrides.Profile, Available: d.cfg.ProfileNames()}
		}
	}
	return outputMode, nil
}
