package statusbus

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"voxtype/internal/logging"
	"voxtype/internal/metrics"
	"voxtype/internal/status"
)

const (
	// DefaultSpawnRetryDelay is the wait after the follower fails to start.
	DefaultSpawnRetryDelay = 5 * time.Second
	// DefaultReconnectDelay is the wait after the follower exits.
	DefaultReconnectDelay = 2 * time.Second
)

// Options configures the upstream follower process.
type Options struct {
	// Executable defaults to the running binary.
	Executable string
	// Args replaces the default follower arguments when non-empty.
	Args []string
	// ConfigPath is forwarded as --config when Args is empty.
	ConfigPath      string
	SpawnRetryDelay time.Duration
	ReconnectDelay  time.Duration
	Logger          *slog.Logger
	Metrics         metrics.Recorder
}

// FollowerArgs returns the arguments that start a JSON status follower.
func FollowerArgs(configPath string) []string {
	var args []string
	if strings.TrimSpace(configPath) != "" {
		args = append(args, "--config", configPath)
	}
	return append(args, "status", "--follow", "--format", "json")
}

// Bus owns one follower subprocess and fans its output to named queues.
type Bus struct {
	opts   Options
	logger *slog.Logger
	queues []*Queue
	byName map[string]*Queue
	done   chan struct{}
	once   sync.Once
}

// Start launches the bus in the background with one queue per name. The bus
// runs until ctx is cancelled or every queue has been closed.
func Start(ctx context.Context, opts Options, names ...string) *Bus {
	if opts.SpawnRetryDelay <= 0 {
		opts.SpawnRetryDelay = DefaultSpawnRetryDelay
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoopRecorder{}
	}
	if opts.Executable == "" {
		if exe, err := os.Executable(); err == nil {
			opts.Executable = exe
		} else {
			opts.Executable = os.Args[0]
		}
	}
	if len(opts.Args) == 0 {
		opts.Args = FollowerArgs(opts.ConfigPath)
	}

	b := &Bus{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "status-bus"),
		byName: make(map[string]*Queue, len(names)),
		done:   make(chan struct{}),
	}
	for _, name := range names {
		q := NewQueue(name)
		b.queues = append(b.queues, q)
		b.byName[name] = q
	}
	go b.run(ctx)
	return b
}

// Queue returns the queue registered under name, or nil.
func (b *Bus) Queue(name string) *Queue { return b.byName[name] }

// Queues returns every registered queue in registration order.
func (b *Bus) Queues() []*Queue {
	out := make([]*Queue, len(b.queues))
	copy(out, b.queues)
	return out
}

// Done is closed once the bus has stopped and every queue is finished.
func (b *Bus) Done() <-chan struct{} { return b.done }

func (b *Bus) run(ctx context.Context) {
	defer b.stop()

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return
		}
		keepGoing, started := b.session(ctx, attempt)
		if !keepGoing {
			return
		}
		delay := b.opts.ReconnectDelay
		if !started {
			delay = b.opts.SpawnRetryDelay
		}
		if !sleep(ctx, delay) {
			return
		}
	}
}

// session runs one follower process to completion. It reports whether the
// bus should continue and whether the process started at all.
func (b *Bus) session(ctx context.Context, attempt int) (bool, bool) {
	cmd := exec.CommandContext(ctx, b.opts.Executable, b.opts.Args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		b.spawnFailed(attempt, fmt.Errorf("stdout pipe: %w", err))
		return true, false
	}
	if err := cmd.Start(); err != nil {
		b.spawnFailed(attempt, fmt.Errorf("start follower: %w", err))
		return true, false
	}

	sessionID := uuid.NewString()
	logger := b.logger.With(logging.String(logging.FieldSessionID, sessionID))
	logger.Debug("status follower started",
		logging.Int(logging.FieldPID, cmd.Process.Pid),
		logging.Int(logging.FieldAttempt, attempt),
	)

	sinks := b.sinks()
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if !FanOut(sinks, scanner.Text()) {
			logger.Info("all status consumers disconnected")
			reap(cmd)
			return false, true
		}
		b.opts.Metrics.IncLinesFannedOut()
		b.opts.Metrics.SetActiveConsumers(b.activeCount())
	}
	if err := scanner.Err(); err != nil {
		logger.Debug("read follower output", logging.Error(err))
	}
	reap(cmd)

	if ctx.Err() != nil {
		return false, true
	}

	logger.Info("status follower exited; reconnecting",
		logging.Duration("delay", b.opts.ReconnectDelay),
	)
	if !FanOut(sinks, status.StoppedLine) {
		return false, true
	}
	b.opts.Metrics.IncSyntheticStops()
	b.opts.Metrics.IncReconnects()
	return true, true
}

func (b *Bus) spawnFailed(attempt int, err error) {
	b.opts.Metrics.IncSpawnFailures()
	logging.WarnWithContext(b.logger, "status follower failed to start", "status_bus_spawn_failed",
		logging.Error(err),
		logging.Int(logging.FieldAttempt, attempt),
		logging.String(logging.FieldErrorHint, "check that the voxtype binary is executable"),
		logging.String(logging.FieldImpact, "status consumers show stale state until the follower starts"),
	)
}

func (b *Bus) sinks() []Sink {
	sinks := make([]Sink, 0, len(b.queues))
	for _, q := range b.queues {
		sinks = append(sinks, q)
	}
	return sinks
}

func (b *Bus) activeCount() int {
	n := 0
	for _, q := range b.queues {
		if !q.Closed() {
			n++
		}
	}
	return n
}

func (b *Bus) stop() {
	b.once.Do(func() {
		for _, q := range b.queues {
			q.finish()
		}
		b.opts.Metrics.SetActiveConsumers(0)
		close(b.done)
	})
}

func reap(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	_ = cmd.Wait()
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
